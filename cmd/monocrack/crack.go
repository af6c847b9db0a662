package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/lang"
	"github.com/RowanDark/monocrack/internal/logging"
	"github.com/RowanDark/monocrack/internal/rpc"
	"github.com/RowanDark/monocrack/internal/runner"
	"github.com/RowanDark/monocrack/internal/score"
)

func runCrack(args []string) int {
	fs := flag.NewFlagSet("crack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	family := fs.String("cipher", crack.CipherAuto, "cipher family: auto, shift, affine, atbash or substitution")
	language := fs.String("lang", "", "language (defaults to the configured one)")
	metric := fs.String("metric", "", "scoring metric for shift and affine: ngram, squared-differences or chi-squared")
	restarts := fs.Int("restarts", 0, "hill-climbing restarts")
	iterations := fs.Int("iterations", 0, "hill-climbing iterations per restart")
	frontier := fs.Int("frontier", 0, "candidates kept per restart")
	workers := fs.Int("workers", 0, "restarts run in parallel")
	seed := fs.Uint64("seed", 0, "random seed")
	ngram := fs.Int("ngram", 0, "n-gram order")
	in := fs.String("in", "", "read the ciphertext from this file")
	journal := fs.String("journal", "", "append crack events to this file")
	timeout := fs.Duration("timeout", 0, "give up after this long")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	verbose := fs.Bool("v", false, "log progress to stderr")
	server := fs.String("server", "", "crack on a monocrackd gRPC endpoint instead of locally")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ciphertext, err := readInput(fs.Args(), *in)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if ciphertext == "" {
		fmt.Fprintln(stderr, "ciphertext is required")
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig()
	if err != nil {
		log.Error("configuration", "error", err)
		return 1
	}

	// Flags override the configured search settings.
	req := crack.Request{
		Cipher:     *family,
		Ciphertext: ciphertext,
		Language:   *language,
		Metric:     *metric,
		Restarts:   *restarts,
		Iterations: *iterations,
		Frontier:   *frontier,
		Workers:    *workers,
		NgramOrder: *ngram,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			req.Seed = crack.Seed(*seed)
		}
	})
	req = runner.WithDefaults(req, cfg.Request("", ""))

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	log.Debug("cracking", "cipher", req.Cipher, "language", req.Language, "restarts", req.Restarts, "iterations", req.Iterations, "seed", req.SeedValue())
	start := time.Now()
	var (
		res   crack.Result
		runID string
	)
	if *server != "" {
		res, runID, err = crackRemote(ctx, *server, req)
	} else {
		res, runID, err = crackLocal(ctx, req, *journal, *verbose)
	}
	if err != nil {
		log.Error("crack failed", "run_id", runID, "error", err)
		return 1
	}
	log.Debug("cracked", "run_id", runID, "elapsed", time.Since(start))

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "encode result: %v\n", err)
			return 1
		}
		return 0
	}
	printResult(stdout, ciphertext, res)
	return 0
}

func crackLocal(ctx context.Context, req crack.Request, journalPath string, verbose bool) (crack.Result, string, error) {
	opts := []logging.Option{logging.WithoutStdout()}
	if journalPath != "" {
		opts = append(opts, logging.WithFile(journalPath))
	}
	if verbose {
		opts = append(opts, logging.WithWriter(stderr))
	}
	logger := logging.Discard("cli")
	if journalPath != "" || verbose {
		var err error
		logger, err = logging.NewEventLogger("cli", opts...)
		if err != nil {
			return crack.Result{}, "", fmt.Errorf("open journal: %w", err)
		}
		defer logger.Close()
	}
	r := &runner.Runner{Logger: logger}
	return r.Run(ctx, req)
}

func crackRemote(ctx context.Context, addr string, req crack.Request) (crack.Result, string, error) {
	client, err := rpc.Dial(addr)
	if err != nil {
		return crack.Result{}, "", err
	}
	defer client.Close()
	return client.Crack(ctx, req)
}

func printResult(out io.Writer, ciphertext string, res crack.Result) {
	fmt.Fprintf(out, "cipher:   %s\n", res.Cipher)
	if res.Affine != nil {
		fmt.Fprintf(out, "key:      %s %s\n", res.Key, res.Affine)
	} else {
		fmt.Fprintf(out, "key:      %s\n", res.Key)
	}
	fmt.Fprintf(out, "metric:   %s\n", res.Metric)
	fmt.Fprintf(out, "score:    %.4f\n", res.Score)
	plaintext := res.Plaintext
	if m, ok := lang.Lookup(res.Language); ok {
		plaintext = score.FormatSolution(ciphertext, m.Alphabet().Filter(res.Plaintext), m.Alphabet())
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, plaintext)
}
