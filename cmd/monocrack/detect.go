package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/rpc"
)

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	language := fs.String("lang", "", "language (defaults to the configured one)")
	in := fs.String("in", "", "read the ciphertext from this file")
	server := fs.String("server", "", "detect on a monocrackd gRPC endpoint instead of locally")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	text, err := readInput(fs.Args(), *in)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx := context.Background()
	var results []cipher.DetectionResult
	if *server != "" {
		client, err := rpc.Dial(*server)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer client.Close()
		if *language == "" {
			*language = cfg.Language
		}
		results, err = client.Detect(ctx, text, *language)
		if err != nil {
			fmt.Fprintf(stderr, "detect: %v\n", err)
			return 1
		}
	} else {
		model, err := lookupLanguage(*language, cfg.Language)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		results, err = crack.NewDetector(model).Detect(ctx, []byte(text))
		if err != nil {
			fmt.Fprintf(stderr, "detect: %v\n", err)
			return 1
		}
	}

	if len(results) == 0 {
		fmt.Fprintln(stdout, "text too short to classify")
		return 0
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CIPHER\tCONFIDENCE\tOPERATION\tREASONING")
	for _, r := range results {
		op := r.Operation
		if op == "" {
			op = "-"
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", r.Cipher, r.Confidence, op, r.Reasoning)
	}
	_ = tw.Flush()
	return 0
}
