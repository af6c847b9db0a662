package main

import (
	"fmt"
	"io"

	"github.com/RowanDark/monocrack/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "config subcommand required")
		return 2
	}

	switch args[0] {
	case "print":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 1
		}
		printResolvedConfig(stdout, cfg)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func printResolvedConfig(out io.Writer, cfg config.Config) {
	fmt.Fprintf(out, "language: %s\n", cfg.Language)
	fmt.Fprintf(out, "corpus_dir: %s\n", cfg.CorpusDir)
	fmt.Fprintf(out, "metric: %s\n", cfg.Metric)
	fmt.Fprintf(out, "restarts: %d\n", cfg.Restarts)
	fmt.Fprintf(out, "iterations: %d\n", cfg.Iterations)
	fmt.Fprintf(out, "frontier: %d\n", cfg.Frontier)
	fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
	fmt.Fprintf(out, "seed: %d\n", cfg.Seed)
	fmt.Fprintln(out, "api:")
	fmt.Fprintf(out, "  addr: %s\n", cfg.API.Addr)
	fmt.Fprintln(out, "grpc:")
	fmt.Fprintf(out, "  addr: %s\n", cfg.GRPC.Addr)
	fmt.Fprintf(out, "  max_conns: %d\n", cfg.GRPC.MaxConns)
	fmt.Fprintf(out, "metrics_addr: %s\n", cfg.MetricsAddr)
	fmt.Fprintf(out, "journal_path: %s\n", cfg.JournalPath)
}
