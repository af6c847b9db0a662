package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const productName = "monocrack"
const cliBanner = productName + " CLI"

// Output streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), cliBanner)
		fmt.Fprintln(flag.CommandLine.Output())
		fmt.Fprintln(flag.CommandLine.Output(), "Commands: encrypt, decrypt, crack, detect, languages, config, version")
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()
	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	if len(args) == 0 {
		// No subcommand provided: show usage and exit non-zero.
		flag.Usage()
		return 2
	}

	switch args[0] {
	case "encrypt":
		return runTransform(args[1:], false)
	case "decrypt":
		return runTransform(args[1:], true)
	case "crack":
		return runCrack(args[1:])
	case "detect":
		return runDetect(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		return 2
	}
}
