package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/RowanDark/monocrack/internal/cipher"
	"github.com/RowanDark/monocrack/internal/rpc"
)

func runTransform(args []string, decrypt bool) int {
	name := "encrypt"
	if decrypt {
		name = "decrypt"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	family := fs.String("cipher", "shift", "cipher family: shift, affine, atbash or substitution")
	shift := fs.Int("shift", 3, "shift key")
	a := fs.Int("a", 1, "affine multiplier")
	b := fs.Int("b", 0, "affine offset")
	key := fs.String("key", "", "substitution key: the images of the alphabet in order")
	language := fs.String("lang", "", "language (defaults to the configured one)")
	in := fs.String("in", "", "read the text from this file")
	server := fs.String("server", "", "run on a monocrackd gRPC endpoint instead of locally")
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
	if *language == "" {
		*language = cfg.Language
	}

	params := map[string]any{"language": *language}
	switch *family {
	case "shift":
		params["shift"] = *shift
	case "affine":
		params["a"] = *a
		params["b"] = *b
	case "substitution":
		if *key == "" {
			fmt.Fprintln(stderr, "-key is required for the substitution cipher")
			return 2
		}
		params["key"] = *key
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var output string
	if *server != "" {
		output, err = transformRemote(ctx, *server, *family, text, params, decrypt)
	} else {
		output, err = transformLocal(ctx, *family, text, params, decrypt)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}
	fmt.Fprintln(stdout, output)
	return 0
}

func transformLocal(ctx context.Context, family, text string, params map[string]any, decrypt bool) (string, error) {
	opName, ok := cipher.OperationName(family, decrypt)
	if !ok {
		return "", fmt.Errorf("unknown cipher %q", family)
	}
	op, ok := cipher.GetOperation(opName)
	if !ok {
		return "", fmt.Errorf("operation %s is not registered", opName)
	}
	out, err := op.Execute(ctx, []byte(text), params)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func transformRemote(ctx context.Context, addr, family, text string, params map[string]any, decrypt bool) (string, error) {
	client, err := rpc.Dial(addr)
	if err != nil {
		return "", err
	}
	defer client.Close()
	if decrypt {
		return client.Decrypt(ctx, family, text, params)
	}
	return client.Encrypt(ctx, family, text, params)
}
