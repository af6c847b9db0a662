package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/RowanDark/monocrack/internal/lang"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if _, err := loadConfig(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, name := range lang.Names() {
		m, ok := lang.Lookup(name)
		if !ok {
			continue
		}
		orders := make([]string, 0, len(m.NgramOrders()))
		for _, n := range m.NgramOrders() {
			orders = append(orders, fmt.Sprint(n))
		}
		fmt.Fprintf(stdout, "%s\t%s\tic=%.4f\tngrams=%s\n", m.Name(), m.Alphabet(), m.ExpectedIC(), strings.Join(orders, ","))
	}
	return 0
}
