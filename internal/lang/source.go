package lang

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

//go:embed resources/*.txt
var resources embed.FS

// Source opens corpus resources by name.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(name string) (io.ReadCloser, error)

func (f SourceFunc) Open(name string) (io.ReadCloser, error) { return f(name) }

// FSSource reads resources from a file system.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(name string) (io.ReadCloser, error) {
	if s.FS == nil {
		return nil, fmt.Errorf("no file system configured for %q", name)
	}
	return s.FS.Open(name)
}

// DirSource reads resources from a directory on disk.
func DirSource(dir string) Source {
	return FSSource{FS: os.DirFS(dir)}
}

// EmbeddedSource serves the corpora compiled into the binary.
func EmbeddedSource() Source {
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return FSSource{FS: sub}
}

// ParseCounts reads whitespace delimited "symbol count" pairs.
func ParseCounts(r io.Reader) (map[string]uint64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	counts := make(map[string]uint64)
	for sc.Scan() {
		symbol := sc.Text()
		if !sc.Scan() {
			return nil, fmt.Errorf("symbol %q has no count", symbol)
		}
		n, err := strconv.ParseUint(sc.Text(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("count for %q: %w", symbol, err)
		}
		counts[symbol] += n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
