// Package source describes the readable inputs a runner scans. A Source is
// opened once per runner invocation by whichever goroutine owns it.
package source

import (
	"io"
	"os"
	"strconv"
	"strings"
)

type Source interface {
	// Name identifies the source in errors and logs.
	Name() string
	// Open returns a fresh stream over the source's content.
	Open() (io.ReadCloser, error)
}

// File is a Source backed by a path on the local filesystem.
type File struct {
	Path string
}

func (f File) Name() string {
	return f.Path
}

func (f File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Text is an in-memory Source.
type Text struct {
	Label string
	Body  string
}

func (t Text) Name() string {
	return t.Label
}

func (t Text) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(t.Body)), nil
}

// FromPaths keeps the order of paths; that order defines source indices.
func FromPaths(paths ...string) []Source {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = File{Path: p}
	}
	return sources
}

// FromTexts builds in-memory sources labelled by their position.
func FromTexts(bodies ...string) []Source {
	sources := make([]Source, len(bodies))
	for i, b := range bodies {
		sources[i] = Text{Label: "text-" + strconv.Itoa(i), Body: b}
	}
	return sources
}
