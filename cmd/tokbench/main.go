// Command tokbench counts a target word in a fixed list of text files under
// three concurrency strategies and prints per-file counts and timings.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/logger"
)

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		reportErrors(os.Stderr, err)
		os.Exit(1)
	}
}

// reportErrors prints one line per failed strategy.
func reportErrors(w io.Writer, err error) {
	for _, e := range bench.GetErrors(err) {
		fmt.Fprintf(w, "Error: %v\n", e)
	}
}
