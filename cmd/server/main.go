// Package main is the entry point for the midi2chiptune API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/midi2chiptune/pkg/api"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	workers := flag.Int("workers", 0, "Notes synthesized in parallel (0 = one per CPU)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	fmt.Printf("Starting midi2chiptune API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.NewServer(*workers, logger).Run(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
