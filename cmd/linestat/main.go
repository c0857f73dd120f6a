// Package main is the entry point for linestat, a tool that loads a text
// file into a line store, checks its invariants and reports its shape.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/linestore/internal/config"
	"github.com/dshills/linestore/internal/engine/fileio"
	"github.com/dshills/linestore/internal/engine/linestore"
	"github.com/dshills/linestore/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	output     string
	rescue     string
	strategy   string
	filter     bool
	quiet      bool
	version    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, files, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "linestat %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}
	if len(files) != 1 {
		fmt.Fprintln(stderr, "Error: expected exactly one input file")
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.strategy != "" {
		if err := cfg.Set("store.strategy", opts.strategy); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if opts.filter {
		if err := cfg.Set("store.filter_control", true); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log, closer, err := cfg.Logging().Logger()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	return inspect(cfg.Store(), log.WithComponent("linestat"), files[0], opts, stdout, stderr)
}

func inspect(sc config.StoreConfig, log *logging.Logger, path string, opts options, stdout, stderr io.Writer) int {
	store := linestore.New(sc.Options(log)...)
	defer store.Destroy()

	if err := fileio.LoadFile(store, path, sc.FilterControl); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := store.Verify(); err != nil {
		log.Error("verification failed: %v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if opts.rescue != "" {
			written, rerr := fileio.EmergencySaveFile(store, opts.rescue)
			if rerr != nil {
				fmt.Fprintf(stderr, "Error: %v\n", rerr)
			} else {
				fmt.Fprintf(stderr, "rescued %d lines to %s\n", written, opts.rescue)
			}
		}
		return 1
	}

	store.SetWritable(!sc.ReadOnly)

	if !opts.quiet {
		printStats(stdout, path, store)
	}

	if opts.output != "" {
		if err := fileio.SaveFile(store, opts.output); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		log.Info("wrote %d lines to %s (%s)", store.Lines(), opts.output, fileio.CodecFor(opts.output))
	}
	return 0
}

func printStats(w io.Writer, path string, store *linestore.Store) {
	st := store.Stats()
	lpb, hs := store.Geometry()
	fmt.Fprintf(w, "file:      %s (%s)\n", path, fileio.CodecFor(path))
	fmt.Fprintf(w, "lines:     %d\n", st.Lines)
	fmt.Fprintf(w, "geometry:  %d lines/block, %d blocks/header, %s\n", lpb, hs, store.Strategy())
	fmt.Fprintf(w, "headers:   %d of %d slots\n", st.Headers, st.DataSlots)
	fmt.Fprintf(w, "blocks:    %d\n", st.Blocks)
	if st.Blocks > 0 {
		fmt.Fprintf(w, "fill:      %.1f%%\n", 100*float64(st.Lines)/float64(st.Blocks*lpb))
	}
	fmt.Fprintf(w, "allocated: %d bytes\n", st.AllocatedBytes)
	if !store.Writable() {
		fmt.Fprintf(w, "mode:      read-only\n")
	}
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("linestat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.output, "o", "", "Re-save the document to this path; the extension picks the codec")
	fs.StringVar(&opts.rescue, "rescue", "", "Emergency-save reachable lines here if verification fails")
	fs.StringVar(&opts.strategy, "strategy", "", "Split strategy (balanced, append)")
	fs.BoolVar(&opts.filter, "filter", false, "Strip control characters and escape sequences")
	fs.BoolVar(&opts.quiet, "q", false, "Do not print statistics")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "linestat - inspect a file through the line store\n\n")
		fmt.Fprintf(stderr, "Usage: linestat [options] file\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  linestat notes.txt                 Print statistics\n")
		fmt.Fprintf(stderr, "  linestat -o notes.txt.zst notes.txt Recompress with zstd\n")
		fmt.Fprintf(stderr, "  linestat -filter -q build.log       Check a terminal log\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}
