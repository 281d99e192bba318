package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/fmemkit/fmem"
	"github.com/joshuapare/fmemkit/fmem/commit"
	"github.com/joshuapare/fmemkit/internal/logger"
	"github.com/joshuapare/fmemkit/internal/mmfile"
)

var (
	// Global flags
	regionPath string
	verbose    bool
	quiet      bool
	jsonOut    bool
	strict     bool
)

var rootCmd = &cobra.Command{
	Use:   "fmemctl",
	Short: "Inspect and manipulate file-backed allocation regions",
	Long: `fmemctl manages fixed allocation regions stored in files. It can create
a region, allocate and free pages inside it, verify its structure, and
print page tables and accounting, all through the same persistence path
a library consumer would use.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Init(os.Stderr, slog.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&regionPath, "file", "f", "region.fmem", "Path of the region file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		BoolVar(&strict, "strict", false, "Abort the process on page corruption instead of reporting it")
}

// arenaOpts translates the global flags into allocator options.
func arenaOpts() []fmem.Option {
	if strict {
		return []fmem.Option{fmem.WithTerminateOnCorruption()}
	}
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openArena maps the region file and adopts its allocator state.
func openArena() (*mmfile.File, *fmem.FMem, error) {
	mf, err := mmfile.Open(regionPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open region %s: %w", regionPath, err)
	}
	f, err := fmem.FromExisting(mf.Bytes(), commit.NewMsync(mf.FD()), arenaOpts()...)
	if err != nil {
		mf.Close()
		return nil, nil, fmt.Errorf("adopt region %s: %w", regionPath, err)
	}
	return mf, f, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
