package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/fmemkit/internal/logger"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func main() {
	args := os.Args[1:]
	debugMode := false
	regionPath := ""

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--debug", "-d":
			debugMode = true
		case "--file", "-f":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "Error: %s requires a path\n", arg)
				os.Exit(1)
			}
			i++
			regionPath = args[i]
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("fmemexplorer %s\n", buildVersion)
			fmt.Printf("  commit: %s\n", buildCommit)
			fmt.Printf("  built: %s\n", buildDate)
			os.Exit(0)
		default:
			regionPath = arg
		}
	}

	if debugMode {
		logger.Init(os.Stderr, slog.LevelDebug)
	}

	if regionPath == "" {
		printUsage()
		os.Exit(1)
	}

	if _, err := os.Stat(regionPath); err != nil {
		logger.L().Error("region file not found", "path", regionPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: region file not found: %s\n", regionPath)
		os.Exit(1)
	}

	m, err := NewModel(regionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		logger.L().Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.L().Warn("error closing region", "error", err)
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: fmemexplorer [options] <region-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'fmemexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("fmemexplorer - Interactive TUI for fixed memory region files")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  fmemexplorer [options] <region-file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Browses the page list of a region file with a live payload preview.")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Move between pages")
	fmt.Println("    pgup/pgdn   Scroll the payload preview")
	fmt.Println("    g/G         Jump to first/last page")
	fmt.Println("    f5/r        Re-read the region")
	fmt.Println("    ?           Toggle help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -f, --file     Region file to open (positional also accepted)")
	fmt.Println("  -d, --debug    Enable debug logging to stderr")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  fmemexplorer region.fmem")
	fmt.Println("  fmemexplorer -f /var/lib/app/state.fmem")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'fmemctl' command instead.")
}
