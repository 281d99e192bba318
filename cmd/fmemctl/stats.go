package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/fmemkit/fmem"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	var pages bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print region accounting and, optionally, the page table",
		Long: `Prints the accounting block of the region. With --pages, every page is
listed with its offset, size, state, and magic check.

Example:
  fmemctl stats -f region.fmem
  fmemctl stats -f region.fmem --pages --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(pages)
		},
	}
	cmd.Flags().BoolVar(&pages, "pages", false, "Include the page table")
	return cmd
}

type statsOut struct {
	File           string          `json:"file"`
	TotalSize      uint64          `json:"total_size"`
	TotalAvailable uint64          `json:"total_available"`
	AllocObjects   uint32          `json:"alloc_objects"`
	MinAlloc       uint32          `json:"min_alloc"`
	Users          [4]uint64       `json:"users"`
	Pages          []fmem.PageInfo `json:"pages,omitempty"`
}

func runStats(withPages bool) error {
	mf, f, err := openArena()
	if err != nil {
		return err
	}
	defer mf.Close()

	out := statsOut{
		File:           regionPath,
		TotalSize:      f.TotalSize(),
		TotalAvailable: f.TotalAvailable(),
		AllocObjects:   f.AllocObjects(),
		MinAlloc:       f.MinAlloc(),
	}
	for i := range out.Users {
		out.Users[i] = f.User(i + 1)
	}
	if withPages {
		out.Pages = f.Pages()
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("Region: %s\n", out.File)
	printInfo("  Total size:      %d bytes\n", out.TotalSize)
	printInfo("  Available:       %d bytes\n", out.TotalAvailable)
	printInfo("  Live objects:    %d\n", out.AllocObjects)
	printInfo("  Min allocation:  %d bytes\n", out.MinAlloc)
	for i, u := range out.Users {
		printInfo("  User slot %d:     %d\n", i+1, u)
	}
	if withPages {
		printInfo("\n  %-10s %-10s %-6s %-6s\n", "OFFSET", "SIZE", "STATE", "MAGIC")
		for _, p := range out.Pages {
			state := "free"
			if p.Busy {
				state = "busy"
			}
			magic := "ok"
			if !p.MagicOK {
				magic = "BAD"
			}
			printInfo("  %-10d %-10d %-6s %-6s\n", p.Offset, p.Size, state, magic)
		}
	}
	return nil
}
