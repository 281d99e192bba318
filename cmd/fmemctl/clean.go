package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCleanCmd())
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the region file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.Remove(regionPath); err != nil {
				return fmt.Errorf("remove %s: %w", regionPath, err)
			}
			printInfo("Removed %s\n", regionPath)
			return nil
		},
	}
}
