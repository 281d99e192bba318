package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newAllocCmd())
	rootCmd.AddCommand(newFreeCmd())
}

func newAllocCmd() *cobra.Command {
	var size uint32
	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Allocate one page in the region and print its ref",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(size)
		},
	}
	cmd.Flags().Uint32Var(&size, "size", 64, "Payload size in bytes")
	return cmd
}

func runAlloc(size uint32) error {
	mf, f, err := openArena()
	if err != nil {
		return err
	}
	defer mf.Close()

	ref, payload, err := f.Alloc(size)
	if err != nil {
		return fmt.Errorf("alloc %d bytes: %w", size, err)
	}
	printInfo("Allocated %d bytes at ref %d (%d available)\n",
		len(payload), ref, f.TotalAvailable())
	return nil
}

func newFreeCmd() *cobra.Command {
	var ref uint64
	cmd := &cobra.Command{
		Use:   "free",
		Short: "Free the allocation at a ref",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(ref)
		},
	}
	cmd.Flags().Uint64Var(&ref, "ref", 0, "Payload ref to free")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}

func runFree(ref uint64) error {
	mf, f, err := openArena()
	if err != nil {
		return err
	}
	defer mf.Close()

	freed, err := f.Free(ref)
	if err != nil {
		return fmt.Errorf("free ref %d: %w", ref, err)
	}
	printInfo("Freed %d bytes at ref %d (%d available)\n", freed, ref, f.TotalAvailable())
	return nil
}
