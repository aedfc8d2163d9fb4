package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"depscan/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the OSV response cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached OSV responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cache.DefaultPath()
			if err != nil {
				return fmt.Errorf("locate cache: %w", err)
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}
			store, err := cache.Open(path)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cache.DefaultPath()
			if err != nil {
				return fmt.Errorf("locate cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
