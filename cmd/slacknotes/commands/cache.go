package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solvaholic/slacknotes/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local store",
	Long:  `Manage the SQLite-backed store of persisted notes and resolved user/emoji maps.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store statistics",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the local store",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openStore() (*store.Store, error) {
	path := storePath
	if path == "" {
		path = store.DefaultPath()
	}
	return store.Open(path)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	stats, err := s.Stats()
	if err != nil {
		return fmt.Errorf("failed to read store stats: %w", err)
	}

	fmt.Printf("notes:  %d\n", stats.NoteCount)
	fmt.Printf("users:  %d\n", stats.UserCount)
	fmt.Printf("emoji:  %d\n", stats.EmojiCount)
	fmt.Printf("size:   %s\n", stats.HumanSize())
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	if err := s.Clear(); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}

	fmt.Println("store cleared")
	return nil
}
