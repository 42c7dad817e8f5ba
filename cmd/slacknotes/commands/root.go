// Package commands implements the slacknotes CLI subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var storePath string

var rootCmd = &cobra.Command{
	Use:   "slacknotes",
	Short: "Turn pasted Slack conversations into Markdown notes",
	Long: `slacknotes turns a pasted or exported Slack conversation into structured
Markdown conversation notes, rendered as Obsidian-style callouts.

  slacknotes format < paste.txt        format raw text, print Markdown
  slacknotes note < paste.txt          same, wrapped in YAML frontmatter
  slacknotes resolve <team>            fetch live user/emoji maps from Slack
  slacknotes cache info                show local store statistics
  slacknotes config get <key>          read a configuration value`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "SQLite store path (default: ~/.slacknotes/store.db)")
}

// OutputError writes an error message to stderr, matching the teacher's
// plain-fmt convention (no structured logger in this pack's CLI tools).
func OutputError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
