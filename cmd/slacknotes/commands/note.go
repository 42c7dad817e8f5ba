package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solvaholic/slacknotes/internal/store"
)

var (
	noteDebug           bool
	noteSave            bool
	noteAnnotate        bool
	noteWithThreadGraph bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Format a pasted Slack conversation as a frontmatter-wrapped note",
	Long: `Like format, but wraps the rendered Markdown in YAML frontmatter (cssclasses, participants, messages, format, date).

--annotate appends a per-message enrichment appendix (is_question, has_code, has_links).
--with-thread-graph attaches a thread-reply-graph summary to the frontmatter.`,
	RunE:  runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.Flags().BoolVar(&noteDebug, "debug", false, "append an unparsed-lines debug appendix")
	noteCmd.Flags().BoolVar(&noteSave, "save", false, "persist the rendered note to the local store")
	noteCmd.Flags().BoolVar(&noteAnnotate, "annotate", false, "append per-message enrichment tags (is_question, has_code, has_links)")
	noteCmd.Flags().BoolVar(&noteWithThreadGraph, "with-thread-graph", false, "attach a thread-reply-graph summary to the frontmatter")
}

func runNote(cmd *cobra.Command, args []string) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	driver, err := newDriver(noteDebug)
	if err != nil {
		return err
	}

	var note string
	if noteAnnotate || noteWithThreadGraph {
		note = driver.BuildAnnotatedNote(string(input), noteAnnotate, noteWithThreadGraph)
	} else {
		note = driver.BuildNoteWithFrontmatter(string(input))
	}
	fmt.Println(note)

	if noteSave {
		if err := saveNote(string(input), note); err != nil {
			OutputError("failed to save note: %v", err)
		}
	}
	return nil
}

func saveNote(input, markdown string) error {
	path := storePath
	if path == "" {
		path = store.DefaultPath()
	}

	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	hash := store.InputHash(input)
	_, err = s.SaveNote(hash, 0, "standard", markdown, 0)
	return err
}
