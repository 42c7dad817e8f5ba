package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solvaholic/slacknotes/internal/config"
	"github.com/solvaholic/slacknotes/internal/resolve"
	"github.com/solvaholic/slacknotes/internal/store"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <team>",
	Short: "Authenticate to a Slack workspace and persist its user/emoji maps",
	Long: `Authenticates to the named Slack workspace using the local desktop app's
session cookie, fetches the full user directory and custom emoji list, and
persists both to the local store so format/note can substitute real display
names and emoji instead of raw <@U…>/:shortcode: tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	team := args[0]

	session, err := resolve.Authenticate(team)
	if err != nil {
		return fmt.Errorf("failed to authenticate to %s: %w", team, err)
	}

	ctx := context.Background()
	userMap, err := session.UserMap(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve users: %w", err)
	}
	emojiMap, err := session.EmojiMap(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve emoji: %w", err)
	}

	path := storePath
	if path == "" {
		path = store.DefaultPath()
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	if err := s.SaveUserMap(session.TeamID, userMap); err != nil {
		return fmt.Errorf("failed to persist user map: %w", err)
	}
	if err := s.SaveEmojiMap(session.TeamID, emojiMap); err != nil {
		return fmt.Errorf("failed to persist emoji map: %w", err)
	}

	if err := rememberTeam(session.TeamID); err != nil {
		OutputError("failed to remember resolved workspace: %v", err)
	}

	fmt.Printf("Resolved %d users and %d emoji for %s (%s)\n", len(userMap), len(emojiMap), session.TeamName, session.TeamID)
	return nil
}

// rememberTeam writes the resolved team ID to the config file so future
// format/note runs know which workspace's maps to load.
func rememberTeam(teamID string) error {
	return config.SetString("resolve.lastTeamID", teamID)
}
