package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solvaholic/slacknotes/internal/config"
	"github.com/solvaholic/slacknotes/internal/message"
	"github.com/solvaholic/slacknotes/internal/pipeline"
	"github.com/solvaholic/slacknotes/internal/store"
)

var formatDebug bool

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format a pasted Slack conversation as Markdown",
	Long:  `Reads a Slack paste from stdin and writes the rendered Markdown conversation note to stdout.`,
	RunE:  runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().BoolVar(&formatDebug, "debug", false, "append an unparsed-lines debug appendix")
}

func runFormat(cmd *cobra.Command, args []string) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	driver, err := newDriver(formatDebug)
	if err != nil {
		return err
	}

	fmt.Println(driver.FormatSlackContent(string(input)))
	return nil
}

// newDriver assembles a pipeline.Driver from the persisted configuration and
// the last resolved user/emoji maps in the store, if any. debug forces
// settings.Debug on regardless of the config file, for --debug flags.
func newDriver(debug bool) (*pipeline.Driver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	settings := config.FromConfig(cfg)
	if debug {
		settings.Debug = true
	}

	userMap, emojiMap := loadResolvedMaps(cfg)

	d := pipeline.New()
	d.UpdateSettings(settings, userMap, emojiMap)
	return d, nil
}

// loadResolvedMaps returns the user/emoji maps `slacknotes resolve` last
// persisted for the workspace named in the config file, or nil maps if none
// has been resolved yet.
func loadResolvedMaps(cfg *config.Config) (message.UserMap, message.EmojiMap) {
	teamID := cfg.GetString("resolve.lastTeamID")
	if teamID == "" {
		return nil, nil
	}

	path := storePath
	if path == "" {
		path = store.DefaultPath()
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, nil
	}
	defer s.Close()

	userMap, _ := s.LoadUserMap(teamID)
	emojiMap, _ := s.LoadEmojiMap(teamID)
	return userMap, emojiMap
}
