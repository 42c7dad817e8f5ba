// Package resolve builds the user and emoji maps that render.Options needs
// to turn raw `<@U…>` mentions and `:shortcode:` emoji into real display
// names and glyphs, by authenticating against a live Slack workspace with
// the desktop app's own session cookie.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rneatherway/slack"

	"github.com/solvaholic/slacknotes/internal/message"
)

// Session wraps an authenticated Slack client, scoped to one workspace.
type Session struct {
	client   *slack.Client
	TeamName string
	TeamID   string
	UserName string
}

// Authenticate establishes a connection to the named workspace using
// cookies from the local Slack desktop app, mirroring the teacher's
// cookie-auth flow.
func Authenticate(team string) (*Session, error) {
	client := slack.NewClient(team)

	if err := client.WithCookieAuth(); err != nil {
		return nil, formatAuthError(err)
	}

	bs, err := client.API(context.Background(), "GET", "auth.test", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("authentication validation failed: %w", err)
	}

	var resp struct {
		OK     bool   `json:"ok"`
		Team   string `json:"team"`
		TeamID string `json:"team_id"`
		User   string `json:"user"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(bs, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse auth.test response: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("slack API returned error: %s", resp.Error)
	}

	return &Session{client: client, TeamName: resp.Team, TeamID: resp.TeamID, UserName: resp.User}, nil
}

// UserMap fetches every member of the workspace and returns a map from
// user ID to the display name the renderer should substitute for `<@U…>`
// (§6 convertUserMentions): display_name when set, else real_name, else the
// username.
func (s *Session) UserMap(ctx context.Context) (message.UserMap, error) {
	bs, err := s.client.API(ctx, "GET", "users.list", map[string]string{"limit": "1000"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var resp struct {
		OK      bool `json:"ok"`
		Members []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Profile struct {
				RealName    string `json:"real_name"`
				DisplayName string `json:"display_name"`
			} `json:"profile"`
		} `json:"members"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bs, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse users.list response: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("slack API error: %s", resp.Error)
	}

	userMap := make(message.UserMap, len(resp.Members))
	for _, m := range resp.Members {
		name := m.Profile.DisplayName
		if name == "" {
			name = m.Profile.RealName
		}
		if name == "" {
			name = m.Name
		}
		userMap[m.ID] = name
	}
	return userMap, nil
}

// EmojiMap fetches the workspace's custom emoji and returns a map from
// shortcode to its rendering. Custom emoji that are themselves aliases
// (`"alias:thumbsup"`) resolve to the plain `:shortcode:` form rather than
// a URL, since the renderer only ever substitutes printable text.
func (s *Session) EmojiMap(ctx context.Context) (message.EmojiMap, error) {
	bs, err := s.client.API(ctx, "GET", "emoji.list", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list emoji: %w", err)
	}

	var resp struct {
		OK    bool              `json:"ok"`
		Emoji map[string]string `json:"emoji"`
		Error string            `json:"error"`
	}
	if err := json.Unmarshal(bs, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse emoji.list response: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("slack API error: %s", resp.Error)
	}

	emojiMap := make(message.EmojiMap, len(resp.Emoji))
	for shortcode, value := range resp.Emoji {
		emojiMap[shortcode] = resolveEmojiValue(shortcode, value)
	}
	return emojiMap, nil
}

// resolveEmojiValue resolves one emoji.list entry to what the renderer
// should substitute for `:shortcode:`: an alias target's own shortcode, or
// the shortcode itself for a custom (image-backed) emoji.
func resolveEmojiValue(shortcode, value string) string {
	if strings.HasPrefix(value, "alias:") {
		return ":" + strings.TrimPrefix(value, "alias:") + ":"
	}
	return shortcode
}

// formatAuthError gives the user-facing guidance the teacher's client
// provides for the common cookie-auth failure modes.
func formatAuthError(err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "no Slack cookie database found"), strings.Contains(msg, "could not access Slack cookie database"):
		return fmt.Errorf("Slack cookie database not found. Are you logged into the Slack desktop app?\n  Original error: %w", err)
	case strings.Contains(msg, "no matching unlocked items found"):
		return fmt.Errorf("Slack cookie not found in keychain. Try logging out and back into the Slack desktop app.\n  Original error: %w", err)
	case strings.Contains(msg, "failed to get cookie password"):
		return fmt.Errorf("could not retrieve Slack cookie password from keychain. Check that the Slack app has keychain access.\n  Original error: %w", err)
	case strings.Contains(msg, "status code"):
		return fmt.Errorf("failed to authenticate with Slack (network or server error). Check your internet connection.\n  Original error: %w", err)
	default:
		return fmt.Errorf("Slack authentication failed: %w", err)
	}
}
