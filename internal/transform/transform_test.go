package transform

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestMentionsRewritesKnownUser(t *testing.T) {
	userMap := message.UserMap{"U123": "Jane Smith"}
	got := Mentions("hello <@U123>", userMap)
	want := "hello @Jane Smith"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMentionsFallsBackToUnknown(t *testing.T) {
	got := Mentions("hello <@U999>", message.UserMap{})
	want := "hello @unknown"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmojiRewritesKnownShortcode(t *testing.T) {
	emojiMap := message.EmojiMap{"tada": "🎉"}
	got := Emoji("nice :tada:", emojiMap)
	want := "nice 🎉"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmojiLeavesUnknownShortcodeUntouched(t *testing.T) {
	got := Emoji("nice :mystery-emoji:", message.EmojiMap{})
	want := "nice :mystery-emoji:"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSlackLinksCollapsesToMarkdown(t *testing.T) {
	got := SlackLinks("see <https://example.com|the docs>")
	want := "see [the docs](https://example.com)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDisplayNameWrapsPlausibleName(t *testing.T) {
	if got := DisplayName("Jane Smith"); got != "[[Jane Smith]]" {
		t.Fatalf("got %q", got)
	}
}

func TestDisplayNameLeavesLeadingDigitUnwrapped(t *testing.T) {
	if got := DisplayName("123bot"); got != "123bot" {
		t.Fatalf("got %q", got)
	}
}

func TestDisplayNameLeavesDisallowedCharsUnwrapped(t *testing.T) {
	if got := DisplayName("weird|name"); got != "weird|name" {
		t.Fatalf("got %q", got)
	}
}
