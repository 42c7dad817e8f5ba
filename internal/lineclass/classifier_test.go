package lineclass

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestClassifyFeatures(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expect   message.Feature
		wantTrue bool
	}{
		{"bracketed time", "[10:30 AM]", message.HasBracketedTime, true},
		{"bare time", "10:30", message.TimestampOnly, true},
		{"avatar url", "![](https://ca.slack-edge.com/T123-U456-abcdef-192)", message.IsAvatarURL, true},
		{"thread counter", "4 replies", message.IsThreadCounter, true},
		{"view thread", "View thread", message.IsThreadCounter, true},
		{"weekday separator", "Wednesday", message.IsDateSeparator, true},
		{"today separator", "Today", message.IsDateSeparator, true},
		{"app tag", "APP", message.IsAppTag, true},
		{"user mention", "hey <@U123ABC> check this", message.HasUserMention, true},
		{"plain name", "Jane Smith", message.LooksLikeName, true},
		{"markdown image with attribution", "![X (formerly Twitter)](https://example.com/thumb.png)", message.IsPreviewMeta, true},
		{"video chapter signature", "0:00 Introduction", message.IsPreviewMeta, true},
		{"added by attribution", "Added by Twitter", message.IsPreviewMeta, true},
		{"file size suffix", "report.pdf (2.1 MB)", message.IsPreviewMeta, true},
		{"handle on platform", "Jane Smith (@janesmith) on Twitter", message.IsPreviewMeta, true},
		{"empty line", "", message.Empty, true},
		{"not a name (has time)", "10:30", message.LooksLikeName, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Classify(tt.line)
			if len(lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(lines))
			}
			got := lines[0].Features.Has(tt.expect)
			if got != tt.wantTrue {
				t.Errorf("feature %v: got %v, want %v", tt.expect, got, tt.wantTrue)
			}
		})
	}
}

func TestCollapseDoubledConcatenated(t *testing.T) {
	got, ok := CollapseDoubled("Jane SmithJane Smith")
	if !ok {
		t.Fatal("expected doubled name to collapse")
	}
	if got != "Jane Smith" {
		t.Errorf("got %q, want %q", got, "Jane Smith")
	}
}

func TestCollapseDoubledSpaceSeparated(t *testing.T) {
	got, ok := CollapseDoubled("Jane Smith Jane Smith")
	if !ok {
		t.Fatal("expected doubled name to collapse")
	}
	if got != "Jane Smith" {
		t.Errorf("got %q, want %q", got, "Jane Smith")
	}
}

func TestCollapseDoubledNotDoubled(t *testing.T) {
	got, ok := CollapseDoubled("Alex Mittell")
	if ok {
		t.Errorf("did not expect a collapse, got %q", got)
	}
	if got != "Alex Mittell" {
		t.Errorf("expected unchanged string, got %q", got)
	}
}
