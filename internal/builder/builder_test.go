package builder

import (
	"strings"
	"testing"

	"github.com/solvaholic/slacknotes/internal/boundary"
	"github.com/solvaholic/slacknotes/internal/lineclass"
	"github.com/solvaholic/slacknotes/internal/message"
)

func TestBuildAssemblesSimpleMessage(t *testing.T) {
	text := "Jane Smith 2:00 PM\nhello there\nhow are you"
	lines := lineclass.Classify(text)
	decisions := boundary.Analyze(lines, message.ProfileStandard)
	ctx := message.NewParseContext(message.ProfileStandard, nil, nil, false)

	msgs := Build(lines, decisions, ctx)

	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d: %+v", len(msgs), msgs)
	}
	if msgs[0].Username != "Jane Smith" {
		t.Fatalf("expected username Jane Smith, got %q", msgs[0].Username)
	}
	if msgs[0].Timestamp != "2:00 PM" {
		t.Fatalf("expected timestamp 2:00 PM, got %q", msgs[0].Timestamp)
	}
}

func TestBuildDropsEmptyMessageWithNoReactions(t *testing.T) {
	text := "Jane Smith 2:00 PM\n\nJohn Doe 2:05 PM\nreal content here"
	lines := lineclass.Classify(text)
	decisions := boundary.Analyze(lines, message.ProfileStandard)
	ctx := message.NewParseContext(message.ProfileStandard, nil, nil, false)

	msgs := Build(lines, decisions, ctx)

	for _, m := range msgs {
		if m.Username == "Jane Smith" {
			t.Fatalf("expected empty Jane Smith message dropped, got %+v", m)
		}
	}
}

func TestBuildKeepsEmptyMessageWithReactions(t *testing.T) {
	text := "Jane Smith 2:00 PM\n:tada: 2"
	lines := lineclass.Classify(text)
	decisions := boundary.Analyze(lines, message.ProfileStandard)
	ctx := message.NewParseContext(message.ProfileStandard, nil, nil, false)

	msgs := Build(lines, decisions, ctx)

	if len(msgs) != 1 {
		t.Fatalf("expected message retained for its reaction, got %d", len(msgs))
	}
	if len(msgs[0].Reactions) != 1 || msgs[0].Reactions[0].Count != 2 {
		t.Fatalf("expected one reaction with count 2, got %+v", msgs[0].Reactions)
	}
}

func TestBuildFoldsLinkPreviewIntoPriorMessageWithoutNewMessage(t *testing.T) {
	text := "Jane Smith 2:00 PM\ncheck this out https://example.com/article\n" +
		"![X (formerly Twitter)](https://example.com/thumb.png)\nAdded by Twitter"
	lines := lineclass.Classify(text)
	decisions := boundary.Analyze(lines, message.ProfileStandard)
	ctx := message.NewParseContext(message.ProfileStandard, nil, nil, false)

	msgs := Build(lines, decisions, ctx)

	if len(msgs) != 1 {
		t.Fatalf("expected preview folded into the single prior message, got %d: %+v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0].Text, "Added by Twitter") {
		t.Fatalf("expected preview attribution folded into message text, got %q", msgs[0].Text)
	}
}
