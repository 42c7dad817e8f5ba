package repair

import (
	"strings"
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestDedupMessagesKeepsFirstOccurrence(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "hello there"},
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "hello there"},
		{Username: "John Doe", Timestamp: "2:05 PM", Text: "different message"},
	}

	out := DedupMessages(msgs)

	if len(out) != 2 {
		t.Fatalf("expected duplicate collapsed, got %d messages", len(out))
	}
	if out[0].Username != "Jane Smith" || out[1].Username != "John Doe" {
		t.Fatalf("unexpected survivors: %+v", out)
	}
}

func TestDedupMessagesNoOpWhenAllUnique(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "hello there"},
		{Username: "John Doe", Timestamp: "2:05 PM", Text: "different message"},
	}

	out := DedupMessages(msgs)

	if len(out) != 2 {
		t.Fatalf("expected both unique messages kept, got %d", len(out))
	}
}

func TestDedupContentBlocksRemovesRepeatedPreviewCard(t *testing.T) {
	card := "Example Site\nAn example description sentence.\nAdded by example-bot"
	m := &message.Message{
		Username: "Jane Smith",
		Text:     "check this out\n\n" + card + "\n\n" + card,
	}
	msgs := []*message.Message{m}

	DedupContentBlocks(msgs)

	if strings.Count(m.Text, "Added by example-bot") != 1 {
		t.Fatalf("expected duplicate preview card removed, got text: %q", m.Text)
	}
}

func TestDedupContentBlocksSkipsShortPlainMessages(t *testing.T) {
	m := &message.Message{Username: "Jane Smith", Text: "just a short reply"}
	msgs := []*message.Message{m}
	original := m.Text

	DedupContentBlocks(msgs)

	if m.Text != original {
		t.Fatalf("expected short plain message left untouched, got %q", m.Text)
	}
}

func TestHasRepeatedLineDetectsDuplicateLine(t *testing.T) {
	if !hasRepeatedLine("one\ntwo\none") {
		t.Fatalf("expected repeated line to be detected")
	}
	if hasRepeatedLine("one\ntwo\nthree") {
		t.Fatalf("expected no false positive on distinct lines")
	}
}
