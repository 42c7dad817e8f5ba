package classify

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestEnrichDetectsQuestionMark(t *testing.T) {
	m := &message.Message{Text: "How do I configure this?"}
	e := Enrich(m)
	if !e.IsQuestion {
		t.Fatalf("expected question detected")
	}
}

func TestEnrichDetectsHelpSeekingPhrase(t *testing.T) {
	m := &message.Message{Text: "I'm stuck on getting this working properly"}
	e := Enrich(m)
	if !e.IsQuestion {
		t.Fatalf("expected help-seeking phrase detected as a question")
	}
}

func TestEnrichLeavesPlainStatementUnflagged(t *testing.T) {
	m := &message.Message{Text: "The server is running fine now."}
	e := Enrich(m)
	if e.IsQuestion {
		t.Fatalf("expected plain statement not flagged as a question")
	}
}

func TestEnrichDetectsFencedCode(t *testing.T) {
	m := &message.Message{Text: "try this:\n```go\nfmt.Println(\"hi\")\n```"}
	e := Enrich(m)
	if !e.HasCode {
		t.Fatalf("expected fenced code block detected")
	}
}

func TestEnrichDetectsLinks(t *testing.T) {
	m := &message.Message{Text: "see https://example.com for details"}
	e := Enrich(m)
	if !e.HasLinks {
		t.Fatalf("expected link detected")
	}
}

func TestEnrichDetectsBlockQuote(t *testing.T) {
	m := &message.Message{Text: "> quoted text\nmy reply"}
	e := Enrich(m)
	if !e.HasQuotes {
		t.Fatalf("expected block quote detected")
	}
}

func TestEnrichCountsWords(t *testing.T) {
	m := &message.Message{Text: "one two three"}
	e := Enrich(m)
	if e.WordCount != 3 {
		t.Fatalf("expected 3 words, got %d", e.WordCount)
	}
}
