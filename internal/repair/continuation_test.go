package repair

import (
	"strings"
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestMergeContinuationsFoldsTimestampOnlyFragment(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "first part"},
		{Username: message.UnknownUser, Timestamp: "2:01 PM", Text: "2:01 PM\nsecond part"},
	}

	out := MergeContinuations(msgs)

	if len(out) != 1 {
		t.Fatalf("expected 1 message after fold, got %d", len(out))
	}
	if !strings.Contains(out[0].Text, "second part") {
		t.Fatalf("expected folded text to contain continuation, got %q", out[0].Text)
	}
	if out[0].Username != "Jane Smith" {
		t.Fatalf("expected fold target's username preserved, got %q", out[0].Username)
	}
}

func TestMergeContinuationsLeavesOrphanWithNoPriorAuthor(t *testing.T) {
	msgs := []*message.Message{
		{Username: message.UnknownUser, Timestamp: "2:01 PM", Text: "2:01 PM"},
	}

	out := MergeContinuations(msgs)

	if len(out) != 1 {
		t.Fatalf("expected orphan to survive untouched, got %d messages", len(out))
	}
	if out[0].Username != message.UnknownUser {
		t.Fatalf("expected orphan to remain Unknown User")
	}
}

func TestMergeContinuationsLeavesNonCandidateAlone(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "first part"},
		{Username: message.UnknownUser, Timestamp: "", Text: "an unrelated standalone remark"},
	}

	out := MergeContinuations(msgs)

	if len(out) != 2 {
		t.Fatalf("expected non-candidate to remain separate, got %d messages", len(out))
	}
}

func TestIsContinuationCandidateWholeTextIsTimestamp(t *testing.T) {
	m := &message.Message{Timestamp: "2:01 PM", Text: "2:01 PM"}
	if !isContinuationCandidate(m) {
		t.Fatalf("expected whole-text-equals-timestamp message to be a candidate")
	}
}

func TestIsContinuationCandidateRejectsPlainText(t *testing.T) {
	m := &message.Message{Timestamp: "2:01 PM", Text: "just some regular reply text"}
	if isContinuationCandidate(m) {
		t.Fatalf("expected plain text not to be a continuation candidate")
	}
}
