package validate

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestCheckFlagsEmptyTextNoReactions(t *testing.T) {
	msgs := []*message.Message{{Username: "Jane Smith", Text: ""}}
	issues := Check(msgs)
	if len(issues) != 1 || issues[0].Kind != KindEmptyText {
		t.Fatalf("expected one empty-text issue, got %+v", issues)
	}
}

func TestCheckAllowsEmptyTextWithReactions(t *testing.T) {
	msgs := []*message.Message{{Username: "Jane Smith", Text: "", Reactions: []message.Reaction{{Name: "tada", Count: 1}}}}
	issues := Check(msgs)
	if len(issues) != 0 {
		t.Fatalf("expected no issues for empty text with reactions, got %+v", issues)
	}
}

func TestCheckFlagsMetadataOnlyText(t *testing.T) {
	msgs := []*message.Message{{Username: "Jane Smith", Text: "TypeScript"}}
	issues := Check(msgs)
	if len(issues) != 1 || issues[0].Kind != KindMetadataOnly {
		t.Fatalf("expected metadata-only issue, got %+v", issues)
	}
}

func TestCheckFlagsAllDigitsAsMetadataOnly(t *testing.T) {
	msgs := []*message.Message{{Username: "Jane Smith", Text: "42"}}
	issues := Check(msgs)
	if len(issues) != 1 || issues[0].Kind != KindMetadataOnly {
		t.Fatalf("expected all-digits text flagged metadata-only, got %+v", issues)
	}
}

func TestCheckFlagsShortUsername(t *testing.T) {
	msgs := []*message.Message{{Username: "Jo", Text: "hello"}}
	issues := Check(msgs)
	if len(issues) != 1 || issues[0].Kind != KindShortUsername {
		t.Fatalf("expected short-username issue, got %+v", issues)
	}
}

func TestCheckDoesNotMutateInput(t *testing.T) {
	msgs := []*message.Message{{Username: "Jo", Text: ""}}
	_ = Check(msgs)
	if msgs[0].Text != "" || msgs[0].Username != "Jo" {
		t.Fatalf("expected Check to leave messages untouched, got %+v", msgs[0])
	}
}
