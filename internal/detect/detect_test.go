package detect

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestDetectPicksBracketProfile(t *testing.T) {
	text := "[Message from Jane Smith]\n[Time: 2:00 PM]\nhello there\n[Message from John Doe]\n[Time: 2:05 PM]\nhi back"
	profile, _, _ := Detect(text)
	if profile != message.ProfileBracket {
		t.Fatalf("expected bracket profile, got %v", profile)
	}
}

func TestDetectPicksChannelProfile(t *testing.T) {
	text := "Jane Smith joined the channel\nJohn Doe set the channel topic to: launch planning\nJane Smith pinned a message to this channel"
	profile, _, _ := Detect(text)
	if profile != message.ProfileChannel {
		t.Fatalf("expected channel profile, got %v", profile)
	}
}

func TestDetectFallsBackToStandardOnEmptyInput(t *testing.T) {
	profile, scores, confidence := Detect("")
	if profile != message.ProfileStandard {
		t.Fatalf("expected standard fallback, got %v", profile)
	}
	if len(scores) != 0 || confidence != 0 {
		t.Fatalf("expected zero scores and confidence for empty input")
	}
}

func TestDetectFallsBackToStandardBelowConfidenceThreshold(t *testing.T) {
	lines := make([]string, 0, 50)
	lines = append(lines, "Jane Smith pinned a message to this channel")
	for i := 0; i < 49; i++ {
		lines = append(lines, "just an ordinary line of chat with no markers at all")
	}
	text := ""
	for i, l := range lines {
		if i > 0 {
			text += "\n"
		}
		text += l
	}

	profile, _, confidence := Detect(text)
	if profile != message.ProfileStandard {
		t.Fatalf("expected a single weak channel hit among 50 lines to resolve to standard, got %v (confidence %v)", profile, confidence)
	}
	if confidence >= minConfidence {
		t.Fatalf("expected confidence below threshold, got %v", confidence)
	}
}

func TestIsLikelySlackRequiresTwoIndicators(t *testing.T) {
	if IsLikelySlack("just a plain sentence with no markers") {
		t.Fatalf("expected no match for plain text")
	}
	if !IsLikelySlack("Jane Smith 2:00 PM\nreact with :tada: and mention <@U123>") {
		t.Fatalf("expected match with emoji and mention present")
	}
}
