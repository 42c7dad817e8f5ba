package pipeline

import (
	"strings"
	"testing"
)

func TestIsLikelySlackDelegatesToDetector(t *testing.T) {
	d := New()
	text := "Jane Smith 2:15 PM\nhey <@U123ABC> did you see :wave: this\nView thread"
	if !d.IsLikelySlack(text) {
		t.Fatalf("expected strong Slack indicators to register")
	}
}

func TestFormatSlackContentRendersStandardMessage(t *testing.T) {
	d := New()
	text := "Jane Smith  2:15 PM\nhey team, build is green\n"

	out := d.FormatSlackContent(text)
	if out == "" {
		t.Fatalf("expected non-empty markdown output")
	}
}

func TestFormatSlackContentIsMemoized(t *testing.T) {
	d := New()
	text := "Jane Smith  2:15 PM\nhey team, build is green\n"

	first := d.FormatSlackContent(text)
	second := d.FormatSlackContent(text)
	if first != second {
		t.Fatalf("expected identical output from cache hit, got %q vs %q", first, second)
	}
	if d.cache.Len() == 0 {
		t.Fatalf("expected an entry to be memoized")
	}
}

func TestSizeGuardRejectsOversizedInput(t *testing.T) {
	d := New()
	big := make([]byte, maxInputBytes+1)
	for i := range big {
		big[i] = 'a'
	}

	out := d.FormatSlackContent(string(big))
	if out == "" {
		t.Fatalf("expected a guard-rail message")
	}
	if want := "Input too large"; !strings.Contains(out, want) {
		t.Fatalf("expected guard-rail message to mention %q, got %q", want, out)
	}
}

func TestUpdateSettingsClearsCache(t *testing.T) {
	d := New()
	text := "Jane Smith  2:15 PM\nhey team, build is green\n"
	d.FormatSlackContent(text)

	if d.cache.Len() == 0 {
		t.Fatalf("expected a memoized entry before settings update")
	}

	d.UpdateSettings(d.settings, nil, nil)

	if d.cache.Len() != 0 {
		t.Fatalf("expected cache to be cleared after settings update")
	}
}

func TestFlexibleParseFallsBackOnEmptyParse(t *testing.T) {
	d := New()
	msgs := d.flexibleParse("just some\nplain unparseable text\n\nwith a blank-line gap", "standard")
	if len(msgs) == 0 {
		t.Fatalf("expected flexible parser to produce at least one message")
	}
}

func TestLooksLikePlainNameAcceptsTitleCaseWords(t *testing.T) {
	if !looksLikePlainName("Jane Smith") {
		t.Fatalf("expected Jane Smith to look like a name")
	}
	if looksLikePlainName("hey there") {
		t.Fatalf("expected lowercase phrase to not look like a name")
	}
}

func TestCatastrophicFallbackCountsMentionsAndTimestamps(t *testing.T) {
	d := New()
	text := "hey <@U123ABC> saw this at 2:15 PM and again at [3:00 PM]"

	result := d.catastrophicFallback(text)
	if !strings.Contains(result.Markdown, "Detected 1 user mentions and 2 timestamps.") {
		t.Fatalf("expected mention/timestamp counts in fallback callout, got %q", result.Markdown)
	}
}

func TestDebugAppendixSurfacesValidatorIssues(t *testing.T) {
	d := New()
	d.settings.Debug = true
	text := "Jane Smith 2:15 PM\nhey team, build is green\nJohn Doe 2:16 PM\n123"

	out := d.FormatSlackContent(text)
	if !strings.Contains(out, "Validator issues:") {
		t.Fatalf("expected a validator issues section in debug output, got %q", out)
	}
	if !strings.Contains(out, "metadata-only-text") {
		t.Fatalf("expected the all-digit body to be flagged metadata-only, got %q", out)
	}
}

func TestParseMessagesReturnsNormalizedMessages(t *testing.T) {
	d := New()
	text := "Jane Smith 2:15 PM\nhey team, build is green\n"

	msgs, profile := d.ParseMessages(text)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Username != "Jane Smith" {
		t.Fatalf("expected username Jane Smith, got %q", msgs[0].Username)
	}
	if profile == "" {
		t.Fatalf("expected a detected profile")
	}
}

func TestBuildAnnotatedNoteAppendsEnrichmentTags(t *testing.T) {
	d := New()
	text := "Jane Smith 2:15 PM\nhow do I deploy this?\n"

	out := d.BuildAnnotatedNote(text, true, false)
	if !strings.Contains(out, "## Message Annotations") {
		t.Fatalf("expected an annotation appendix, got %q", out)
	}
	if !strings.Contains(out, "is_question=true") {
		t.Fatalf("expected the question heuristic to fire, got %q", out)
	}
}

func TestBuildAnnotatedNoteAttachesThreadGraphSummary(t *testing.T) {
	d := New()
	text := "Jane Smith 2:15 PM\nkicking off a thread\n3 replies\n"

	out := d.BuildAnnotatedNote(text, false, true)
	if !strings.Contains(out, "graph: {threads:") {
		t.Fatalf("expected a graph summary field in frontmatter, got %q", out)
	}
}

func TestBuildNoteWithFrontmatterIncludesMetadata(t *testing.T) {
	d := New()
	text := "Jane Smith  2:15 PM\nhey team, build is green\n"

	out := d.BuildNoteWithFrontmatter(text)
	if !strings.Contains(out, "cssclasses:") || !strings.Contains(out, "participants:") || !strings.Contains(out, "messages:") {
		t.Fatalf("expected frontmatter fields in output, got %q", out)
	}
}
