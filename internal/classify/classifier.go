// Package classify enriches a built Message with lightweight content tags —
// is_question, has_code, has_links — surfaced only by the note command's
// --annotate appendix rather than feeding back into parsing decisions.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/solvaholic/slacknotes/internal/message"
)

// Enrichment holds the derived content tags for one message.
type Enrichment struct {
	IsQuestion bool
	CharCount  int
	WordCount  int
	HasCode    bool
	HasLinks   bool
	HasQuotes  bool
}

var fencedCode = regexp.MustCompile("```")

// Enrich analyzes a built message and returns its enrichment tags. It never
// mutates m and never influences parsing; the pipeline appends Enrichment
// data to the annotated note's "Message Annotations" appendix only.
func Enrich(m *message.Message) *Enrichment {
	return &Enrichment{
		IsQuestion: detectQuestion(m.Text),
		CharCount:  len(m.Text),
		WordCount:  countWords(m.Text),
		HasCode:    fencedCode.MatchString(m.Text),
		HasLinks:   len(message.ExtractURLs(m.Text)) > 0,
		HasQuotes:  detectQuotes(m.Text),
	}
}

// detectQuestion checks if a message looks like a question: a question
// mark, a question-word opener, or (for longer messages) a help-seeking
// phrase.
func detectQuestion(content string) bool {
	content = strings.ToLower(content)

	if strings.Contains(content, "?") {
		return true
	}

	questionStarters := []string{
		"how do i", "how can i", "how to", "how would",
		"what is", "what's", "what are", "what if",
		"where is", "where can", "where do",
		"when should", "when do", "when is",
		"why does", "why is", "why would",
		"who can", "who is", "who knows",
		"can someone", "can anyone", "could someone",
		"is there", "are there",
		"does anyone", "does someone",
		"has anyone", "has someone",
		"should i", "would it",
		"any ideas", "anyone know",
	}

	for _, starter := range questionStarters {
		if strings.HasPrefix(content, starter) {
			return true
		}
	}

	if len(content) > 20 {
		helpPhrases := []string{
			"help me", "stuck on", "having trouble", "problem with",
			"error with", "not working", "doesn't work", "can't get",
			"unable to", "trying to figure", "need help",
		}

		for _, phrase := range helpPhrases {
			if strings.Contains(content, phrase) {
				return true
			}
		}
	}

	return false
}

// countWords counts words in content by splitting on whitespace runs.
func countWords(content string) int {
	count := 0
	inWord := false

	for _, r := range content {
		if unicode.IsSpace(r) {
			if inWord {
				count++
				inWord = false
			}
		} else {
			inWord = true
		}
	}

	if inWord {
		count++
	}

	return count
}

// detectQuotes checks whether content contains a Markdown-style block quote
// line (possibly preceded by whitespace).
var quotePattern = regexp.MustCompile(`(?m)^\s*>`)

func detectQuotes(content string) bool {
	return quotePattern.MatchString(content)
}
