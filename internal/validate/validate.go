// Package validate implements the structure validator (component H): a
// read-only pass over the repaired message list that reports issues without
// ever mutating the input.
package validate

import (
	"fmt"
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
)

// Issue describes one structural problem found in a message, tagged with
// the index of the offending message so a caller can locate it.
type Issue struct {
	Index  int
	Kind   string
	Detail string
}

const (
	KindEmptyText       = "empty-text-no-reactions"
	KindMetadataOnly    = "metadata-only-text"
	KindShortUsername   = "implausibly-short-username"
	shortUsernameLength = 2
)

// metadataBlacklist lists trivial bodies that are structurally indistinguishable
// from real message text but carry no author-attributable content.
var metadataBlacklist = []string{
	"Language", "TypeScript", "Last updated",
}

// Check reports, but never mutates, every issue found in msgs.
func Check(msgs []*message.Message) []Issue {
	var issues []Issue

	for i, m := range msgs {
		if strings.TrimSpace(m.Text) == "" && len(m.Reactions) == 0 {
			issues = append(issues, Issue{Index: i, Kind: KindEmptyText, Detail: "message has no text and no reactions"})
		}

		if isMetadataOnly(m.Text) {
			issues = append(issues, Issue{Index: i, Kind: KindMetadataOnly, Detail: fmt.Sprintf("text %q matches a metadata blacklist entry", m.Text)})
		}

		if len([]rune(m.Username)) <= shortUsernameLength && m.Username != "" {
			issues = append(issues, Issue{Index: i, Kind: KindShortUsername, Detail: fmt.Sprintf("username %q is implausibly short", m.Username)})
		}
	}

	return issues
}

func isMetadataOnly(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if allDigits(t) {
		return true
	}
	for _, entry := range metadataBlacklist {
		if t == entry {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
