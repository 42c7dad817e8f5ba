// Package repair implements the post-parse repair stages: the continuation
// merger (component F) and the deduplicator (component G).
package repair

import (
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
	"github.com/solvaholic/slacknotes/internal/threadutil"
)

// MergeContinuations folds orphan timestamp-only "Unknown User" fragments
// into the most recent authored message. lastKnownAuthor is the most recent
// message whose username isn't "Unknown User"; a candidate with no prior
// authored message is left standing, satisfying the invariant that an
// Unknown User message may only begin with a recognized timestamp when no
// prior authored message exists.
func MergeContinuations(msgs []*message.Message) []*message.Message {
	out := make([]*message.Message, 0, len(msgs))
	var lastAuthored *message.Message

	for _, m := range msgs {
		if m.Username == message.UnknownUser && lastAuthored != nil && isContinuationCandidate(m) {
			fold(lastAuthored, m)
			continue
		}
		out = append(out, m)
		if m.Username != message.UnknownUser {
			lastAuthored = m
		}
	}
	return out
}

// isContinuationCandidate implements the three disjuncts from spec.md
// §4.F: the text begins with a recognized timestamp pattern, the first
// line is a timestamp with further content following it, or the whole text
// is exactly the message's own timestamp.
func isContinuationCandidate(m *message.Message) bool {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return false
	}

	if threadutil.LooksLikeTimestampToken(text) {
		return true
	}

	lines := strings.SplitN(text, "\n", 2)
	if threadutil.LooksLikeTimestampToken(lines[0]) && len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		return true
	}

	if m.Timestamp != "" && text == strings.TrimSpace(m.Timestamp) {
		return true
	}

	return false
}

// fold appends a blank-line separator then the candidate's text (preserving
// an embedded opening timestamp) onto dest, merges reactions in order, and
// adopts the candidate's thread info if it supplies one.
func fold(dest *message.Message, candidate *message.Message) {
	if dest.Text == "" {
		dest.Text = candidate.Text
	} else {
		dest.Text = dest.Text + "\n\n" + candidate.Text
	}
	dest.Reactions = append(dest.Reactions, candidate.Reactions...)
	if candidate.ThreadInfo != "" {
		dest.ThreadInfo = candidate.ThreadInfo
	}
	dest.LineIndices = append(dest.LineIndices, candidate.LineIndices...)
}
