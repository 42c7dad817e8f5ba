// Package builder implements the message builder (component E): it walks
// the tagged line stream alongside the boundary analyzer's decisions and
// assembles normalized Message records.
package builder

import (
	"strings"

	"github.com/solvaholic/slacknotes/internal/boundary"
	"github.com/solvaholic/slacknotes/internal/message"
	"github.com/solvaholic/slacknotes/internal/threadutil"
)

// Build assembles Message records from lines and their boundary decisions.
// ctx.CurrentDate is updated in place as date separators are encountered.
func Build(lines []message.Line, decisions []boundary.Decision, ctx *message.ParseContext) []*message.Message {
	var out []*message.Message
	var cur *message.Message

	closeCurrent := func() {
		if cur == nil {
			return
		}
		if strings.TrimSpace(cur.Text) != "" || len(cur.Reactions) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}

	for i := range lines {
		l := &lines[i]
		d := &decisions[i]

		switch d.Kind {
		case boundary.Skip:
			continue

		case boundary.Metadata:
			if d.DateTok != "" && l.Features.Has(message.IsDateSeparator) {
				ctx.CurrentDate = threadutil.ParseDateSeparator(d.DateTok, ctx.CurrentDate)
				continue
			}
			if cur == nil {
				continue
			}
			if l.Features.Has(message.IsReaction) {
				cur.Reactions = append(cur.Reactions, message.Reaction{Name: d.ReactionName, Count: d.ReactionCount})
				continue
			}
			if l.Features.Has(message.IsThreadCounter) {
				cur.ThreadInfo = l.Trimmed
				cur.IsThreadStart = true
				continue
			}
			if d.IsEdited {
				cur.IsEdited = true
				continue
			}

		case boundary.MessageStart:
			closeCurrent()
			cur = newMessage(l, d, ctx)

		case boundary.Continuation:
			if cur == nil {
				cur = &message.Message{Username: message.UnknownUser}
			}
			appendContinuation(cur, l.Trimmed)
		}

		if cur != nil {
			cur.LineIndices = append(cur.LineIndices, l.Index)
		}
	}
	closeCurrent()

	return out
}

func newMessage(l *message.Line, d *boundary.Decision, ctx *message.ParseContext) *message.Message {
	username := d.Username
	if username == "" {
		username = message.UnknownUser
	}

	m := &message.Message{
		Username:  username,
		Timestamp: d.TimestampTok,
	}

	if l.Features.Has(message.TimestampOnly) && ctx.CurrentDate != nil {
		m.Date = ctx.CurrentDate
	}

	return m
}

// appendContinuation folds a continuation line's text into the message,
// joining it to the existing text with a single newline. Blank input lines
// are skipped by the analyzer, so they leave no blank line in the text.
func appendContinuation(m *message.Message, text string) {
	if m.Text == "" {
		m.Text = text
		return
	}
	m.Text = m.Text + "\n" + text
}
