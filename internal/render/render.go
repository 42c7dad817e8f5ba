// Package render implements the renderer (component I): three profiles that
// each turn a Message[] into blank-line-separated Markdown callout blocks.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
	"github.com/solvaholic/slacknotes/internal/threadutil"
	"github.com/solvaholic/slacknotes/internal/transform"
)

// Options carries the configuration flags the renderer consults. It is
// built by the config layer and threaded in rather than read from a global.
type Options struct {
	ConvertUserMentions bool
	ReplaceEmoji        bool
	ConvertSlackLinks   bool
	HighlightThreads    bool
	DetectCodeBlocks    bool
	ParseSlackTimes     bool
	TimeZone            string
	UserMap             message.UserMap
	EmojiMap            message.EmojiMap
}

const threadMarker = "🧵 "

var bracketHeaderArtifact = regexp.MustCompile(`^\[Message from `)

// Standard renders the callout/standard profile.
func Standard(msgs []*message.Message, opts Options) string {
	return renderAll(msgs, opts, standardBlock)
}

// Bracket renders the bracket profile.
func Bracket(msgs []*message.Message, opts Options) string {
	return renderAll(msgs, opts, bracketBlock)
}

// Mixed renders the adaptive profile: each message picks bracket, minimal,
// or standard independently based on its own content and username.
func Mixed(msgs []*message.Message, opts Options) string {
	return renderAll(msgs, opts, func(m *message.Message, opts Options) string {
		switch {
		case bracketHeaderArtifact.MatchString(strings.TrimSpace(m.Text)):
			return bracketBlock(m, opts)
		case m.Username == "" || m.Username == message.UnknownUser:
			return minimalBlock(m, opts)
		default:
			return standardBlock(m, opts)
		}
	})
}

func renderAll(msgs []*message.Message, opts Options, one func(*message.Message, Options) string) string {
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		blocks = append(blocks, one(m, opts))
	}
	return strings.Join(blocks, "\n\n")
}

func standardBlock(m *message.Message, opts Options) string {
	var b strings.Builder

	header := "Message from"
	if m.IsThreadReply {
		header = threadLabel("Thread Reply from", opts)
	}
	fmt.Fprintf(&b, "> [!slack]+ %s %s\n", header, displayName(m.Username))
	fmt.Fprintf(&b, "> **Time:** %s\n", renderTimestamp(m.Timestamp, opts))
	b.WriteString(">\n")
	writeQuotedBody(&b, transformContent(m.Text, opts))
	if len(m.Reactions) > 0 {
		fmt.Fprintf(&b, "> **Reactions:** %s\n", safeFormatReactions(m.Reactions))
	}
	if m.ThreadInfo != "" {
		fmt.Fprintf(&b, "> **Thread:** %s\n", threadLabel(m.ThreadInfo, opts))
	}

	return strings.TrimRight(b.String(), "\n")
}

func bracketBlock(m *message.Message, opts Options) string {
	var b strings.Builder

	header := "Message from"
	if m.IsThreadReply {
		header = threadLabel("Thread Reply from", opts)
	}
	fmt.Fprintf(&b, "> [!slack]+ [%s %s]\n", header, displayName(m.Username))
	fmt.Fprintf(&b, "> [Time: %s]\n", renderTimestamp(m.Timestamp, opts))
	b.WriteString(">\n")
	writeQuotedBody(&b, transformContent(m.Text, opts))
	if len(m.Reactions) > 0 {
		fmt.Fprintf(&b, "> [Reactions: %s]\n", safeFormatReactions(m.Reactions))
	}
	if m.ThreadInfo != "" {
		fmt.Fprintf(&b, "> [Thread: %s]\n", threadLabel(m.ThreadInfo, opts))
	}

	return strings.TrimRight(b.String(), "\n")
}

func minimalBlock(m *message.Message, opts Options) string {
	var b strings.Builder

	b.WriteString("> [!info]\n")
	writeQuotedBody(&b, transformContent(m.Text, opts))
	if len(m.Reactions) > 0 {
		fmt.Fprintf(&b, "> **Reactions:** %s\n", safeFormatReactions(m.Reactions))
	}

	return strings.TrimRight(b.String(), "\n")
}

// threadLabel decorates a thread-related label with a visual marker when
// Options.HighlightThreads is enabled, leaving it plain otherwise.
func threadLabel(label string, opts Options) string {
	if opts.HighlightThreads {
		return threadMarker + label
	}
	return label
}

// renderTimestamp normalizes ts to a canonical display form when
// Options.ParseSlackTimes is enabled, else returns the raw captured token.
func renderTimestamp(ts string, opts Options) string {
	if opts.ParseSlackTimes {
		return threadutil.NormalizeTimestamp(ts, opts.TimeZone)
	}
	return ts
}

func writeQuotedBody(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			b.WriteString(">\n")
			continue
		}
		fmt.Fprintf(b, "> %s\n", line)
	}
}

// transformContent applies the configured substitution rules to a message's
// text. When DetectCodeBlocks is enabled and text contains a fenced code
// block, the fence's interior passes through untouched rather than having
// mentions/emoji/links rewritten inside it.
func transformContent(text string, opts Options) string {
	if opts.DetectCodeBlocks && transform.PreserveCodeBlocks(text) {
		var b strings.Builder
		for _, seg := range transform.SplitCodeBlocks(text) {
			if seg.Code {
				b.WriteString(seg.Text)
				continue
			}
			b.WriteString(applySubstitutions(seg.Text, opts))
		}
		return b.String()
	}
	return applySubstitutions(text, opts)
}

func applySubstitutions(text string, opts Options) string {
	if opts.ConvertSlackLinks {
		text = transform.SlackLinks(text)
	}
	if opts.ConvertUserMentions {
		text = transform.Mentions(text, opts.UserMap)
	}
	if opts.ReplaceEmoji {
		text = transform.Emoji(text, opts.EmojiMap)
	}
	return text
}

func displayName(name string) string {
	if name == "" {
		return transform.DisplayName(message.UnknownUser)
	}
	return transform.DisplayName(name)
}

func formatReactions(reactions []message.Reaction) string {
	parts := make([]string, 0, len(reactions))
	for _, r := range reactions {
		parts = append(parts, ":"+r.Name+": "+strconv.Itoa(r.Count))
	}
	return strings.Join(parts, ", ")
}

// safeFormatReactions implements spec.md §7's renderer sub-step degrade
// path: a reaction-formatting failure yields an inline placeholder instead
// of taking down the whole render.
func safeFormatReactions(reactions []message.Reaction) (s string) {
	defer func() {
		if recover() != nil {
			s = "[Error formatting reactions]"
		}
	}()
	return formatReactions(reactions)
}
