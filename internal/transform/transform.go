// Package transform implements the pure text-rewrite rules the renderer
// applies to a message's content: mention/emoji/link substitution and code
// fence preservation. Each rule is gated by a configuration flag so the
// renderer can apply them independently. Timestamp normalization lives in
// internal/threadutil.
package transform

import (
	"regexp"
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
)

var (
	slackLink    = regexp.MustCompile(`<(https?://[^|>]+)\|([^>]+)>`)
	codeFence    = regexp.MustCompile("```([a-z]*)\n?([\\s\\S]*?)```")
	wikiLinkSafe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 '.\-]*$`)
)

// Mentions rewrites <@U12345|alice> and <@U12345> tokens to display names
// from userMap. For an id with no mapping it uses the token's own label
// (the "alice" in <@U12345|alice>) when present, else "@unknown".
func Mentions(text string, userMap message.UserMap) string {
	return message.UserMentionPattern.ReplaceAllStringFunc(text, func(tok string) string {
		m := message.UserMentionPattern.FindStringSubmatch(tok)
		id := m[1]
		if name, ok := userMap[id]; ok {
			return "@" + name
		}
		if m[3] != "" {
			return "@" + m[3]
		}
		return "@unknown"
	})
}

// Emoji rewrites :shortcode: tokens via emojiMap, leaving unrecognized
// shortcodes untouched.
func Emoji(text string, emojiMap message.EmojiMap) string {
	return message.EmojiShortcode.ReplaceAllStringFunc(text, func(tok string) string {
		code := strings.Trim(tok, ":")
		if glyph, ok := emojiMap[code]; ok {
			return glyph
		}
		return tok
	})
}

// SlackLinks collapses <url|text> tokens to Markdown [text](url) form.
func SlackLinks(text string) string {
	return slackLink.ReplaceAllString(text, "[$2]($1)")
}

// DisplayName returns the wiki-link form "[[name]]" when name is a
// plausible wiki-link target (no leading digit, no disallowed characters),
// else the raw name unchanged.
func DisplayName(name string) string {
	if name == "" {
		return name
	}
	if name[0] >= '0' && name[0] <= '9' {
		return name
	}
	if !wikiLinkSafe.MatchString(name) {
		return name
	}
	return "[[" + name + "]]"
}

// PreserveCodeBlocks reports whether text contains at least one complete
// fenced code block, the guard the renderer consults before bothering to
// split content into code/prose segments.
func PreserveCodeBlocks(text string) bool {
	return codeFence.MatchString(text)
}

// CodeSegment is one piece of content split on fenced code blocks: either a
// literal fence (Code true), left untouched, or prose subject to the
// renderer's normal substitution rules.
type CodeSegment struct {
	Text string
	Code bool
}

// SplitCodeBlocks splits text into literal fenced-code segments interleaved
// with the prose around them, so a caller can transform the prose while
// leaving fence contents exactly as pasted.
func SplitCodeBlocks(text string) []CodeSegment {
	matches := codeFence.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []CodeSegment{{Text: text}}
	}

	var segs []CodeSegment
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segs = append(segs, CodeSegment{Text: text[last:m[0]]})
		}
		segs = append(segs, CodeSegment{Text: text[m[0]:m[1]], Code: true})
		last = m[1]
	}
	if last < len(text) {
		segs = append(segs, CodeSegment{Text: text[last:]})
	}
	return segs
}
