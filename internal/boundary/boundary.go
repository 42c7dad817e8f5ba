// Package boundary implements the boundary analyzer (component D): for
// every classified Line it decides whether the line begins a new message,
// continues the previous one, carries metadata to fold into the current
// message, or should be skipped outright.
//
// It is modeled as the three-state machine spec.md's design notes call for
// (OUTSIDE, IN_MESSAGE, IN_PREVIEW) rather than a cascade of ad-hoc
// look-behind regexes: each transition is a function of
// (state, features, profile, lookahead<=3).
package boundary

import (
	"regexp"
	"strings"

	"github.com/solvaholic/slacknotes/internal/lineclass"
	"github.com/solvaholic/slacknotes/internal/message"
)

// Kind is the decision made for one line.
type Kind int

const (
	MessageStart Kind = iota
	Continuation
	Metadata
	Skip
)

// state is the analyzer's internal machine state, not exposed to callers.
type state int

const (
	outside state = iota
	inMessage
	inPreview
)

// Decision carries the outcome for one line plus whatever the builder needs
// to avoid re-deriving it (captured username, timestamp token, and so on).
type Decision struct {
	Kind          Kind
	Username      string
	TimestampTok  string
	DateTok       string
	LinkedURL     string
	IsAppTag      bool
	IsEdited      bool
	ReactionName  string
	ReactionCount int
}

var (
	nameTimeLinkedDated = regexp.MustCompile(`^(.+?)\s{1,2}\[([A-Z][a-z]+ \d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})? at \d{1,2}:\d{2}\s*[AP]M)\]\((https?://[^)]+)\)\s*$`)
	nameTimeDated       = regexp.MustCompile(`^(.+?)\s{1,2}\[([A-Z][a-z]+ \d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})? at \d{1,2}:\d{2}\s*[AP]M)\]\s*$`)
	nameTimeBracketLink = regexp.MustCompile(`^(.+?)\s{1,2}\[(\d{1,2}:\d{2}\s*[AP]M)\]\((https?://[^)]+)\)\s*$`)
	nameTimeBracket     = regexp.MustCompile(`^(.+?)\s{1,2}\[(\d{1,2}:\d{2}\s*[AP]M)\]\s*$`)
	nameTimeBare        = regexp.MustCompile(`^([A-Z][a-zA-Z'.\-]+(?:\s+[A-Z][a-zA-Z'.\-]+){0,3})\s+(\d{1,2}:\d{2}\s*[AP]M)\s*$`)

	bracketMessageFrom = regexp.MustCompile(`^\[Message from ([^\]]+)\]\s*$`)

	linkedTimeOnly = regexp.MustCompile(`^\[(\d{1,2}:\d{2}(?:\s*[AP]M)?)\]\((https?://[^)]+)\)\s*$`)

	editedMarker = regexp.MustCompile(`^\(edited\)$`)

	previewSentence  = regexp.MustCompile(`^[A-Z][^.!?]*[.!?]$`)
	trailingURL      = regexp.MustCompile(`https?://\S+$`)
)

// Analyze walks the tagged line stream once and returns one Decision per
// line, in the same order.
func Analyze(lines []message.Line, profile message.Profile) []Decision {
	decisions := make([]Decision, len(lines))
	st := outside
	prevEndedWithURL := false

	for i := range lines {
		l := &lines[i]

		if l.Features.Has(message.Empty) {
			decisions[i] = Decision{Kind: Skip}
			continue
		}

		if l.Features.Has(message.IsReaction) {
			decisions[i] = Decision{Kind: Metadata, ReactionName: reactionName(l.Trimmed), ReactionCount: reactionCount(l.Trimmed, l.Captures["count"])}
			continue
		}

		if l.Features.Has(message.IsThreadCounter) {
			decisions[i] = Decision{Kind: Metadata}
			continue
		}

		if l.Features.Has(message.IsDateSeparator) {
			decisions[i] = Decision{Kind: Metadata, DateTok: l.Trimmed}
			continue
		}

		if editedMarker.MatchString(l.Trimmed) {
			decisions[i] = Decision{Kind: Metadata, IsEdited: true}
			continue
		}

		if st == inPreview {
			if isPreviewContinuation(l) {
				decisions[i] = Decision{Kind: Continuation}
				prevEndedWithURL = false
				continue
			}
			st = outside
		}

		// A preview block folds into the previous message rather than
		// starting a new one, even though its first line might otherwise
		// look like a message start candidate.
		if prevEndedWithURL && isPreviewContinuation(l) {
			decisions[i] = Decision{Kind: Continuation}
			st = inPreview
			prevEndedWithURL = false
			continue
		}

		if d, ok := matchMessageStart(lines, i, profile); ok {
			decisions[i] = d
			st = inMessage
			prevEndedWithURL = endsWithURL(l.Trimmed)
			continue
		}

		if l.Features.Has(message.IsAvatarURL) {
			// Small avatar with no following name line within range, and not
			// part of a preview: unattributable, drop it.
			if !withinLines(lines, i+1, 3, looksLikeNameLine) {
				decisions[i] = Decision{Kind: Skip}
				continue
			}
		}

		decisions[i] = Decision{Kind: Continuation}
		prevEndedWithURL = endsWithURL(l.Trimmed)
	}

	return decisions
}

func endsWithURL(s string) bool {
	return trailingURL.MatchString(strings.TrimSpace(s))
}

// matchMessageStart applies the MESSAGE_START rules in spec.md §4.D's
// stated priority, with the timestamp-wins and avatar-wins tie-breaks.
func matchMessageStart(lines []message.Line, i int, profile message.Profile) (Decision, bool) {
	l := &lines[i]
	body := l.Trimmed

	if m := bracketMessageFrom.FindStringSubmatch(body); m != nil {
		return Decision{Kind: MessageStart, Username: collapseName(m[1])}, true
	}

	if m := nameTimeLinkedDated.FindStringSubmatch(body); m != nil {
		return Decision{Kind: MessageStart, Username: collapseName(m[1]), DateTok: m[2], TimestampTok: m[2], LinkedURL: m[3]}, true
	}
	if m := nameTimeDated.FindStringSubmatch(body); m != nil {
		return Decision{Kind: MessageStart, Username: collapseName(m[1]), DateTok: m[2], TimestampTok: m[2]}, true
	}
	if m := nameTimeBracketLink.FindStringSubmatch(body); m != nil {
		return Decision{Kind: MessageStart, Username: collapseName(m[1]), TimestampTok: m[2], LinkedURL: m[3]}, true
	}
	if m := nameTimeBracket.FindStringSubmatch(body); m != nil {
		return Decision{Kind: MessageStart, Username: collapseName(m[1]), TimestampTok: m[2]}, true
	}
	if m := nameTimeBare.FindStringSubmatch(body); m != nil {
		return Decision{Kind: MessageStart, Username: collapseName(m[1]), TimestampTok: m[2]}, true
	}

	// Name line followed by a bare/bracketed time line anchors the start;
	// the DM profile's Time/Name/Time(url) shape is handled separately below
	// since there the *first* timestamp line is the anchor, not the name.
	if l.Features.Has(message.LooksLikeName) && !l.Features.Has(message.HasTimestamp) {
		if i+1 < len(lines) && lines[i+1].Features.Has(message.HasTimestamp) {
			name := l.Captures["name"]
			if name == "" {
				name = body
			}
			return Decision{Kind: MessageStart, Username: collapseName(name), TimestampTok: timestampToken(&lines[i+1])}, true
		}
	}

	// Avatar line within 1-3 lines of a name line anchors the start.
	if l.Features.Has(message.IsAvatarURL) {
		if j, ok := nextNameLineWithin(lines, i+1, 3); ok {
			name := lines[j].Captures["name"]
			if name == "" {
				name = lines[j].Trimmed
			}
			ts := ""
			if j+1 < len(lines) && lines[j+1].Features.Has(message.HasTimestamp) {
				ts = timestampToken(&lines[j+1])
			}
			return Decision{Kind: MessageStart, Username: collapseName(name), TimestampTok: ts}, true
		}
	}

	// dm profile: a linked timestamp-only line counts as a start only when a
	// name line follows within two lines.
	if profile == message.ProfileDM {
		if m := linkedTimeOnly.FindStringSubmatch(body); m != nil {
			if j, ok := nextNameLineWithin(lines, i+1, 2); ok {
				return Decision{Kind: MessageStart, Username: collapseName(lines[j].Trimmed), TimestampTok: m[1], LinkedURL: m[2]}, true
			}
		}
	}

	// Timestamp-only/linked-timestamp line with no name captured: starts a
	// new message attributed to Unknown User, provided a prior authored
	// message exists for the continuation merger to fold it into — the
	// merger, not this analyzer, makes that provenance check; here we only
	// need to recognize the boundary.
	if (l.Features.Has(message.TimestampOnly) || linkedTimeOnly.MatchString(body)) && profile != message.ProfileDM {
		if m := linkedTimeOnly.FindStringSubmatch(body); m != nil {
			return Decision{Kind: MessageStart, Username: "", TimestampTok: m[1], LinkedURL: m[2]}, true
		}
		return Decision{Kind: MessageStart, Username: "", TimestampTok: body}, true
	}

	return Decision{}, false
}

// collapseName applies the doubled-name predicate uniformly at the point of
// extraction.
func collapseName(name string) string {
	name = strings.TrimSpace(name)
	if half, ok := lineclass.CollapseDoubled(name); ok {
		return half
	}
	return name
}

func timestampToken(l *message.Line) string {
	if t, ok := l.Captures["time"]; ok && t != "" {
		return t
	}
	return l.Trimmed
}

func looksLikeNameLine(l *message.Line) bool {
	return l.Features.Has(message.LooksLikeName)
}

func withinLines(lines []message.Line, start, span int, pred func(*message.Line) bool) bool {
	for k := start; k < len(lines) && k < start+span; k++ {
		if pred(&lines[k]) {
			return true
		}
	}
	return false
}

func nextNameLineWithin(lines []message.Line, start, span int) (int, bool) {
	for k := start; k < len(lines) && k < start+span; k++ {
		if lines[k].Features.Has(message.Empty) {
			continue
		}
		if lines[k].Features.Has(message.LooksLikeName) {
			return k, true
		}
		return 0, false
	}
	return 0, false
}

// isPreviewContinuation decides, while inside a preview block, whether this
// line still belongs to the preview (and should fold as plain continuation
// text) or ends it.
func isPreviewContinuation(l *message.Line) bool {
	if l.Features.Has(message.IsPreviewMeta) {
		return true
	}
	if previewSentence.MatchString(l.Trimmed) {
		return true
	}
	return false
}

func reactionName(body string) string {
	body = strings.TrimPrefix(body, "![")
	if idx := strings.Index(body, ":"); idx >= 0 {
		rest := body[idx+1:]
		if end := strings.Index(rest, ":"); end >= 0 {
			return rest[:end]
		}
	}
	return body
}

func reactionCount(body, captured string) int {
	if captured == "" {
		return 1
	}
	n := 0
	for _, r := range captured {
		if r < '0' || r > '9' {
			return 1
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 1
	}
	return n
}
