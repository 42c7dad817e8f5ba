// Package lineclass implements the line classifier (component A): a
// stateless, deterministic pass over preprocessed text that tags each line
// with the structural features the rest of the pipeline reasons about.
package lineclass

import (
	"regexp"
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
)

var (
	bareTime       = regexp.MustCompile(`^\d{1,2}:\d{2}(\s*[AP]M)?$`)
	inlineTime     = regexp.MustCompile(`\d{1,2}:\d{2}\s*(?:[AP]M)?`)
	bracketedTime  = regexp.MustCompile(`\[(\d{1,2}:\d{2}\s*[AP]M)\]`)
	linkedTime     = regexp.MustCompile(`\[(\d{1,2}:\d{2}\s*[AP]M)\]\((https?://[^)]+)\)`)
	datedTime      = regexp.MustCompile(`\[([A-Z][a-z]+ \d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?) at (\d{1,2}:\d{2}\s*[AP]M)\]`)
	datedTimeLink  = regexp.MustCompile(`\[([A-Z][a-z]+ \d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?) at (\d{1,2}:\d{2}\s*[AP]M)\]\((https?://[^)]+)\)`)
	appDatedTime   = regexp.MustCompile(`^APP\s+([A-Z][a-z]+ \d{1,2}(?:st|nd|rd|th)? at \d{1,2}:\d{2}\s*[AP]M)$`)
	avatarURL      = regexp.MustCompile(`^!\[[^\]]*\]\((https?://ca\.slack-edge\.com/[^)]+)\)$`)
	smallAvatar    = regexp.MustCompile(`^!\[[^\]]*\]\((https?://[^)]+)\)$`)
	reactionLead   = regexp.MustCompile(`^:[a-z0-9_+\-]+:\s*(\d+)?`)
	reactionImg    = regexp.MustCompile(`^!\[:[a-z0-9_+\-]+:\]\([^)]+\)\s*(\d+)?`)
	threadCounter  = regexp.MustCompile(`^\d+\s+repl(y|ies)\b`)
	viewThread     = regexp.MustCompile(`^View thread\b`)
	lastReply      = regexp.MustCompile(`^Last reply\b`)
	weekday        = regexp.MustCompile(`^(Sunday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday)\b`)
	todayYesterday = regexp.MustCompile(`^(Today|Yesterday)\b`)
	monthDate      = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2}(st|nd|rd|th)?(,\s*\d{4})?$`)
	appTag         = regexp.MustCompile(`^APP\b`)
	userMention    = regexp.MustCompile(`<@[A-Z0-9]+(\|[^>]+)?>`)
	nameLine       = regexp.MustCompile(`^[A-Z][a-zA-Z'.\-]*(\s+[A-Z][a-zA-Z'.\-]*){0,4}$`)
	urlAnywhere    = regexp.MustCompile(`https?://\S+`)
	fileSizeSuffix = regexp.MustCompile(`\(\d+(\.\d+)?\s*(KB|MB|GB)\)`)

	// imageWithAttribution matches a Markdown image whose alt text itself
	// carries a parenthetical aside, e.g. "![X (formerly Twitter)](url)" —
	// the shape a link-preview card's own thumbnail takes, distinct from a
	// bare avatar thumbnail whose alt text is empty or a lone handle.
	imageWithAttribution = regexp.MustCompile(`^!\[[^\]]*\([^)]+\)[^\]]*\]\(https?://[^)]+\)$`)

	// videoChapterSignature matches a chapter-list entry as pasted from a
	// video link preview, e.g. "0:00 Introduction" or "1:04:12 - Wrap-up".
	videoChapterSignature = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?\s*[-–—]?\s+[A-Za-z].+`)
)

// Classify splits text into newline-delimited lines and tags each with its
// structural features. It is pure: no state survives between calls.
func Classify(text string) []message.Line {
	raws := strings.Split(text, "\n")
	lines := make([]message.Line, 0, len(raws))

	for i, raw := range raws {
		trimmed := strings.TrimRight(raw, " \t")
		indent := len(trimmed) - len(strings.TrimLeft(trimmed, " \t"))
		body := strings.TrimSpace(trimmed)

		line := message.Line{
			Raw:      raw,
			Trimmed:  body,
			Indent:   indent,
			Index:    i,
			Features: message.FeatureSet{},
			Captures: map[string]string{},
		}
		classifyLine(&line)
		lines = append(lines, line)
	}
	return lines
}

func classifyLine(l *message.Line) {
	body := l.Trimmed

	if body == "" {
		l.Features[message.Empty] = true
		return
	}

	if m := datedTimeLink.FindStringSubmatch(body); m != nil {
		l.Features[message.HasDatedTime] = true
		l.Features[message.HasTimestamp] = true
		l.Captures["date"] = m[1]
		l.Captures["time"] = m[2]
		l.Captures["url"] = m[3]
	} else if m := datedTime.FindStringSubmatch(body); m != nil {
		l.Features[message.HasDatedTime] = true
		l.Features[message.HasTimestamp] = true
		l.Captures["date"] = m[1]
		l.Captures["time"] = m[2]
	} else if m := linkedTime.FindStringSubmatch(body); m != nil {
		l.Features[message.HasBracketedTime] = true
		l.Features[message.HasTimestamp] = true
		l.Captures["time"] = m[1]
		l.Captures["url"] = m[2]
	} else if m := bracketedTime.FindStringSubmatch(body); m != nil {
		l.Features[message.HasBracketedTime] = true
		l.Features[message.HasTimestamp] = true
		l.Captures["time"] = m[1]
	} else if bareTime.MatchString(body) {
		l.Features[message.HasTimestamp] = true
		l.Features[message.TimestampOnly] = true
		l.Captures["time"] = body
	} else if inlineTime.MatchString(body) {
		l.Features[message.HasTimestamp] = true
	}

	if m := avatarURL.FindStringSubmatch(body); m != nil {
		l.Features[message.IsAvatarURL] = true
		l.Captures["url"] = m[1]
	} else if m := smallAvatar.FindStringSubmatch(body); m != nil {
		l.Features[message.IsAvatarURL] = true
		l.Captures["url"] = m[1]
	}

	if m := reactionImg.FindStringSubmatch(body); m != nil {
		l.Features[message.IsReaction] = true
		if m[1] != "" {
			l.Captures["count"] = m[1]
		}
	} else if m := reactionLead.FindStringSubmatch(body); m != nil {
		l.Features[message.IsReaction] = true
		if m[1] != "" {
			l.Captures["count"] = m[1]
		}
	}

	if threadCounter.MatchString(body) || viewThread.MatchString(body) || lastReply.MatchString(body) {
		l.Features[message.IsThreadCounter] = true
	}

	if weekday.MatchString(body) || todayYesterday.MatchString(body) || monthDate.MatchString(body) {
		l.Features[message.IsDateSeparator] = true
	}

	if appTag.MatchString(body) {
		l.Features[message.IsAppTag] = true
	}
	if m := appDatedTime.FindStringSubmatch(body); m != nil {
		l.Features[message.IsAppTag] = true
		l.Features[message.HasTimestamp] = true
		l.Features[message.HasDatedTime] = true
		l.Captures["time"] = m[1]
	}

	if userMention.MatchString(body) {
		l.Features[message.HasUserMention] = true
	}

	if urlAnywhere.MatchString(body) {
		l.Features[message.HasURL] = true
	}

	if isPreviewMetaLine(body) {
		l.Features[message.IsPreviewMeta] = true
	}

	if nameLine.MatchString(body) && !l.Features.Has(message.HasTimestamp) {
		l.Features[message.LooksLikeName] = true
		if half, ok := CollapseDoubled(body); ok {
			l.Features[message.LooksLikeDoubledName] = true
			l.Captures["name"] = half
		} else {
			l.Captures["name"] = body
		}
	}
}

// isPreviewMetaLine recognizes the signatures of a rendered link-preview
// card: a Markdown image whose alt text carries an attribution aside, an
// "Added by …" line, a file-size suffix, a video-chapter entry, or a
// "Name (@handle) on Platform" line.
func isPreviewMetaLine(body string) bool {
	if imageWithAttribution.MatchString(body) {
		return true
	}
	if strings.HasPrefix(body, "Added by ") {
		return true
	}
	if fileSizeSuffix.MatchString(body) {
		return true
	}
	if videoChapterSignature.MatchString(body) {
		return true
	}
	if strings.Contains(body, "(@") && strings.Contains(body, ") on ") {
		return true
	}
	return false
}

// CollapseDoubled implements the doubled-name collapse as a pure predicate:
// split s at its midpoint, lowercase and strip whitespace from both halves,
// and return the first half if they're equal. It covers both the
// concatenated artifact ("Jane SmithJane Smith") and the space-separated one
// ("Jane Smith Jane Smith"). Applied uniformly at every name-extraction
// site, never just in the classifier.
func CollapseDoubled(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return s, false
	}

	norm := func(x string) string {
		return strings.ToLower(strings.Join(strings.Fields(x), ""))
	}

	if len(s)%2 == 0 {
		mid := len(s) / 2
		first, second := s[:mid], s[mid:]
		if norm(first) == norm(second) && norm(first) != "" {
			return strings.TrimSpace(first), true
		}
	}

	// Odd length: the two copies are separated by a single space at the
	// middle index.
	mid := len(s) / 2
	if mid < len(s) && s[mid] == ' ' {
		first, second := s[:mid], s[mid+1:]
		if norm(first) == norm(second) && norm(first) != "" {
			return strings.TrimSpace(first), true
		}
	}

	return s, false
}
