// Package detect implements the format detector (component B): it scores
// the first N non-empty lines of a paste against each parsing profile's
// regex set and picks the best match.
package detect

import (
	"regexp"
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
)

// sampleLines is how many non-empty lines the detector inspects.
const sampleLines = 50

// minConfidence is the floor below which a non-standard profile's lead is
// treated as noise rather than signal; ties and below-confidence results
// resolve to standard.
const minConfidence = 0.3

var (
	standardNameTime = regexp.MustCompile(`^[A-Z][a-zA-Z'.\-]+(\s+[A-Z][a-zA-Z'.\-]+){0,3}\s+\d{1,2}:\d{2}`)
	standardLinkedTime = regexp.MustCompile(`^[A-Z][a-zA-Z'.\-]+(\s+[A-Z][a-zA-Z'.\-]+){0,3}\s+\[\d{1,2}:\d{2}\s*[AP]M\]\(https?://`)
	bareTimeOnly     = regexp.MustCompile(`^\d{1,2}:\d{2}(\s*[AP]M)?$`)

	bracketMessageFrom = regexp.MustCompile(`^\[Message from [^\]]+\]`)
	bracketTime         = regexp.MustCompile(`^\[Time:\s*[^\]]+\]`)
	bracketThread       = regexp.MustCompile(`^\[Thread:\s*[^\]]+\]`)
	bracketChannel      = regexp.MustCompile(`^\[Channel:\s*[^\]]+\]`)

	linkedTimeOnly = regexp.MustCompile(`^\[\d{1,2}:\d{2}(\s*[AP]M)?\]\(https?://`)

	threadReplies = regexp.MustCompile(`^\d+\s+repl(y|ies)\b`)
	threadSep     = regexp.MustCompile(`^---+$`)
	threadTS      = regexp.MustCompile(`thread_ts=`)

	channelJoined  = regexp.MustCompile(`\bjoined the channel\b`)
	channelTopic   = regexp.MustCompile(`\bset the channel topic\b`)
	channelPinned  = regexp.MustCompile(`\bpinned a message\b`)

	strongIndicator = []*regexp.Regexp{
		regexp.MustCompile(`:[a-z0-9_+\-]+:`),
		regexp.MustCompile(`\d{1,2}:\d{2}\s*[AP]?M?`),
		regexp.MustCompile(`<@[A-Z0-9]+>`),
		regexp.MustCompile(`\bView thread\b`),
		regexp.MustCompile(`\b(Sunday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday)\b`),
		regexp.MustCompile(`\bjoined the channel\b`),
		regexp.MustCompile(`\buploaded a file:`),
		regexp.MustCompile(`^\[Message from `),
	}
)

// Scores holds the per-profile weighted hit counts from Detect, exposed for
// debugging and tests.
type Scores map[message.Profile]float64

// Detect scans the first sampleLines non-empty lines of text and returns the
// selected profile along with the per-profile scores and a confidence in
// [0,1]. Ties and below-confidence results resolve to standard.
func Detect(text string) (message.Profile, Scores, float64) {
	lines := sampledNonEmptyLines(text)
	if len(lines) == 0 {
		return message.ProfileStandard, Scores{}, 0
	}

	hits := map[message.Profile]int{}
	strongHits := 0

	for i, line := range lines {
		if standardNameTime.MatchString(line) || standardLinkedTime.MatchString(line) || bareTimeOnly.MatchString(line) {
			hits[message.ProfileStandard]++
		}
		if bracketMessageFrom.MatchString(line) || bracketTime.MatchString(line) || bracketThread.MatchString(line) || bracketChannel.MatchString(line) {
			hits[message.ProfileBracket]++
			strongHits++
		}
		if linkedTimeOnly.MatchString(line) && !threadTS.MatchString(line) {
			// dm hits require an adjacent name line and absence of thread markers
			if i+1 < len(lines) && looksLikeName(lines[i+1]) {
				hits[message.ProfileDM]++
			}
		}
		if threadReplies.MatchString(line) || threadSep.MatchString(line) || threadTS.MatchString(line) {
			hits[message.ProfileThread]++
			strongHits++
		}
		if channelJoined.MatchString(line) || channelTopic.MatchString(line) || channelPinned.MatchString(line) {
			hits[message.ProfileChannel]++
			strongHits++
		}
	}

	scores := Scores{}
	for _, p := range []message.Profile{message.ProfileStandard, message.ProfileBracket, message.ProfileDM, message.ProfileThread, message.ProfileChannel} {
		scores[p] = float64(hits[p]) / float64(len(lines))
	}

	confidence := float64(strongHits) / (float64(len(lines)) * 0.3)
	if confidence > 1 {
		confidence = 1
	}

	best := message.ProfileStandard
	bestScore := scores[message.ProfileStandard]
	for _, p := range []message.Profile{message.ProfileBracket, message.ProfileDM, message.ProfileThread, message.ProfileChannel} {
		if scores[p] > bestScore {
			best = p
			bestScore = scores[p]
		}
	}

	if bestScore == 0 || confidence < minConfidence {
		return message.ProfileStandard, scores, confidence
	}

	return best, scores, confidence
}

// IsLikelySlack returns true when at least two of a curated set of strong
// Slack indicators appear anywhere in text.
func IsLikelySlack(text string) bool {
	count := 0
	for _, re := range strongIndicator {
		if re.MatchString(text) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func sampledNonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) >= sampleLines {
			break
		}
	}
	return out
}

func looksLikeName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
		break
	}
	return !bareTimeOnly.MatchString(s)
}
