package message

import "regexp"

// Patterns mirroring Slack's own markup, used to detect content the renderer
// and transform layer care about.
var (
	UserMentionPattern = regexp.MustCompile(`<@([A-Z0-9]+)(\|([^>]+))?>`)
	ChannelPattern     = regexp.MustCompile(`<#([A-Z0-9]+)(\|([^>]+))?>`)
	SlackLinkPattern   = regexp.MustCompile(`<(https?://[^|>]+)(\|([^>]+))?>`)
	BareURLPattern     = regexp.MustCompile(`\bhttps?://[^\s<>]+`)
	EmojiShortcode     = regexp.MustCompile(`:[a-z0-9_+\-]+:`)
)

// ExtractMentions returns the raw user IDs mentioned in text, in appearance
// order, without deduplication (a message that pings the same user twice
// keeps both).
func ExtractMentions(text string) []string {
	matches := UserMentionPattern.FindAllStringSubmatch(text, -1)
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			mentions = append(mentions, m[1])
		}
	}
	return mentions
}

// ExtractURLs returns every URL found in text, deduplicated in first-seen
// order. Both bare URLs and Slack's `<url|label>` wrapped form are matched.
func ExtractURLs(text string) []string {
	seen := make(map[string]bool)
	var urls []string

	for _, m := range SlackLinkPattern.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 && !seen[m[1]] {
			seen[m[1]] = true
			urls = append(urls, m[1])
		}
	}
	// Blank out wrapped links first so their "url|label" body isn't matched
	// a second time as a bare URL.
	bare := SlackLinkPattern.ReplaceAllString(text, " ")
	for _, u := range BareURLPattern.FindAllString(bare, -1) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}
