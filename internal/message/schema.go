// Package message defines the data model produced by the ingest pipeline:
// the tagged Line stream, the Message records assembled from it, and the
// ParseContext threaded through every stage.
package message

// Feature tags a structural property of a single input line. A Line carries
// a set of these, computed once by the classifier and never recomputed.
type Feature int

const (
	Empty Feature = iota
	HasTimestamp
	TimestampOnly
	HasBracketedTime
	HasDatedTime
	HasURL
	HasUserMention
	LooksLikeName
	LooksLikeDoubledName
	IsAvatarURL
	IsReaction
	IsThreadCounter
	IsDateSeparator
	IsAppTag
	IsPreviewMeta
)

// FeatureSet is the immutable set of features a Line was classified with.
type FeatureSet map[Feature]bool

// Has reports whether the set contains f.
func (fs FeatureSet) Has(f Feature) bool {
	return fs[f]
}

// Line is an input-derived record. Lines are immutable after classification;
// nothing downstream mutates raw, trimmed, indent, or features.
type Line struct {
	Raw      string
	Trimmed  string
	Indent   int
	Index    int
	Features FeatureSet

	// Captures holds named regex captures discovered during classification,
	// e.g. "name", "time", "url", populated only when the matching feature
	// is set. Kept as raw strings; later stages interpret them.
	Captures map[string]string
}

// Reaction is a single emoji reaction with its count, in appearance order.
type Reaction struct {
	Name  string
	Count int
}

// Message is the normalized record produced by the builder and repaired by
// the continuation merger. Ownership: created by the builder, mutated by the
// continuation merger (appends to Text, may fold Reactions, may set
// ThreadInfo) and by the block-level deduplicator (may drop repeated blocks
// from Text), treated as immutable after that.
type Message struct {
	Username      string
	Timestamp     string // raw captured token; normalized for display only at render time
	Date          *CalendarDate
	Text          string
	Reactions     []Reaction
	ThreadInfo    string
	IsThreadReply bool
	IsThreadStart bool
	IsEdited      bool

	// LineIndices records the provenance of this message's source lines, in
	// strictly ascending order. Retained for debugging and for the
	// debug-mode appendix; never required for rendering.
	LineIndices []int
}

// UnknownUser is the literal fallback author name; never the empty string.
const UnknownUser = "Unknown User"

// CalendarDate anchors a time-only timestamp to a specific day, set from the
// most recent IS_DATE_SEPARATOR line seen by the builder.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// Profile is one of the named parsing/rendering variants.
type Profile string

const (
	ProfileStandard Profile = "standard"
	ProfileBracket  Profile = "bracket"
	ProfileMixed    Profile = "mixed"
	ProfileDM       Profile = "dm"
	ProfileThread   Profile = "thread"
	ProfileChannel  Profile = "channel"
)

// UserMap maps a Slack user ID (e.g. "U123ABC") to a display name.
type UserMap map[string]string

// EmojiMap maps a shortcode (without colons) to its unicode rendering.
type EmojiMap map[string]string

// ParseContext is threaded through every stage of one formatSlackContent
// call. currentDate tracks the most recently seen date separator and
// anchors time-only timestamps encountered later in the stream.
type ParseContext struct {
	Profile     Profile
	UserMap     UserMap
	EmojiMap    EmojiMap
	CurrentDate *CalendarDate
	Debug       bool
}

// NewParseContext builds a context for the given profile with empty maps if
// none are supplied.
func NewParseContext(profile Profile, userMap UserMap, emojiMap EmojiMap, debug bool) *ParseContext {
	if userMap == nil {
		userMap = UserMap{}
	}
	if emojiMap == nil {
		emojiMap = EmojiMap{}
	}
	return &ParseContext{
		Profile:  profile,
		UserMap:  userMap,
		EmojiMap: emojiMap,
		Debug:    debug,
	}
}
