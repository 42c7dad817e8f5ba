// Package pipeline implements the driver (component J): the four core
// entry points, input-size guard rails, the fallback parser, and
// catastrophic-failure recovery.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/solvaholic/slacknotes/internal/boundary"
	"github.com/solvaholic/slacknotes/internal/builder"
	"github.com/solvaholic/slacknotes/internal/cache"
	"github.com/solvaholic/slacknotes/internal/classify"
	"github.com/solvaholic/slacknotes/internal/config"
	"github.com/solvaholic/slacknotes/internal/detect"
	"github.com/solvaholic/slacknotes/internal/graph"
	"github.com/solvaholic/slacknotes/internal/lineclass"
	"github.com/solvaholic/slacknotes/internal/message"
	"github.com/solvaholic/slacknotes/internal/preprocess"
	"github.com/solvaholic/slacknotes/internal/render"
	"github.com/solvaholic/slacknotes/internal/repair"
	"github.com/solvaholic/slacknotes/internal/threadutil"
	"github.com/solvaholic/slacknotes/internal/validate"
)

const (
	maxInputBytes     = 5 * 1024 * 1024
	warnInputBytes    = 1024 * 1024
	maxInputLines     = 50000
	warnInputLines    = 10000
	catastrophicLines = 100
	debugUnparsedCap  = 50

	overFragmentationRatio = 0.8
	shortMessageRatio      = 0.5
	shortMessageThreshold  = 10
)

// Driver owns the memoization cache and the current settings; it is the
// long-lived object a caller constructs once and reuses across calls.
type Driver struct {
	settings config.Settings
	userMap  message.UserMap
	emojiMap message.EmojiMap
	cache    *cache.Cache
}

// New builds a driver with default settings and an empty memoization cache.
func New() *Driver {
	return &Driver{
		settings: config.Default(),
		cache:    cache.New(cache.DefaultMaxBytes),
	}
}

// IsLikelySlack is the heuristic gate (§4.B / §6.1).
func (d *Driver) IsLikelySlack(text string) bool {
	return detect.IsLikelySlack(text)
}

// UpdateSettings replaces configuration and invalidates the cache (§6.4).
func (d *Driver) UpdateSettings(settings config.Settings, userMap message.UserMap, emojiMap message.EmojiMap) {
	d.settings = settings.Bumped()
	d.userMap = userMap
	d.emojiMap = emojiMap
	d.cache.Clear()
}

// Result carries the rendered Markdown plus the summary data
// buildNoteWithFrontmatter needs, so the two entry points share one run of
// the pipeline.
type Result struct {
	Markdown     string
	Profile      message.Profile
	MessageCount int
	Participants int
	Date         string
}

// FormatSlackContent runs the full pipeline (§6.2): guard rails, cache
// lookup, parse, repair, validate, render, fallback handling.
func (d *Driver) FormatSlackContent(text string) string {
	r := d.run(text)
	return r.Markdown
}

// BuildNoteWithFrontmatter wraps FormatSlackContent's output in YAML
// frontmatter (§6.3).
func (d *Driver) BuildNoteWithFrontmatter(text string) string {
	r := d.run(text)

	var b strings.Builder
	d.writeFrontmatterHeader(&b, r, nil)
	b.WriteString(r.Markdown)

	return b.String()
}

// BuildAnnotatedNote wraps FormatSlackContent's output in YAML frontmatter
// like BuildNoteWithFrontmatter, and additionally attaches the supplemental
// views `slacknotes note --annotate` and `--with-thread-graph` expose: a
// thread-reply-graph summary in the frontmatter's graph field, and a
// per-message enrichment appendix (is_question/has_code/has_links).
func (d *Driver) BuildAnnotatedNote(text string, annotate, withThreadGraph bool) string {
	r := d.run(text)

	var msgs []*message.Message
	var replyGraph *graph.ReplyGraph
	if annotate || withThreadGraph {
		msgs, _ = d.ParseMessages(text)
	}
	if withThreadGraph {
		replyGraph = graph.BuildFromMessages(msgs)
	}

	var b strings.Builder
	d.writeFrontmatterHeader(&b, r, func(fm *strings.Builder) {
		if replyGraph != nil && len(replyGraph.ThreadRoots) > 0 {
			fmt.Fprintf(fm, "graph: {threads: %d, messages: %d}\n", len(replyGraph.ThreadRoots), len(replyGraph.Nodes))
		}
	})
	b.WriteString(r.Markdown)

	if annotate {
		b.WriteString(annotationAppendix(msgs))
	}

	return b.String()
}

// writeFrontmatterHeader writes the YAML frontmatter block common to every
// note-building entry point; extra, when non-nil, appends additional fields
// before the closing "---".
func (d *Driver) writeFrontmatterHeader(b *strings.Builder, r Result, extra func(*strings.Builder)) {
	b.WriteString("---\n")
	fmt.Fprintf(b, "cssclasses: %s\n", cssClassOrDefault(d.settings.FrontmatterCssClass))
	fmt.Fprintf(b, "participants: %d\n", r.Participants)
	fmt.Fprintf(b, "messages: %d\n", r.MessageCount)
	fmt.Fprintf(b, "format: %s\n", r.Profile)
	if r.Date != "" {
		fmt.Fprintf(b, "date: %s\n", r.Date)
	}
	if extra != nil {
		extra(b)
	}
	b.WriteString("---\n\n")
	if d.settings.FrontmatterTitle != "" {
		fmt.Fprintf(b, "# %s\n\n", d.settings.FrontmatterTitle)
	}
}

func annotationAppendix(msgs []*message.Message) string {
	var b strings.Builder
	b.WriteString("\n\n## Message Annotations\n\n")
	for _, m := range msgs {
		e := classify.Enrich(m)
		id := classify.MessageID(m)
		fmt.Fprintf(&b, "- `%s` (%s): is_question=%t has_code=%t has_links=%t\n", id[:8], m.Username, e.IsQuestion, e.HasCode, e.HasLinks)
	}
	return b.String()
}

func cssClassOrDefault(v string) string {
	if v == "" {
		return "slack-conversation"
	}
	return v
}

func (d *Driver) run(text string) Result {
	if guard := d.sizeGuard(text); guard != "" {
		return Result{Markdown: guard}
	}

	key := cache.Key(text, d.settings.Generation())
	if cached, ok := d.cache.Get(key); ok {
		return Result{Markdown: cached}
	}

	result := d.parseAndRender(text)

	combined := len(text) + len(result.Markdown)
	if combined <= cache.MaxStorableBytes {
		d.cache.Put(key, text, result.Markdown)
	}

	return result
}

// sizeGuard returns a non-empty error callout when text exceeds the
// hard input-size ceiling, or an empty string when the input may proceed.
// warnInputBytes and warnInputLines are not checked here or anywhere else:
// no warning is emitted for input below the hard limits.
func (d *Driver) sizeGuard(text string) string {
	if len(text) > maxInputBytes {
		return fmt.Sprintf("> [!error] Input too large\n> Input is %d bytes, which exceeds the %d byte limit.\n", len(text), maxInputBytes)
	}
	lineCount := strings.Count(text, "\n") + 1
	if lineCount > maxInputLines {
		return fmt.Sprintf("> [!error] Input too large\n> Input has %d lines, which exceeds the %d line limit.\n", lineCount, maxInputLines)
	}
	return ""
}

func (d *Driver) parseAndRender(text string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = d.catastrophicFallback(text)
		}
	}()

	pre := preprocess.Run(text, d.settings.MaxLines)
	profile, _, _ := detect.Detect(pre)
	msgs := d.buildMessages(pre, profile)
	issues := validate.Check(msgs) // never mutates msgs; surfaced in the debug appendix below

	opts := d.settings.RenderOptions(d.userMap, d.emojiMap)
	markdown := renderProfile(msgs, profile, opts)

	if d.settings.Debug {
		markdown += debugAppendix(pre, msgs, issues)
	}

	return Result{
		Markdown:     markdown,
		Profile:      profile,
		MessageCount: len(msgs),
		Participants: countParticipants(msgs),
		Date:         firstDate(msgs),
	}
}

// buildMessages runs parsing, fallback selection, and repair — the
// normalization shared by parseAndRender and ParseMessages, stopping short
// of rendering.
func (d *Driver) buildMessages(pre string, profile message.Profile) []*message.Message {
	msgs := d.intelligentParse(pre, profile)

	if needsFallback(msgs, pre) {
		msgs = d.flexibleParse(pre, profile)
	}

	msgs = repair.MergeContinuations(msgs)
	msgs = repair.DedupMessages(msgs)
	repair.DedupContentBlocks(msgs)
	return msgs
}

// ParseMessages runs preprocessing, detection, parsing, and repair and
// returns the resulting messages and detected profile directly, for callers
// building supplemental views (message annotation, the thread reply graph)
// rather than rendered Markdown.
func (d *Driver) ParseMessages(text string) ([]*message.Message, message.Profile) {
	pre := preprocess.Run(text, d.settings.MaxLines)
	profile, _, _ := detect.Detect(pre)
	return d.buildMessages(pre, profile), profile
}

func (d *Driver) intelligentParse(text string, profile message.Profile) []*message.Message {
	ctx := message.NewParseContext(profile, d.userMap, d.emojiMap, d.settings.Debug)
	lines := lineclass.Classify(text)
	decisions := boundary.Analyze(lines, profile)
	return builder.Build(lines, decisions, ctx)
}

// flexibleParse is the fallback parser: same {username, text} contract, far
// simpler heuristics. Each blank-line-separated block becomes one message;
// its first line is the username if it looks like a name, else the whole
// block is attributed to Unknown User.
func (d *Driver) flexibleParse(text string, profile message.Profile) []*message.Message {
	var out []*message.Message
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.SplitN(block, "\n", 2)
		first := strings.TrimSpace(lines[0])

		username := message.UnknownUser
		body := block
		if looksLikePlainName(first) && len(lines) > 1 {
			username = first
			body = strings.TrimSpace(lines[1])
		}

		if body == "" {
			continue
		}
		out = append(out, &message.Message{Username: username, Text: body})
	}
	return out
}

func looksLikePlainName(s string) bool {
	if s == "" || len(s) > 60 {
		return false
	}
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 5 {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 || r[0] < 'A' || r[0] > 'Z' {
			return false
		}
	}
	return true
}

// needsFallback implements the fallback-selection heuristics from §4.J.
func needsFallback(msgs []*message.Message, text string) bool {
	if len(msgs) == 0 {
		return true
	}

	shortCount := 0
	for _, m := range msgs {
		if len(strings.TrimSpace(m.Text)) < shortMessageThreshold {
			shortCount++
		}
		if strings.TrimSpace(m.Text) == "" && len(m.Reactions) == 0 {
			return true
		}
		if isMetadataBlacklistedUsername(m.Username) {
			return true
		}
		if len([]rune(m.Username)) <= 2 && m.Username != "" {
			return true
		}
	}
	if float64(shortCount)/float64(len(msgs)) > shortMessageRatio {
		return true
	}

	nonEmptyLines := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			nonEmptyLines++
		}
	}
	if nonEmptyLines > 0 && float64(len(msgs)) > overFragmentationRatio*float64(nonEmptyLines) {
		return true
	}

	return false
}

func isMetadataBlacklistedUsername(username string) bool {
	switch username {
	case "Language", "TypeScript", "Last updated":
		return true
	}
	if username == "" {
		return false
	}
	for _, r := range username {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func renderProfile(msgs []*message.Message, profile message.Profile, opts render.Options) string {
	switch profile {
	case message.ProfileBracket:
		return render.Bracket(msgs, opts)
	case message.ProfileMixed:
		return render.Mixed(msgs, opts)
	default:
		return render.Standard(msgs, opts)
	}
}

// catastrophicFallback implements §4.J / §7's unhandled-error path: a
// warning callout with the first 100 input lines and a summary of detected
// mentions/timestamps. The cache is cleared since its state is no longer
// trustworthy for this input.
func (d *Driver) catastrophicFallback(text string) Result {
	d.cache.Clear()

	lines := strings.Split(text, "\n")
	if len(lines) > catastrophicLines {
		lines = lines[:catastrophicLines]
	}

	mentions := len(message.UserMentionPattern.FindAllString(text, -1))
	timestamps := threadutil.CountTimestamps(text)

	var b strings.Builder
	b.WriteString("> [!warning] Parsing failed — showing raw input\n")
	fmt.Fprintf(&b, "> Detected %d user mentions and %d timestamps.\n", mentions, timestamps)
	b.WriteString(">\n> ```\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "> %s\n", l)
	}
	b.WriteString("> ```\n")

	return Result{Markdown: b.String()}
}

func debugAppendix(text string, msgs []*message.Message, issues []validate.Issue) string {
	claimed := make(map[int]bool)
	for _, m := range msgs {
		for _, idx := range m.LineIndices {
			claimed[idx] = true
		}
	}

	var unparsed []string
	for i, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" || claimed[i] {
			continue
		}
		unparsed = append(unparsed, l)
		if len(unparsed) >= debugUnparsedCap {
			break
		}
	}

	var b strings.Builder
	b.WriteString("\n\n## Debug Information\n\n")
	fmt.Fprintf(&b, "Unparsed lines (showing up to %d):\n\n", debugUnparsedCap)
	for _, l := range unparsed {
		fmt.Fprintf(&b, "- `%s`\n", l)
	}

	b.WriteString("\nValidator issues:\n\n")
	if len(issues) == 0 {
		b.WriteString("- none\n")
	}
	for _, iss := range issues {
		fmt.Fprintf(&b, "- message %d: %s (%s)\n", iss.Index, iss.Kind, iss.Detail)
	}

	return b.String()
}

func countParticipants(msgs []*message.Message) int {
	seen := map[string]bool{}
	for _, m := range msgs {
		if m.Username != "" {
			seen[m.Username] = true
		}
	}
	return len(seen)
}

// firstDate returns the anchored calendar date of the first message (in
// message order) that carries one, or ""
// when none of them carry one (the frontmatter date field is then omitted).
func firstDate(msgs []*message.Message) string {
	for _, m := range msgs {
		if m.Date != nil {
			return fmt.Sprintf("%04d-%02d-%02d", m.Date.Year, m.Date.Month, m.Date.Day)
		}
	}
	return ""
}
