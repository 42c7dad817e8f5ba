package repair

import (
	"regexp"
	"strings"

	"github.com/solvaholic/slacknotes/internal/message"
)

var fileSizeSuffix = regexp.MustCompile(`\(\d+(\.\d+)?\s*(KB|MB|GB)\)`)

const (
	blockDedupSizeThreshold = 500
	fingerprintTextLen      = 100
	fingerprintTimestampLen = 20
)

// DedupMessages implements the deduplicator's first pass: a fingerprint of
// (username, timestamp prefix, text prefix) identifies messages that are
// exact re-renders of one another (a common artifact of pasting the same
// thread twice). The whole slice is scanned once to check whether any
// fingerprint repeats before doing the work of rebuilding it, so the common
// case of an already-unique transcript costs one pass, not two.
func DedupMessages(msgs []*message.Message) []*message.Message {
	fps := make([]string, len(msgs))
	seen := make(map[string]bool, len(msgs))
	allUnique := true

	for i, m := range msgs {
		fp := fingerprint(m)
		fps[i] = fp
		if seen[fp] {
			allUnique = false
		}
		seen[fp] = true
	}
	if allUnique {
		return msgs
	}

	out := make([]*message.Message, 0, len(msgs))
	kept := make(map[string]bool, len(msgs))
	for i, m := range msgs {
		if kept[fps[i]] {
			continue
		}
		kept[fps[i]] = true
		out = append(out, m)
	}
	return out
}

func fingerprint(m *message.Message) string {
	ts := m.Timestamp
	if len(ts) > fingerprintTimestampLen {
		ts = ts[:fingerprintTimestampLen]
	}
	txt := strings.TrimSpace(m.Text)
	if len(txt) > fingerprintTextLen {
		txt = txt[:fingerprintTextLen]
	}
	return m.Username + "\x00" + ts + "\x00" + txt
}

// hasDedupTrigger reports whether a message's content makes it worth paying
// for block-level dedup: a long message, a known content-preview indicator
// (URL, "Added by", "View thread", a "(n KB|MB|GB)" file-size suffix), or an internally
// duplicated line, any of which signal that a pasted preview card or
// duplicated paragraph may be hiding inside the text.
func hasDedupTrigger(m *message.Message) bool {
	if len(m.Text) > blockDedupSizeThreshold {
		return true
	}
	if strings.Contains(m.Text, "http://") || strings.Contains(m.Text, "https://") {
		return true
	}
	if strings.Contains(m.Text, "Added by ") || strings.Contains(m.Text, "View thread") {
		return true
	}
	if fileSizeSuffix.MatchString(m.Text) {
		return true
	}
	if hasRepeatedLine(m.Text) {
		return true
	}
	return false
}

func hasRepeatedLine(text string) bool {
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if seen[line] {
			return true
		}
		seen[line] = true
	}
	return false
}

// DedupContentBlocks removes duplicated paragraph blocks from within each
// message's text. It only runs the splitting/hashing work on messages that
// trip hasDedupTrigger, since most messages are short enough that a
// duplicated block is structurally impossible.
func DedupContentBlocks(msgs []*message.Message) {
	for _, m := range msgs {
		if !hasDedupTrigger(m) {
			continue
		}
		m.Text = dedupBlocks(m.Text)
	}
}

// dedupBlocks splits text on blank-line boundaries and keeps only the first
// occurrence of each block, where two blocks are considered the same when
// their first three non-empty trimmed lines match.
func dedupBlocks(text string) string {
	blocks := strings.Split(text, "\n\n")
	seen := make(map[string]bool, len(blocks))
	out := make([]string, 0, len(blocks))

	for _, b := range blocks {
		key := blockKey(b)
		if key != "" && seen[key] {
			continue
		}
		if key != "" {
			seen[key] = true
		}
		out = append(out, b)
	}
	return strings.Join(out, "\n\n")
}

func blockKey(block string) string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 3 {
			break
		}
	}
	return strings.Join(lines, "\x00")
}
