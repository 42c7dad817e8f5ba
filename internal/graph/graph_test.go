package graph

import (
	"testing"

	"github.com/solvaholic/slacknotes/internal/message"
)

func TestBuildFromMessagesTracksThreadRoot(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "kicking off a thread", IsThreadStart: true},
	}

	g := BuildFromMessages(msgs)

	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	if len(g.ThreadRoots) != 1 {
		t.Fatalf("expected 1 thread root, got %d", len(g.ThreadRoots))
	}
}

func TestBuildFromMessagesAttachesRepliesToLastRoot(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "root message", IsThreadStart: true},
		{Username: "John Doe", Timestamp: "2:05 PM", Text: "first reply", IsThreadReply: true},
		{Username: "Ann Lee", Timestamp: "2:06 PM", Text: "second reply", IsThreadReply: true},
	}

	g := BuildFromMessages(msgs)
	rootID := g.ThreadRoots[0]

	children := g.GetChildren(rootID)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
}

func TestGetThreadReturnsRootThenDescendants(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "root message", IsThreadStart: true},
		{Username: "John Doe", Timestamp: "2:05 PM", Text: "a reply", IsThreadReply: true},
	}

	g := BuildFromMessages(msgs)
	rootID := g.ThreadRoots[0]

	thread := g.GetThread(rootID)
	if len(thread) != 2 {
		t.Fatalf("expected 2 messages in thread, got %d", len(thread))
	}
	if thread[0].MessageID != rootID {
		t.Fatalf("expected root message first")
	}
}

func TestStatsCountsThreadsAndReplies(t *testing.T) {
	msgs := []*message.Message{
		{Username: "Jane Smith", Timestamp: "2:00 PM", Text: "root one", IsThreadStart: true},
		{Username: "John Doe", Timestamp: "2:05 PM", Text: "reply", IsThreadReply: true},
		{Username: "Ann Lee", Timestamp: "2:10 PM", Text: "root two", IsThreadStart: true},
	}

	g := BuildFromMessages(msgs)
	stats := g.Stats()

	if stats["total_messages"] != 3 {
		t.Fatalf("expected 3 total messages, got %v", stats["total_messages"])
	}
	if stats["thread_count"] != 2 {
		t.Fatalf("expected 2 threads, got %v", stats["thread_count"])
	}
	if stats["reply_messages"] != 1 {
		t.Fatalf("expected 1 reply message, got %v", stats["reply_messages"])
	}
}
