// Package graph builds and persists the thread reply graph: a supplemental
// structure, derived from a built message list's thread markers, that lets
// callers walk a thread's replies without re-parsing the rendered output.
package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/solvaholic/slacknotes/internal/message"
)

// MessageNode is one node in the reply graph.
type MessageNode struct {
	MessageID    string    `json:"message_id"`
	ParentID     string    `json:"parent_id"`
	IsThreadRoot bool      `json:"is_thread_root"`
	Author       string    `json:"author"`
	Timestamp    string    `json:"timestamp"`
	ThreadInfo   string    `json:"thread_info"`
	BuiltAt      time.Time `json:"-"`
}

// ReplyGraph is the message reply structure for one parsed conversation.
type ReplyGraph struct {
	Nodes       map[string]*MessageNode `json:"nodes"`
	Adjacency   map[string][]string     `json:"adjacency"`
	ThreadRoots []string                `json:"thread_roots"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewReplyGraph creates a new empty reply graph.
func NewReplyGraph() *ReplyGraph {
	return &ReplyGraph{
		Nodes:       make(map[string]*MessageNode),
		Adjacency:   make(map[string][]string),
		ThreadRoots: []string{},
		UpdatedAt:   time.Now(),
	}
}

// nodeID derives a stable identity for a message from its author, timestamp,
// and text, since a rendered Message carries no identifier of its own.
func nodeID(m *message.Message) string {
	sum := sha256.Sum256([]byte(m.Username + "\x00" + m.Timestamp + "\x00" + m.Text))
	return hex.EncodeToString(sum[:])[:16]
}

// BuildFromMessages builds a reply graph from a built message list. A
// message with IsThreadStart opens a new thread root; any later message
// with IsThreadReply attaches as a child of the most recently opened root,
// until the next root appears.
func BuildFromMessages(msgs []*message.Message) *ReplyGraph {
	g := NewReplyGraph()
	lastRootID := ""

	for _, m := range msgs {
		id := nodeID(m)
		node := &MessageNode{
			MessageID:    id,
			Author:       m.Username,
			Timestamp:    m.Timestamp,
			IsThreadRoot: m.IsThreadStart,
			ThreadInfo:   m.ThreadInfo,
		}
		g.Nodes[id] = node

		switch {
		case m.IsThreadStart:
			g.ThreadRoots = append(g.ThreadRoots, id)
			lastRootID = id
		case m.IsThreadReply && lastRootID != "":
			node.ParentID = lastRootID
			g.Adjacency[lastRootID] = append(g.Adjacency[lastRootID], id)
		}
	}

	g.UpdatedAt = time.Now()
	return g
}

// GetChildren returns the direct children of a message.
func (g *ReplyGraph) GetChildren(messageID string) []string {
	return g.Adjacency[messageID]
}

// GetThread returns all messages in a thread, starting from the root.
func (g *ReplyGraph) GetThread(rootID string) []*MessageNode {
	result := []*MessageNode{}

	root, exists := g.Nodes[rootID]
	if !exists {
		return result
	}

	result = append(result, root)
	g.collectThreadMessages(rootID, &result)

	return result
}

func (g *ReplyGraph) collectThreadMessages(messageID string, result *[]*MessageNode) {
	for _, childID := range g.GetChildren(messageID) {
		if node, exists := g.Nodes[childID]; exists {
			*result = append(*result, node)
			g.collectThreadMessages(childID, result)
		}
	}
}

// GetThreadDepth returns the maximum depth of a thread.
func (g *ReplyGraph) GetThreadDepth(rootID string) int {
	if _, exists := g.Nodes[rootID]; !exists {
		return 0
	}
	return g.calculateDepth(rootID, 0)
}

func (g *ReplyGraph) calculateDepth(messageID string, currentDepth int) int {
	children := g.GetChildren(messageID)
	if len(children) == 0 {
		return currentDepth
	}

	maxDepth := currentDepth
	for _, childID := range children {
		depth := g.calculateDepth(childID, currentDepth+1)
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	return maxDepth
}

// Stats returns summary statistics about the graph.
func (g *ReplyGraph) Stats() map[string]interface{} {
	threadCount := len(g.ThreadRoots)
	totalMessages := len(g.Nodes)
	replyMessages := totalMessages - threadCount

	totalDepth := 0
	for _, rootID := range g.ThreadRoots {
		totalDepth += g.GetThreadDepth(rootID)
	}
	avgDepth := 0.0
	if threadCount > 0 {
		avgDepth = float64(totalDepth) / float64(threadCount)
	}

	messagesWithReplies := 0
	for _, children := range g.Adjacency {
		if len(children) > 0 {
			messagesWithReplies++
		}
	}

	return map[string]interface{}{
		"total_messages":        totalMessages,
		"thread_count":          threadCount,
		"reply_messages":        replyMessages,
		"messages_with_replies": messagesWithReplies,
		"average_thread_depth":  avgDepth,
		"updated_at":            g.UpdatedAt.Format(time.RFC3339),
	}
}

// GraphDir returns the root directory for persisted graph snapshots.
func GraphDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".slacknotes", "graph"), nil
}

// SaveReplyGraph saves the reply graph to disk as a set of JSON files,
// written atomically via a temp-file-then-rename.
func SaveReplyGraph(g *ReplyGraph, name string) error {
	dir, err := snapshotDir(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := saveGraphFile(dir, "adjacency.json", g.Adjacency); err != nil {
		return fmt.Errorf("failed to save adjacency list: %w", err)
	}
	if err := saveGraphFile(dir, "nodes.json", g.Nodes); err != nil {
		return fmt.Errorf("failed to save nodes: %w", err)
	}
	if err := saveGraphFile(dir, "thread_roots.json", g.ThreadRoots); err != nil {
		return fmt.Errorf("failed to save thread roots: %w", err)
	}

	metadata := map[string]interface{}{
		"updated_at": g.UpdatedAt.Format(time.RFC3339),
		"stats":      g.Stats(),
	}
	if err := saveGraphFile(dir, "metadata.json", metadata); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	return nil
}

func snapshotDir(name string) (string, error) {
	graphDir, err := GraphDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(graphDir, name), nil
}

func saveGraphFile(dir, filename string, data interface{}) error {
	filePath := filepath.Join(dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// LoadReplyGraph loads a named reply graph snapshot from disk.
func LoadReplyGraph(name string) (*ReplyGraph, error) {
	dir, err := snapshotDir(name)
	if err != nil {
		return nil, err
	}

	g := NewReplyGraph()

	if err := loadGraphFile(filepath.Join(dir, "nodes.json"), &g.Nodes); err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	if err := loadGraphFile(filepath.Join(dir, "adjacency.json"), &g.Adjacency); err != nil {
		return nil, fmt.Errorf("failed to load adjacency list: %w", err)
	}
	if err := loadGraphFile(filepath.Join(dir, "thread_roots.json"), &g.ThreadRoots); err != nil {
		return nil, fmt.Errorf("failed to load thread roots: %w", err)
	}

	var metadata map[string]interface{}
	if err := loadGraphFile(filepath.Join(dir, "metadata.json"), &metadata); err == nil {
		if updatedAtStr, ok := metadata["updated_at"].(string); ok {
			if t, err := time.Parse(time.RFC3339, updatedAtStr); err == nil {
				g.UpdatedAt = t
			}
		}
	}

	return g, nil
}

func loadGraphFile(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("graph file not found: %s", filePath)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}
