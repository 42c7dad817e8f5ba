package classify

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

// AnnotatedMessage pairs a message's identity with its enrichment tags, for
// the optional on-disk annotation store written by SaveEnrichment. The
// --annotate flag renders tags into the note and does not write this store.
type AnnotatedMessage struct {
	MessageID     string      `json:"message_id"`
	Username      string      `json:"username"`
	Enrichment    *Enrichment `json:"enrichment"`
	AnnotatedAt   string      `json:"annotated_at"`
	SchemaVersion string      `json:"schema_version"`
}

// MessageID derives a stable identity for a message from its author,
// timestamp, and text, since Message carries no identifier of its own — the
// pipeline's arena is rebuilt fresh on every call.
func MessageID(m *message.Message) string {
	sum := sha256.Sum256([]byte(m.Username + "\x00" + m.Timestamp + "\x00" + m.Text))
	return hex.EncodeToString(sum[:])[:16]
}

// AnnotationsDir returns the root directory for annotations.
func AnnotationsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".slacknotes", "annotations"), nil
}

// MessageAnnotationsDir returns the directory for a specific message's annotations.
func MessageAnnotationsDir(messageID string) (string, error) {
	annotationsDir, err := AnnotationsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(annotationsDir, "messages", messageID), nil
}

// SaveEnrichment persists a message's enrichment tags to disk, writing to a
// temp file and renaming into place so a crash mid-write never leaves a
// half-written annotation behind.
func SaveEnrichment(m *message.Message, e *Enrichment) error {
	id := MessageID(m)

	dir, err := MessageAnnotationsDir(id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create annotations directory: %w", err)
	}

	filePath := filepath.Join(dir, "enrichment.json")

	annotated := AnnotatedMessage{
		MessageID:     id,
		Username:      m.Username,
		Enrichment:    e,
		AnnotatedAt:   time.Now().Format(time.RFC3339),
		SchemaVersion: "1.0",
	}

	data, err := json.MarshalIndent(annotated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment: %w", err)
	}

	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// LoadEnrichment loads a previously saved message's enrichment from disk.
// A missing annotation is not an error: it returns nil, nil.
func LoadEnrichment(messageID string) (*Enrichment, error) {
	dir, err := MessageAnnotationsDir(messageID)
	if err != nil {
		return nil, err
	}

	filePath := filepath.Join(dir, "enrichment.json")

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var annotated AnnotatedMessage
	if err := json.Unmarshal(data, &annotated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enrichment: %w", err)
	}

	return annotated.Enrichment, nil
}
