// Package convo provides the conversation aggregate consumed by the
// timeline scheduler.
package convo

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Message represents one turn in a conversation. A turn is a single user or
// assistant message; message index is the unit of scheduling progress.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Conversation is the message list the scheduler reads. The scheduler never
// owns message content; it only reads ranges of it.
type Conversation struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Messages []Message `json:"messages"`
}

// New creates an empty conversation.
func New(id, userID string) *Conversation {
	return &Conversation{
		ID:       id,
		UserID:   userID,
		Messages: []Message{},
	}
}

// Append adds a message and returns its index.
func (c *Conversation) Append(role, content string) int {
	c.Messages = append(c.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return len(c.Messages) - 1
}

// Range returns a copy of messages in the inclusive index range
// [start, end]. Panics if the range is out of bounds or inverted; the
// caller supplies indices it derived from this conversation, so a bad
// range is a caller bug.
func (c *Conversation) Range(start, end int) []Message {
	if start < 0 || end < start || end >= len(c.Messages) {
		panic(fmt.Sprintf("convo: invalid message range [%d,%d] with %d messages", start, end, len(c.Messages)))
	}
	out := make([]Message, end-start+1)
	copy(out, c.Messages[start:end+1])
	return out
}

// LoadTranscript reads a JSONL transcript file, one Message per line.
// Lines that fail to decode are skipped.
func LoadTranscript(path, convID, userID string) (*Conversation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	conv := New(convID, userID)
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			break
		}
		if msg.Content == "" {
			continue
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, nil
}
