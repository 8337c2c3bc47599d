package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/chat"
)

// AgentErrorText is the transcript entry shown when the agent call fails.
const AgentErrorText = "Error connecting to Agent."

// Log is the append-only transcript of one session.
type Log struct {
	mu       sync.RWMutex
	messages []chat.Message
}

// NewLog returns an empty transcript.
func NewLog() *Log {
	return &Log{messages: make([]chat.Message, 0, 16)}
}

// AddUser records a user turn. An attachment name is shown before the text.
func (l *Log) AddUser(text, attachmentName string) chat.Message {
	if attachmentName != "" {
		text = fmt.Sprintf("[Attached: %s] %s", attachmentName, text)
	}
	return l.add(chat.RoleUser, text)
}

// AddAssistant records an assistant reply verbatim.
func (l *Log) AddAssistant(text string) chat.Message {
	return l.add(chat.RoleAssistant, text)
}

// AddError records a failed agent call.
func (l *Log) AddError(text string) chat.Message {
	return l.add(chat.RoleError, text)
}

func (l *Log) add(role chat.Role, content string) chat.Message {
	msg := chat.Message{Role: role, Content: content, CreatedAt: time.Now().UTC()}

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()
	return msg
}

// Messages returns a copy of the transcript in insertion order.
func (l *Log) Messages() []chat.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]chat.Message, len(l.messages))
	copy(copied, l.messages)
	return copied
}

// Len reports the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Reset clears the transcript when its session ends.
func (l *Log) Reset() {
	l.mu.Lock()
	l.messages = l.messages[:0:0]
	l.mu.Unlock()
}
