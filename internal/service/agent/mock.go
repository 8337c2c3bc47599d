package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zhouzirui/culinary-craft/backend/internal/analysis/protocol"
)

// MockGateway answers without any model, for local runs without credentials.
type MockGateway struct {
	mu      sync.Mutex
	history *history
	ideas   map[string]string
}

// NewMockGateway returns an offline gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		history: newHistory(defaultHistoryLimit),
		ideas:   make(map[string]string),
	}
}

// Invoke returns a canned reply; the save instruction gets a protocol reply
// built from the last idea the user described.
func (m *MockGateway) Invoke(_ context.Context, sessionID, text string, file *Attachment) (string, error) {
	text, err := ResolvePrompt(text, file)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var reply string
	if strings.Contains(text, protocol.SaveInstruction) {
		idea := m.ideas[sessionID]
		if idea == "" {
			idea = "House Special"
		}
		reply = fmt.Sprintf("TITLE: %s\nINGREDIENTS: - whatever you have on hand\nINSTRUCTIONS: 1. Cook it with love. | %s | Happy cooking!", idea, "🥘")
	} else {
		m.ideas[sessionID] = strings.ReplaceAll(firstLine(text, 60), protocol.Separator, "/")
		reply = fmt.Sprintf("That sounds delicious! You said %q. What would you like to change or add?", firstLine(text, 120))
	}

	m.history.record(sessionID, text, reply)
	return reply, nil
}

// Forget drops the remembered turns of a session.
func (m *MockGateway) Forget(sessionID string) {
	m.mu.Lock()
	delete(m.ideas, sessionID)
	m.mu.Unlock()
	m.history.forget(sessionID)
}

func firstLine(text string, limit int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if runes := []rune(line); len(runes) > limit {
		return string(runes[:limit])
	}
	return line
}
