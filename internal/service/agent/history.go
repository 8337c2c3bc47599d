package agent

import "sync"

const defaultHistoryLimit = 20

// Turn is one remembered exchange entry replayed to the model.
type Turn struct {
	FromUser bool
	Text     string
}

// history keeps what the remote agent would remember per session. Attachment
// bytes are never retained.
type history struct {
	mu    sync.Mutex
	limit int
	turns map[string][]Turn
}

func newHistory(limit int) *history {
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	return &history{limit: limit, turns: make(map[string][]Turn)}
}

// recent returns a copy of at most limit trailing turns.
func (h *history) recent(sessionID string) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := h.turns[sessionID]
	start := 0
	if len(turns) > h.limit {
		start = len(turns) - h.limit
	}
	return append([]Turn(nil), turns[start:]...)
}

func (h *history) record(sessionID, prompt, reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns[sessionID] = append(h.turns[sessionID],
		Turn{FromUser: true, Text: prompt},
		Turn{FromUser: false, Text: reply},
	)
}

func (h *history) forget(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.turns, sessionID)
}
