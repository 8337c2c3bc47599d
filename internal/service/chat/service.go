package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/culinary-craft/backend/internal/analysis/protocol"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/agent"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/review"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRequestInFlight = errors.New("an agent request is already in flight for this session")
)

const sessionIDPrefix = "session-"

// Snapshot is everything a client needs to render a conversation.
type Snapshot struct {
	Session        chat.Session   `json:"session"`
	Messages       []chat.Message `json:"messages"`
	Thinking       bool           `json:"thinking"`
	ActiveRecipeID string         `json:"activeRecipeId,omitempty"`
	Review         review.View    `json:"review"`
}

// SaveResult is the outcome of a save request: either a review was opened or
// a message was appended to the transcript.
type SaveResult struct {
	Review  *review.View  `json:"review,omitempty"`
	Message *chat.Message `json:"message,omitempty"`
}

type sessionState struct {
	session chat.Session
	log     *Log
	review  *review.Controller

	mu       sync.Mutex
	pending  *pendingContext
	activeID string
	thinking bool
}

// Service owns every open conversation: its transcript, its recipe context
// and its review controller.
type Service struct {
	gateway   agent.Gateway
	committer review.Committer

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// NewService wires the conversation pipeline to an agent gateway and the
// catalog used for commits.
func NewService(gateway agent.Gateway, committer review.Committer) *Service {
	return &Service{
		gateway:   gateway,
		committer: committer,
		sessions:  make(map[string]*sessionState),
	}
}

// StartSession opens a conversation. With a handoff the recipe is shown by
// the agent and remembered for the first user turn; without one the session
// starts with the greeting.
func (s *Service) StartSession(ctx context.Context, handoff *chat.Handoff) (chat.Session, error) {
	st := &sessionState{
		log:    NewLog(),
		review: review.NewController(s.committer),
	}

	s.mu.Lock()
	id := sessionIDPrefix + uuid.NewString()
	for s.sessions[id] != nil {
		id = sessionIDPrefix + uuid.NewString()
	}
	st.session = chat.Session{ID: id, CreatedAt: time.Now().UTC()}
	s.sessions[id] = st
	s.mu.Unlock()

	if handoff == nil {
		st.log.AddAssistant(Greeting)
		log.Printf("[chat] session started: %s", id)
		return st.session, nil
	}

	st.mu.Lock()
	st.pending = &pendingContext{record: handoff.Recipe}
	if handoff.SaveMode == recipe.SaveModeUpdate {
		st.activeID = handoff.Recipe.ID
	}
	st.thinking = true
	st.mu.Unlock()

	reply, err := s.gateway.Invoke(ctx, id, introPrompt(*handoff), nil)
	s.release(id, st)

	if err != nil {
		log.Printf("[chat] failed to present recipe=%s in session=%s: %v", handoff.Recipe.ID, id, err)
		st.log.AddAssistant(introFallback(handoff.Recipe.Title))
	} else {
		st.log.AddAssistant(reply)
	}

	log.Printf("[chat] session started: %s, recipe=%s, mode=%s", id, handoff.Recipe.ID, handoff.SaveMode)
	return st.session, nil
}

// EndSession discards the conversation. The agent forgets it too.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	st.log.Reset()
	st.review.Cancel()
	s.gateway.Forget(sessionID)
	log.Printf("[chat] session ended: %s", sessionID)
	return nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return st.session, nil
}

// LoadTranscript returns the messages of a session in insertion order.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return nil, err
	}
	return st.log.Messages(), nil
}

// Snapshot returns the full render state of a session.
func (s *Service) Snapshot(_ context.Context, sessionID string) (Snapshot, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	st.mu.Lock()
	thinking, activeID := st.thinking, st.activeID
	st.mu.Unlock()

	return Snapshot{
		Session:        st.session,
		Messages:       st.log.Messages(),
		Thinking:       thinking,
		ActiveRecipeID: activeID,
		Review:         st.review.View(),
	}, nil
}

// SendMessage records a user turn, forwards it to the agent and records the
// reply. An agent failure is recorded as an error entry and returned as that
// entry, not as an error.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string, file *agent.Attachment) (chat.Message, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return chat.Message{}, err
	}

	prompt, err := agent.ResolvePrompt(text, file)
	if err != nil {
		return chat.Message{}, err
	}

	if err := st.begin(); err != nil {
		return chat.Message{}, err
	}
	defer s.release(sessionID, st)

	attachmentName := ""
	if file != nil {
		attachmentName = file.Name
	}
	st.log.AddUser(text, attachmentName)

	st.mu.Lock()
	prompt = st.pending.wrap(prompt)
	st.mu.Unlock()

	reply, err := s.gateway.Invoke(ctx, sessionID, prompt, file)
	if err != nil {
		log.Printf("[chat] agent call failed for session=%s: %v", sessionID, err)
		return st.log.AddError(AgentErrorText), nil
	}
	return st.log.AddAssistant(reply), nil
}

// RequestSave asks the agent for the final recipe. A reply that follows the
// save protocol opens a review; any other reply is appended as a message.
func (s *Service) RequestSave(ctx context.Context, sessionID string) (SaveResult, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return SaveResult{}, err
	}

	if err := st.begin(); err != nil {
		return SaveResult{}, err
	}
	defer s.release(sessionID, st)

	reply, err := s.gateway.Invoke(ctx, sessionID, protocol.SaveInstruction, nil)
	if err != nil {
		log.Printf("[chat] save request failed for session=%s: %v", sessionID, err)
		msg := st.log.AddError(AgentErrorText)
		return SaveResult{Message: &msg}, nil
	}

	ext, err := protocol.Parse(reply)
	if err != nil {
		log.Printf("[chat] save reply for session=%s not parsed: %v", sessionID, err)
		msg := st.log.AddAssistant(reply)
		return SaveResult{Message: &msg}, nil
	}

	st.mu.Lock()
	activeID := st.activeID
	st.mu.Unlock()

	view := st.review.BeginFromExtraction(ext.Draft(activeID), activeID, ext.Remarks)
	log.Printf("[chat] review opened for session=%s, title=%q", sessionID, ext.Title)
	return SaveResult{Review: &view}, nil
}

// EditDraft applies p to the draft under review.
func (s *Service) EditDraft(_ context.Context, sessionID string, p review.Patch) (review.View, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return review.View{}, err
	}
	return st.review.Edit(p)
}

// SetDraftMode switches the review presentation.
func (s *Service) SetDraftMode(_ context.Context, sessionID string, mode review.Mode) (review.View, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return review.View{}, err
	}
	return st.review.SetMode(mode)
}

// ToggleDraftMode flips the review presentation.
func (s *Service) ToggleDraftMode(_ context.Context, sessionID string) (review.View, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return review.View{}, err
	}
	return st.review.ToggleMode()
}

// CommitDraft writes the draft under review to the catalog. After a
// successful commit the session no longer has a record to replace.
func (s *Service) CommitDraft(ctx context.Context, sessionID string) (recipe.Record, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return recipe.Record{}, err
	}

	record, err := st.review.Commit(ctx)
	if err != nil {
		return recipe.Record{}, fmt.Errorf("commit draft for session %s: %w", sessionID, err)
	}

	st.mu.Lock()
	st.activeID = ""
	st.mu.Unlock()
	return record, nil
}

// CancelDraft discards the draft; the conversation continues.
func (s *Service) CancelDraft(_ context.Context, sessionID string) (review.View, error) {
	st, err := s.state(sessionID)
	if err != nil {
		return review.View{}, err
	}
	return st.review.Cancel(), nil
}

func (s *Service) state(sessionID string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

// release frees the agent slot. A session ended while the call was in flight
// has its agent memory dropped again, since the call recorded a turn after
// EndSession forgot it.
func (s *Service) release(sessionID string, st *sessionState) {
	st.end()

	s.mu.RLock()
	live := s.sessions[sessionID] == st
	s.mu.RUnlock()

	if !live {
		s.gateway.Forget(sessionID)
	}
}

// begin claims the session's single agent slot.
func (st *sessionState) begin() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.thinking {
		return ErrRequestInFlight
	}
	st.thinking = true
	return nil
}

func (st *sessionState) end() {
	st.mu.Lock()
	st.thinking = false
	st.mu.Unlock()
}
