// Package mentor manages multi-session AI mentor conversations: session
// bookkeeping, optimistic message delivery with rollback, and persistence
// through the slot store.
package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leettrack/internal/catalog"
	"leettrack/internal/llm"
	"leettrack/internal/store"
)

// ErrBusy is returned by SendMessage while a previous send is still in
// flight. Callers surface it as a "please wait" notice rather than
// queueing.
var ErrBusy = errors.New("mentor: reply in progress")

// ErrNoSession is returned when an operation names a session id that
// does not exist.
var ErrNoSession = errors.New("mentor: no such session")

// ErrBlankMessage is returned when a send carries no content.
var ErrBlankMessage = errors.New("mentor: blank message")

// titleLimit is the max title length derived from a first message.
const titleLimit = 30

// ChatMessage is one turn in a mentor conversation.
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      llm.Role `json:"role"`
	Content   string   `json:"content"`
	CreatedAt int64    `json:"createdAt"` // unix milliseconds
}

// Session is one mentor conversation thread.
type Session struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt int64         `json:"createdAt"` // unix milliseconds
	Messages  []ChatMessage `json:"messages"`
}

// history is the persisted document in the chat_history slot.
type history struct {
	Sessions []Session `json:"sessions"` // most recent first
	ActiveID string    `json:"activeId"`
}

// Manager owns all mentor sessions. Safe for concurrent use; at most one
// LLM reply is in flight at a time.
type Manager struct {
	slots    store.Slots
	provider llm.Provider
	cat      *catalog.Catalog

	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	h       history
	pending bool
}

// NewManager loads persisted sessions from the slot store, starting a
// fresh session when none exist. A corrupt slot is discarded silently.
func NewManager(slots store.Slots, provider llm.Provider, cat *catalog.Catalog) *Manager {
	m := &Manager{
		slots:    slots,
		provider: provider,
		cat:      cat,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}

	if raw, ok, err := slots.Get(store.SlotChatHistory); err == nil && ok {
		var h history
		if err := json.Unmarshal(raw, &h); err == nil {
			m.h = h
		}
	}

	if len(m.h.Sessions) == 0 {
		m.h = history{}
		s := m.freshSession()
		m.h.Sessions = []Session{s}
		m.h.ActiveID = s.ID
	}
	if !m.hasSession(m.h.ActiveID) {
		m.h.ActiveID = m.h.Sessions[0].ID
	}
	return m
}

// SetClock overrides the time source. For tests.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// SetIDSource overrides message id generation. For tests.
func (m *Manager) SetIDSource(newID func() string) { m.newID = newID }

func (m *Manager) freshSession() Session {
	now := m.now()
	return Session{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Title:     "New Chat",
		CreatedAt: now.UnixMilli(),
	}
}

func (m *Manager) hasSession(id string) bool {
	for _, s := range m.h.Sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) sessionIndex(id string) int {
	for i, s := range m.h.Sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Sessions returns copies of all sessions, most recent first.
func (m *Manager) Sessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, len(m.h.Sessions))
	for i, s := range m.h.Sessions {
		out[i] = copySession(s)
	}
	return out
}

// ActiveID returns the id of the active session.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.h.ActiveID
}

// ActiveMessages returns a copy of the active session's messages.
func (m *Manager) ActiveMessages() []ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.sessionIndex(m.h.ActiveID)
	if i < 0 {
		return nil
	}
	msgs := make([]ChatMessage, len(m.h.Sessions[i].Messages))
	copy(msgs, m.h.Sessions[i].Messages)
	return msgs
}

func copySession(s Session) Session {
	cp := s
	cp.Messages = make([]ChatMessage, len(s.Messages))
	copy(cp.Messages, s.Messages)
	return cp
}

// CreateSession starts a new empty session, makes it active, and returns
// a copy of it.
func (m *Manager) CreateSession() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.freshSession()
	m.h.Sessions = append([]Session{s}, m.h.Sessions...)
	m.h.ActiveID = s.ID
	if err := m.persistLocked(); err != nil {
		return Session{}, err
	}
	return copySession(s), nil
}

// SetActive switches the active session.
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasSession(id) {
		return ErrNoSession
	}
	m.h.ActiveID = id
	return m.persistLocked()
}

// DeleteSession removes a session. Deleting the last session immediately
// replaces it with a fresh one, so there is always an active session.
func (m *Manager) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.sessionIndex(id)
	if i < 0 {
		return ErrNoSession
	}
	m.h.Sessions = append(m.h.Sessions[:i], m.h.Sessions[i+1:]...)

	if len(m.h.Sessions) == 0 {
		s := m.freshSession()
		m.h.Sessions = []Session{s}
		m.h.ActiveID = s.ID
	} else if m.h.ActiveID == id {
		m.h.ActiveID = m.h.Sessions[0].ID
	}
	return m.persistLocked()
}

// ClearHistory empties the active session's message log. Other sessions
// and the session's title are untouched.
func (m *Manager) ClearHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.sessionIndex(m.h.ActiveID)
	if i < 0 {
		return ErrNoSession
	}
	m.h.Sessions[i].Messages = nil
	return m.persistLocked()
}

// SendMessage appends the user turn to the active session, asks the
// provider for a reply with the full session history, and appends the
// reply. On provider failure the user turn is rolled back and the error
// returned. Only one send may be in flight; concurrent calls get ErrBusy.
// Blank or whitespace-only input gets ErrBlankMessage.
func (m *Manager) SendMessage(ctx context.Context, content string) (ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return ChatMessage{}, ErrBlankMessage
	}
	if m.provider == nil {
		return ChatMessage{}, errors.New("mentor: no AI provider configured")
	}

	m.mu.Lock()
	if m.pending {
		m.mu.Unlock()
		return ChatMessage{}, ErrBusy
	}
	i := m.sessionIndex(m.h.ActiveID)
	if i < 0 {
		m.mu.Unlock()
		return ChatMessage{}, ErrNoSession
	}

	userMsg := ChatMessage{
		ID:        m.newID(),
		Role:      llm.RoleUser,
		Content:   content,
		CreatedAt: m.now().UnixMilli(),
	}
	sess := &m.h.Sessions[i]
	if len(sess.Messages) == 0 && sess.Title == "New Chat" {
		sess.Title = deriveTitle(content)
	}
	sess.Messages = append(sess.Messages, userMsg)
	if err := m.persistLocked(); err != nil {
		sess.Messages = sess.Messages[:len(sess.Messages)-1]
		m.mu.Unlock()
		return ChatMessage{}, err
	}

	req := m.buildRequestLocked(i, content)
	m.pending = true
	m.mu.Unlock()

	resp, err := m.provider.Generate(llm.WithPurpose(ctx, llm.PurposeMentorChat), req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = false

	i = m.sessionIndex(m.h.ActiveID)
	if err != nil {
		// Roll back exactly the message we appended.
		if i >= 0 {
			m.h.Sessions[i].Messages = removeMessage(m.h.Sessions[i].Messages, userMsg.ID)
			_ = m.persistLocked()
		}
		return ChatMessage{}, fmt.Errorf("mentor reply: %w", err)
	}
	if i < 0 {
		return ChatMessage{}, ErrNoSession
	}

	reply := ChatMessage{
		ID:        m.newID(),
		Role:      llm.RoleAssistant,
		Content:   resp.Text(),
		CreatedAt: m.now().UnixMilli(),
	}
	m.h.Sessions[i].Messages = append(m.h.Sessions[i].Messages, reply)
	if err := m.persistLocked(); err != nil {
		return ChatMessage{}, err
	}
	return reply, nil
}

// Pending reports whether an LLM reply is currently in flight.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// buildRequestLocked assembles the provider request from the session
// history. Catalogue context relevant to the latest user message is sent
// to the model but never stored in the session.
func (m *Manager) buildRequestLocked(i int, latest string) llm.Request {
	sess := m.h.Sessions[i]
	msgs := make([]llm.Message, 0, len(sess.Messages))
	for _, cm := range sess.Messages {
		msgs = append(msgs, llm.Message{Role: cm.Role, Content: cm.Content})
	}
	if extra := m.cat.RelevantContext(latest); extra != "" && len(msgs) > 0 {
		msgs[len(msgs)-1].Content += extra
	}
	return llm.Request{
		System:      m.cat.SystemPrompt(),
		Messages:    msgs,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: 0.7,
	}
}

func removeMessage(msgs []ChatMessage, id string) []ChatMessage {
	for i, msg := range msgs {
		if msg.ID == id {
			return append(msgs[:i], msgs[i+1:]...)
		}
	}
	return msgs
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

func (m *Manager) persistLocked() error {
	raw, err := json.Marshal(m.h)
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}
	if err := m.slots.Put(store.SlotChatHistory, raw); err != nil {
		return fmt.Errorf("persist chat history: %w", err)
	}
	return nil
}
