package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"leettrack/internal/catalog"
	"leettrack/internal/llm"
)

const (
	// pollInterval is the cadence of the correctness-bearing sync path.
	pollInterval = 3 * time.Second

	// mentorHistoryLimit bounds the rolling history sent with an
	// @mentor trigger.
	mentorHistoryLimit = 10

	// mentorUserID tags AI replies in the remote store.
	mentorUserID   = "ai-mentor"
	mentorUsername = "AI Mentor"
)

var (
	// ErrNotStarted is returned by operations that need a running client.
	ErrNotStarted = errors.New("room: client not started")

	// ErrBlankMessage is returned when a send carries no content.
	ErrBlankMessage = errors.New("room: blank message")
)

// Client synchronizes one room's chat thread. The poll loop is the
// reliable sync channel; the insert subscription is an optimization that
// shortens latency when it happens to work. Safe for concurrent use.
type Client struct {
	store    Store
	provider llm.Provider
	cat      *catalog.Catalog
	self     Identity

	now        func() time.Time
	newLocalID func() MessageID
	interval   time.Duration

	mu        sync.Mutex
	roomID    string
	messages  []Message
	cursor    time.Time
	aiPending bool
	profiles  map[string]Profile

	cancel  context.CancelFunc
	done    chan struct{}
	updates chan struct{}
}

// NewClient builds a client for the given user. provider may be nil when
// no LLM credential is configured; @mentor triggers then report an error
// instead of calling out.
func NewClient(s Store, provider llm.Provider, cat *catalog.Catalog, self Identity) *Client {
	return &Client{
		store:      s,
		provider:   provider,
		cat:        cat,
		self:       self,
		now:        time.Now,
		newLocalID: func() MessageID { return LocalID(uuid.NewString()) },
		interval:   pollInterval,
		profiles:   map[string]Profile{},
		updates:    make(chan struct{}, 1),
	}
}

// SetClock overrides the time source. For tests.
func (c *Client) SetClock(now func() time.Time) { c.now = now }

// SetIDSource overrides local id generation. For tests.
func (c *Client) SetIDSource(newID func() MessageID) { c.newLocalID = newID }

// SetPollInterval overrides the poll cadence. For tests.
func (c *Client) SetPollInterval(d time.Duration) { c.interval = d }

// Start loads the room history and begins the poll loop and the insert
// subscription. It returns after the initial load; sync runs until Stop
// or ctx cancellation.
func (c *Client) Start(ctx context.Context, roomID string) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return errors.New("room: client already started")
	}
	c.roomID = roomID
	c.messages = nil
	c.cursor = time.Time{}
	c.mu.Unlock()

	fail := func(err error) error {
		c.mu.Lock()
		c.roomID = ""
		c.mu.Unlock()
		return fmt.Errorf("load room %s: %w", roomID, err)
	}

	// Prime the cache with our own profile so optimistic entries carry
	// the display name instead of the email. Best-effort.
	c.mu.Lock()
	_, haveSelf := c.profiles[c.self.UserID]
	c.mu.Unlock()
	if !haveSelf && c.self.UserID != "" {
		if found, err := c.store.ProfilesByID(ctx, []string{c.self.UserID}); err == nil {
			c.mu.Lock()
			for id, p := range found {
				c.profiles[id] = p
			}
			c.mu.Unlock()
		}
	}

	rows, err := c.store.ListMessages(ctx, roomID)
	if err != nil {
		return fail(err)
	}
	msgs, err := c.enrich(ctx, rows)
	if err != nil {
		return fail(err)
	}

	c.mu.Lock()
	c.messages = msgs
	if n := len(msgs); n > 0 {
		c.cursor = msgs[n-1].CreatedAt
	}
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()
	c.notify()

	go func() {
		defer close(done)
		c.run(runCtx, roomID)
	}()
	return nil
}

// Stop halts the poll loop and releases the subscription. The message
// cache stays readable after Stop.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.roomID = ""
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Updates signals that the message cache changed. Signals coalesce; read
// Messages after each receive.
func (c *Client) Updates() <-chan struct{} {
	return c.updates
}

// Messages returns a copy of the cache, oldest first.
func (c *Client) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// AIPending reports whether a mentor reply is being generated.
func (c *Client) AIPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiPending
}

func (c *Client) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Client) run(ctx context.Context, roomID string) {
	inserts, stop, err := c.store.SubscribeInserts(ctx, roomID)
	if err != nil {
		inserts = nil // poll-only
	} else {
		defer stop()
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx, roomID)
		case row, ok := <-inserts:
			if !ok {
				inserts = nil
				continue
			}
			if c.knownID(RemoteID(row.ID)) {
				continue
			}
			if msgs, err := c.enrich(ctx, []MessageRow{row}); err == nil {
				c.merge(msgs)
			}
		}
	}
}

func (c *Client) poll(ctx context.Context, roomID string) {
	c.mu.Lock()
	cursor := c.cursor
	c.mu.Unlock()

	rows, err := c.store.MessagesAfter(ctx, roomID, cursor)
	if err != nil || len(rows) == 0 {
		return
	}
	msgs, err := c.enrich(ctx, rows)
	if err != nil {
		return
	}
	c.merge(msgs)
}

func (c *Client) knownID(id MessageID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// merge folds an incoming batch into the cache: drop rows whose id is
// already present, drop anything claiming a local id (remote rows never
// carry one), re-sort the whole list by creation time, and let a
// non-empty fresh batch supersede any leftover optimistic entries.
// Advances the cursor past the newest merged row.
func (c *Client) merge(incoming []Message) {
	c.mu.Lock()

	known := make(map[MessageID]bool, len(c.messages))
	for _, m := range c.messages {
		known[m.ID] = true
	}
	fresh := incoming[:0:0]
	for _, m := range incoming {
		if m.ID.IsLocal() || known[m.ID] {
			continue
		}
		fresh = append(fresh, m)
	}
	if len(fresh) == 0 {
		c.mu.Unlock()
		return
	}

	kept := c.messages[:0:0]
	for _, m := range c.messages {
		if !m.ID.IsLocal() {
			kept = append(kept, m)
		}
	}
	merged := append(kept, fresh...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	c.messages = merged

	for _, m := range fresh {
		if m.CreatedAt.After(c.cursor) {
			c.cursor = m.CreatedAt
		}
	}
	c.mu.Unlock()
	c.notify()
}

// enrich joins rows with sender profiles, caching lookups per client.
func (c *Client) enrich(ctx context.Context, rows []MessageRow) ([]Message, error) {
	c.mu.Lock()
	var missing []string
	seen := map[string]bool{}
	for _, r := range rows {
		if r.IsAI || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		if _, ok := c.profiles[r.UserID]; !ok {
			missing = append(missing, r.UserID)
		}
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		found, err := c.store.ProfilesByID(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("fetch profiles: %w", err)
		}
		c.mu.Lock()
		for id, p := range found {
			c.profiles[id] = p
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]Message, 0, len(rows))
	for _, r := range rows {
		m := Message{
			ID:        RemoteID(r.ID),
			UserID:    r.UserID,
			Content:   r.Content,
			IsAI:      r.IsAI,
			CreatedAt: r.CreatedAt,
		}
		switch {
		case r.IsAI:
			m.Username = mentorUsername
		default:
			if p, ok := c.profiles[r.UserID]; ok {
				m.Username = p.DisplayName
				m.AvatarURL = p.AvatarURL
			} else {
				m.Username = "Anonymous"
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// SendMessage appends the message optimistically, writes it to the store,
// and reconciles: on failure the optimistic entry is removed and the
// error returned; on success it is replaced in place with the stored row.
// A message mentioning @mentor or @ai then triggers an AI reply; a
// failure there is returned but never rolls back the user's own message.
func (c *Client) SendMessage(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrBlankMessage
	}

	c.mu.Lock()
	roomID := c.roomID
	if roomID == "" {
		c.mu.Unlock()
		return ErrNotStarted
	}
	localID := c.newLocalID()
	c.messages = append(c.messages, Message{
		ID:        localID,
		UserID:    c.self.UserID,
		Username:  c.selfNameLocked(),
		AvatarURL: c.selfAvatarLocked(),
		Content:   content,
		CreatedAt: c.now(),
	})
	c.mu.Unlock()
	c.notify()

	row, err := c.store.InsertMessage(ctx, MessageRow{
		RoomID:  roomID,
		UserID:  c.self.UserID,
		Content: content,
	})

	c.mu.Lock()
	idx := c.indexOfLocked(localID)
	if err != nil {
		if idx >= 0 {
			c.messages = append(c.messages[:idx], c.messages[idx+1:]...)
		}
		c.mu.Unlock()
		c.notify()
		return fmt.Errorf("send message: %w", err)
	}
	if idx >= 0 {
		c.messages[idx].ID = RemoteID(row.ID)
		c.messages[idx].CreatedAt = row.CreatedAt
	}
	if row.CreatedAt.After(c.cursor) {
		c.cursor = row.CreatedAt
	}
	c.mu.Unlock()
	c.notify()

	if mentionsMentor(content) {
		return c.askMentor(ctx, roomID, content)
	}
	return nil
}

func (c *Client) selfNameLocked() string {
	if p, ok := c.profiles[c.self.UserID]; ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return c.self.Email
}

func (c *Client) selfAvatarLocked() string {
	if p, ok := c.profiles[c.self.UserID]; ok {
		return p.AvatarURL
	}
	return ""
}

func (c *Client) indexOfLocked(id MessageID) int {
	for i, m := range c.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func mentionsMentor(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "@mentor") || strings.Contains(lower, "@ai")
}

// askMentor generates the AI reply for a mention and writes it to the
// store so every participant receives it. The triggering client also
// appends it locally so it shows before the next poll cycle. Never
// retried.
func (c *Client) askMentor(ctx context.Context, roomID, trigger string) error {
	if c.provider == nil {
		return errors.New("room: no AI provider configured")
	}

	c.mu.Lock()
	c.aiPending = true
	history := c.mentorHistoryLocked(trigger)
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.aiPending = false
		c.mu.Unlock()
		c.notify()
	}()

	resp, err := c.provider.Generate(llm.WithPurpose(ctx, llm.PurposeRoomMentor), llm.Request{
		System:      c.cat.SystemPrompt(),
		Messages:    history,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return fmt.Errorf("mentor reply: %w", err)
	}

	row, err := c.store.InsertMessage(ctx, MessageRow{
		RoomID:  roomID,
		UserID:  mentorUserID,
		Content: resp.Text(),
		IsAI:    true,
	})
	if err != nil {
		return fmt.Errorf("post mentor reply: %w", err)
	}

	c.merge([]Message{{
		ID:        RemoteID(row.ID),
		UserID:    mentorUserID,
		Username:  mentorUsername,
		Content:   row.Content,
		IsAI:      true,
		CreatedAt: row.CreatedAt,
	}})
	return nil
}

// mentorHistoryLocked maps the last acknowledged messages to LLM turns,
// with catalogue context riding on the final user turn.
func (c *Client) mentorHistoryLocked(trigger string) []llm.Message {
	var acked []Message
	for _, m := range c.messages {
		if !m.ID.IsLocal() {
			acked = append(acked, m)
		}
	}
	if len(acked) > mentorHistoryLimit {
		acked = acked[len(acked)-mentorHistoryLimit:]
	}

	history := make([]llm.Message, 0, len(acked))
	for _, m := range acked {
		role := llm.RoleUser
		if m.IsAI {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	if len(history) == 0 || history[len(history)-1].Role != llm.RoleUser {
		history = append(history, llm.Message{Role: llm.RoleUser, Content: trigger})
	}
	if extra := c.cat.RelevantContext(trigger); extra != "" {
		history[len(history)-1].Content += extra
	}
	return history
}
