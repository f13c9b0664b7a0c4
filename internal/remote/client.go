// Package remote implements the collaboration backend over a
// PostgREST-style HTTP API plus a phoenix-protocol websocket for insert
// notifications. It satisfies room.Store.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leettrack/internal/progress"
	"leettrack/internal/room"
)

// Config locates and authenticates against the remote store.
type Config struct {
	// BaseURL is the project root, e.g. https://xyz.example.co.
	BaseURL string

	// APIKey is sent as both the apikey header and the bearer token.
	APIKey string

	// Timeout bounds each REST call.
	Timeout time.Duration
}

// Enabled reports whether remote collaboration is configured.
func (c Config) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// Client talks to the remote store. Implements room.Store.
type Client struct {
	rest     string
	realtime string
	apiKey   string
	http     *http.Client
}

// New builds a Client from config.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		rest:     base + "/rest/v1",
		realtime: realtimeURL(base),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
	}
}

func realtimeURL(base string) string {
	ws := strings.Replace(base, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return ws + "/realtime/v1/websocket"
}

func (c *Client) ListMessages(ctx context.Context, roomID string) ([]room.MessageRow, error) {
	q := url.Values{}
	q.Set("room_id", "eq."+roomID)
	q.Set("order", "created_at.asc")
	var rows []room.MessageRow
	if err := c.get(ctx, "/room_messages", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) MessagesAfter(ctx context.Context, roomID string, after time.Time) ([]room.MessageRow, error) {
	q := url.Values{}
	q.Set("room_id", "eq."+roomID)
	q.Set("created_at", "gt."+after.UTC().Format(time.RFC3339Nano))
	q.Set("order", "created_at.asc")
	var rows []room.MessageRow
	if err := c.get(ctx, "/room_messages", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) InsertMessage(ctx context.Context, msg room.MessageRow) (room.MessageRow, error) {
	body := map[string]any{
		"room_id": msg.RoomID,
		"user_id": msg.UserID,
		"content": msg.Content,
		"is_ai":   msg.IsAI,
	}
	var rows []room.MessageRow
	if err := c.post(ctx, "/room_messages", nil, body, &rows); err != nil {
		return room.MessageRow{}, err
	}
	if len(rows) == 0 {
		return room.MessageRow{}, fmt.Errorf("insert message: empty representation")
	}
	return rows[0], nil
}

func (c *Client) ProfilesByID(ctx context.Context, userIDs []string) (map[string]room.Profile, error) {
	if len(userIDs) == 0 {
		return map[string]room.Profile{}, nil
	}
	q := url.Values{}
	q.Set("id", "in.("+strings.Join(userIDs, ",")+")")
	var rows []room.Profile
	if err := c.get(ctx, "/profiles", q, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]room.Profile, len(rows))
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}

func (c *Client) Room(ctx context.Context, roomID string) (room.Room, error) {
	q := url.Values{}
	q.Set("id", "eq."+roomID)
	var rows []room.Room
	if err := c.get(ctx, "/study_rooms", q, &rows); err != nil {
		return room.Room{}, err
	}
	if len(rows) == 0 {
		return room.Room{}, fmt.Errorf("room %s not found", roomID)
	}
	return rows[0], nil
}

func (c *Client) ListRooms(ctx context.Context, userID string) ([]room.Room, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("select", "room_id")
	var memberships []struct {
		RoomID string `json:"room_id"`
	}
	if err := c.get(ctx, "/room_participants", q, &memberships); err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	ids := make([]string, len(memberships))
	for i, m := range memberships {
		ids[i] = m.RoomID
	}
	q = url.Values{}
	q.Set("id", "in.("+strings.Join(ids, ",")+")")
	q.Set("order", "created_at.asc")
	var rooms []room.Room
	if err := c.get(ctx, "/study_rooms", q, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) CreateRoom(ctx context.Context, name, creatorID string) (room.Room, error) {
	body := map[string]any{"name": name, "created_by": creatorID}
	var rows []room.Room
	if err := c.post(ctx, "/study_rooms", nil, body, &rows); err != nil {
		return room.Room{}, err
	}
	if len(rows) == 0 {
		return room.Room{}, fmt.Errorf("create room: empty representation")
	}
	return rows[0], nil
}

func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	q := url.Values{}
	q.Set("id", "eq."+roomID)
	return c.delete(ctx, "/study_rooms", q)
}

func (c *Client) JoinRoom(ctx context.Context, roomID, userID string) error {
	body := map[string]any{"room_id": roomID, "user_id": userID}
	return c.post(ctx, "/room_participants", nil, body, nil)
}

func (c *Client) Participants(ctx context.Context, roomID string) ([]string, error) {
	q := url.Values{}
	q.Set("room_id", "eq."+roomID)
	q.Set("select", "user_id")
	var rows []struct {
		UserID string `json:"user_id"`
	}
	if err := c.get(ctx, "/room_participants", q, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.UserID
	}
	return ids, nil
}

func (c *Client) PublishProgress(ctx context.Context, userID string, snapshot progress.UserProgress) error {
	body := map[string]any{
		"user_id":      userID,
		"solved_count": len(snapshot.Solved),
		"streak":       snapshot.Streak,
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	}
	// Upsert on the user_id key.
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	return c.post(ctx, "/user_progress", headers, body, nil)
}

func (c *Client) ProgressByUsers(ctx context.Context, userIDs []string) (map[string]room.RemoteProgress, error) {
	if len(userIDs) == 0 {
		return map[string]room.RemoteProgress{}, nil
	}
	q := url.Values{}
	q.Set("user_id", "in.("+strings.Join(userIDs, ",")+")")
	var rows []room.RemoteProgress
	if err := c.get(ctx, "/user_progress", q, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]room.RemoteProgress, len(rows))
	for _, r := range rows {
		out[r.UserID] = r
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rest+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, headers map[string]string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rest+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	}
	for k, v := range headers {
		req.Header.Add(k, v)
	}
	return c.do(req, out)
}

func (c *Client) delete(ctx context.Context, path string, q url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.rest+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return room.ErrDuplicate
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, snippet(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
