package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"leettrack/internal/room"
)

// heartbeatInterval keeps the phoenix socket alive.
const heartbeatInterval = 30 * time.Second

// phxMessage is the phoenix channel protocol frame.
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// insertPayload is the change event payload for an INSERT.
type insertPayload struct {
	Record struct {
		ID        string `json:"id"`
		RoomID    string `json:"room_id"`
		UserID    string `json:"user_id"`
		Content   string `json:"content"`
		IsAI      bool   `json:"is_ai"`
		CreatedAt string `json:"created_at"`
	} `json:"record"`
}

// SubscribeInserts opens the realtime socket and joins the changes topic
// for the room's messages. Rows arrive on the returned channel until the
// context is cancelled or the stop function is called; the channel is
// closed on teardown. Socket errors simply close the channel: the caller
// polls regardless.
func (c *Client) SubscribeInserts(ctx context.Context, roomID string) (<-chan room.MessageRow, func(), error) {
	u := fmt.Sprintf("%s?apikey=%s&vsn=1.0.0", c.realtime, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial realtime: %w", err)
	}

	topic := "realtime:public:room_messages:room_id=eq." + roomID
	join := phxMessage{Topic: topic, Event: "phx_join", Payload: json.RawMessage(`{}`), Ref: "1"}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("join %s: %w", topic, err)
	}

	out := make(chan room.MessageRow, 16)
	subCtx, cancel := context.WithCancel(ctx)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			conn.Close()
		})
	}

	go heartbeatLoop(subCtx, conn)
	go func() {
		defer close(out)
		defer stop()
		for {
			var msg phxMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Topic != topic || msg.Event != "INSERT" {
				continue
			}
			row, err := decodeInsert(msg.Payload)
			if err != nil {
				continue
			}
			select {
			case out <- row:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return out, stop, nil
}

func heartbeatLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	ref := 2
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hb := phxMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
				Ref:     strconv.Itoa(ref),
			}
			if err := conn.WriteJSON(hb); err != nil {
				return
			}
			ref++
		}
	}
}

func decodeInsert(payload json.RawMessage) (room.MessageRow, error) {
	var p insertPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return room.MessageRow{}, fmt.Errorf("decode insert payload: %w", err)
	}
	ts, err := parseTimestamp(p.Record.CreatedAt)
	if err != nil {
		return room.MessageRow{}, err
	}
	return room.MessageRow{
		ID:        p.Record.ID,
		RoomID:    p.Record.RoomID,
		UserID:    p.Record.UserID,
		Content:   p.Record.Content,
		IsAI:      p.Record.IsAI,
		CreatedAt: ts,
	}, nil
}

// parseTimestamp accepts the timestamp shapes the changes feed emits:
// RFC 3339, or a bare Postgres timestamp without zone (treated as UTC).
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05.999999",
	} {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
