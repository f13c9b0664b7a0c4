package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/progress"
	"leettrack/internal/room"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(Config{BaseURL: srv.URL, APIKey: "test-key"})
	return c, srv
}

func TestListMessages(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]room.MessageRow{
			{ID: "m1", RoomID: "r1", UserID: "u1", Content: "hi", CreatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
		})
	})
	defer srv.Close()

	rows, err := c.ListMessages(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "m1", rows[0].ID)

	assert.Equal(t, "/rest/v1/room_messages", gotPath)
	assert.Contains(t, gotQuery, "room_id=eq.r1")
	assert.Contains(t, gotQuery, "order=created_at.asc")
	assert.Equal(t, "test-key", gotKey)
}

func TestMessagesAfterUsesGtFilter(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("[]"))
	})
	defer srv.Close()

	after := time.Date(2026, 9, 1, 12, 0, 5, 0, time.UTC)
	_, err := c.MessagesAfter(context.Background(), "r1", after)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "created_at=gt.2026-09-01T12%3A00%3A05Z")
}

func TestInsertMessageReturnsRepresentation(t *testing.T) {
	var gotPrefer string
	var gotBody map[string]any
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"m7","room_id":"r1","user_id":"u1","content":"hi","is_ai":false,"created_at":"2026-09-01T12:00:00Z"}]`))
	})
	defer srv.Close()

	row, err := c.InsertMessage(context.Background(), room.MessageRow{RoomID: "r1", UserID: "u1", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "m7", row.ID)
	assert.False(t, row.CreatedAt.IsZero())

	assert.Equal(t, "return=representation", gotPrefer)
	assert.Equal(t, "r1", gotBody["room_id"])
	assert.Equal(t, false, gotBody["is_ai"])
}

func TestJoinRoomConflictIsDuplicate(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505"}`))
	})
	defer srv.Close()

	err := c.JoinRoom(context.Background(), "r1", "u1")
	assert.ErrorIs(t, err, room.ErrDuplicate)
}

func TestProfilesByID(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":"u1","display_name":"Me"},{"id":"u2","display_name":"Ada"}]`))
	})
	defer srv.Close()

	got, err := c.ProfilesByID(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "id=in.%28u1%2Cu2%29")
	require.Len(t, got, 2)
	assert.Equal(t, "Ada", got["u2"].DisplayName)
}

func TestProfilesByIDEmptyInputSkipsRequest(t *testing.T) {
	called := false
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	defer srv.Close()

	got, err := c.ProfilesByID(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestPublishProgressUpserts(t *testing.T) {
	var gotPrefer []string
	var gotBody map[string]any
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Values("Prefer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	err := c.PublishProgress(context.Background(), "u1", progress.UserProgress{
		Solved: map[string]bool{"amazon::two-sum": true},
		Streak: 4,
	})
	require.NoError(t, err)
	assert.Contains(t, gotPrefer, "resolution=merge-duplicates")
	assert.Equal(t, float64(1), gotBody["solved_count"])
	assert.Equal(t, float64(4), gotBody["streak"])
}

func TestServerErrorIncludesStatusAndBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	})
	defer srv.Close()

	_, err := c.ListMessages(context.Background(), "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestListRooms(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/room_participants":
			w.Write([]byte(`[{"room_id":"r1"},{"room_id":"r2"}]`))
		case "/rest/v1/study_rooms":
			assert.Contains(t, r.URL.RawQuery, "id=in.%28r1%2Cr2%29")
			w.Write([]byte(`[{"id":"r1","name":"alpha"},{"id":"r2","name":"beta"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer srv.Close()

	rooms, err := c.ListRooms(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "alpha", rooms[0].Name)
}

func TestParseTimestamp(t *testing.T) {
	cases := []string{
		"2026-09-01T12:00:05Z",
		"2026-09-01T12:00:05.123456+00:00",
		"2026-09-01T12:00:05.123456",
		"2026-09-01 12:00:05.123456",
	}
	for _, s := range cases {
		ts, err := parseTimestamp(s)
		require.NoError(t, err, s)
		assert.Equal(t, 5, ts.Second(), s)
	}

	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}
