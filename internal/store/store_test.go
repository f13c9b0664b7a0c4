package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSlots_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	slots := s.Slots()

	_, ok, err := slots.Get("progress")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slots.Put("progress", []byte(`{"streak":3}`)))

	v, ok, err := slots.Get("progress")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"streak":3}`, string(v))

	// Overwrite replaces.
	require.NoError(t, slots.Put("progress", []byte(`{"streak":4}`)))
	v, _, err = slots.Get("progress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"streak":4}`, string(v))

	require.NoError(t, slots.Delete("progress"))
	_, ok, err = slots.Get("progress")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing slot is not an error.
	require.NoError(t, slots.Delete("progress"))
}

func TestEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "mentor_chat",
		InputTokens: 10, OutputTokens: 20, LatencyMs: 5, Success: true,
		RequestBody: "[user]\nhello", ResponseBody: "hi",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "room_mentor",
		Success: false, ErrorMessage: "boom",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Most recent first.
	assert.Equal(t, "room_mentor", events[0].Purpose)
	assert.False(t, events[0].Success)
	assert.Equal(t, "mentor_chat", events[1].Purpose)
	assert.True(t, events[1].Success)

	events, err = repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "boom", e.ErrorMessage)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	stats, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "mentor_chat", stats[0].Purpose)
	assert.Equal(t, 10, stats[0].InputTokens)
}

func TestProfile_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.Profile()

	p, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)

	want := Profile{DisplayName: "Ada", AvatarURL: "https://example.com/a.png", LeetcodeUsername: "ada42"}
	require.NoError(t, repo.Save(want))

	p, err = repo.Load()
	require.NoError(t, err)
	assert.Equal(t, want, p)

	want.DisplayName = "Ada L."
	require.NoError(t, repo.Save(want))
	p, err = repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", p.DisplayName)
}
