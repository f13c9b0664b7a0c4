package room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/progress"
)

func TestCreateRoomAutoJoins(t *testing.T) {
	f := newFakeStore()
	svc := NewService(f, testSelf)

	r, err := svc.Create(context.Background(), "grind group")
	require.NoError(t, err)
	assert.Equal(t, "grind group", r.Name)
	assert.Equal(t, testSelf.UserID, r.CreatorID)
	assert.Equal(t, 1, r.ParticipantCount)

	rooms, err := svc.Rooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r.ID, rooms[0].ID)
	assert.Equal(t, 1, rooms[0].ParticipantCount)
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newFakeStore()
	svc := NewService(f, testSelf)

	r, err := svc.Create(context.Background(), "room")
	require.NoError(t, err)

	// Already a member via Create; joining again is not an error.
	require.NoError(t, svc.Join(context.Background(), r.ID))

	ids, err := f.Participants(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestDeleteRoomCreatorOnly(t *testing.T) {
	f := newFakeStore()
	creator := NewService(f, testSelf)
	other := NewService(f, Identity{UserID: "u2"})

	r, err := creator.Create(context.Background(), "room")
	require.NoError(t, err)
	require.NoError(t, other.Join(context.Background(), r.ID))

	assert.ErrorIs(t, other.Delete(context.Background(), r.ID), ErrNotCreator)
	require.NoError(t, creator.Delete(context.Background(), r.ID))

	rooms, err := creator.Rooms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestParticipantsEnrichedAndSorted(t *testing.T) {
	f := newFakeStore()
	f.profiles["u1"] = Profile{UserID: "u1", DisplayName: "Me"}
	f.profiles["u2"] = Profile{UserID: "u2", DisplayName: "Ada"}
	// u3 has no profile and no published progress.

	svc := NewService(f, testSelf)
	r, err := svc.Create(context.Background(), "room")
	require.NoError(t, err)
	require.NoError(t, NewService(f, Identity{UserID: "u2"}).Join(context.Background(), r.ID))
	require.NoError(t, NewService(f, Identity{UserID: "u3"}).Join(context.Background(), r.ID))

	require.NoError(t, svc.PublishProgress(context.Background(), progress.UserProgress{
		Solved: map[string]bool{"amazon::two-sum": true},
		Streak: 2,
	}))
	require.NoError(t, NewService(f, Identity{UserID: "u2"}).PublishProgress(context.Background(), progress.UserProgress{
		Solved: map[string]bool{"amazon::two-sum": true, "google::word-break": true},
		Streak: 5,
	}))

	parts, err := svc.Participants(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	// Sorted by solved count descending.
	assert.Equal(t, "Ada", parts[0].DisplayName)
	assert.Equal(t, 2, parts[0].Solved)
	assert.Equal(t, 5, parts[0].Streak)
	assert.Equal(t, "Me", parts[1].DisplayName)
	assert.Equal(t, 1, parts[1].Solved)

	assert.Equal(t, "Anonymous", parts[2].DisplayName)
	assert.Equal(t, 0, parts[2].Solved)
}
