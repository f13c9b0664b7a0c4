package room

import (
	"context"
	"errors"
	"time"

	"leettrack/internal/progress"
)

// ErrDuplicate is returned by Store writes that violate a uniqueness
// constraint, notably joining a room twice. Callers treat it as success
// where the operation is idempotent.
var ErrDuplicate = errors.New("room: duplicate row")

// Store is the remote collaboration backend. internal/remote implements
// it over HTTP; tests substitute a fake.
type Store interface {
	// ListMessages returns all messages in the room, oldest first.
	ListMessages(ctx context.Context, roomID string) ([]MessageRow, error)

	// MessagesAfter returns messages created strictly after the cursor,
	// oldest first.
	MessagesAfter(ctx context.Context, roomID string, after time.Time) ([]MessageRow, error)

	// InsertMessage writes a message and returns the stored row with its
	// assigned id and timestamp.
	InsertMessage(ctx context.Context, row MessageRow) (MessageRow, error)

	// SubscribeInserts delivers newly inserted rows for the room until
	// the context is cancelled or the returned stop function is called.
	// Best effort: the poll loop is the correctness path.
	SubscribeInserts(ctx context.Context, roomID string) (<-chan MessageRow, func(), error)

	// ProfilesByID bulk-fetches display profiles keyed by user id.
	// Missing users are simply absent from the result.
	ProfilesByID(ctx context.Context, userIDs []string) (map[string]Profile, error)

	Room(ctx context.Context, roomID string) (Room, error)
	ListRooms(ctx context.Context, userID string) ([]Room, error)
	CreateRoom(ctx context.Context, name, creatorID string) (Room, error)
	DeleteRoom(ctx context.Context, roomID string) error

	// JoinRoom adds the user to the room. Returns ErrDuplicate when the
	// user is already a member.
	JoinRoom(ctx context.Context, roomID, userID string) error

	// Participants returns the user ids of all room members.
	Participants(ctx context.Context, roomID string) ([]string, error)

	// PublishProgress upserts the user's progress summary.
	PublishProgress(ctx context.Context, userID string, snapshot progress.UserProgress) error

	// ProgressByUsers bulk-fetches published progress summaries.
	ProgressByUsers(ctx context.Context, userIDs []string) (map[string]RemoteProgress, error)
}
