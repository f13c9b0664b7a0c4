package room

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leettrack/internal/progress"
)

// fakeStore is an in-memory Store for tests. Message timestamps come
// from a deterministic server clock that advances one second per insert.
type fakeStore struct {
	mu           sync.Mutex
	messages     map[string][]MessageRow // roomID -> rows, insert order
	profiles     map[string]Profile
	rooms        map[string]Room
	members      map[string][]string // roomID -> user ids
	published    map[string]RemoteProgress
	serverNow    time.Time
	nextID       int
	insertErr    error
	subscribers  map[string][]chan MessageRow
	subscribeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		messages:    map[string][]MessageRow{},
		profiles:    map[string]Profile{},
		rooms:       map[string]Room{},
		members:     map[string][]string{},
		published:   map[string]RemoteProgress{},
		serverNow:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		subscribers: map[string][]chan MessageRow{},
	}
}

// seedMessage inserts a row directly, bypassing error injection and
// subscriber fanout.
func (f *fakeStore) seedMessage(roomID, userID, content string) MessageRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLocked(MessageRow{RoomID: roomID, UserID: userID, Content: content})
}

func (f *fakeStore) appendLocked(row MessageRow) MessageRow {
	f.nextID++
	row.ID = fmt.Sprintf("m%d", f.nextID)
	f.serverNow = f.serverNow.Add(time.Second)
	row.CreatedAt = f.serverNow
	f.messages[row.RoomID] = append(f.messages[row.RoomID], row)
	return row
}

func (f *fakeStore) ListMessages(_ context.Context, roomID string) ([]MessageRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MessageRow(nil), f.messages[roomID]...), nil
}

func (f *fakeStore) MessagesAfter(_ context.Context, roomID string, after time.Time) ([]MessageRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []MessageRow
	for _, r := range f.messages[roomID] {
		if r.CreatedAt.After(after) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertMessage(_ context.Context, row MessageRow) (MessageRow, error) {
	f.mu.Lock()
	if f.insertErr != nil {
		err := f.insertErr
		f.mu.Unlock()
		return MessageRow{}, err
	}
	stored := f.appendLocked(row)
	subs := append([]chan MessageRow(nil), f.subscribers[row.RoomID]...)
	f.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- stored:
		default:
		}
	}
	return stored, nil
}

func (f *fakeStore) SubscribeInserts(_ context.Context, roomID string) (<-chan MessageRow, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, nil, f.subscribeErr
	}
	ch := make(chan MessageRow, 16)
	f.subscribers[roomID] = append(f.subscribers[roomID], ch)
	return ch, func() {}, nil
}

func (f *fakeStore) ProfilesByID(_ context.Context, ids []string) (map[string]Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]Profile{}
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) Room(_ context.Context, roomID string) (Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[roomID]
	if !ok {
		return Room{}, fmt.Errorf("room %s not found", roomID)
	}
	return r, nil
}

func (f *fakeStore) ListRooms(_ context.Context, userID string) ([]Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Room
	for id, members := range f.members {
		for _, m := range members {
			if m == userID {
				out = append(out, f.rooms[id])
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) CreateRoom(_ context.Context, name, creatorID string) (Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r := Room{
		ID:        fmt.Sprintf("r%d", f.nextID),
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: f.serverNow,
	}
	f.rooms[r.ID] = r
	return r, nil
}

func (f *fakeStore) DeleteRoom(_ context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, roomID)
	delete(f.members, roomID)
	return nil
}

func (f *fakeStore) JoinRoom(_ context.Context, roomID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[roomID] {
		if m == userID {
			return ErrDuplicate
		}
	}
	f.members[roomID] = append(f.members[roomID], userID)
	return nil
}

func (f *fakeStore) Participants(_ context.Context, roomID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.members[roomID]...), nil
}

func (f *fakeStore) PublishProgress(_ context.Context, userID string, snapshot progress.UserProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[userID] = RemoteProgress{
		UserID:    userID,
		Solved:    len(snapshot.Solved),
		Streak:    snapshot.Streak,
		UpdatedAt: f.serverNow,
	}
	return nil
}

func (f *fakeStore) ProgressByUsers(_ context.Context, ids []string) (map[string]RemoteProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]RemoteProgress{}
	for _, id := range ids {
		if p, ok := f.published[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
