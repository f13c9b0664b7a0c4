package room

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"leettrack/internal/progress"
)

// ErrNotCreator is returned when a non-creator tries to delete a room.
var ErrNotCreator = errors.New("room: only the creator can delete a room")

// Service covers room membership and the shared progress board.
type Service struct {
	store Store
	self  Identity
}

// NewService builds a Service acting as the given user.
func NewService(s Store, self Identity) *Service {
	return &Service{store: s, self: self}
}

// Rooms lists the rooms the user belongs to, each with its participant
// count.
func (s *Service) Rooms(ctx context.Context) ([]Room, error) {
	rooms, err := s.store.ListRooms(ctx, s.self.UserID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	for i := range rooms {
		ids, err := s.store.Participants(ctx, rooms[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count participants for %s: %w", rooms[i].ID, err)
		}
		rooms[i].ParticipantCount = len(ids)
	}
	return rooms, nil
}

// Create makes a room and joins the creator to it.
func (s *Service) Create(ctx context.Context, name string) (Room, error) {
	r, err := s.store.CreateRoom(ctx, name, s.self.UserID)
	if err != nil {
		return Room{}, fmt.Errorf("create room: %w", err)
	}
	if err := s.Join(ctx, r.ID); err != nil {
		return Room{}, err
	}
	r.ParticipantCount = 1
	return r, nil
}

// Join adds the user to the room. Joining a room twice is a no-op.
func (s *Service) Join(ctx context.Context, roomID string) error {
	err := s.store.JoinRoom(ctx, roomID, s.self.UserID)
	if err != nil && !errors.Is(err, ErrDuplicate) {
		return fmt.Errorf("join room %s: %w", roomID, err)
	}
	return nil
}

// Delete removes the room. Only its creator may delete it.
func (s *Service) Delete(ctx context.Context, roomID string) error {
	r, err := s.store.Room(ctx, roomID)
	if err != nil {
		return fmt.Errorf("load room %s: %w", roomID, err)
	}
	if r.CreatorID != s.self.UserID {
		return ErrNotCreator
	}
	if err := s.store.DeleteRoom(ctx, roomID); err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	return nil
}

// Participants returns the room's members with profiles and published
// progress, sorted by solved count descending.
func (s *Service) Participants(ctx context.Context, roomID string) ([]Participant, error) {
	ids, err := s.store.Participants(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	profiles, err := s.store.ProfilesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}
	published, err := s.store.ProgressByUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}

	out := make([]Participant, 0, len(ids))
	for _, id := range ids {
		p := Participant{UserID: id, DisplayName: "Anonymous"}
		if prof, ok := profiles[id]; ok && prof.DisplayName != "" {
			p.DisplayName = prof.DisplayName
			p.AvatarURL = prof.AvatarURL
		}
		if rp, ok := published[id]; ok {
			p.Solved = rp.Solved
			p.Streak = rp.Streak
			p.UpdatedAt = rp.UpdatedAt
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Solved > out[j].Solved })
	return out, nil
}

// PublishProgress pushes the local user's snapshot to the shared board.
func (s *Service) PublishProgress(ctx context.Context, snapshot progress.UserProgress) error {
	if err := s.store.PublishProgress(ctx, s.self.UserID, snapshot); err != nil {
		return fmt.Errorf("publish progress: %w", err)
	}
	return nil
}
