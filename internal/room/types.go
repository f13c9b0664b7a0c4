// Package room implements the shared study-room client: a multi-writer
// chat thread synchronized against a remote store, peer progress
// snapshots, and the @mentor AI trigger.
package room

import "time"

// MessageID identifies a chat message. It is either a remote id assigned
// by the store, or a local id synthesized for an optimistic insert that
// has not been acknowledged yet. Exactly one of the two is set.
type MessageID struct {
	remote string
	local  string
}

// RemoteID wraps a store-assigned message id.
func RemoteID(id string) MessageID { return MessageID{remote: id} }

// LocalID wraps a locally synthesized optimistic id.
func LocalID(id string) MessageID { return MessageID{local: id} }

// IsLocal reports whether the message is an unacknowledged optimistic
// insert.
func (id MessageID) IsLocal() bool { return id.local != "" }

func (id MessageID) String() string {
	if id.local != "" {
		return "local:" + id.local
	}
	return id.remote
}

// Message is a chat message as held in the local cache, enriched with
// the sender's display profile.
type Message struct {
	ID        MessageID
	UserID    string
	Username  string
	AvatarURL string
	Content   string
	IsAI      bool
	CreatedAt time.Time
}

// MessageRow is the wire shape of a message in the remote store.
type MessageRow struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	IsAI      bool      `json:"is_ai"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is a user's display profile in the remote store.
type Profile struct {
	UserID           string `json:"id"`
	DisplayName      string `json:"display_name"`
	AvatarURL        string `json:"avatar_url"`
	LeetcodeUsername string `json:"leetcode_username"`
}

// Room is a shared study room.
type Room struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatorID        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	ParticipantCount int       `json:"-"`
}

// RemoteProgress is a published progress snapshot summary for one user.
type RemoteProgress struct {
	UserID    string    `json:"user_id"`
	Solved    int       `json:"solved_count"`
	Streak    int       `json:"streak"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant is a room member with display profile and published
// progress, as shown on the room progress board.
type Participant struct {
	UserID      string
	DisplayName string
	AvatarURL   string
	Solved      int
	Streak      int
	UpdatedAt   time.Time
}

// Identity is the authenticated local user, supplied by configuration.
type Identity struct {
	UserID string
	Email  string
}
