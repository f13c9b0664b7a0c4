package store

import (
	"database/sql"
	"fmt"
)

// Profile is the local user profile. A single row; used for display
// metadata in rooms and pushed with progress snapshots.
type Profile struct {
	DisplayName      string
	AvatarURL        string
	LeetcodeUsername string
}

// ProfileRepo reads and writes the single local profile row.
type ProfileRepo struct {
	db *sql.DB
}

// Load returns the stored profile, or a zero Profile if none was saved.
func (r *ProfileRepo) Load() (Profile, error) {
	var p Profile
	err := r.db.QueryRow(
		`SELECT display_name, avatar_url, leetcode_username FROM profile WHERE id = 1`,
	).Scan(&p.DisplayName, &p.AvatarURL, &p.LeetcodeUsername)
	if err == sql.ErrNoRows {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Save stores the profile, replacing any previous values.
func (r *ProfileRepo) Save(p Profile) error {
	_, err := r.db.Exec(
		`INSERT INTO profile (id, display_name, avatar_url, leetcode_username) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   display_name = excluded.display_name,
		   avatar_url = excluded.avatar_url,
		   leetcode_username = excluded.leetcode_username`,
		p.DisplayName, p.AvatarURL, p.LeetcodeUsername,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
