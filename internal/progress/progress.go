// Package progress owns the persisted user progress: the solved map, the
// per-problem notes, the per-company last-active timestamps, and the daily
// solve streak. It is the single writer of the progress slot.
package progress

import (
	"encoding/json"
	"fmt"
	"time"

	"leettrack/internal/catalog"
	"leettrack/internal/store"
)

// dateLayout is the calendar-day format used for streak accounting.
const dateLayout = "2006-01-02"

// Note is a user-authored annotation for one problem.
type Note struct {
	Intuition string `json:"intuition"`
	Code      string `json:"code"`
	UpdatedAt int64  `json:"updatedAt"` // unix milliseconds
}

// UserProgress is the root persisted aggregate. Keys in Solved and Notes
// are composite "companySlug::problemSlug" strings.
type UserProgress struct {
	Solved         map[string]bool  `json:"solved"`
	Notes          map[string]Note  `json:"notes"`
	LastActive     map[string]int64 `json:"lastActive"` // companySlug -> unix ms
	Streak         int              `json:"streak"`
	LastSolvedDate string           `json:"lastSolvedDate"` // YYYY-MM-DD, "" if never
}

// defaultProgress returns the all-empty aggregate used on first load and
// as the base for merge-over-defaults parsing.
func defaultProgress() UserProgress {
	return UserProgress{
		Solved:     map[string]bool{},
		Notes:      map[string]Note{},
		LastActive: map[string]int64{},
	}
}

// Key builds the composite key addressing per-problem user state.
func Key(companySlug, problemSlug string) string {
	return companySlug + "::" + problemSlug
}

// Store is the single source of truth for user progress. Every mutation
// persists the full aggregate to the injected slot store before returning.
type Store struct {
	slots store.Slots
	now   func() time.Time
	p     UserProgress
}

// Load creates a Store, reading any persisted progress from the slot
// store. A missing or corrupt slot yields defaults; corruption is
// recovered silently, never surfaced.
func Load(slots store.Slots) *Store {
	s := &Store{slots: slots, now: time.Now, p: defaultProgress()}

	raw, ok, err := slots.Get(store.SlotProgress)
	if err != nil || !ok {
		return s
	}

	// Unmarshal over defaults so fields introduced later default safely.
	p := defaultProgress()
	if err := json.Unmarshal(raw, &p); err != nil {
		return s
	}
	normalize(&p)
	s.p = p
	return s
}

// SetClock overrides the time source. For tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// normalize restores nil maps after JSON decoding partial documents.
func normalize(p *UserProgress) {
	if p.Solved == nil {
		p.Solved = map[string]bool{}
	}
	if p.Notes == nil {
		p.Notes = map[string]Note{}
	}
	if p.LastActive == nil {
		p.LastActive = map[string]int64{}
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
}

// IsSolved reports whether the problem is marked solved. Pure lookup.
func (s *Store) IsSolved(companySlug, problemSlug string) bool {
	return s.p.Solved[Key(companySlug, problemSlug)]
}

// ToggleSolved flips the solved state of the problem, updates the
// company's last-active timestamp, and recomputes the streak.
//
// The streak rule runs on every toggle, un-solves included, matching the
// shipped behavior. Whether un-solving should count as activity is an
// open product question; the rule lives only here so the answer is a
// one-line change.
func (s *Store) ToggleSolved(companySlug, problemSlug string) error {
	key := Key(companySlug, problemSlug)
	if s.p.Solved[key] {
		delete(s.p.Solved, key)
	} else {
		s.p.Solved[key] = true
	}

	now := s.now()
	s.p.LastActive[companySlug] = now.UnixMilli()
	s.touchStreak(now)

	return s.persist()
}

// touchStreak applies the consecutive-calendar-day rule: a first solve of
// the day either continues yesterday's chain (+1) or starts a new one (1);
// repeat solves on the same day leave the streak unchanged.
func (s *Store) touchStreak(now time.Time) {
	today := now.Format(dateLayout)
	if today == s.p.LastSolvedDate {
		return
	}
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if s.p.LastSolvedDate == yesterday {
		s.p.Streak++
	} else {
		s.p.Streak = 1
	}
	s.p.LastSolvedDate = today
}

// Note returns the note for the problem and whether one exists.
func (s *Store) Note(companySlug, problemSlug string) (Note, bool) {
	n, ok := s.p.Notes[Key(companySlug, problemSlug)]
	return n, ok
}

// SaveNote creates or overwrites the note for the problem.
func (s *Store) SaveNote(companySlug, problemSlug string, n Note) error {
	s.p.Notes[Key(companySlug, problemSlug)] = n
	return s.persist()
}

// DeleteNote removes the note for the problem, if any.
func (s *Store) DeleteNote(companySlug, problemSlug string) error {
	delete(s.p.Notes, Key(companySlug, problemSlug))
	return s.persist()
}

// SolvedCount counts how many of the given problems are solved for the
// company.
func (s *Store) SolvedCount(companySlug string, problems []catalog.Problem) int {
	n := 0
	for _, p := range problems {
		if s.p.Solved[Key(companySlug, p.Slug)] {
			n++
		}
	}
	return n
}

// TotalSolved returns the total number of solved problems.
func (s *Store) TotalSolved() int {
	return len(s.p.Solved)
}

// Streak returns the current consecutive-day solve streak.
func (s *Store) Streak() int {
	return s.p.Streak
}

// LastActive returns when the company was last touched by a solve toggle.
func (s *Store) LastActive(companySlug string) (time.Time, bool) {
	ms, ok := s.p.LastActive[companySlug]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// Snapshot returns a deep copy of the aggregate, for publishing to a
// study room or inspection.
func (s *Store) Snapshot() UserProgress {
	cp := UserProgress{
		Solved:         make(map[string]bool, len(s.p.Solved)),
		Notes:          make(map[string]Note, len(s.p.Notes)),
		LastActive:     make(map[string]int64, len(s.p.LastActive)),
		Streak:         s.p.Streak,
		LastSolvedDate: s.p.LastSolvedDate,
	}
	for k, v := range s.p.Solved {
		cp.Solved[k] = v
	}
	for k, v := range s.p.Notes {
		cp.Notes[k] = v
	}
	for k, v := range s.p.LastActive {
		cp.LastActive[k] = v
	}
	return cp
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.slots.Put(store.SlotProgress, raw); err != nil {
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}
