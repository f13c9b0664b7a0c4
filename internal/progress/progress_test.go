package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/catalog"
	"leettrack/internal/store"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(s string) time.Time {
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestToggleSolved(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)
	s.SetClock(fixedClock(day("2026-09-01 10:00")))

	assert.False(t, s.IsSolved("amazon", "two-sum"))

	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	assert.True(t, s.IsSolved("amazon", "two-sum"))
	assert.Equal(t, 1, s.TotalSolved())

	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	assert.False(t, s.IsSolved("amazon", "two-sum"))
	assert.Equal(t, 0, s.TotalSolved())

	// Toggling touches the company's last-active timestamp.
	last, ok := s.LastActive("amazon")
	require.True(t, ok)
	assert.Equal(t, day("2026-09-01 10:00").UnixMilli(), last.UnixMilli())
}

func TestStreak(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)

	// First solve starts a streak of 1.
	s.SetClock(fixedClock(day("2026-09-01 09:00")))
	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	assert.Equal(t, 1, s.Streak())

	// Second solve the same day leaves the streak unchanged.
	s.SetClock(fixedClock(day("2026-09-01 21:00")))
	require.NoError(t, s.ToggleSolved("amazon", "lru-cache"))
	assert.Equal(t, 1, s.Streak())

	// A solve the next calendar day extends the streak.
	s.SetClock(fixedClock(day("2026-09-02 08:00")))
	require.NoError(t, s.ToggleSolved("google", "word-break"))
	assert.Equal(t, 2, s.Streak())

	// Skipping a day resets to 1.
	s.SetClock(fixedClock(day("2026-09-04 08:00")))
	require.NoError(t, s.ToggleSolved("meta", "valid-palindrome"))
	assert.Equal(t, 1, s.Streak())
}

func TestStreakRunsOnUnsolve(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)

	s.SetClock(fixedClock(day("2026-09-01 09:00")))
	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	assert.Equal(t, 1, s.Streak())

	// Un-solving the next day still counts as activity.
	s.SetClock(fixedClock(day("2026-09-02 09:00")))
	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	assert.False(t, s.IsSolved("amazon", "two-sum"))
	assert.Equal(t, 2, s.Streak())
}

func TestNotes(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)

	_, ok := s.Note("amazon", "two-sum")
	assert.False(t, ok)

	n := Note{Intuition: "hash map of complements", Code: "func twoSum...", UpdatedAt: 1756700000000}
	require.NoError(t, s.SaveNote("amazon", "two-sum", n))

	got, ok := s.Note("amazon", "two-sum")
	require.True(t, ok)
	assert.Equal(t, n, got)

	require.NoError(t, s.DeleteNote("amazon", "two-sum"))
	_, ok = s.Note("amazon", "two-sum")
	assert.False(t, ok)
}

func TestLoadRoundTrip(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)
	s.SetClock(fixedClock(day("2026-09-01 09:00")))

	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	require.NoError(t, s.SaveNote("amazon", "two-sum", Note{Intuition: "seen", UpdatedAt: 1}))

	// A fresh store over the same slots sees the persisted state.
	reloaded := Load(slots)
	assert.True(t, reloaded.IsSolved("amazon", "two-sum"))
	assert.Equal(t, 1, reloaded.Streak())
	n, ok := reloaded.Note("amazon", "two-sum")
	require.True(t, ok)
	assert.Equal(t, "seen", n.Intuition)
}

func TestLoadCorruptSlotYieldsDefaults(t *testing.T) {
	slots := store.NewMemorySlots()
	require.NoError(t, slots.Put(store.SlotProgress, []byte("{not json")))

	s := Load(slots)
	assert.Equal(t, 0, s.TotalSolved())
	assert.Equal(t, 0, s.Streak())
}

func TestLoadPartialDocumentMergesOverDefaults(t *testing.T) {
	slots := store.NewMemorySlots()
	require.NoError(t, slots.Put(store.SlotProgress, []byte(`{"streak": 3, "lastSolvedDate": "2026-08-31"}`)))

	s := Load(slots)
	assert.Equal(t, 3, s.Streak())
	assert.Equal(t, 0, s.TotalSolved())

	// Maps absent from the document must still be usable.
	require.NoError(t, s.SaveNote("amazon", "two-sum", Note{Intuition: "x"}))
}

func TestSolvedCount(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)

	problems := []catalog.Problem{
		{Slug: "two-sum"},
		{Slug: "lru-cache"},
		{Slug: "word-break"},
	}

	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	require.NoError(t, s.ToggleSolved("amazon", "lru-cache"))
	// Same slug under another company must not count.
	require.NoError(t, s.ToggleSolved("google", "word-break"))

	assert.Equal(t, 2, s.SolvedCount("amazon", problems))
}

func TestExportImportRoundTrip(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)
	s.SetClock(fixedClock(day("2026-09-01 09:00")))

	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))
	require.NoError(t, s.SaveNote("amazon", "two-sum", Note{Intuition: "pairs", Code: "..."}))

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.True(t, strings.Contains(buf.String(), "amazon::two-sum"))

	other := Load(store.NewMemorySlots())
	require.NoError(t, other.Import(&buf))
	assert.True(t, other.IsSolved("amazon", "two-sum"))
	assert.Equal(t, 1, other.Streak())
	n, ok := other.Note("amazon", "two-sum")
	require.True(t, ok)
	assert.Equal(t, "pairs", n.Intuition)
}

func TestImportInvalidDocumentIsIgnored(t *testing.T) {
	slots := store.NewMemorySlots()
	s := Load(slots)
	s.SetClock(fixedClock(day("2026-09-01 09:00")))
	require.NoError(t, s.ToggleSolved("amazon", "two-sum"))

	cases := map[string]string{
		"not json":       "{oops",
		"wrong shape":    `{"solved": []}`,
		"missing fields": `{"solved": {}}`,
		"bad streak":     `{"solved": {}, "notes": {}, "lastActive": {}, "streak": -2, "lastSolvedDate": ""}`,
		"bad date":       `{"solved": {}, "notes": {}, "lastActive": {}, "streak": 0, "lastSolvedDate": "soon"}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Import(strings.NewReader(doc)))
			// State untouched.
			assert.True(t, s.IsSolved("amazon", "two-sum"))
			assert.Equal(t, 1, s.Streak())
		})
	}
}
