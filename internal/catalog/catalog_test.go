package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.List())
	assert.Greater(t, c.TotalProblems(), 0)

	// List is ordered by problem count descending.
	list := c.List()
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].ProblemCount, list[i].ProblemCount)
	}

	// Declared problem counts match the embedded problem lists.
	for _, company := range list {
		assert.Len(t, company.Problems, company.ProblemCount,
			"company %s problem_count mismatch", company.Slug)
	}
}

func TestCompanyLookup(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	amazon := c.Company("amazon")
	require.NotNil(t, amazon)
	assert.Equal(t, "Amazon", amazon.Name)

	assert.Nil(t, c.Company("nonexistent"))

	p := c.Problem("amazon", "two-sum")
	require.NotNil(t, p)
	assert.Equal(t, "Two Sum", p.Title)
	assert.Equal(t, Easy, p.Difficulty)

	assert.Nil(t, c.Problem("amazon", "no-such-problem"))
	assert.Nil(t, c.Problem("no-such-company", "two-sum"))
}

func TestDifficultyCount(t *testing.T) {
	problems := []Problem{
		{Slug: "a", Difficulty: Easy},
		{Slug: "b", Difficulty: Medium},
		{Slug: "c", Difficulty: Medium},
		{Slug: "d", Difficulty: Hard},
	}

	assert.Equal(t, 1, DifficultyCount(problems, Easy))
	assert.Equal(t, 2, DifficultyCount(problems, Medium))
	assert.Equal(t, 1, DifficultyCount(problems, Hard))
	assert.Equal(t, 0, DifficultyCount(nil, Easy))
}

func TestAllTopics(t *testing.T) {
	problems := []Problem{
		{Slug: "a", Topics: "Array, Hash Table"},
		{Slug: "b", Topics: "Hash Table, String"},
		{Slug: "c", Topics: ""},
		{Slug: "d", Topics: "  Array ,  "},
	}

	topics := AllTopics(problems)
	assert.Equal(t, []string{"Array", "Hash Table", "String"}, topics)
}

func TestRelevantContext(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, c.RelevantContext("how do I reverse a linked list?"))
	})

	t.Run("company match", func(t *testing.T) {
		ctx := c.RelevantContext("what should I practice for Amazon?")
		assert.Contains(t, ctx, "Amazon")
		assert.Contains(t, ctx, "Hidden context")
	})

	t.Run("company and difficulty", func(t *testing.T) {
		ctx := c.RelevantContext("give me hard amazon problems")
		assert.Contains(t, ctx, "Trapping Rain Water")
		assert.NotContains(t, ctx, "Two Sum (easy)")
	})
}

func TestSystemPrompt(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	prompt := c.SystemPrompt()
	assert.Contains(t, prompt, "mentor")
	assert.Contains(t, prompt, "Amazon")
	assert.Contains(t, prompt, "Google")
}
