package catalog

import (
	"fmt"
	"strings"
)

// SystemPrompt returns the mentor role prompt, including the company list
// so the model knows what the catalogue covers.
func (c *Catalog) SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an experienced coding-interview mentor. ")
	b.WriteString("You help the user prepare for technical interviews by recommending ")
	b.WriteString("problems, explaining concepts, and reviewing approaches. ")
	b.WriteString("Be concise and practical. Prefer hints and intuition over full solutions ")
	b.WriteString("unless the user explicitly asks for code.\n\n")
	b.WriteString("The user's problem catalogue covers these companies: ")
	names := make([]string, len(c.list))
	for i, company := range c.list {
		names[i] = fmt.Sprintf("%s (%d problems)", company.Name, company.ProblemCount)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(".")
	return b.String()
}

// RelevantContext scans the user message for company names, difficulty
// words, and topic keywords and returns matching catalogue data as a
// hidden-context block to append to the outgoing prompt. Returns "" when
// nothing matches. The result is instruction context for the model and is
// never shown to the user.
func (c *Catalog) RelevantContext(userMessage string) string {
	msg := strings.ToLower(userMessage)
	var parts []string

	for _, company := range c.list {
		if !strings.Contains(msg, strings.ToLower(company.Name)) &&
			!strings.Contains(msg, company.Slug) {
			continue
		}
		parts = append(parts, c.companyContext(company, msg))
	}

	if len(parts) == 0 {
		return ""
	}

	return "\n\n[Hidden context from the user's local catalogue - use to ground your answer, do not quote verbatim]\n" +
		strings.Join(parts, "\n")
}

func (c *Catalog) companyContext(company *Company, msg string) string {
	var wantDifficulty Difficulty
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		if strings.Contains(msg, string(d)) {
			wantDifficulty = d
			break
		}
	}

	topics := AllTopics(company.Problems)
	var wantTopics []string
	for _, t := range topics {
		if strings.Contains(msg, strings.ToLower(t)) {
			wantTopics = append(wantTopics, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d problems (%d easy, %d medium, %d hard).",
		company.Name,
		company.ProblemCount,
		DifficultyCount(company.Problems, Easy),
		DifficultyCount(company.Problems, Medium),
		DifficultyCount(company.Problems, Hard))

	listed := 0
	for _, p := range company.Problems {
		if wantDifficulty != "" && p.Difficulty != wantDifficulty {
			continue
		}
		if len(wantTopics) > 0 && !hasAnyTopic(p, wantTopics) {
			continue
		}
		if listed == 0 {
			b.WriteString(" Matching problems:")
		}
		fmt.Fprintf(&b, " %s (%s);", p.Title, p.Difficulty)
		listed++
		if listed == 8 {
			break
		}
	}

	return b.String()
}

func hasAnyTopic(p Problem, topics []string) bool {
	have := strings.ToLower(p.Topics)
	for _, t := range topics {
		if strings.Contains(have, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
