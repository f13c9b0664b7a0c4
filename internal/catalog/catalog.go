// Package catalog exposes the static company/problem dataset for lookup
// and aggregation. The dataset is embedded at build time and never mutated.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed seed_data.json
var seedData []byte

// Difficulty is a problem difficulty level.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Problem is an immutable catalogue entry.
type Problem struct {
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Difficulty Difficulty `json:"difficulty"`
	// Topics is a comma-joined tag string, e.g. "Array, Hash Table".
	Topics string `json:"topics"`
}

// Company groups the problems a company is known to ask.
type Company struct {
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ProblemCount int       `json:"problem_count"`
	Problems     []Problem `json:"problems"`
}

// Catalog is a read-only index over the embedded dataset.
type Catalog struct {
	bySlug map[string]*Company
	list   []*Company
	total  int
}

// Load parses the embedded seed dataset into a Catalog.
func Load() (*Catalog, error) {
	return parse(seedData)
}

func parse(data []byte) (*Catalog, error) {
	var raw map[string]*Company
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	c := &Catalog{bySlug: raw}
	for _, company := range raw {
		c.list = append(c.list, company)
		c.total += company.ProblemCount
	}

	// Largest catalogue first, matching the dashboard ordering.
	sort.Slice(c.list, func(i, j int) bool {
		if c.list[i].ProblemCount != c.list[j].ProblemCount {
			return c.list[i].ProblemCount > c.list[j].ProblemCount
		}
		return c.list[i].Slug < c.list[j].Slug
	})

	return c, nil
}

// Company returns the company with the given slug, or nil if unknown.
func (c *Catalog) Company(slug string) *Company {
	return c.bySlug[slug]
}

// Problem returns the problem with the given slug within a company,
// or nil if either is unknown.
func (c *Catalog) Problem(companySlug, problemSlug string) *Problem {
	company := c.bySlug[companySlug]
	if company == nil {
		return nil
	}
	for i := range company.Problems {
		if company.Problems[i].Slug == problemSlug {
			return &company.Problems[i]
		}
	}
	return nil
}

// List returns all companies ordered by problem count descending.
func (c *Catalog) List() []*Company {
	return c.list
}

// TotalProblems returns the number of problems across all companies.
func (c *Catalog) TotalProblems() int {
	return c.total
}

// DifficultyCount counts the problems with the given difficulty.
func DifficultyCount(problems []Problem, d Difficulty) int {
	n := 0
	for _, p := range problems {
		if p.Difficulty == d {
			n++
		}
	}
	return n
}

// AllTopics splits each problem's comma-joined topic string, trims,
// dedups, and returns the topics sorted ascending.
func AllTopics(problems []Problem) []string {
	seen := make(map[string]struct{})
	for _, p := range problems {
		for _, t := range strings.Split(p.Topics, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	topics := make([]string, 0, len(seen))
	for t := range seen {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
