package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/llm"
)

// problemAnalysis is the structured output for the analyze command.
type problemAnalysis struct {
	Summary     string   `json:"summary"`
	KeyConcepts []string `json:"key_concepts"`
	Complexity  string   `json:"complexity"`
	Hint        string   `json:"hint"`
}

var analysisSchema = &llm.Schema{
	Name:        "problem-analysis",
	Description: "A concise study analysis of one interview problem",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"summary", "key_concepts", "complexity", "hint"},
		"properties": map[string]any{
			"summary":      map[string]any{"type": "string"},
			"key_concepts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"complexity":   map[string]any{"type": "string"},
			"hint":         map[string]any{"type": "string"},
		},
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <company> <problem>",
	Short: "AI analysis of a catalogue problem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
		}
		company := cat.Company(args[0])
		if company == nil {
			return fmt.Errorf("unknown company %q", args[0])
		}
		problem := cat.Problem(args[0], args[1])
		if problem == nil {
			return fmt.Errorf("unknown problem %q for %s", args[1], company.Name)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, st.Events())
		if err != nil {
			return fmt.Errorf("%s", llm.UserMessage(err))
		}

		prompt := fmt.Sprintf(
			"Analyze the LeetCode problem %q (difficulty: %s, topics: %s), commonly asked at %s. "+
				"Give a short summary of the task, the key concepts needed, the optimal time and space complexity, "+
				"and one hint that nudges without spoiling.",
			problem.Title, problem.Difficulty, problem.Topics, company.Name,
		)

		ctx := llm.WithPurpose(cmd.Context(), llm.PurposeProblemAnalysis)
		resp, err := provider.Generate(ctx, llm.Request{
			System:    cat.SystemPrompt(),
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
			Schema:    analysisSchema,
			MaxTokens: llm.DefaultMaxTokens,
		})
		if err != nil {
			return fmt.Errorf("%s", llm.UserMessage(err))
		}

		var a problemAnalysis
		if err := json.Unmarshal(resp.Content, &a); err != nil {
			return fmt.Errorf("decode analysis: %w", err)
		}

		fmt.Printf("%s (%s, %s)\n%s\n\n", problem.Title, company.Name, problem.Difficulty, problem.URL)
		fmt.Printf("Summary:     %s\n", a.Summary)
		fmt.Printf("Concepts:    %s\n", strings.Join(a.KeyConcepts, ", "))
		fmt.Printf("Complexity:  %s\n", a.Complexity)
		fmt.Printf("Hint:        %s\n", a.Hint)
		return nil
	},
}
