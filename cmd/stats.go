package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
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
		p := progress.Load(st.Slots())

		fmt.Printf("Solved: %d/%d | Streak: %d day(s)\n\n",
			p.TotalSolved(), cat.TotalProblems(), p.Streak())

		fmt.Printf("%-12s  %-10s  %-6s  %-6s  %-6s  %s\n",
			"Company", "Solved", "Easy", "Medium", "Hard", "Last active")
		fmt.Println(strings.Repeat("─", 64))

		for _, company := range cat.List() {
			solved := p.SolvedCount(company.Slug, company.Problems)
			lastActive := "-"
			if t, ok := p.LastActive(company.Slug); ok {
				lastActive = t.Local().Format("2006-01-02")
			}
			fmt.Printf("%-12s  %-10s  %-6d  %-6d  %-6d  %s\n",
				company.Name,
				fmt.Sprintf("%d/%d", solved, len(company.Problems)),
				catalog.DifficultyCount(company.Problems, catalog.Easy),
				catalog.DifficultyCount(company.Problems, catalog.Medium),
				catalog.DifficultyCount(company.Problems, catalog.Hard),
				lastActive,
			)
		}
		return nil
	},
}
