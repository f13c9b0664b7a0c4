package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/progress"
)

var solveCmd = &cobra.Command{
	Use:   "solve <company> <problem>",
	Short: "Toggle a problem's solved state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		companySlug, problemSlug := args[0], args[1]

		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
		}
		company := cat.Company(companySlug)
		if company == nil {
			return fmt.Errorf("unknown company %q (try 'leettrack companies')", companySlug)
		}
		problem := cat.Problem(companySlug, problemSlug)
		if problem == nil {
			return fmt.Errorf("unknown problem %q for %s (try 'leettrack topics %s')", problemSlug, company.Name, companySlug)
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
		if err := p.ToggleSolved(companySlug, problemSlug); err != nil {
			return err
		}

		if p.IsSolved(companySlug, problemSlug) {
			fmt.Printf("Solved: %s (%s)\n", problem.Title, company.Name)
		} else {
			fmt.Printf("Unsolved: %s (%s)\n", problem.Title, company.Name)
		}
		fmt.Printf("Total solved: %d/%d | Streak: %d day(s)\n",
			p.TotalSolved(), cat.TotalProblems(), p.Streak())
		return nil
	},
}
