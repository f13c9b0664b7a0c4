package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/progress"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies in the catalogue",
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

		fmt.Printf("%-12s  %-12s  %s\n", "Slug", "Company", "Solved")
		fmt.Println(strings.Repeat("─", 36))
		for _, company := range cat.List() {
			fmt.Printf("%-12s  %-12s  %d/%d\n",
				company.Slug, company.Name,
				p.SolvedCount(company.Slug, company.Problems), len(company.Problems))
		}
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics <company>",
	Short: "List a company's problems, topics, and difficulty mix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
		}
		company := cat.Company(args[0])
		if company == nil {
			return fmt.Errorf("unknown company %q (try 'leettrack companies')", args[0])
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

		fmt.Printf("%s: %d problems (%d easy, %d medium, %d hard)\n",
			company.Name, len(company.Problems),
			catalog.DifficultyCount(company.Problems, catalog.Easy),
			catalog.DifficultyCount(company.Problems, catalog.Medium),
			catalog.DifficultyCount(company.Problems, catalog.Hard),
		)
		fmt.Printf("Topics: %s\n\n", strings.Join(catalog.AllTopics(company.Problems), ", "))

		for _, problem := range company.Problems {
			mark := " "
			if p.IsSolved(company.Slug, problem.Slug) {
				mark = "x"
			}
			fmt.Printf("[%s] %-40s  %-6s  %s\n", mark, problem.Slug, problem.Difficulty, problem.Topics)
		}
		return nil
	},
}
