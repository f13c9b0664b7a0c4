package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/progress"
	"leettrack/internal/store"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage per-problem notes",
}

var noteSetCmd = &cobra.Command{
	Use:   "set <company> <problem>",
	Short: "Create or overwrite a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		intuition, _ := cmd.Flags().GetString("intuition")
		code, _ := cmd.Flags().GetString("code")
		if intuition == "" && code == "" {
			return fmt.Errorf("nothing to save: pass --intuition and/or --code")
		}

		p, st, err := openProgress(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		defer st.Close()

		if err := p.SaveNote(args[0], args[1], progress.Note{
			Intuition: intuition,
			Code:      code,
			UpdatedAt: time.Now().UnixMilli(),
		}); err != nil {
			return err
		}
		fmt.Printf("Note saved for %s/%s\n", args[0], args[1])
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <company> <problem>",
	Short: "Show the note for a problem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, st, err := openProgress(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		defer st.Close()

		n, ok := p.Note(args[0], args[1])
		if !ok {
			fmt.Printf("No note for %s/%s\n", args[0], args[1])
			return nil
		}
		fmt.Printf("Updated: %s\n", time.UnixMilli(n.UpdatedAt).Local().Format("2006-01-02 15:04"))
		if n.Intuition != "" {
			fmt.Printf("\nIntuition:\n%s\n", n.Intuition)
		}
		if n.Code != "" {
			fmt.Printf("\nCode:\n%s\n", n.Code)
		}
		return nil
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <company> <problem>",
	Short: "Delete the note for a problem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, st, err := openProgress(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		defer st.Close()

		if err := p.DeleteNote(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Note removed for %s/%s\n", args[0], args[1])
		return nil
	},
}

func init() {
	noteSetCmd.Flags().String("intuition", "", "The key insight, in your own words")
	noteSetCmd.Flags().String("code", "", "A code snippet worth keeping")

	noteCmd.AddCommand(noteSetCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteRmCmd)
}

// openProgress validates the company/problem pair against the catalogue
// and opens the progress store. The caller closes the returned store.
func openProgress(cmd *cobra.Command, companySlug, problemSlug string) (*progress.Store, *store.Store, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalogue: %w", err)
	}
	if cat.Problem(companySlug, problemSlug) == nil {
		return nil, nil, fmt.Errorf("unknown problem %s/%s", companySlug, problemSlug)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return progress.Load(st.Slots()), st, nil
}
