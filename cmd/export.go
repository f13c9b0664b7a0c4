package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leettrack/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export progress as JSON (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if len(args) == 0 {
			return p.Export(os.Stdout)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		if err := p.Export(f); err != nil {
			return err
		}
		fmt.Printf("Progress exported to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a progress export, replacing local progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()

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
		if err := p.Import(f); err != nil {
			return err
		}
		fmt.Printf("Progress: %d solved, streak %d\n", p.TotalSolved(), p.Streak())
		return nil
	},
}
