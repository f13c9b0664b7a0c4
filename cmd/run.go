package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/mentor"
	"leettrack/internal/tui"
)

// runChat opens the store, builds the mentor session manager, and
// launches the chat TUI.
func runChat(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	provider := buildProvider(cmd.Context(), cfg, st.Events())
	manager := mentor.NewManager(st.Slots(), provider, cat)

	program := tea.NewProgram(tui.NewChatModel(manager), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run chat UI: %w", err)
	}
	return nil
}
