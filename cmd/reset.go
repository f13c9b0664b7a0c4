package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"leettrack/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase local progress and chat history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This erases all local progress and chat sessions. Continue? [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
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

		for _, slot := range []string{store.SlotProgress, store.SlotChatHistory} {
			if err := st.Slots().Delete(slot); err != nil {
				return fmt.Errorf("clear %s: %w", slot, err)
			}
		}
		fmt.Println("Local data erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
