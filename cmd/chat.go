package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/llm"
	"leettrack/internal/mentor"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the AI mentor",
	Long:  "Opens the interactive mentor chat. With -m, sends a single message in the active session and prints the reply.",
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")
		if message == "" {
			return runChat(cmd)
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

		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
		}
		provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, st.Events())
		if err != nil {
			return fmt.Errorf("%s", llm.UserMessage(err))
		}

		manager := mentor.NewManager(st.Slots(), provider, cat)
		reply, err := manager.SendMessage(cmd.Context(), message)
		if err != nil {
			return fmt.Errorf("%s", llm.UserMessage(err))
		}
		fmt.Println(reply.Content)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringP("message", "m", "", "Send one message and print the reply")
}
