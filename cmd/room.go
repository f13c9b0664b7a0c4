package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"leettrack/internal/catalog"
	"leettrack/internal/config"
	"leettrack/internal/progress"
	"leettrack/internal/remote"
	"leettrack/internal/room"
	"leettrack/internal/tui"
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Shared study rooms",
}

var roomListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your rooms",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := roomService(cmd)
		if err != nil {
			return err
		}
		rooms, err := svc.Rooms(cmd.Context())
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			fmt.Println("No rooms yet. Create one with 'leettrack room create <name>'.")
			return nil
		}
		fmt.Printf("%-38s  %-20s  %s\n", "ID", "Name", "Members")
		fmt.Println(strings.Repeat("─", 70))
		for _, r := range rooms {
			fmt.Printf("%-38s  %-20s  %d\n", r.ID, r.Name, r.ParticipantCount)
		}
		return nil
	},
}

var roomCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a room and join it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := roomService(cmd)
		if err != nil {
			return err
		}
		r, err := svc.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created room %q (%s)\n", r.Name, r.ID)
		return nil
	},
}

var roomJoinCmd = &cobra.Command{
	Use:   "join <room-id>",
	Short: "Join a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := roomService(cmd)
		if err != nil {
			return err
		}
		if err := svc.Join(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Joined.")
		return nil
	},
}

var roomDeleteCmd = &cobra.Command{
	Use:   "delete <room-id>",
	Short: "Delete a room you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := roomService(cmd)
		if err != nil {
			return err
		}
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var roomChatCmd = &cobra.Command{
	Use:   "chat <room-id>",
	Short: "Open a room's chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := roomBackend(cmd)
		if err != nil {
			return err
		}

		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := client.Room(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		provider := buildProvider(cmd.Context(), cfg, st.Events())
		rc := room.NewClient(client, provider, cat, cfg.Identity)
		if err := rc.Start(cmd.Context(), r.ID); err != nil {
			return err
		}
		defer rc.Stop()

		program := tea.NewProgram(tui.NewRoomModel(rc, r.Name, cfg.Identity), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run room UI: %w", err)
		}
		return nil
	},
}

// progressRefreshInterval is the board refresh cadence in watch mode.
const progressRefreshInterval = 15 * time.Second

var roomProgressCmd = &cobra.Command{
	Use:   "progress <room-id>",
	Short: "Show the room's progress board",
	Long:  "Publishes your own progress snapshot, then shows every participant's solved count and streak. With --watch, refreshes every 15s.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")

		svc, cfg, err := roomService(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		p := progress.Load(st.Slots())
		if err := svc.PublishProgress(cmd.Context(), p.Snapshot()); err != nil {
			return err
		}

		for {
			if err := printBoard(cmd, svc, args[0]); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			select {
			case <-cmd.Context().Done():
				return nil
			case <-time.After(progressRefreshInterval):
			}
			fmt.Println()
		}
	},
}

func printBoard(cmd *cobra.Command, svc *room.Service, roomID string) error {
	parts, err := svc.Participants(cmd.Context(), roomID)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		fmt.Println("No participants.")
		return nil
	}
	fmt.Printf("%-20s  %-8s  %-8s  %s\n", "Member", "Solved", "Streak", "Updated")
	fmt.Println(strings.Repeat("─", 52))
	for _, part := range parts {
		updated := "-"
		if !part.UpdatedAt.IsZero() {
			updated = part.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s  %-8d  %-8d  %s\n", part.DisplayName, part.Solved, part.Streak, updated)
	}
	return nil
}

func init() {
	roomCmd.AddCommand(roomListCmd)
	roomCmd.AddCommand(roomCreateCmd)
	roomCmd.AddCommand(roomJoinCmd)
	roomCmd.AddCommand(roomDeleteCmd)
	roomCmd.AddCommand(roomChatCmd)
	roomProgressCmd.Flags().Bool("watch", false, "Keep refreshing the board")

	roomCmd.AddCommand(roomProgressCmd)
}

// roomBackend resolves config and builds the remote client, requiring
// remote collaboration to be configured.
func roomBackend(cmd *cobra.Command) (config.Config, *remote.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	if !cfg.Remote.Enabled() {
		return config.Config{}, nil, fmt.Errorf("rooms need a remote backend: set [remote] base-url and api-key in %s", config.DefaultConfigPath())
	}
	if cfg.Identity.UserID == "" {
		return config.Config{}, nil, fmt.Errorf("rooms need an identity: set [identity] user-id in %s", config.DefaultConfigPath())
	}
	return cfg, remote.New(cfg.Remote), nil
}

func roomService(cmd *cobra.Command) (*room.Service, config.Config, error) {
	cfg, client, err := roomBackend(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	return room.NewService(client, cfg.Identity), cfg, nil
}
