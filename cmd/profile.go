package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"leettrack/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your display profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile",
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

		p, err := st.Profile().Load()
		if err != nil {
			return err
		}
		if p == (store.Profile{}) {
			fmt.Println("No profile set. Use 'leettrack profile set --name <name>'.")
			return nil
		}
		fmt.Printf("Name:     %s\n", p.DisplayName)
		fmt.Printf("Avatar:   %s\n", p.AvatarURL)
		fmt.Printf("LeetCode: %s\n", p.LeetcodeUsername)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set profile fields",
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

		p, err := st.Profile().Load()
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("name"); v != "" {
			p.DisplayName = v
		}
		if v, _ := cmd.Flags().GetString("avatar"); v != "" {
			p.AvatarURL = v
		}
		if v, _ := cmd.Flags().GetString("leetcode"); v != "" {
			p.LeetcodeUsername = v
		}
		if err := st.Profile().Save(p); err != nil {
			return err
		}
		fmt.Println("Profile saved.")
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("name", "", "Display name shown in rooms")
	profileSetCmd.Flags().String("avatar", "", "Avatar image URL")
	profileSetCmd.Flags().String("leetcode", "", "LeetCode username")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}
