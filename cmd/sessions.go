package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/chat"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse your stored tutoring sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := d.signedIn(ctx)
		if err != nil {
			return err
		}
		list, err := d.sessions.ListSessions(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No sessions yet. Try `lennai chat`.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %s\n", "ID", "Started", "Title")
		fmt.Println(strings.Repeat("─", 90))
		for _, s := range list {
			fmt.Printf("%-36s  %-16s  %s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Title)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Replay a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := d.signedIn(ctx)
		if err != nil {
			return err
		}
		orch := chat.NewOrchestrator(d.gateway, d.sessions, u.ID)
		if err := orch.Restore(ctx, args[0]); err != nil {
			return fmt.Errorf("restore session: %w", err)
		}

		viewName, _ := cmd.Flags().GetString("view")
		view, _ := chat.ParseView(viewName)
		fmt.Println(orch.Title())
		fmt.Println(strings.Repeat("─", 60))
		for _, m := range orch.Messages() {
			if m.Role == chat.RoleUser {
				fmt.Printf("\nyou> %s\n\n", m.Content)
				continue
			}
			if m.Payload == nil {
				fmt.Println(m.Content)
				continue
			}
			printStudyUnit(m.Payload, view)
		}
		return nil
	},
}

func init() {
	sessionsShowCmd.Flags().String("view", string(chat.ViewOverview), "How to show replies: overview, slides, flashcards or quiz")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}
