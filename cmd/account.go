package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		flag := func(name string) string {
			v, _ := cmd.Flags().GetString(name)
			return strings.TrimSpace(v)
		}
		in := identity.RegisterInput{
			FullName: flag("name"),
			Email:    flag("email"),
			Password: flag("password"),
			Role:     identity.Role(strings.ToLower(flag("role"))),
			School:   flag("school"),
			Course:   flag("course"),
		}
		if in.Password == "" {
			if in.Password, err = newPrompter().line("Password: "); err != nil {
				return err
			}
		}
		in.ConfirmPassword = in.Password

		if err := d.identity.Register(cmd.Context(), in); err != nil {
			return err
		}
		fmt.Printf("Account created for %s. Run `lennai login` to sign in.\n", in.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		p := newPrompter()
		if email == "" {
			if email, err = p.line("Email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = p.line("Password: "); err != nil {
				return err
			}
		}

		u, err := d.identity.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s).\n", u.FullName, u.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.identity.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := d.signedIn(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Name:    %s\n", u.FullName)
		fmt.Printf("Email:   %s\n", u.Email)
		fmt.Printf("Role:    %s\n", u.Role)
		fmt.Printf("School:  %s\n", u.School)
		if u.IsLecturer() {
			fmt.Printf("Dept:    %s\n", u.Course)
		} else {
			fmt.Printf("Course:  %s\n", u.Course)
		}
		return nil
	},
}

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Show points, streak and recent games",
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
		limit, _ := cmd.Flags().GetInt("limit")
		events, err := d.store.RewardRepo().QueryRewardEvents(ctx, u.ID, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query rewards: %w", err)
		}
		t := rewards.Summarize(events)
		fmt.Printf("◆ %d points   ★ %d streak   %d of %d games won\n", t.Points, t.Streak, t.Wins, t.Games)
		if len(events) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-19s  %-9s  %-6s  %7s  %6s\n", "Time", "Game", "Result", "Score", "Points")
		fmt.Println(strings.Repeat("─", 56))
		for i, e := range events {
			if limit > 0 && i >= limit {
				break
			}
			result := "lost"
			if e.Won {
				result = "won"
			}
			fmt.Printf("%-19s  %-9s  %-6s  %7s  %6d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Game, result, fmt.Sprintf("%d/%d", e.Score, e.Total), e.Points)
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("password", "", "Password (prompted when empty)")
	registerCmd.Flags().String("role", string(identity.RoleStudent), "student or lecturer")
	registerCmd.Flags().String("school", "", "School or university")
	registerCmd.Flags().String("course", "", "Course (department for lecturers)")

	loginCmd.Flags().String("email", "", "Email address")
	loginCmd.Flags().String("password", "", "Password (prompted when empty)")

	rewardsCmd.Flags().IntP("limit", "n", 10, "Number of recent games to show")
}
