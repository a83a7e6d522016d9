package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/session"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var username, password, division string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		Long: `Sign in to the backend. The session cookie and the signed-in user are
saved in the state directory, so later commands and the dashboard reuse them.

When --password is omitted it is read from the first line of stdin.

Examples:
  railscope login -u ravi -p secret
  railscope login -u ravi --division Ajmer < password.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("--password is required")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			result := a.Session.Login(cmd.Context(), username, password, division)
			if !result.Success {
				return fmt.Errorf("login failed: %s", result.Error)
			}
			user := a.Session.State().User
			return rt.printer(cmd).print(user, userHeaders, [][]string{userRow(user)})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	cmd.Flags().StringVar(&division, "division", "", "division to sign in to (optional)")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget saved credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			a.Session.Logout(cmd.Context())
			return rt.printer(cmd).Message("Signed out")
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the saved session and show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			user, err := a.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(user, userHeaders, [][]string{userRow(user)})
		},
	}
}

var userHeaders = []string{"ID", "Username", "Role", "Division", "Last login"}

func userRow(u *session.User) []string {
	division := u.Division
	if division == "" && session.CanAccessAllDivisions(u.Role) {
		division = session.AllDivisions
	}
	return []string{itoa(u.ID), u.Username, u.Role.String(), division, u.LastLoggedIn}
}
