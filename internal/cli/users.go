package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
)

func newUsersCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	var detailed bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			fetch := a.Services.Users.List
			if detailed {
				fetch = a.Services.Users.Detailed
			}
			resp, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Users))
			for _, u := range resp.Users {
				role := session.DeriveRole(u.IsAdmin, u.IsSuperAdmin)
				rows = append(rows, []string{itoa(u.ID), u.Username, role.String(), str(u.Division), str(u.LastLoggedIn)})
			}
			return rt.printer(cmd).print(resp, userHeaders, rows)
		},
	}
	list.Flags().BoolVar(&detailed, "detailed", false, "use the detailed listing (creation time, credentials)")

	var create service.CreateUserRequest
	add := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if create.Username == "" || create.Password == "" {
				return fmt.Errorf("--username and --password are required")
			}
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Users.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"User ID", "Message"},
				[][]string{{itoa(resp.UserID), resp.Message}})
		},
	}
	add.Flags().StringVarP(&create.Username, "username", "u", "", "username")
	add.Flags().StringVarP(&create.Password, "password", "p", "", "initial password")
	add.Flags().StringVar(&create.Division, "division", "", "division the user belongs to")

	remove := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Users.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printSuccess(rt.printer(cmd), resp)
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printSuccess(p printer, resp *service.SuccessResponse) error {
	if p.json {
		return p.JSON(resp)
	}
	if resp.Message != "" {
		return p.Message("%s", resp.Message)
	}
	return p.Message("success: %s", yesNo(resp.Success))
}
