package cli

import (
	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/service"
)

func newDivisionsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "divisions",
		Short: "Manage railway divisions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List divisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Divisions.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Divisions))
			for _, d := range resp.Divisions {
				rows = append(rows, []string{itoa(d.ID), d.Name, str(d.Description), d.CreatedAt})
			}
			return rt.printer(cmd).print(resp, []string{"ID", "Name", "Description", "Created"}, rows)
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a division",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Divisions.Create(cmd.Context(), service.CreateDivisionRequest{
				DivisionName: args[0],
				Description:  description,
			})
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"Division ID", "Message"},
				[][]string{{itoa(resp.DivisionID), resp.Message}})
		},
	}
	create.Flags().StringVar(&description, "description", "", "free-text description")

	remove := &cobra.Command{
		Use:   "delete <division-id>",
		Short: "Delete a division",
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
			resp, err := a.Services.Divisions.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printSuccess(rt.printer(cmd), resp)
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}
