package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/service"
)

func newKeywordsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage the tracked keyword list",
	}

	var division string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tracked keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Keywords.List(cmd.Context(), division)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Keywords))
			for _, k := range resp.Keywords {
				rows = append(rows, []string{itoa(k.ID), k.Keyword, k.Category, yesNo(k.IsActive), k.CreatedAt})
			}
			return rt.printer(cmd).print(resp, []string{"ID", "Keyword", "Category", "Active", "Created"}, rows)
		},
	}
	list.Flags().StringVar(&division, "division", "", "division filter")

	var category string
	var inactive bool
	add := &cobra.Command{
		Use:   "add <keyword>",
		Short: "Track a new keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Keywords.Add(cmd.Context(), service.AddKeywordRequest{
				Keyword:  args[0],
				Category: category,
				IsActive: !inactive,
			})
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"Keyword ID", "Message"},
				[][]string{{itoa(resp.KeywordID), resp.Message}})
		},
	}
	add.Flags().StringVar(&category, "category", "", "keyword category")
	add.Flags().BoolVar(&inactive, "inactive", false, "add the keyword disabled")

	var update service.UpdateKeywordRequest
	var disable bool
	edit := &cobra.Command{
		Use:   "update <keyword-id>",
		Short: "Rename, recategorise or toggle a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if update.Keyword == "" {
				return errors.New("--keyword is required")
			}
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			req := update
			req.KeywordID = id
			req.IsActive = !disable
			resp, err := a.Services.Keywords.Update(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printSuccess(rt.printer(cmd), resp)
		},
	}
	edit.Flags().StringVar(&update.Keyword, "keyword", "", "keyword text")
	edit.Flags().StringVar(&update.Category, "category", "", "keyword category")
	edit.Flags().BoolVar(&disable, "inactive", false, "disable the keyword")

	cmd.AddCommand(list, add, edit)
	return cmd
}
