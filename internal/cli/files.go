package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newFilesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Browse transcript files",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List files in the upload store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Files.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Files))
			for _, name := range resp.Files {
				rows = append(rows, []string{name, resp.Source})
			}
			return rt.printer(cmd).print(resp, []string{"File", "Source"}, rows)
		},
	}

	var division string
	database := &cobra.Command{
		Use:   "database",
		Short: "List files ingested into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Files.Database(cmd.Context(), division)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Files))
			for _, f := range resp.Files {
				rows = append(rows, []string{itoa(f.ID), f.FileName, f.Division, itoa(f.FileSize), f.UploadedAt})
			}
			return rt.printer(cmd).print(resp, []string{"ID", "File", "Division", "Size", "Uploaded"}, rows)
		},
	}
	database.Flags().StringVar(&division, "division", "", "division filter")

	content := &cobra.Command{
		Use:   "content <filename>",
		Short: "Print the parsed rows of an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Files.Content(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.printer(cmd).JSON(resp)
		},
	}

	var page, perPage int
	dbContent := &cobra.Command{
		Use:   "database-content <file-id>",
		Short: "Print one page of a database file's rows",
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
			flags := cmd.Flags()
			resp, err := a.Services.Files.DatabaseContent(cmd.Context(), id,
				optionalInt(flags.Changed("page"), page),
				optionalInt(flags.Changed("per-page"), perPage))
			if err != nil {
				return err
			}
			return rt.printer(cmd).JSON(resp)
		},
	}
	dbContent.Flags().IntVar(&page, "page", 1, "page number")
	dbContent.Flags().IntVar(&perPage, "per-page", 50, "rows per page")

	var divisions []string
	combined := &cobra.Command{
		Use:   "combined",
		Short: "List files across several divisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Files.Combined(cmd.Context(), strings.Join(divisions, ","))
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Files))
			for _, f := range resp.Files {
				rows = append(rows, []string{f.FileName, f.Division, itoa(f.RowCount)})
			}
			return rt.printer(cmd).print(resp, []string{"File", "Division", "Rows"}, rows)
		},
	}
	combined.Flags().StringSliceVar(&divisions, "divisions", nil, "divisions to include (comma separated)")

	var fileIDs []string
	combinedContent := &cobra.Command{
		Use:   "combined-content",
		Short: "Print the rows of several files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Files.CombinedContent(cmd.Context(), strings.Join(fileIDs, ","))
			if err != nil {
				return err
			}
			return rt.printer(cmd).JSON(resp)
		},
	}
	combinedContent.Flags().StringSliceVar(&fileIDs, "file-ids", nil, "file ids (comma separated)")

	cmd.AddCommand(list, database, content, dbContent, combined, combinedContent)
	return cmd
}
