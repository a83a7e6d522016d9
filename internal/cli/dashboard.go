package cli

import (
	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/app"
	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
)

func newDashboardCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the live terminal dashboard",
		Long: `Open the live terminal dashboard. Without a subcommand this starts the
interactive view; "data" and "stats" print the underlying numbers once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), rt.options(cmd.ErrOrStderr(), false))
		},
	}

	var filter service.DashboardFilter
	data := &cobra.Command{
		Use:   "data",
		Short: "Print dashboard totals and chart data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			f := filter
			if f.Division, err = rt.scopedDivision(cmd, a, f.Division); err != nil {
				return err
			}
			resp, err := a.Services.Dashboard.Data(cmd.Context(), f)
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"Files", "Records", "Keywords found"},
				[][]string{{itoa(resp.TotalFiles), itoa(resp.TotalRecords), itoa(resp.KeywordsFound)}})
		},
	}
	data.Flags().StringVar(&filter.Division, "division", "", "division filter (super admins; \""+session.AllDivisions+"\" for all)")
	data.Flags().StringVar(&filter.StartDate, "start-date", "", "start date (YYYY-MM-DD)")
	data.Flags().StringVar(&filter.EndDate, "end-date", "", "end date (YYYY-MM-DD)")
	data.Flags().StringVar(&filter.LocoPilot, "loco-pilot", "", "loco pilot name")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print database statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Dashboard.Stats(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.ByDivision))
			for _, name := range sortedKeys(resp.ByDivision) {
				rows = append(rows, []string{name, itoa(resp.ByDivision[name])})
			}
			rows = append(rows, []string{"Total", itoa(resp.TotalTranscripts)})
			return rt.printer(cmd).print(resp, []string{"Division", "Transcripts"}, rows)
		},
	}

	cmd.AddCommand(data, stats)
	return cmd
}
