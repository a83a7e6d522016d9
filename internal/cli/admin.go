package cli

import (
	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/service"
)

func newAdminCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Ingestion and synchronisation controls",
	}

	var counts service.FileCountsFilter
	fileCounts := &cobra.Command{
		Use:   "file-counts",
		Short: "File count summary by division",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Admin.FileCounts(cmd.Context(), counts)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.ByDivision)+1)
			for _, d := range sortedKeys(resp.ByDivision) {
				rows = append(rows, []string{d, itoa(resp.ByDivision[d])})
			}
			rows = append(rows, []string{"Total", itoa(resp.TotalFiles)})
			return rt.printer(cmd).print(resp, []string{"Division", "Files"}, rows)
		},
	}
	fileCounts.Flags().StringVar(&counts.Division, "division", "", "division filter")
	fileCounts.Flags().StringVar(&counts.StartDate, "start-date", "", "start date (YYYY-MM-DD)")
	fileCounts.Flags().StringVar(&counts.EndDate, "end-date", "", "end date (YYYY-MM-DD)")

	realtime := &cobra.Command{
		Use:   "realtime-counts",
		Short: "Live file counts, including today's uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Admin.RealTimeCounts(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.ByDivision)+1)
			for _, d := range sortedKeys(resp.ByDivision) {
				c := resp.ByDivision[d]
				rows = append(rows, []string{d, itoa(c.Total), itoa(c.Today)})
			}
			rows = append(rows, []string{"Total", itoa(resp.TotalFiles), itoa(resp.FilesToday)})
			return rt.printer(cmd).print(resp, []string{"Division", "Files", "Today"}, rows)
		},
	}

	var syncDivision string
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Sync uploaded files from S3 into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Admin.SyncS3(cmd.Context(), syncDivision)
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"Files synced", "Message"},
				[][]string{{itoa(resp.FilesSynced), resp.Message}})
		},
	}
	sync.Flags().StringVar(&syncDivision, "division", "", "only sync this division")

	autoSync := &cobra.Command{
		Use:   "auto-sync",
		Short: "Control the periodic S3 sync",
	}
	autoSync.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start periodic sync",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := rt.App(cmd)
				if err != nil {
					return err
				}
				resp, err := a.Services.Admin.StartAutoSync(cmd.Context())
				if err != nil {
					return err
				}
				return printSuccess(rt.printer(cmd), resp)
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop periodic sync",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := rt.App(cmd)
				if err != nil {
					return err
				}
				resp, err := a.Services.Admin.StopAutoSync(cmd.Context())
				if err != nil {
					return err
				}
				return printSuccess(rt.printer(cmd), resp)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show periodic sync state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := rt.App(cmd)
				if err != nil {
					return err
				}
				resp, err := a.Services.Admin.AutoSyncStatus(cmd.Context())
				if err != nil {
					return err
				}
				return rt.printer(cmd).print(resp, []string{"Running", "Last sync", "Next sync"},
					[][]string{{yesNo(resp.IsRunning), str(resp.LastSync), str(resp.NextSync)}})
			},
		},
	)

	initDB := &cobra.Command{
		Use:   "init-db",
		Short: "Initialise the backend database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Admin.InitializeDatabase(cmd.Context())
			if err != nil {
				return err
			}
			return printSuccess(rt.printer(cmd), resp)
		},
	}

	ingestion := &cobra.Command{
		Use:   "ingestion-status",
		Short: "Show transcript ingestion progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Admin.IngestionStatus(cmd.Context())
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"Status", "Processed", "Pending", "Last update"},
				[][]string{{resp.Status, itoa(resp.FilesProcessed), itoa(resp.FilesPending), resp.LastUpdate}})
		},
	}

	cmd.AddCommand(fileCounts, realtime, sync, autoSync, initDB, ingestion)
	return cmd
}
