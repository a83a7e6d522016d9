package cli

import (
	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/service"
)

func newTranscriptsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "Search and analyse transcripts",
		Long: `Search and analyse transcripts. Results are scoped to your division; super
admins may pass --division, or omit it to query every division.`,
	}

	var search service.TranscriptSearch
	var page, limit int
	searchCmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Full-text transcript search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			p := search
			p.Keyword = args[0]
			p.Page = optionalInt(cmd.Flags().Changed("page"), page)
			p.Limit = optionalInt(cmd.Flags().Changed("limit"), limit)
			if p.Division, err = rt.scopedDivision(cmd, a, p.Division); err != nil {
				return err
			}
			resp, err := a.Services.Transcripts.Search(cmd.Context(), p)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Results))
			for _, r := range resp.Results {
				rows = append(rows, []string{itoa(r.ID), r.FileName, r.Division, r.Timestamp, r.MatchedText})
			}
			return rt.printer(cmd).print(resp, []string{"ID", "File", "Division", "Time", "Match"}, rows)
		},
	}
	sf := searchCmd.Flags()
	sf.StringVar(&search.Division, "division", "", "division filter")
	sf.StringVar(&search.LocoPilot, "loco-pilot", "", "loco pilot name")
	sf.StringVar(&search.DateFrom, "from", "", "earliest date (YYYY-MM-DD)")
	sf.StringVar(&search.DateTo, "to", "", "latest date (YYYY-MM-DD)")
	sf.IntVar(&page, "page", 1, "result page")
	sf.IntVar(&limit, "limit", 50, "results per page")

	var kpi service.KPIFilter
	kpiCmd := &cobra.Command{
		Use:   "kpi",
		Short: "Keyword KPI breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			p := kpi
			if p.Division, err = rt.scopedDivision(cmd, a, p.Division); err != nil {
				return err
			}
			resp, err := a.Services.Transcripts.KPI(cmd.Context(), p)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.BreakdownByKeyword)+1)
			for _, k := range sortedKeys(resp.BreakdownByKeyword) {
				rows = append(rows, []string{k, itoa(resp.BreakdownByKeyword[k])})
			}
			rows = append(rows, []string{"Total", itoa(resp.TotalKeywordsFound)})
			return rt.printer(cmd).print(resp, []string{"Keyword", "Occurrences"}, rows)
		},
	}
	kf := kpiCmd.Flags()
	kf.StringVar(&kpi.Division, "division", "", "division filter")
	kf.StringVar(&kpi.StartDate, "start-date", "", "start date (YYYY-MM-DD)")
	kf.StringVar(&kpi.EndDate, "end-date", "", "end date (YYYY-MM-DD)")
	kf.StringVar(&kpi.LocoPilot, "loco-pilot", "", "loco pilot name")
	kf.StringVar(&kpi.Section, "section", "", "section")

	var violations service.ViolationFilter
	violationsCmd := &cobra.Command{
		Use:   "violations",
		Short: "Violation analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			p := violations
			if p.Division, err = rt.scopedDivision(cmd, a, p.Division); err != nil {
				return err
			}
			resp, err := a.Services.Transcripts.Violations(cmd.Context(), p)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Detailed))
			for _, d := range resp.Detailed {
				rows = append(rows, []string{d.FileName, itoa(d.LineNumber), d.Keyword, d.Context})
			}
			return rt.printer(cmd).print(resp, []string{"File", "Line", "Keyword", "Context"}, rows)
		},
	}
	vf := violationsCmd.Flags()
	vf.StringVar(&violations.Division, "division", "", "division filter")
	vf.StringVar(&violations.Keyword, "keyword", "", "keyword")
	vf.StringVar(&violations.StartDate, "start-date", "", "start date (YYYY-MM-DD)")
	vf.StringVar(&violations.EndDate, "end-date", "", "end date (YYYY-MM-DD)")

	cmd.AddCommand(searchCmd, kpiCmd, violationsCmd)
	return cmd
}
