package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/service"
)

func newUploadCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload recordings and look up upload metadata",
	}

	var meta service.UploadMetadata
	audio := &cobra.Command{
		Use:   "audio <file>",
		Short: "Upload an audio recording",
		Long: `Upload an audio recording. With any of the crew or train flags set the
recording is sent with metadata; otherwise only the division accompanies it.

Examples:
  railscope upload audio trip.wav --division Ajmer
  railscope upload audio trip.wav --division Ajmer --train-number 12015 --loco-pilot "R. Meena"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open recording: %w", err)
			}
			defer func() { _ = f.Close() }()

			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			file := service.AudioFile{Name: filepath.Base(args[0]), Content: f}

			withMeta := meta != service.UploadMetadata{Division: meta.Division}
			if withMeta {
				resp, err := a.Services.Upload.AudioWithMetadata(cmd.Context(), file, meta)
				if err != nil {
					return err
				}
				return rt.printer(cmd).print(resp, []string{"File", "Message"},
					[][]string{{resp.FileName, resp.Message}})
			}
			resp, err := a.Services.Upload.Audio(cmd.Context(), file, meta.Division)
			if err != nil {
				return err
			}
			return rt.printer(cmd).print(resp, []string{"File", "Size", "Message"},
				[][]string{{resp.FileName, itoa(resp.Size), resp.Message}})
		},
	}
	af := audio.Flags()
	af.StringVar(&meta.Division, "division", "", "division the recording belongs to")
	af.StringVar(&meta.TrainNumber, "train-number", "", "train number")
	af.StringVar(&meta.LocoNumber, "loco-number", "", "locomotive number")
	af.StringVar(&meta.LocoPilot, "loco-pilot", "", "loco pilot name")
	af.StringVar(&meta.ALPName, "alp-name", "", "assistant loco pilot name")
	af.StringVar(&meta.Section, "section", "", "section")
	af.StringVar(&meta.Designation, "designation", "", "crew designation")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Upload.History(cmd.Context(), optionalInt(cmd.Flags().Changed("limit"), limit))
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Uploads))
			for _, u := range resp.Uploads {
				rows = append(rows, []string{itoa(u.ID), u.FileName, u.Division, u.UploadDate, u.Status})
			}
			return rt.printer(cmd).print(resp, []string{"ID", "File", "Division", "Uploaded", "Status"}, rows)
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum uploads to list")

	var division string
	divisionLookup := func(use, short string, fetch func(cmd *cobra.Command, division string) (any, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := fetch(cmd, division)
				if err != nil {
					return err
				}
				return rt.printer(cmd).JSON(resp)
			},
		}
		c.Flags().StringVar(&division, "division", "", "division filter")
		return c
	}

	dropdown := divisionLookup("dropdown", "Upload form choices: divisions, pilots, sections, designations",
		func(cmd *cobra.Command, division string) (any, error) {
			a, err := rt.App(cmd)
			if err != nil {
				return nil, err
			}
			return a.Services.Upload.DropdownData(cmd.Context(), division)
		})
	lpAlp := divisionLookup("lp-alp", "Known loco pilots, assistants and sections",
		func(cmd *cobra.Command, division string) (any, error) {
			a, err := rt.App(cmd)
			if err != nil {
				return nil, err
			}
			return a.Services.Upload.LpAlpSectionData(cmd.Context(), division)
		})
	combos := divisionLookup("lp-alp-combinations", "Recorded pilot, assistant and section combinations",
		func(cmd *cobra.Command, division string) (any, error) {
			a, err := rt.App(cmd)
			if err != nil {
				return nil, err
			}
			return a.Services.Upload.LpAlpSectionCombinations(cmd.Context(), division)
		})

	var lpDivision string
	lpFiles := &cobra.Command{
		Use:   "lp-files <loco-pilot>",
		Short: "List recordings for one loco pilot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Services.Upload.LpFiles(cmd.Context(), args[0], lpDivision)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(resp.Files))
			for _, f := range resp.Files {
				rows = append(rows, []string{f.FileName, f.Division, f.UploadDate})
			}
			return rt.printer(cmd).print(resp, []string{"File", "Division", "Uploaded"}, rows)
		},
	}
	lpFiles.Flags().StringVar(&lpDivision, "division", "", "division filter")

	var fileID int64
	var filename string
	audioURL := &cobra.Command{
		Use:   "audio-url",
		Short: "Print the playback URL for a stored recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd)
			if err != nil {
				return err
			}
			var id *int64
			if cmd.Flags().Changed("file-id") {
				id = &fileID
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Services.Upload.AudioFileURL(id, filename))
			return err
		},
	}
	audioURL.Flags().Int64Var(&fileID, "file-id", 0, "database file id")
	audioURL.Flags().StringVar(&filename, "filename", "", "stored file name")

	cmd.AddCommand(audio, history, dropdown, lpAlp, combos, lpFiles, audioURL)
	return cmd
}
