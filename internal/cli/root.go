package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/app"
	"github.com/railscope/railscope/internal/config"
	"github.com/railscope/railscope/internal/session"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	origin     string
	apiBaseURL string
	stateDir   string
	logLevel   string
	logFormat  string
	timeout    int
	output     string
}

// runtime lazily builds the App for commands that talk to the backend.
type runtime struct {
	flags globalFlags
	app   *app.App
}

// ExecuteContext runs the railscope command line with os.Args.
func ExecuteContext(ctx context.Context) error {
	rt := &runtime{}
	defer rt.close()
	return newRootCommand(rt).ExecuteContext(ctx)
}

func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "railscope",
		Short: "Terminal client for the railway transcript analysis service",
		Long: `railscope signs in to the transcript analysis backend and exposes every
resource it serves: users, divisions, files, transcripts, dashboards, admin
operations, uploads and keywords. Run "railscope dashboard" for the live
terminal dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := &rt.flags
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&f.envFile, "env-file", "", "dotenv file to load (default ./.env)")
	pf.StringVar(&f.origin, "origin", "", "backend origin, e.g. http://10.0.0.5:8000")
	pf.StringVar(&f.apiBaseURL, "api-base-url", "", "API base path or absolute URL")
	pf.StringVar(&f.stateDir, "state-dir", "", "directory for session state and cookies")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "log format (text, json)")
	pf.IntVar(&f.timeout, "timeout", 0, "request timeout in seconds")
	pf.StringVarP(&f.output, "output", "o", "table", "output format (table, json)")

	root.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newDashboardCommand(rt),
		newUsersCommand(rt),
		newDivisionsCommand(rt),
		newFilesCommand(rt),
		newTranscriptsCommand(rt),
		newAdminCommand(rt),
		newUploadCommand(rt),
		newKeywordsCommand(rt),
	)
	return root
}

// options translates the flags into app options. Flags win over every
// other configuration source.
func (rt *runtime) options(stderr io.Writer, logToStderr bool) app.Options {
	f := rt.flags
	return app.Options{
		ConfigPath: f.configPath,
		EnvFile:    f.envFile,
		LogStderr:  logToStderr,
		Stderr:     stderr,
		Override: func(cfg *config.Config) {
			if f.origin != "" {
				cfg.Origin = f.origin
			}
			if f.apiBaseURL != "" {
				cfg.APIBaseURL = f.apiBaseURL
			}
			if f.stateDir != "" {
				cfg.StateDir = f.stateDir
			}
			if f.logLevel != "" {
				cfg.LogLevel = f.logLevel
			}
			if f.logFormat != "" {
				cfg.LogFormat = f.logFormat
			}
			if f.timeout > 0 {
				cfg.TimeoutSeconds = f.timeout
			}
		},
	}
}

// App returns the shared App, building it on first use.
func (rt *runtime) App(cmd *cobra.Command) (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}
	a, err := app.New(rt.options(cmd.ErrOrStderr(), true))
	if err != nil {
		return nil, err
	}
	rt.app = a
	return a, nil
}

func (rt *runtime) close() {
	if rt.app != nil {
		_ = rt.app.Close()
		rt.app = nil
	}
}

func (rt *runtime) printer(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout(), json: strings.EqualFold(rt.flags.output, "json")}
}

// scopedDivision verifies the session and applies the division rules for
// queries that the backend scopes by division.
func (rt *runtime) scopedDivision(cmd *cobra.Command, a *app.App, requested string) (string, error) {
	user, err := a.RequireUser(cmd.Context())
	if err != nil {
		return "", err
	}
	return session.EffectiveDivisionFilter(user, requested)
}

// ExitMessage renders err for the terminal. Backend and transport failures
// use the "request failed: <detail>" form.
func ExitMessage(err error) string {
	if err == nil {
		return ""
	}
	if api.Classify(err) != api.KindOther {
		return api.Describe(err)
	}
	return err.Error()
}
