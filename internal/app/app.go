package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/config"
	"github.com/railscope/railscope/internal/localstore"
	"github.com/railscope/railscope/internal/logging"
	"github.com/railscope/railscope/internal/prefs"
	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
	"github.com/railscope/railscope/internal/state"
	"github.com/railscope/railscope/internal/ui"
)

// Options configure how an App is assembled.
type Options struct {
	ConfigPath string
	EnvFile    string               // empty uses ./.env
	Override   func(*config.Config) // command-line flags, applied last
	LogStderr  bool                 // CLI commands log to stderr instead of the log file
	Stderr     io.Writer
	Ephemeral  bool // keep session state in memory only
}

// App holds the wired collaborators shared by the TUI and the CLI.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Client    *api.Client
	Services  *service.Set
	Session   *session.Manager
	Local     localstore.KV
	Dashboard *state.Store

	logCloser io.Closer
}

// New loads configuration and builds every component. Call Close when done.
func New(opts Options) (*App, error) {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Override != nil {
		opts.Override(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logFile := cfg.LogFile
	if opts.LogStderr {
		logFile = "-"
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   logFile,
		Stderr: opts.Stderr,
	})
	if err != nil {
		return nil, err
	}

	var kv localstore.KV
	if opts.Ephemeral {
		kv = localstore.NewMemory()
	} else {
		store, err := localstore.Open(cfg.StateDir)
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		kv = store
	}
	cookies := localstore.NewCookieStore(kv)

	client, err := api.NewClient(api.Options{
		Origin:   cfg.Origin,
		BasePath: cfg.APIBaseURL,
		Timeout:  cfg.Timeout(),
		Cookies:  cookies,
		Logger:   logger.With("component", "api"),
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	services := service.New(client)

	manager := session.NewManager(session.Options{
		Auth:    services.Auth,
		Storage: kv,
		Cookies: client,
		Logger:  logger.With("component", "session"),
	})

	logger.Debug("railscope configured", "base_url", client.BaseURL(), "state_dir", cfg.StateDir)
	return &App{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Services:  services,
		Session:   manager,
		Local:     kv,
		Dashboard: &state.Store{},
		logCloser: closer,
	}, nil
}

// Close releases the log file.
func (a *App) Close() error {
	if a == nil || a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

// Restore runs the bootstrap verification to completion. CLI commands use
// it to learn who is signed in before acting.
func (a *App) Restore(ctx context.Context) session.State {
	task := a.Session.Bootstrap(ctx)
	task.Wait()
	return a.Session.State()
}

// ErrSignedOut is returned by commands that need a verified session.
var ErrSignedOut = errors.New("not signed in; run `railscope login` first")

// RequireUser restores the session and returns the verified user.
func (a *App) RequireUser(ctx context.Context) (*session.User, error) {
	st := a.Restore(ctx)
	if st.Phase != session.Authenticated || st.User == nil {
		return nil, ErrSignedOut
	}
	return st.User, nil
}

// Run boots the dashboard TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	a, err := New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	userPrefs, err := prefs.Load(a.Config.PrefsPath())
	if err != nil {
		a.Logger.Warn("load prefs failed", "error", err)
	}
	theme := userPrefs.Theme
	if a.Config.Theme != "" {
		theme = a.Config.Theme
	}
	a.Dashboard.SetDivision(userPrefs.Division)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	task := a.Session.Bootstrap(ctx)
	defer task.Cancel()

	refresher := NewRefresher(RefresherOptions{
		Services: a.Services,
		Session:  a.Session,
		Store:    a.Dashboard,
		Interval: a.Config.RefreshInterval(),
		Logger:   a.Logger.With("component", "refresher"),
	})
	refresher.Start(ctx)

	return ui.Run(ui.Options{
		Context:     ctx,
		Session:     a.Session,
		Transcripts: a.Services.Transcripts,
		Store:       a.Dashboard,
		Refresher:   refresher,
		PollTick:    time.Second,
		ThemeName:   theme,
		PrefsPath:   a.Config.PrefsPath(),
		Logger:      a.Logger.With("component", "ui"),
	})
}
