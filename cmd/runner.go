package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/player"
	"github.com/desertthunder/soundx/internal/repositories"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
	"github.com/desertthunder/soundx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The application core is assembled on first use so commands that never touch the backend
// (setup, help) do not open the database.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	state   *tasks.State
	catalog services.Catalog
	api     *services.APIClient // nil when a custom catalog is injected
	store   tasks.CredentialStore
	player  player.Player

	db  *sql.DB
	app *tasks.App
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer

	// Optional overrides, mostly for tests. Defaults talk to the configured backend, persist the
	// credential in SQLite and play through the configured player command.
	State   *tasks.State
	Catalog services.Catalog
	Store   tasks.CredentialStore
	Player  player.Player
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout.Duration}
	}
	if opts.State == nil {
		opts.State = tasks.NewState()
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		state:      opts.State,
		catalog:    opts.Catalog,
		store:      opts.Store,
		player:     opts.Player,
	}

	if r.catalog == nil {
		r.api = services.NewAPIClient(opts.Config.API.BaseURL, opts.HTTPClient, opts.State)
		r.catalog = r.api
	}
	return r
}

// SetLogger replaces the logger. Must be called before the first command touches the app.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, playlistsCommand, playCommand, historyCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// App assembles the application core, opening the credential database when no store was injected.
func (r *Runner) App() (*tasks.App, error) {
	if r.app != nil {
		return r.app, nil
	}

	if r.store == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open credential store: %w", err)
		}
		r.db = db
		r.store = repositories.NewCredentialRepository(db)
	}
	if r.player == nil {
		r.player = player.FromConfig(r.config.Player, r.logger)
	}

	r.app = tasks.NewApp(r.state, r.catalog, r.store, r.player, r.logger)
	return r.app, nil
}

// authenticated restores the stored session; commands that need one fail when it is missing or rejected.
func (r *Runner) authenticated(ctx context.Context) (*tasks.App, error) {
	app, err := r.App()
	if err != nil {
		return nil, err
	}

	if _, ok := app.Sessions.Restore(ctx); !ok {
		return nil, fmt.Errorf("%w: run 'soundx auth signin <email>' first", shared.ErrNotAuthenticated)
	}
	return app, nil
}

// Close waits for background play logging and releases the database.
func (r *Runner) Close() error {
	if r.app != nil {
		r.app.Playback.Wait()
	}
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// queryArg joins the positional arguments into one search query.
func queryArg(cmd *cli.Command) string {
	return strings.Join(cmd.Args().Slice(), " ")
}
