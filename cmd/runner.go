package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytls/internal/auth"
	"github.com/desertthunder/ytls/internal/services"
	"github.com/desertthunder/ytls/internal/shared"
	"github.com/desertthunder/ytls/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The library and credential manager are built lazily so commands that never
// touch the API (setup, cache reads) work without client secrets present.
type Runner struct {
	config     *shared.Config
	configPath string
	auth       *auth.Manager
	library    services.Library
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.PlaylistEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Auth       *auth.Manager
	Library    services.Library
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
		opts.HTTPClient = http.DefaultClient
	}

	var engine *tasks.PlaylistEngine
	if opts.Library != nil {
		engine = tasks.NewPlaylistEngine(opts.Library)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		auth:       opts.Auth,
		library:    opts.Library,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, collectCommand, playlistsCommand, itemsCommand, exportCommand, importCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger and propagates it to the credential manager.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.auth != nil {
		r.auth.SetLogger(logger)
	}
}

// ensureAuth builds the credential manager from the configured client secrets.
func (r *Runner) ensureAuth() (*auth.Manager, error) {
	if r.auth != nil {
		return r.auth, nil
	}

	manager, err := auth.NewManager(r.config)
	if err != nil {
		return nil, err
	}
	manager.SetLogger(r.logger)
	manager.SetOutput(r.output)

	r.auth = manager
	return r.auth, nil
}

// ensureClient returns an HTTP client carrying valid OAuth credentials,
// running the consent flow if no usable token is cached.
func (r *Runner) ensureClient(ctx context.Context) (*http.Client, error) {
	manager, err := r.ensureAuth()
	if err != nil {
		return nil, err
	}

	return manager.Client(ctx)
}

// ensureLibrary returns the Data API library, authenticating on first use.
func (r *Runner) ensureLibrary(ctx context.Context) (services.Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	client, err := r.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	r.buildLibrary(client)
	return r.library, nil
}

// ensureEngine returns the collection engine, authenticating on first use.
func (r *Runner) ensureEngine(ctx context.Context) (*tasks.PlaylistEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	if _, err := r.ensureLibrary(ctx); err != nil {
		return nil, err
	}

	return r.engine, nil
}

// ensureAPI returns the raw API client, authenticating on first use.
func (r *Runner) ensureAPI(ctx context.Context) (*services.APIService, error) {
	if r.api != nil {
		return r.api, nil
	}

	client, err := r.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	r.api = services.NewAPIService("", client)
	return r.api, nil
}

func (r *Runner) buildLibrary(client *http.Client) {
	r.library = services.NewYouTubeService(client, services.YouTubeOpts{
		PageSize:  r.config.Collector.PageSize,
		RateLimit: r.config.Collector.RateLimit,
	})
	r.engine = tasks.NewPlaylistEngine(r.library)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
