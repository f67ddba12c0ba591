package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/timewarpfm/timewarp/internal/chart"
	"github.com/timewarpfm/timewarp/internal/pipeline"
	"github.com/timewarpfm/timewarp/internal/services"
	"github.com/timewarpfm/timewarp/internal/session"
	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	spotify   *services.SpotifyService
	extractor *chart.Extractor
	engine    *pipeline.Engine
	session   *session.Cache
	logger    *log.Logger
	output    io.Writer
	input     io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Spotify   *services.SpotifyService
	Extractor *chart.Extractor
	Session   *session.Cache
	Logger    *log.Logger
	Output    io.Writer
	Input     io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	engineOpts := pipeline.EngineOpts{Logger: opts.Logger}
	if opts.Extractor != nil {
		engineOpts.Chart = opts.Extractor
	}
	if opts.Spotify != nil {
		engineOpts.Tokens = opts.Spotify
		engineOpts.Resolver = opts.Spotify
		engineOpts.Publisher = opts.Spotify
	}

	return &Runner{
		config:    opts.Config,
		spotify:   opts.Spotify,
		extractor: opts.Extractor,
		engine:    pipeline.NewEngine(engineOpts),
		session:   opts.Session,
		logger:    opts.Logger,
		output:    opts.Output,
		input:     opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		buildCommand, chartCommand, searchCommand, authCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireSpotify guards commands that need OAuth client credentials.
func (r *Runner) requireSpotify() error {
	if err := r.config.RequireCredentials(); err != nil {
		return err
	}
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrMissingCredentials)
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
