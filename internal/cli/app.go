// Package cli implements panelctl, the command-line front end of the
// engine: validate, check, fix and copy-configs.
//
// Exit codes are stable and meant for CI gates: 0 when every document is
// clean (advisories allowed), 1 when a blocking violation remains, 2 for
// usage errors, structural failures and I/O errors.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/config"
	"github.com/KevinKickass/PanelSchema/internal/hardware"
	"github.com/KevinKickass/PanelSchema/internal/logging"
	"github.com/KevinKickass/PanelSchema/internal/pipeline"
	"github.com/KevinKickass/PanelSchema/internal/schema"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

const (
	ExitOK       = 0
	ExitBlocking = 1
	ExitFailure  = 2
)

// ExitError ends a command with a code after it has printed its own
// output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) ExitCode() int {
	return e.Code
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Logger overrides the logger built from configuration.
	Logger *zap.Logger
}

func New(stdout, stderr io.Writer) *App {
	return &App{Stdout: stdout, Stderr: stderr}
}

type command struct {
	name    string
	summary string
	run     func(a *App, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{"validate", "check documents against the panel schema only", (*App).validate},
		{"check", "validate, resolve and check schemas against hardware", (*App).check},
		{"fix", "apply safe repairs and write changed schemas back", (*App).fix},
		{"copy-configs", "merge a hardware document into schemas", (*App).copyConfigs},
	}
}

// Run executes args (without the program name) and returns the exit code.
func (a *App) Run(args []string) int {
	err := a.dispatch(args)
	if err == nil {
		return ExitOK
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(a.Stderr, "error: %s\n\n", usage.msg)
		a.printUsage()
		return ExitFailure
	}
	fmt.Fprintf(a.Stderr, "error: %v\n", err)
	return ExitFailure
}

func (a *App) dispatch(args []string) error {
	if len(args) == 0 {
		return usagef("missing command")
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		a.printUsage()
		return nil
	}
	for _, cmd := range a.commands() {
		if cmd.name == name {
			return cmd.run(a, args[1:])
		}
	}
	return usagef("unknown command %q", name)
}

func (a *App) printUsage() {
	fmt.Fprintln(a.Stderr, "Usage: panelctl <command> [flags] <schema>...")
	fmt.Fprintln(a.Stderr)
	fmt.Fprintln(a.Stderr, "Commands:")
	for _, cmd := range a.commands() {
		fmt.Fprintf(a.Stderr, "  %-13s %s\n", cmd.name, cmd.summary)
	}
}

// commonFlags are shared by every command that touches hardware.
type commonFlags struct {
	configPath  string
	hardware    string
	hardwareDir []string
	production  bool
	verbose     bool
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", os.Getenv("PANEL_CONFIG"), "path to config file")
	fs.StringVar(&f.hardware, "hardware", "", "hardware document: a file path, or a name looked up in the hardware dirs")
	fs.StringSliceVar(&f.hardwareDir, "hardware-dir", nil, "directories searched for named hardware documents")
	fs.BoolVar(&f.production, "production", false, "enable production-only rules")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

func (a *App) parse(name string, args []string, setup func(fs *pflag.FlagSet)) ([]string, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	setup(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ExitError{Code: ExitOK}
		}
		return nil, usagef("%s: %v", name, err)
	}
	if fs.NArg() == 0 {
		return nil, usagef("%s: no schema files given", name)
	}
	return fs.Args(), nil
}

// env is everything a command needs once flags are parsed.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	validator *schema.Validator
	engine    *pipeline.Engine
	loader    *hardware.Loader
}

func (a *App) setup(flags commonFlags) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	logger := a.Logger
	if logger == nil {
		logCfg := cfg.Log
		if flags.verbose {
			logCfg = config.LogConfig{Level: "debug", Development: true}
		} else if !strings.EqualFold(logCfg.Level, "debug") {
			logCfg.Level = "warn"
		}
		if logger, err = logging.New(logCfg); err != nil {
			return nil, err
		}
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile panel schema: %w", err)
	}

	searchPaths := cfg.Engine.HardwareSearchPaths
	if len(flags.hardwareDir) > 0 {
		searchPaths = flags.hardwareDir
	}

	return &env{
		cfg:       cfg,
		logger:    logger,
		validator: validator,
		engine: pipeline.NewEngine(validator, pipeline.Options{
			Production:  flags.production || cfg.Engine.Production,
			Parallelism: cfg.Engine.Parallelism,
		}, logger),
		loader: hardware.NewLoader(validator, searchPaths, logger),
	}, nil
}

// loadHardware returns nil when ref is empty. An existing file path wins
// over a name lookup.
func (e *env) loadHardware(ref string) (*types.HardwareConfig, error) {
	if ref == "" {
		return nil, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return e.loader.LoadFile(ref)
	}
	return e.loader.Load(ref)
}
