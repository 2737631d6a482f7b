package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/modbar/internal/app"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	ListModules bool
}

const (
	envConfig      = "MODBAR_CONFIG"
	envPosition    = "MODBAR_POSITION"
	envOutput      = "MODBAR_OUTPUT"
	envTrace       = "MODBAR_TRACE"
	envLogFile     = "MODBAR_LOG_FILE"
	envMetricsAddr = "MODBAR_METRICS_ADDR"
	envWatch       = "MODBAR_WATCH"
)

// Options holds the flag values registered on a flag set. Environment
// variables provide the defaults, so explicit flags win.
type Options struct {
	config      *string
	position    *string
	output      *string
	trace       *bool
	logFile     *string
	metricsAddr *string
	watch       *bool
	listModules *bool
}

// Register adds every runtime flag to fs.
func Register(fs *pflag.FlagSet, environ []string) *Options {
	env := parseEnv(environ)
	return &Options{
		config:      fs.StringP("config", "c", envOrDefault(env, envConfig, DefaultBarPath()), "path to the bar configuration file"),
		position:    fs.StringP("position", "p", envOrDefault(env, envPosition, ""), "screen edge to attach to (top, bottom, left, right); overrides the bar file"),
		output:      fs.StringP("output", "o", envOrDefault(env, envOutput, ""), "output name handed to modules"),
		trace:       fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		logFile:     fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		metricsAddr: fs.String("metrics-addr", envOrDefault(env, envMetricsAddr, ""), "serve Prometheus metrics on this address (disabled when empty)"),
		watch:       fs.BoolP("watch", "w", envOrBool(env, envWatch, false), "rebuild the bar when the configuration file changes"),
		listModules: fs.Bool("list-modules", false, "print the available module types and exit"),
	}
}

// Resolve converts the parsed flag values into a Config. args are the raw
// command line arguments, kept for tracing.
func (o *Options) Resolve(args []string) Config {
	return Config{
		App: app.Config{
			BarFile:     *o.config,
			Position:    *o.position,
			Output:      *o.output,
			MetricsAddr: *o.metricsAddr,
			Watch:       *o.watch,
		},
		Logging: Logging{
			FilePath: *o.logFile,
			Trace:    *o.trace,
		},
		Features: Features{
			ListModules: *o.listModules,
		},
		Flags: map[string]string{
			"config":      *o.config,
			"position":    *o.position,
			"output":      *o.output,
			"trace":       strconv.FormatBool(*o.trace),
			"logFile":     *o.logFile,
			"metricsAddr": *o.metricsAddr,
			"watch":       strconv.FormatBool(*o.watch),
			"listModules": strconv.FormatBool(*o.listModules),
		},
		Args: append([]string(nil), args...),
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("modbar", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	opts := Register(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg := opts.Resolve(args)
	return cfg, Validate(cfg)
}

// DefaultBarPath is the bar file used when none is given.
func DefaultBarPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "modbar.yaml"
	}
	return filepath.Join(dir, "modbar", "config.yaml")
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the runtime options are usable.
func Validate(cfg Config) error {
	if cfg.Features.ListModules {
		return nil
	}
	if strings.TrimSpace(cfg.App.BarFile) == "" {
		return errors.New("no bar configuration file given")
	}
	if cfg.App.Position != "" {
		if _, err := module.ParsePosition(cfg.App.Position); err != nil {
			return err
		}
	}
	return nil
}
