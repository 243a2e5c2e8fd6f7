package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alnah/go-mdsite/internal/config"
)

// envPrefix namespaces environment overrides: --base-url reads
// MDSITE_BASE_URL when the flag is not given.
const envPrefix = "MDSITE"

// knownEnvVars lists valid MDSITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSITE_CONFIG":   true,
	"MDSITE_QUIET":    true,
	"MDSITE_VERBOSE":  true,
	"MDSITE_CONTENT":  true,
	"MDSITE_OUTPUT":   true,
	"MDSITE_THEME":    true,
	"MDSITE_STATIC":   true,
	"MDSITE_BASE_URL": true,
	"MDSITE_STYLE":    true,
	"MDSITE_HOST":     true,
	"MDSITE_PORT":     true,
	"MDSITE_NO_WATCH": true,
}

// newViper binds flags and MDSITE_* variables. Values resolve as
// flag > environment > flag default.
func newViper(flags *flag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// warnUnknownEnvVars logs warnings for unrecognized MDSITE_* variables.
// Helps catch typos like MDSITE_OUTPUT_DIR instead of MDSITE_OUTPUT.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix+"_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// siteOverrides maps flag keys to the config fields they replace.
var siteOverrides = []struct {
	key string
	set func(cfg *config.Config, value string)
}{
	{flagContent, func(c *config.Config, v string) { c.ContentDir = v }},
	{flagOutput, func(c *config.Config, v string) { c.OutputDir = v }},
	{flagTheme, func(c *config.Config, v string) { c.ThemeDir = v }},
	{flagStatic, func(c *config.Config, v string) { c.StaticDir = v }},
	{flagBaseURL, func(c *config.Config, v string) { c.BaseURL = v }},
	{flagStyle, func(c *config.Config, v string) { c.Style = v }},
}

// applyOverrides copies flags and environment values that were set over
// the config file. This ensures: CLI flags > env vars > config file > defaults.
func applyOverrides(v *viper.Viper, cfg *config.Config) {
	for _, o := range siteOverrides {
		if v.IsSet(o.key) {
			o.set(cfg, v.GetString(o.key))
		}
	}
}

// loadConfig loads the site config named by --config or MDSITE_CONFIG.
// Without either, mdsite.yaml (or .yml) is optional and defaults apply.
func loadConfig(fs afero.Fs, v *viper.Viper) (*config.Config, error) {
	name := v.GetString(flagConfig)
	explicit := name != ""
	if !explicit {
		name = config.DefaultConfigName
	}

	cfg, err := config.LoadConfig(fs, name)
	if err != nil {
		if explicit || !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}

	applyOverrides(v, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a text logger on w. Quiet keeps errors only; verbose
// adds per-page debug records.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
