package launcher

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
)

// Config aggregates everything the dump command needs.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Dump    DumpConfig    `toml:"dump"`
}

type LoggingConfig struct {
	Verbosity int    `toml:"verbosity"`
	Format    string `toml:"format"`
	Color     bool   `toml:"color"`
	SentryDSN string `toml:"sentry_dsn"`
}

type DumpConfig struct {
	// Limit is the number of valid bytes at the start of the input, -1 for all.
	Limit      int    `toml:"limit"`
	SkipFrames int    `toml:"skip_frames"`
	Rows       bool   `toml:"rows"`
	Save       string `toml:"save"`
}

// MakeAllConfigs merges defaults, the preset, the optional config file and
// CLI overrides, in that order.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := DefaultConfig()

	name := ctx.String("preset")
	if name == "" {
		name = "default"
	}
	preset, ok := presets[name]
	if !ok {
		return cfg, errors.Errorf("unknown preset %q", name)
	}
	preset(&cfg)

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to load config file %s", file)
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := ioutil.ReadFile(resolvePath(path))
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.String("sentry.dsn")
	}

	if ctx.IsSet("limit") {
		cfg.Dump.Limit = ctx.Int("limit")
	}
	if ctx.IsSet("skip.frames") {
		cfg.Dump.SkipFrames = ctx.Int("skip.frames")
	}
	if ctx.IsSet("rows") {
		cfg.Dump.Rows = ctx.Bool("rows")
	}
	if ctx.IsSet("save") {
		cfg.Dump.Save = resolvePath(ctx.String("save"))
	}
}

func (cfg Config) validate() error {
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return errors.Errorf("invalid log format %q (text|json)", cfg.Logging.Format)
	}
	if cfg.Logging.Verbosity < 0 || cfg.Logging.Verbosity > 5 {
		return errors.Errorf("invalid log verbosity %d (0..5)", cfg.Logging.Verbosity)
	}
	if cfg.Dump.Limit < -1 {
		return errors.Errorf("invalid limit %d", cfg.Dump.Limit)
	}
	if cfg.Dump.SkipFrames < 0 {
		return errors.Errorf("invalid frame skip %d", cfg.Dump.SkipFrames)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	return p
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
