package launcher

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bytecursor/flags"
)

// runConfigFromArgs runs MakeAllConfigs inside a throwaway app carrying the
// real flag set.
func runConfigFromArgs(t *testing.T, args []string) (Config, error) {
	t.Helper()

	a := cli.NewApp()
	a.HideHelp = true
	a.HideVersion = true
	a.Flags = append(flags.CommonFlags(), flags.DumpFlags()...)

	var (
		got    Config
		cfgErr error
	)
	a.Action = func(c *cli.Context) error {
		got, cfgErr = MakeAllConfigs(c)
		return nil
	}
	require.NoError(t, a.Run(append([]string{"cursordump"}, args...)))
	return got, cfgErr
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cursordump.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMakeAllConfigs(t *testing.T) {
	file := writeConfig(t, `
[logging]
verbosity = 5
format = "json"

[dump]
limit = 128
rows = true
`)

	tests := []struct {
		name string
		args []string
		want func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults",
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name: "logging flags",
			args: []string{"--log.format", "json", "--log.verbosity", "4", "--log.color", "--sentry.dsn", "https://k@sentry.example/1"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, LoggingConfig{
					Verbosity: 4,
					Format:    "json",
					Color:     true,
					SentryDSN: "https://k@sentry.example/1",
				}, cfg.Logging)
			},
		},
		{
			name: "dump flags",
			args: []string{"--limit", "10", "--skip.frames", "2", "--rows", "--save", "/tmp/out.bin"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, DumpConfig{Limit: 10, SkipFrames: 2, Rows: true, Save: "/tmp/out.bin"}, cfg.Dump)
			},
		},
		{
			name: "config file",
			args: []string{"--config", file},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, 5, cfg.Logging.Verbosity)
				require.Equal(t, "json", cfg.Logging.Format)
				require.Equal(t, 128, cfg.Dump.Limit)
				require.True(t, cfg.Dump.Rows)
			},
		},
		{
			name: "flags override config file",
			args: []string{"--config", file, "--log.verbosity", "1", "--limit", "-1"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, 1, cfg.Logging.Verbosity)
				require.Equal(t, "json", cfg.Logging.Format)
				require.Equal(t, -1, cfg.Dump.Limit)
			},
		},
		{
			name: "preset",
			args: []string{"--preset", "inspect"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, 4, cfg.Logging.Verbosity)
				require.True(t, cfg.Dump.Rows)
			},
		},
		{
			name: "config file overrides preset",
			args: []string{"--preset", "quiet", "--config", file},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, 5, cfg.Logging.Verbosity)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := runConfigFromArgs(t, test.args)
			require.NoError(t, err)
			test.want(t, cfg)
		})
	}
}

func TestMakeAllConfigs_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"--log.format", "xml"},
		{"--log.verbosity", "9"},
		{"--limit", "-2"},
		{"--skip.frames", "-1"},
		{"--preset", "loud"},
		{"--config", filepath.Join(t.TempDir(), "missing.toml")},
		{"--config", writeConfig(t, "[logging\nverbosity=")},
	} {
		_, err := runConfigFromArgs(t, args)
		require.Error(t, err, "%v", args)
	}
}
