package launcher

// DefaultConfig returns the configuration used before presets, the config
// file and flags are applied.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Verbosity: 3,
			Format:    "text",
		},
		Dump: DumpConfig{
			Limit: -1,
		},
	}
}

// Presets are named partial configs applied on top of the defaults.
var presets = map[string]func(*Config){
	"default": func(*Config) {},
	// quiet only reports failures.
	"quiet": func(cfg *Config) {
		cfg.Logging.Verbosity = 2
		cfg.Dump.Rows = false
	},
	// inspect prints every row and logs each frame.
	"inspect": func(cfg *Config) {
		cfg.Logging.Verbosity = 4
		cfg.Dump.Rows = true
	},
}
