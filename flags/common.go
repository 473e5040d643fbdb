package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the logging and config flags shared by every command.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "TOML configuration file",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Named settings applied before the config file (default|quiet|inspect)",
			Value: "default",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Enable colored log output",
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Report errors to this Sentry DSN",
		},
	}
}
