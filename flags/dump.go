package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// DumpFlags controls which part of the input is decoded and what is printed.
func DumpFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "limit",
			Usage: "Treat only the first N bytes of the input as valid (-1 = all)",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "skip.frames",
			Usage: "Skip N frames before decoding responses",
		},
		cli.BoolFlag{
			Name:  "rows",
			Usage: "Print every row with hex-encoded columns",
		},
		cli.StringFlag{
			Name:  "save",
			Usage: "Write the valid part of the input to this file",
		},
	}
}
