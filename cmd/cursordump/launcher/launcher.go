package launcher

import (
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bytecursor/flags"
)

var app = flags.NewApp("cursordump", "Decode framed query responses from a capture file")

func init() {
	app.ArgsUsage = "<file>"
	app.Flags = append(flags.CommonFlags(), flags.DumpFlags()...)
	app.Action = dumpAction
}

// Launch parses args and runs the dump.
func Launch(args []string) error {
	return app.Run(args)
}

func dumpAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected exactly one input file")
	}
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	stats, err := dump(cfg.Dump, ctx.Args().First(), log, ctx.App.Writer)
	if err != nil {
		log.WithError(err).Error("Dump failed")
		return err
	}
	if stats.Failed > 0 {
		return errors.Errorf("%d of %d responses failed", stats.Failed, stats.Responses)
	}
	return nil
}
