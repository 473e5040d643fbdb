package launcher

import (
	"io"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// newLogger builds a logger writing to w. Verbosity 0..5 maps onto
// fatal..trace.
func newLogger(cfg LoggingConfig, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.Out = w
	log.SetLevel(logrus.Level(cfg.Verbosity + 1))

	switch cfg.Format {
	case "json":
		log.Formatter = &logrus.JSONFormatter{}
	default:
		log.Formatter = &logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
		}
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "sentry hook")
		}
		log.AddHook(hook)
	}
	return log, nil
}
