package launcher

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-bytecursor/wire"
)

type dumpStats struct {
	Responses int
	Rows      int
	Failed    int
}

// dump decodes every response in the file at path. Server errors are
// logged and counted; anything malformed stops the dump.
func dump(cfg DumpConfig, path string, log *logrus.Logger, out io.Writer) (dumpStats, error) {
	var stats dumpStats

	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return stats, err
	}
	n := len(buf)
	if cfg.Limit >= 0 && cfg.Limit < n {
		n = cfg.Limit
	}
	log.WithFields(logrus.Fields{"file": path, "size": len(buf), "valid": n}).Debug("Loaded capture")

	d := wire.NewDecoderLimit(buf, n)
	if cfg.SkipFrames > 0 {
		skipped, err := d.SkipFrames(cfg.SkipFrames)
		if err != nil {
			return stats, errors.Wrapf(err, "skip frames in %s", path)
		}
		log.WithFields(logrus.Fields{"frames": skipped, "offset": d.Position()}).Debug("Skipped frames")
	}

	for {
		at := d.Position()
		resp, err := d.ReadResponse()
		if err == io.EOF {
			break
		}
		stats.Responses++
		if serr, ok := err.(*wire.ServerError); ok {
			stats.Failed++
			log.WithFields(logrus.Fields{
				"request": serr.RequestID,
				"code":    serr.Code,
				"offset":  at,
			}).Warn(serr.Message)
			continue
		}
		if err != nil {
			return stats, errors.Wrapf(err, "decode %s at offset %d", path, at)
		}

		stats.Rows += len(resp.Rows)
		log.WithFields(logrus.Fields{
			"request": resp.RequestID,
			"rows":    len(resp.Rows),
			"digest":  resp.Digest.Hex(),
			"offset":  at,
		}).Info("Response")

		if cfg.Rows {
			printRows(out, resp)
		}
	}

	if cfg.Save != "" {
		if err := ioutil.WriteFile(cfg.Save, d.Data(), 0o644); err != nil {
			return stats, errors.Wrap(err, "save")
		}
	}

	log.WithFields(logrus.Fields{
		"responses": stats.Responses,
		"rows":      stats.Rows,
		"failed":    stats.Failed,
		"valid":     n,
	}).Info("Done")
	return stats, nil
}

func printRows(out io.Writer, resp *wire.Response) {
	for i, row := range resp.Rows {
		cols := make([]string, len(row))
		for j, c := range row {
			cols[j] = hexutil.Encode(c)
		}
		fmt.Fprintf(out, "%d\t%d\t%s\n", resp.RequestID, i, strings.Join(cols, " "))
	}
}
