package cmd

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/export"
	"github.com/joshnies/bygg/lib/storage"
	"github.com/joshnies/bygg/lib/util"
	"github.com/joshnies/bygg/models"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v7"
)

// Export a project's files to a local file, S3 or Storj.
func Export(c *cli.Context) error {
	cfg := config.I

	projectID := c.Args().First()
	if projectID == "" {
		return console.Error("Usage: bygg export <project-id> [--to target]")
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	// The bar is created once the files are known; nothing is read before then
	var bar *mpb.Bar
	exp, err := exporter.Open(ctx, projectID, export.WithReaderHook(func(_ models.ResolvedFile, r io.Reader) io.Reader {
		return bar.ProxyReader(r)
	}))
	if errors.Is(err, export.ErrProjectNotFound) {
		return console.Error("%s: %s", constants.ErrMsgProjectNotFound, projectID)
	}
	if err != nil {
		return err
	}
	defer exp.Stream.Close()

	// Resolve destination
	target, err := storage.ParseTarget(c.String("to"), exp.Filename)
	if err != nil {
		return console.Error("Invalid target: %v", err)
	}
	dest, err := storage.NewDestination(ctx, target, cfg)
	if err != nil {
		return err
	}

	total := lo.Reduce(exp.Files, func(sum int64, f models.ResolvedFile, _ int) int64 {
		return sum + f.Size
	}, 0)
	console.Info("Exporting %q (%d of %d files, %s)", exp.Project.Name, len(exp.Files), len(exp.Project.Files), util.FormatBytesSize(total))

	p := util.NewProgress(os.Stdout)
	bar = util.NewBytesProgressBar(p, total, exp.Filename)

	// Write archive
	start := time.Now()
	err = dest.Put(ctx, target.Key, exp.Stream)
	if err != nil {
		bar.Abort(false)
		p.Wait()
		exp.Stream.Close()

		var streamErr *export.StreamError
		if errors.As(err, &streamErr) {
			return console.Error("Export failed at %q: %v", streamErr.Entry, streamErr.Err)
		}
		return console.Error("Export failed: %v", err)
	}

	// Files may have grown or shrunk since they were resolved
	bar.SetTotal(-1, true)
	p.Wait()

	entries, err := exp.Stream.Wait()
	if err != nil {
		return err
	}

	for _, e := range entries {
		console.Verbose("  %s (%s, xxh64 %s)", e.Name, util.FormatBytesSize(e.Size), e.Digest)
	}
	console.Success("Exported %d files to %s (took %s)", len(entries), dest.Describe(target.Key), time.Since(start).Truncate(time.Millisecond))

	return nil
}
