package cmd

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/httpw"
	"github.com/joshnies/bygg/lib/storage"
	"github.com/joshnies/bygg/lib/util"
	"github.com/urfave/cli/v2"
)

// Download a project export from a running server.
func Fetch(c *cli.Context) error {
	cfg := config.I

	projectID := c.Args().First()
	if projectID == "" {
		return console.Error("Usage: bygg fetch <project-id> [--server url] [--out path]")
	}

	serverURL := c.String("server")
	if serverURL == "" {
		serverURL = "http://" + cfg.Server.Listen
	}
	reqURL := fmt.Sprintf("%s/projects/%s/export", strings.TrimRight(serverURL, "/"), url.PathEscape(projectID))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	// Request export
	console.Verbose("GET %s", reqURL)
	res, err := httpw.Get(ctx, nil, reqURL)
	if err != nil {
		return console.Error("Failed to fetch project %s: %v", projectID, err)
	}
	defer res.Body.Close()

	// Name the file the way the server suggests
	filename := httpw.AttachmentFilename(res.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = constants.ArchiveFilenamePrefix + projectID + constants.ArchiveFilenameExt
	}
	console.Verbose("Export ID: %s", res.Header.Get(constants.ExportIDHeader))

	target, err := storage.ParseTarget(c.String("out"), filename)
	if err != nil {
		return console.Error("Invalid target: %v", err)
	}
	dest, err := storage.NewDestination(ctx, target, cfg)
	if err != nil {
		return err
	}

	// Content length is unknown for streamed exports, so the bar only counts bytes
	p := util.NewProgress(os.Stdout)
	bar := util.NewBytesProgressBar(p, res.ContentLength, filename)

	start := time.Now()
	body := bar.ProxyReader(res.Body)
	defer body.Close()

	if err := dest.Put(ctx, target.Key, body); err != nil {
		bar.Abort(false)
		p.Wait()

		// A truncated download means the server aborted the export
		return console.Error("Download of project %s failed: %v", projectID, err)
	}

	bar.SetTotal(-1, true)
	p.Wait()

	console.Success("Saved %s (took %s)", dest.Describe(target.Key), time.Since(start).Truncate(time.Millisecond))
	return nil
}
