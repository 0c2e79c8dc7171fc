package export

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/joshnies/bygg/models"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
)

// Wraps the content reader of each archive entry, e.g. to drive a progress bar.
type ReaderHook func(f models.ResolvedFile, r io.Reader) io.Reader

type buildOptions struct {
	level int
	hooks []ReaderHook
}

type BuildOption func(*buildOptions)

// Set the Deflate level. Defaults to flate.BestCompression.
func WithLevel(level int) BuildOption {
	return func(o *buildOptions) {
		o.level = level
	}
}

// Add a hook wrapping each entry's content reader. Hooks apply in the order given.
func WithReaderHook(hook ReaderHook) BuildOption {
	return func(o *buildOptions) {
		o.hooks = append(o.hooks, hook)
	}
}

func newBuildOptions(opts []BuildOption) buildOptions {
	o := buildOptions{level: flate.BestCompression}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Write a ZIP archive of `files` to `w`.
//
// @param ctx - Cancels the build between and during file copies.
//
// @param w - Archive output. Written incrementally, one file at a time.
//
// @param files - Files to add. Each entry is named by its display name.
//
// Returns the written entries. On failure the archive is left unfinalized and the error is a
// *StreamError (or the context error).
func Build(ctx context.Context, w io.Writer, files []models.ResolvedFile, opts ...BuildOption) ([]models.ArchiveEntry, error) {
	o := newBuildOptions(opts)

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, o.level)
	})

	entries := make([]models.ArchiveEntry, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		entry, err := addFile(ctx, zw, f, o)
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}

	// Finalize archive (writes the central directory)
	if err := zw.Close(); err != nil {
		return entries, &StreamError{Op: "finalize", Err: err}
	}

	return entries, nil
}

// Add a single file to the archive.
// The file is opened here, not by the resolver, so a file removed since resolving fails the build.
func addFile(ctx context.Context, zw *zip.Writer, f models.ResolvedFile, o buildOptions) (models.ArchiveEntry, error) {
	// Open file
	file, err := os.Open(f.Path)
	if err != nil {
		return models.ArchiveEntry{}, &StreamError{Entry: f.Name, Op: "open", Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return models.ArchiveEntry{}, &StreamError{Entry: f.Name, Op: "open", Err: err}
	}

	// Create entry header named by the display name, never the storage path
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return models.ArchiveEntry{}, &StreamError{Entry: f.Name, Op: "header", Err: err}
	}
	header.Name = entryName(f)
	header.Method = zip.Deflate

	fw, err := zw.CreateHeader(header)
	if err != nil {
		return models.ArchiveEntry{}, &StreamError{Entry: f.Name, Op: "header", Err: err}
	}

	// Copy content, hashing it on the way
	hash := xxhash.New()
	var r io.Reader = io.TeeReader(&ctxReader{ctx: ctx, r: file}, hash)
	for _, hook := range o.hooks {
		r = hook(f, r)
	}

	n, err := io.Copy(fw, r)
	if err != nil {
		return models.ArchiveEntry{}, &StreamError{Entry: f.Name, Op: "copy", Err: err}
	}

	return models.ArchiveEntry{
		Name:   header.Name,
		Size:   n,
		Digest: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// Archive entry name for a file: its display name with "..", "." and empty segments removed, so
// extracting the archive can't write outside the target directory. Backslashes count as separators.
func entryName(f models.ResolvedFile) string {
	segments := strings.FieldsFunc(f.Name, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	segments = lo.Filter(segments, func(s string, _ int) bool {
		return s != "." && s != ".."
	})

	if len(segments) == 0 {
		return filepath.Base(f.Path)
	}
	return strings.Join(segments, "/")
}

// Reader that stops once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
