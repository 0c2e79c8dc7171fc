package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Destination on the local filesystem. Keys are file paths.
type Local struct{}

// Write to a temporary file next to the target and rename it into place once complete,
// so an interrupted export never leaves a half-written archive under the final name.
func (Local) Put(ctx context.Context, key string, r io.Reader) error {
	dir := filepath.Dir(key)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(key)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// Copy content
	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), key)
}

func (Local) Describe(key string) string {
	return key
}

// Resolve a local target to a file path.
// Empty targets and existing directories (or paths ending in a separator) get `defaultName` appended.
func localPath(target string, defaultName string) string {
	if target == "" {
		return defaultName
	}
	if strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(os.PathSeparator)) {
		return filepath.Join(target, defaultName)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, defaultName)
	}
	return target
}

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
