package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/joshnies/bygg/config"
)

// Place an export archive can be written to.
type Destination interface {
	// Store everything read from `r` under `key`.
	Put(ctx context.Context, key string, r io.Reader) error
	// Human readable location of `key`, for console output.
	Describe(key string) string
}

const (
	SchemeLocal = "file"
	SchemeS3    = "s3"
	SchemeStorj = "storj"
)

// Parsed `--to` target.
type Target struct {
	Scheme string
	// Bucket name for s3 and storj targets.
	Bucket string
	// Object key, or the file path for local targets.
	Key string
}

// Parse an export target.
//
// @param target - "s3://bucket/key", "storj://bucket/key" or a local path. Empty means the
// working directory.
//
// @param defaultName - Used as the key when the target has none, or names a directory.
func ParseTarget(target string, defaultName string) (Target, error) {
	for _, scheme := range []string{SchemeS3, SchemeStorj} {
		prefix := scheme + "://"
		if !strings.HasPrefix(target, prefix) {
			continue
		}

		bucket, key, _ := strings.Cut(strings.TrimPrefix(target, prefix), "/")
		if bucket == "" {
			return Target{}, fmt.Errorf("missing bucket in %q", target)
		}
		if key == "" {
			key = defaultName
		} else if strings.HasSuffix(key, "/") {
			key = path.Join(key, defaultName)
		}

		return Target{Scheme: scheme, Bucket: bucket, Key: key}, nil
	}

	if strings.Contains(target, "://") {
		return Target{}, fmt.Errorf("unsupported target %q", target)
	}

	return Target{Scheme: SchemeLocal, Key: localPath(target, defaultName)}, nil
}

// Create the destination for a target.
func NewDestination(ctx context.Context, t Target, c config.Config) (Destination, error) {
	switch t.Scheme {
	case SchemeLocal:
		return Local{}, nil
	case SchemeS3:
		return NewS3(ctx, c.S3, t.Bucket)
	case SchemeStorj:
		return NewStorj(ctx, c.Storj, t.Bucket)
	default:
		return nil, fmt.Errorf("unsupported target scheme %q", t.Scheme)
	}
}
