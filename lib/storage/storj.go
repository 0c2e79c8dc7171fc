package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/lib/console"
	"storj.io/uplink"
)

// Destination in a Storj bucket.
type Storj struct {
	Bucket string
	access *uplink.Access
}

// Create a Storj destination from the configured access grant.
func NewStorj(ctx context.Context, c config.StorjConfig, bucket string) (*Storj, error) {
	if bucket == "" {
		bucket = c.Bucket
	}
	if bucket == "" {
		return nil, errors.New("no Storj bucket given")
	}
	if c.AccessGrant == "" {
		return nil, errors.New("storj.access_grant is not configured")
	}

	// Parse access grant string
	access, err := uplink.ParseAccess(c.AccessGrant)
	if err != nil {
		return nil, fmt.Errorf("parse Storj access grant: %w", err)
	}

	return &Storj{Bucket: bucket, access: access}, nil
}

// Upload the archive. A failed copy aborts the upload so no partial object is committed.
func (d *Storj) Put(ctx context.Context, key string, r io.Reader) error {
	// Open Storj project
	sp, err := uplink.OpenProject(ctx, d.access)
	if err != nil {
		return fmt.Errorf("open Storj project: %w", err)
	}
	defer sp.Close()

	// Start upload
	upload, err := sp.UploadObject(ctx, d.Bucket, key, nil)
	if err != nil {
		return err
	}

	// Copy archive data to upload
	if _, err := io.Copy(upload, r); err != nil {
		if abortErr := upload.Abort(); abortErr != nil {
			console.ErrorPrintV("Failed to abort Storj upload: %v", abortErr)
		}
		return fmt.Errorf("upload storj://%s/%s: %w", d.Bucket, key, err)
	}

	// Commit upload
	return upload.Commit()
}

func (d *Storj) Describe(key string) string {
	return fmt.Sprintf("storj://%s/%s", d.Bucket, key)
}
