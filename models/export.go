package models

// File reference resolved to an existing path under the uploads root.
type ResolvedFile struct {
	// Absolute path on disk.
	Path string `json:"path"`
	// Display name from the FileRef.
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Summary of one entry written to an export archive.
type ArchiveEntry struct {
	Name string `json:"name"`
	// Uncompressed size in bytes.
	Size int64 `json:"size"`
	// XXH64 of the uncompressed content, hex encoded.
	Digest string `json:"digest"`
}
