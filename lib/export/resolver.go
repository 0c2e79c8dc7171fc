package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/models"
	"github.com/samber/lo"
)

// Resolves FileRef paths to existing files under a fixed uploads root.
type Resolver struct {
	root string
}

// Create a resolver for the given uploads root.
//
// @param uploadsRoot - Directory that FileRef paths are relative to. Made absolute here so
// later changes of working directory don't affect resolution.
func NewResolver(uploadsRoot string) (*Resolver, error) {
	if strings.TrimSpace(uploadsRoot) == "" {
		return nil, errors.New("uploads root is empty")
	}

	abs, err := filepath.Abs(uploadsRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads root: %w", err)
	}

	return &Resolver{root: filepath.Clean(abs)}, nil
}

// Absolute uploads root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve file references to files that exist right now.
// Order and duplicates are kept. Missing files are dropped silently; references that point
// outside the uploads root are dropped with a warning.
func (r *Resolver) Resolve(files []models.FileRef) []models.ResolvedFile {
	if len(files) == 0 {
		return []models.ResolvedFile{}
	}

	// Evaluate the root once per request; a missing root means every file is missing
	realRoot, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		console.Verbose("Uploads root %s is not readable: %v", r.root, err)
		return []models.ResolvedFile{}
	}

	resolved := lo.Map(files, func(f models.FileRef, _ int) models.ResolvedFile {
		return r.resolveOne(realRoot, f)
	})

	return lo.Filter(resolved, func(f models.ResolvedFile, _ int) bool {
		return f.Path != ""
	})
}

// Returns a zero ResolvedFile if the reference is dropped.
func (r *Resolver) resolveOne(realRoot string, f models.FileRef) models.ResolvedFile {
	path, err := r.join(f.Path)
	if err != nil {
		console.Warning("Skipping file %q: %v", f.Name, err)
		return models.ResolvedFile{}
	}

	// Check existence
	info, err := os.Stat(path)
	if err != nil {
		console.Verbose("Skipping file %q: %s is missing", f.Name, path)
		return models.ResolvedFile{}
	}
	if info.IsDir() {
		console.Verbose("Skipping file %q: %s is a directory", f.Name, path)
		return models.ResolvedFile{}
	}

	// Symlinks must not lead out of the root either
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		console.Verbose("Skipping file %q: %v", f.Name, err)
		return models.ResolvedFile{}
	}
	if !within(realRoot, realPath) {
		console.Warning("Skipping file %q: %s links outside the uploads root", f.Name, f.Path)
		return models.ResolvedFile{}
	}

	name := f.Name
	if strings.TrimSpace(name) == "" {
		name = filepath.Base(path)
	}

	return models.ResolvedFile{
		Path: path,
		Name: name,
		Size: info.Size(),
	}
}

// Join a stored path with the root, rejecting paths that escape it.
// Stored paths are slash separated and may start with "/".
func (r *Resolver) join(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", errors.New("empty path")
	}

	path := filepath.Join(r.root, filepath.FromSlash(rel))
	if !within(r.root, path) {
		return "", fmt.Errorf("path %q escapes the uploads root", rel)
	}

	return path, nil
}

// Returns true if `path` is `root` or a descendant of it. Both must be clean.
func within(root string, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}
