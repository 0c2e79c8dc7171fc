package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/projects"
	"github.com/joshnies/bygg/models"
)

// Exports a project's files as a ZIP archive.
type Exporter struct {
	store    projects.Store
	resolver *Resolver
	opts     []BuildOption
}

// Create an exporter.
//
// @param store - Source of project records.
//
// @param resolver - Resolves the projects' file references.
//
// @param opts - Build options applied to every export.
func NewExporter(store projects.Store, resolver *Resolver, opts ...BuildOption) *Exporter {
	return &Exporter{
		store:    store,
		resolver: resolver,
		opts:     opts,
	}
}

// Export of a single project, ready to be sent.
type Export struct {
	Project models.Project
	// Suggested download filename, e.g. "prosjekt-Hus_A.zip".
	Filename    string
	ContentType string
	// Files that will be archived, in order.
	Files []models.ResolvedFile
	// Archive bytes. Nothing is produced until the first Read; the caller must Close it.
	Stream *ArchiveStream
}

// Look up a project and prepare its export.
//
// @param ctx - Bounds the lookup and the archive production.
//
// @param projectID - ID of the project to export.
//
// @param opts - Extra build options for this export only.
//
// Returns ErrProjectNotFound if there is no such project.
func (e *Exporter) Open(ctx context.Context, projectID string, opts ...BuildOption) (*Export, error) {
	// Get project
	project, err := e.store.Get(ctx, projectID)
	if errors.Is(err, projects.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrProjectNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("look up project %q: %w", projectID, err)
	}

	// Resolve files that still exist
	files := e.resolver.Resolve(project.Files)
	console.Verbose("Project %q: %d of %d files available for export", projectID, len(files), len(project.Files))

	buildOpts := make([]BuildOption, 0, len(e.opts)+len(opts))
	buildOpts = append(buildOpts, e.opts...)
	buildOpts = append(buildOpts, opts...)

	return &Export{
		Project:     project,
		Filename:    Filename(project.Name),
		ContentType: constants.ContentTypeZip,
		Files:       files,
		Stream:      Stream(ctx, files, buildOpts...),
	}, nil
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	pathSeparators = strings.NewReplacer("/", "_", "\\", "_")
)

// Archive filename for a project name: "prosjekt-" + name + ".zip", with each run of
// whitespace replaced by a single underscore. Path separators are replaced too so the
// name is always a single path segment.
func Filename(projectName string) string {
	name := whitespaceRun.ReplaceAllString(projectName, "_")
	name = pathSeparators.Replace(name)
	return constants.ArchiveFilenamePrefix + name + constants.ArchiveFilenameExt
}
