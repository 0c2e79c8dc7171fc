package cmd

import (
	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/lib/export"
	"github.com/joshnies/bygg/lib/projects"
)

// Build the exporter described by the loaded config.
func newExporter(cfg config.Config) (*export.Exporter, error) {
	resolver, err := export.NewResolver(cfg.Storage.UploadsRoot)
	if err != nil {
		return nil, err
	}

	store := projects.NewJSONStore(cfg.Storage.ProjectsFile)
	return export.NewExporter(store, resolver), nil
}
