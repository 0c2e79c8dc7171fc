package cmd

import (
	"fmt"

	"github.com/TwiN/go-color"
	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/export"
	"github.com/joshnies/bygg/lib/projects"
	"github.com/joshnies/bygg/lib/util"
	"github.com/joshnies/bygg/models"
	"github.com/urfave/cli/v2"
)

// List all projects with their file counts.
func ListProjects(c *cli.Context) error {
	cfg := config.I

	resolver, err := export.NewResolver(cfg.Storage.UploadsRoot)
	if err != nil {
		return err
	}

	store := projects.NewJSONStore(cfg.Storage.ProjectsFile)
	list, err := store.List(c.Context)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		console.Info("No projects in %s", cfg.Storage.ProjectsFile)
		return nil
	}

	for _, p := range list {
		available := len(resolver.Resolve(p.Files))

		fmt.Printf(color.InBold(color.InCyan("%s"))+" %s\n", p.ID, p.Name)
		fmt.Printf("  %d of %d files available", available, len(p.Files))
		if p.Status != "" {
			fmt.Printf(" | %s", p.Status)
		}
		if p.Customer != "" {
			fmt.Printf(" | %s", p.Customer)
		}
		if !p.CreatedAt.IsZero() {
			fmt.Printf(" | %s", p.CreatedAt.Format(constants.TimeFormat))
		}
		fmt.Println()

		if c.Bool("files") {
			printFiles(resolver, p.Files)
		}
	}

	return nil
}

func printFiles(resolver *export.Resolver, files []models.FileRef) {
	for _, f := range files {
		resolved := resolver.Resolve([]models.FileRef{f})
		if len(resolved) == 0 {
			fmt.Println(color.Ize(color.Gray, fmt.Sprintf("    - %s (missing)", f.Name)))
			continue
		}
		fmt.Printf("    - %s (%s)\n", resolved[0].Name, util.FormatBytesSize(resolved[0].Size))
	}
}
