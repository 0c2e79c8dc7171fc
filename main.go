package main

import (
	"log"
	"os"

	"github.com/joshnies/bygg/cmd"
	"github.com/joshnies/bygg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	// Initialize CLI app
	app := &cli.App{
		Name:    "bygg",
		Usage:   "Export project files as ZIP archives",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults to the closest bygg.yml)",
			},
		},
		Before: func(c *cli.Context) error {
			// Initialize config
			_, err := config.InitConfig(c.String("config"))
			return err
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve project exports over HTTP",
				Action: cmd.Serve,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Aliases: []string{"l"},
						Usage:   "Listen address (overrides server.listen)",
					},
				},
			},
			{
				Name:      "export",
				Usage:     "Export a project's files to a ZIP archive",
				ArgsUsage: "<project-id>",
				Aliases:   []string{"e"},
				Action:    cmd.Export,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "to",
						Aliases: []string{"t"},
						Usage:   "Destination: file path, directory, s3://bucket/key or storj://bucket/key",
					},
				},
			},
			{
				Name:      "fetch",
				Usage:     "Download a project export from a running server",
				ArgsUsage: "<project-id>",
				Action:    cmd.Fetch,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "server",
						Aliases: []string{"s"},
						Usage:   "Server URL (defaults to http://<server.listen>)",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Destination: file path, directory, s3://bucket/key or storj://bucket/key",
					},
				},
			},
			{
				Name:    "projects",
				Usage:   "List projects",
				Aliases: []string{"ls"},
				Action:  cmd.ListProjects,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "files",
						Aliases: []string{"f"},
						Usage:   "List each project's files",
					},
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
