package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/system"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	// Listen address (host:port).
	Listen string `yaml:"listen" validate:"required"`
	// Time given to in-flight exports when the server shuts down.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	// Directory that FileRef paths are resolved against.
	UploadsRoot string `yaml:"uploads_root" validate:"required"`
	// JSON file holding the project records.
	ProjectsFile string `yaml:"projects_file" validate:"required"`
}

type ExportConfig struct {
	// Per-export bandwidth cap. 0 disables the cap.
	BytesPerSecond int `yaml:"bytes_per_second" validate:"gte=0"`
}

type S3Config struct {
	Bucket string `yaml:"bucket,omitempty"`
	// Custom endpoint for S3-compatible providers. Empty uses AWS.
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
}

type StorjConfig struct {
	AccessGrant string `yaml:"access_grant,omitempty"`
	Bucket      string `yaml:"bucket,omitempty"`
}

type Config struct {
	// Whether or not to print verbose output.
	Verbose bool          `yaml:"verbose"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	S3      S3Config      `yaml:"s3,omitempty"`
	Storj   StorjConfig   `yaml:"storj,omitempty"`
	//
	// [Internal]
	//
	// Path of the loaded config file. Empty when running on defaults.
	Path string `yaml:"-"`
}

// Singleton config instance.
var I Config

// Returns the default config.
// Relative paths are resolved against the working directory by InitConfig.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:          "127.0.0.1:8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			UploadsRoot:  "public",
			ProjectsFile: "data/projects.json",
		},
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Load config from the YAML file at `path`, on top of the defaults.
//
// @param path - Path to the config file.
//
// Relative storage paths in the file are resolved against the file's directory.
func Load(path string) (Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, err
	}

	// Read file
	b, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Decode file contents on top of the defaults
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", absPath, err)
	}
	c.Path = absPath

	finalize(&c, filepath.Dir(absPath))
	if err := Validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Initialize the config singleton.
//
// @param path - Explicit config file path. When empty, the closest `bygg.yml` above the
// working directory is used, falling back to the defaults if there is none.
func InitConfig(path string) (Config, error) {
	if path == "" {
		found, err := system.FindFileUpwards(".", constants.ConfigFileName)
		if err != nil && !errors.Is(err, system.ErrNotFound) {
			return Config{}, err
		}
		path = found
	}

	var c Config
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		c = loaded
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, err
		}
		c = Default()
		finalize(&c, wd)
		if err := Validate(c); err != nil {
			return Config{}, err
		}
	}

	I = c
	console.SetVerbose(I.Verbose)

	if I.Verbose {
		// Print config as YAML
		cfgYaml, err := yaml.Marshal(redacted(I))
		if err == nil {
			console.Verbose("Config (%s):", configSource(I))
			console.Verbose("%s", cfgYaml)
		}
	}

	return I, nil
}

// Validate a config object.
func Validate(c Config) error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Apply environment overrides and resolve relative paths against `baseDir`.
func finalize(c *Config, baseDir string) {
	if os.Getenv(constants.VerboseEnvVar) == "1" {
		c.Verbose = true
	}

	c.Storage.UploadsRoot = absFrom(baseDir, c.Storage.UploadsRoot)
	c.Storage.ProjectsFile = absFrom(baseDir, c.Storage.ProjectsFile)
}

func absFrom(baseDir string, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Copy of `c` that is safe to print.
func redacted(c Config) Config {
	if c.Storj.AccessGrant != "" {
		c.Storj.AccessGrant = "<redacted>"
	}
	return c
}

func configSource(c Config) string {
	if c.Path == "" {
		return "defaults"
	}
	return c.Path
}
