// Package config loads crafttable's TOML configuration file.
//
// Every field has a default, so a missing config file is not an error when
// the caller did not name one explicitly:
//
//	cfg, err := config.Load("")           // defaults, or ./crafttable.toml if present
//	cfg, err := config.Load("build.toml") // must exist
//
// Command-line flags are applied on top of the loaded values by the CLI.
package config

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/item"
	"github.com/matzehuels/crafttable/pkg/pipeline"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "crafttable.toml"

// Store backends.
const (
	BackendDir    = "dir"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported store backends.
var Backends = []string{BackendDir, BackendMemory, BackendSQLite, BackendRedis, BackendMongo}

// Config is the decoded configuration file.
type Config struct {
	Source Source `toml:"source"`
	Output Output `toml:"output"`
	Store  Store  `toml:"store"`
	Loops  Loops  `toml:"loops"`
	Server Server `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type Source struct {
	Recipes string `toml:"recipes"`
	Tags    string `toml:"tags"`
	Workers int    `toml:"workers"`
}

type Output struct {
	Index    string `toml:"index"` // root of the dir store
	Loops    string `toml:"loops"`
	Encoding string `toml:"encoding"`
	Format   string `toml:"format"`
}

// Store selects the artifact store. DSN is backend specific: a file path
// for sqlite, a redis:// URL for redis and a mongodb:// URI for mongo. The
// dir backend uses Output.Index.
type Store struct {
	Backend string `toml:"backend"`
	DSN     string `toml:"dsn"`
}

type Loops struct {
	Palette []string `toml:"palette"`
	Deep    bool     `toml:"deep"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: Source{
			Recipes: pipeline.DefaultRecipesDir,
			Tags:    pipeline.DefaultTagsDir,
			Workers: pipeline.DefaultWorkers,
		},
		Output: Output{
			Index:    "recipes",
			Loops:    pipeline.DefaultLoopsPath,
			Encoding: pipeline.DefaultEncoding,
			Format:   pipeline.DefaultFormat,
		},
		Store:  Store{Backend: BackendDir},
		Loops:  Loops{Palette: slices.Clone(item.Colors)},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads the config at path over the defaults. An empty path tries
// DefaultFile and falls back to defaults when it does not exist; a named
// file that does not exist is an error. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file not readable")
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields and numeric ranges.
func (c *Config) Validate() error {
	if err := pipeline.ValidateEncoding(c.Output.Encoding); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.encoding")
	}
	if err := pipeline.ValidateFormat(c.Output.Format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.format")
	}
	if !slices.Contains(Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"store.backend: %q (must be one of: %s)", c.Store.Backend, strings.Join(Backends, ", "))
	}
	if c.Source.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"source.workers must not be negative, got %d", c.Source.Workers)
	}
	if c.Store.Backend == BackendDir && c.Output.Index == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output.index is required for the dir backend")
	}
	return nil
}

// PipelineOptions converts the config into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		RecipesDir: c.Source.Recipes,
		TagsDir:    c.Source.Tags,
		Workers:    c.Source.Workers,
		Palette:    c.Loops.Palette,
		Deep:       c.Loops.Deep,
		LoopsPath:  c.Output.Loops,
		Encoding:   c.Output.Encoding,
		Format:     c.Output.Format,
	}
}
