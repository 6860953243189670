package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/buildinfo"
	"github.com/matzehuels/crafttable/pkg/config"
	"github.com/matzehuels/crafttable/pkg/pipeline"
	"github.com/matzehuels/crafttable/pkg/store"
	"github.com/matzehuels/crafttable/pkg/store/mongo"
	"github.com/matzehuels/crafttable/pkg/store/redis"
	"github.com/matzehuels/crafttable/pkg/store/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "crafttable"

	// defaultSQLitePath is used when the sqlite backend has no dsn.
	defaultSQLitePath = "crafttable.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives status lines and command output.
	Out io.Writer

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Crafttable builds recipe indexes and crafting loop tables",
		Long: `Crafttable turns a directory of raw crafting recipe files into the artifacts an
autocrafter consumes: a recipe index grouped by output item, and a table of
crafting loops (item pairs that can each be crafted from the other).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")

	// Register all subcommands
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.loopsCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// conf returns the loaded configuration, or defaults when a command runs
// without the root pre-run (as in tests).
func (c *CLI) conf() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// openStore opens the configured artifact store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.conf()
	s, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend)
	return store.Observed(s, cfg.Store.Backend), nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendDir:
		return store.NewDir(cfg.Output.Index)
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendSQLite:
		path := cfg.Store.DSN
		if path == "" {
			path = defaultSQLitePath
		}
		return sqlite.Open(path)
	case config.BackendRedis:
		return redis.Open(ctx, cfg.Store.DSN, redis.DefaultPrefix)
	case config.BackendMongo:
		return mongo.Open(ctx, cfg.Store.DSN)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Store.Backend)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the config and the flags
// shared by the build commands. Flags win over config values when set.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *buildFlags) pipeline.Options {
	opts := c.conf().PipelineOptions()
	opts.Logger = c.Logger

	if cmd.Flags().Changed("recipes") {
		opts.RecipesDir = f.recipes
	}
	if cmd.Flags().Changed("tags") {
		opts.TagsDir = f.tags
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if cmd.Flags().Changed("output") {
		opts.LoopsPath = f.loops
	}
	if cmd.Flags().Changed("encoding") {
		opts.Encoding = f.encoding
	}
	if cmd.Flags().Changed("format") {
		opts.Format = f.format
	}
	if cmd.Flags().Changed("deep") {
		opts.Deep = f.deep
	}
	return opts
}
