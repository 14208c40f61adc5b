package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/joinery/internal/config"
	"github.com/matzehuels/joinery/pkg/buildinfo"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/docstore/filestore"
	"github.com/matzehuels/joinery/pkg/docstore/memstore"
	"github.com/matzehuels/joinery/pkg/docstore/mongostore"
	"github.com/matzehuels/joinery/pkg/docstore/redisstore"
	"github.com/matzehuels/joinery/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and shell completions.
const appName = "joinery"

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

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Joinery stores timber elements as CAD documents and infers their group hierarchy",
		Long: `Joinery keeps timber elements (a shape, a marker that fixes its local frame,
and a set of string attributes) in a document store, and infers a parent/child
hierarchy from the groups the objects belong to.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultFile+", or $"+config.EnvVar+")")

	root.AddCommand(c.elementCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// storeFunc is the body of a command that needs the configured store.
type storeFunc func(ctx context.Context, store docstore.Store, cfg *config.Config) error

// withStore loads the config, opens its store and runs fn with a context that
// carries the CLI logger. The store is closed when fn returns.
func (c *CLI) withStore(cmd *cobra.Command, fn storeFunc) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend)

	return fn(ctx, store, cfg)
}

// openStore connects to the configured backend and instruments it with the
// observability store hooks.
func openStore(ctx context.Context, cfg config.StoreConfig) (docstore.Store, error) {
	var (
		store docstore.Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		loggerFromContext(ctx).Warn("using the in-memory store; changes are discarded on exit")
		store = memstore.New()
	case config.BackendFile:
		store, err = filestore.Open(cfg.Path)
	case config.BackendRedis:
		store, err = redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.BackendMongo:
		store, err = mongostore.Open(ctx, mongostore.Options{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return docstore.Instrument(store), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// createOutput returns the writer for -o: stdout when path is empty.
// The returned close function is always safe to call.
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
