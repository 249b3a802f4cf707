package main

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/config"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/database"
	"github.com/siahsang/conduit/internal/logging"
	"github.com/siahsang/conduit/internal/markdown"
	"github.com/siahsang/conduit/internal/metrics"
	"github.com/siahsang/conduit/internal/seed"
	"github.com/siahsang/conduit/internal/utils/databaseutils"
	"github.com/spf13/cobra"
)

type application struct {
	config        *config.Config
	logger        *slog.Logger
	core          *core.Core
	auth          *auth.Auth
	markdown      *markdown.Renderer
	metrics       *metrics.Metrics
	templateCache map[string]*template.Template
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resources holds what every command needs: configuration, logger and database.
type resources struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	closer io.Closer
}

func (rt *resources) Close() {
	if err := rt.db.Close(); err != nil {
		rt.logger.Error("Errors closing database connection", "error", err.Error())
	}
	_ = rt.closer.Close()
}

func newResources(ctx context.Context, configFile string) (*resources, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logger, closer := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	db, err := database.Open(ctx, database.Options{
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxIdleTime:  cfg.DBMaxIdleTime,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("opening database connection: %w", err)
	}
	logger.Info("Database connection established successfully")

	return &resources{config: cfg, logger: logger, db: db, closer: closer}, nil
}

func (rt *resources) newCore() *core.Core {
	return core.NewCore(
		rt.db,
		rt.logger,
		databaseutils.NewSession(rt.db),
		databaseutils.NewSQLTemplate(rt.db, rt.config.DBQueryTimeout),
	)
}

// newRevoker uses Redis when configured so revocations are shared between instances.
func (rt *resources) newRevoker(ctx context.Context) (auth.Revoker, error) {
	if rt.config.RedisURL == "" {
		rt.logger.Warn("No redis_url configured, revoked sessions are kept in memory")
		return auth.NewMemoryRevoker(), nil
	}

	opts, err := redis.ParseURL(rt.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis_url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return auth.NewRedisRevoker(client), nil
}

func newApplication(cfg *config.Config, logger *slog.Logger, c *core.Core, revoker auth.Revoker) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		core:     c,
		auth:     auth.New(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure, revoker),
		markdown: markdown.NewRenderer(),
		metrics:  metrics.New(),
	}

	templateCache, err := app.newTemplateCache()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	app.templateCache = templateCache
	return app, nil
}

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "conduit",
		Short:         "Conduit - a server rendered blogging platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML configuration file")

	cmd.AddCommand(newServeCommand(&configFile))
	cmd.AddCommand(newMigrateCommand(&configFile))
	cmd.AddCommand(newSeedCommand(&configFile))
	cmd.AddCommand(newDeleteUserCommand(&configFile))
	return cmd
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newResources(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			revoker, err := rt.newRevoker(cmd.Context())
			if err != nil {
				return err
			}

			app, err := newApplication(rt.config, rt.logger, rt.newCore(), revoker)
			if err != nil {
				return err
			}
			return app.serve()
		},
	}
}

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newResources(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			return database.Migrate(cmd.Context(), rt.db, rt.logger)
		},
	}
}

func newSeedCommand(configFile *string) *cobra.Command {
	var opts seed.Options
	var randomSeed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake users and articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newResources(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			_, err = seed.New(rt.newCore(), rt.logger, randomSeed).Run(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 10, "number of users to create")
	cmd.Flags().IntVar(&opts.Articles, "articles", 30, "number of articles to create")
	cmd.Flags().Int64Var(&randomSeed, "seed", 0, "random seed, 0 picks one")
	return cmd
}

func newDeleteUserCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username>",
		Short: "Delete a user together with everything they authored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newResources(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.newCore().DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			rt.logger.Info("User deleted", "username", args[0])
			return nil
		},
	}
}
