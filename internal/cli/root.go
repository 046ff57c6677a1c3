// Package cli implements funrun-cli, the operator tool for schema
// migrations, demo data and account management.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/dmitrijs2005/funrun/internal/server/config"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/repomanager"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// newRepoManager is a seam for tests.
var newRepoManager = repomanager.NewPostgresRepositoryManager

type globalOptions struct {
	configFile string
	dsn        string
}

// env is what a command needs to reach the database.
type env struct {
	cfg   *config.Config
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
}

func (e *env) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// connect loads the configuration, applies --dsn and opens the database.
func (o *globalOptions) connect(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dsn != "" {
		cfg.DatabaseDSN = o.dsn
	}

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &env{
		cfg:   cfg,
		db:    db,
		repos: newRepoManager(),
		log:   logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.LogLevel).With("module", "cli"),
	}, nil
}

// run opens the environment, hands it to fn and closes it afterwards.
func (o *globalOptions) run(fn func(ctx context.Context, cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := o.connect(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd.Context(), cmd, e, args)
	}
}

// NewRootCmd creates the root command of funrun-cli.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "funrun-cli",
		Short:         "Fun Run operator tool",
		Long:          `Operator tool for the Fun Run server: migrations, demo data, collection browsing and accounts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "database DSN, overrides the configured one")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newViewCmd(opts))
	cmd.AddCommand(newCollectionsCmd(opts))
	cmd.AddCommand(newUserCmd(opts))

	return cmd
}
