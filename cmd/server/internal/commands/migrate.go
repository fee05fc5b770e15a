package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/taskboard/internal/logger"
	postgresstore "github.com/wolfeidau/taskboard/internal/store/postgres"
)

type MigrateCmd struct {
	Config   string             `help:"path to YAML config file" default:"" env:"TASKBOARD_CONFIG"`
	Postgres PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	fileCfg, err := loadFileConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Postgres.ConnString == "" {
		c.Postgres.ConnString = fileCfg.Postgres.ConnString
	}

	pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
		ConnString: c.Postgres.ConnString,
		MaxConns:   c.Postgres.MaxConns,
		MinConns:   c.Postgres.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := postgresstore.RunMigrations(ctx, pool); err != nil {
		return err
	}

	log.Info().Msg("Migrations complete")
	return nil
}
