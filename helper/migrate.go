package helper

import (
	"errors"
	"fmt"
	"net"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"expohub/config"
)

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	connectionString := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s&x-migrations-table=%s",
		config.DB.Postgres.Write.Username,
		config.DB.Postgres.Write.Password,
		net.JoinHostPort(config.DB.Postgres.Write.Host, config.DB.Postgres.Write.Port),
		getDBName(config, config.DB.Postgres.Write.Name),
		config.DB.Postgres.Write.SSLMode,
		config.DB.Postgres.MigrationTable,
	)

	mig, err := migrate.New(
		"file://migrations/postgres",
		connectionString,
	)

	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Up(config *config.Config) error {
	return runner(config, func(mig *migrate.Migrate) error { return mig.Up() }, "Database migrations completed successfully")
}

func StepUp(config *config.Config) error {
	return runner(config, func(mig *migrate.Migrate) error { return mig.Steps(1) }, "Database migrations completed successfully")
}

func Down(config *config.Config) error {
	return runner(config, func(mig *migrate.Migrate) error { return mig.Steps(-1) }, "Database migrations rolled back successfully")
}

func Drop(config *config.Config) error {
	return runner(config, func(mig *migrate.Migrate) error { return mig.Down() }, "Database migrations rolled back successfully")
}

func runner(config *config.Config, action func(*migrate.Migrate) error, successMsg string) error {
	mig, err := getConnection(config)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := action(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	log.Info().Msg(successMsg)

	return nil
}
