package postgres

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// Migrate applies all pending schema migrations from the configured
// migration directory.
func Migrate(cfg config.DatabaseConfig, logger logging.Logger) error {
	path := cfg.MigrationPath
	if path == "" {
		path = "migrations"
	}

	m, err := migrate.New("file://"+path, DSN(cfg))
	if err != nil {
		return errors.Wrap(err, errors.CodeDBConnectionError, "open migrator")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", logging.Err(srcErr))
		}
		if dbErr != nil {
			logger.Warn("close migration database", logging.Err(dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			logger.Info("schema already up to date")
			return nil
		}
		return errors.Wrap(err, errors.CodeDBQueryError, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		return errors.Wrap(err, errors.CodeDBQueryError, "read schema version")
	}
	logger.Info("schema migrated",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty))
	return nil
}
