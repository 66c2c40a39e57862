package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator applies the postgres schema with golang-migrate
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// Status describes the schema version currently recorded in the database
type Status struct {
	Version uint
	Dirty   bool
}

// NewFromFS builds a Migrator over an fs.FS holding NNNNNN_name.{up,down}.sql files,
// typically migrations.Files.
func NewFromFS(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return newMigrator(m, logger), nil
}

// NewFromDir builds a Migrator that reads migrations from a directory on disk
func NewFromDir(db *sql.DB, dir string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return newMigrator(m, logger), nil
}

func newMigrator(m *migrate.Migrate, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{m: m, logger: logger.Named("migrate")}
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	return mg.run("up", mg.m.Up)
}

// Down rolls back every applied migration
func (mg *Migrator) Down() error {
	return mg.run("down", mg.m.Down)
}

// Steps applies n migrations; negative n rolls back
func (mg *Migrator) Steps(n int) error {
	return mg.run(fmt.Sprintf("steps %d", n), func() error { return mg.m.Steps(n) })
}

// GoTo migrates up or down to version
func (mg *Migrator) GoTo(version uint) error {
	return mg.run(fmt.Sprintf("goto %d", version), func() error { return mg.m.Migrate(version) })
}

// Force records version as applied without running anything. It is the
// way out of a dirty state after a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database
func (mg *Migrator) Drop() error {
	mg.logger.Warn("dropping all database objects")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Status reports the current version; an empty schema is version 0
func (mg *Migrator) Status() (Status, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) run(op string, fn func() error) error {
	mg.logger.Info("running migrations", zap.String("op", op))
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("schema already up to date", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	st, err := mg.Status()
	if err != nil {
		return err
	}
	mg.logger.Info("migrations applied",
		zap.String("op", op),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
	)
	return nil
}
