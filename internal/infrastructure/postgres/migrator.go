package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator aplica las migraciones embebidas (NNNN_nombre.up.sql / .down.sql) con golang-migrate.
type Migrator struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewMigrator construye el migrador sobre el pool de la aplicación.
func NewMigrator(pool *pgxpool.Pool, log zerolog.Logger) *Migrator {
	return &Migrator{pool: pool, log: log}
}

// Run aplica las migraciones pendientes. Sin cambios no es error.
func (m *Migrator) Run(ctx context.Context) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer m.close(mg)
	defer stopOnCancel(ctx, mg)()

	err = mg.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("migraciones al día")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, err := mg.Version()
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	m.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Down revierte todas las migraciones.
func (m *Migrator) Down(ctx context.Context) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer m.close(mg)
	defer stopOnCancel(ctx, mg)()

	if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	m.log.Info().Msg("migraciones revertidas")
	return nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	driver, err := migratepgx.WithInstance(stdlib.OpenDBFromPool(m.pool), &migratepgx.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	mg, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	mg.Log = migrateLogger{m.log}
	return mg, nil
}

// stopOnCancel detiene la migración en curso si ctx se cancela.
func stopOnCancel(ctx context.Context, mg *migrate.Migrate) (release func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			mg.GracefulStop <- true
		case <-done:
		}
	}()
	return func() { close(done) }
}

func (m *Migrator) close(mg *migrate.Migrate) {
	srcErr, dbErr := mg.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		m.log.Warn().Err(err).Msg("cerrar migrador")
	}
}

// migrateLogger adapta zerolog a migrate.Logger.
type migrateLogger struct{ log zerolog.Logger }

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Debug().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool { return false }
