// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together the executor, the cipher, repository constructors and
// database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mlaplante/passvault/internal/cryptox"
	"github.com/mlaplante/passvault/internal/dbx"
	"github.com/mlaplante/passvault/internal/migrations"
	"github.com/mlaplante/passvault/internal/repositories/cards"
	"github.com/mlaplante/passvault/internal/repositories/credentials"
	"github.com/mlaplante/passvault/internal/repositories/users"
)

// PostgresRepositoryManager holds the pgx-backed *sql.DB and the shared
// executor and cipher every repository is built on.
type PostgresRepositoryManager struct {
	db     *sql.DB
	ex     *dbx.Executor
	cipher *cryptox.Cipher
}

// NewPostgresRepositoryManager opens the database and prepares the shared
// executor and cipher. encryptionKey is the hex-encoded AES key;
// allowedTags configures which HTML tags the row decoder preserves.
func NewPostgresRepositoryManager(dsn string, encryptionKey string, allowedTags []string) (*PostgresRepositoryManager, error) {
	cipher, err := cryptox.NewCipherFromHex(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &PostgresRepositoryManager{
		db:     db,
		ex:     dbx.NewExecutor(db, dbx.WithAllowedHTMLTags(allowedTags...)),
		cipher: cipher,
	}, nil
}

// Users returns the identity repository.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.ex, m.cipher)
}

// Credentials returns the credential-secret repository.
func (m *PostgresRepositoryManager) Credentials() credentials.Repository {
	return credentials.NewPostgresRepository(m.ex, m.cipher)
}

// Cards returns the payment-card repository.
func (m *PostgresRepositoryManager) Cards() cards.Repository {
	return cards.NewPostgresRepository(m.ex, m.cipher)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the managed database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

// Ping verifies the database connection.
func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Close releases the database handle.
func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
