package repomanager

import (
	"context"

	"github.com/mlaplante/passvault/internal/repositories/cards"
	"github.com/mlaplante/passvault/internal/repositories/credentials"
	"github.com/mlaplante/passvault/internal/repositories/users"
)

// RepositoryManager owns the database handle and vends the vault
// repositories over it.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Credentials() credentials.Repository
	Cards() cards.Repository
	Ping(ctx context.Context) error
	Close() error
}
