package credentials

import (
	"context"

	"github.com/mlaplante/passvault/internal/models"
)

// Repository defines the shared-credential operations exposed to the web
// layer. Every mutating operation takes the acting user's id explicitly;
// nothing is read from ambient session state.
type Repository interface {
	Insert(ctx context.Context, req models.NewCredentialRequest, ownerUserID int64) (int64, error)
	SelectForUser(ctx context.Context, userID int64) ([]models.Credential, error)
	SelectFavorites(ctx context.Context, userID int64) ([]models.Credential, error)
	SelectShared(ctx context.Context, userID int64) ([]models.Credential, error)
	FindByID(ctx context.Context, passwordID int64) (*models.Credential, error)
	FindByWebsite(ctx context.Context, userID int64, website string) (*models.Credential, error)
	Update(ctx context.Context, req models.NewCredentialRequest, passwordID int64, isFavorite bool, actingUserID int64) error
	Share(ctx context.Context, targetUserID, passwordID, actingUserID int64) error
	Delete(ctx context.Context, passwordID, requestingUserID int64) error
	FindOwnerLink(ctx context.Context, userID, passwordID int64) (*models.OwnershipLink, error)
}
