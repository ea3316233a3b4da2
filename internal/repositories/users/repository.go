package users

import (
	"context"

	"github.com/mlaplante/passvault/internal/models"
)

// Repository defines identity operations: registration, password-based
// authentication, and the user listings backing the sharing screens.
type Repository interface {
	Insert(ctx context.Context, req models.NewUserRequest) (int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	SharedUsersOf(ctx context.Context, passwordID int64) ([]models.User, error)
	SelectOthers(ctx context.Context, userID int64) ([]models.User, error)
	WebsiteAuthentication(ctx context.Context, userID int64, website string) (*models.WebsiteAuthentication, error)
}
