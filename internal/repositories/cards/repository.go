package cards

import (
	"context"

	"github.com/mlaplante/passvault/internal/models"
)

// Repository defines the payment-card operations. Cards are owned by exactly
// one user and never shared. Delete performs no ownership check; the caller
// is expected to authorize first (unlike the credential path, which checks).
type Repository interface {
	Insert(ctx context.Context, req models.NewPaymentCardRequest, userID int64) (int64, error)
	SelectForUser(ctx context.Context, userID int64) ([]models.PaymentCard, error)
	FindByID(ctx context.Context, cardID int64) (*models.PaymentCard, error)
	Delete(ctx context.Context, cardID int64) error
}
