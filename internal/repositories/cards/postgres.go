// Package cards provides the PostgreSQL-backed repository for credit-card
// secrets. Only the card number is encrypted at rest; cvv and expiration
// stay in clear, matching this subsystem's narrower threat model.
package cards

import (
	"context"
	"fmt"

	"github.com/mlaplante/passvault/internal/common"
	"github.com/mlaplante/passvault/internal/cryptox"
	"github.com/mlaplante/passvault/internal/dbx"
	"github.com/mlaplante/passvault/internal/models"
)

// PostgresRepository implements Repository over a dbx.Executor.
type PostgresRepository struct {
	ex     *dbx.Executor
	cipher *cryptox.Cipher
}

// NewPostgresRepository constructs a repository bound to the given executor
// and cipher.
func NewPostgresRepository(ex *dbx.Executor, cipher *cryptox.Cipher) *PostgresRepository {
	return &PostgresRepository{ex: ex, cipher: cipher}
}

// Insert persists a card for the user and returns the new card id.
func (r *PostgresRepository) Insert(ctx context.Context, req models.NewPaymentCardRequest, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, common.ErrorInvalidID
	}
	if req.CardNumber == "" || req.Website == "" {
		return 0, common.ErrorInvalidInput
	}

	sealed, err := r.cipher.EncryptString(req.CardNumber)
	if err != nil {
		return 0, fmt.Errorf("encrypt card number: %w", err)
	}

	var cardID int64
	err = r.ex.WithTx(ctx, func(ctx context.Context, tx *dbx.Executor) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO credit_cards (user_id, firstname, lastname, card_number, cvv, expiration, web_site)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			userID, req.Firstname, req.Lastname, sealed, req.CVV, req.Expiration, req.Website); err != nil {
			return err
		}
		cardID, err = tx.LastInsertedID(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return cardID, nil
}

const cardColumns = `card_id, user_id, firstname, lastname, card_number, cvv, expiration, web_site`

// SelectForUser returns the user's cards with numbers decrypted. Masking is
// the display layer's job; PaymentCard.Last4 provides the masked form.
func (r *PostgresRepository) SelectForUser(ctx context.Context, userID int64) ([]models.PaymentCard, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	records, err := r.ex.SelectAll(ctx,
		`SELECT `+cardColumns+` FROM credit_cards WHERE $1 = user_id`,
		userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.PaymentCard, 0, len(records))
	for _, record := range records {
		card, err := r.toCard(record)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, nil
}

// FindByID returns the decrypted card, or nil when it does not exist.
func (r *PostgresRepository) FindByID(ctx context.Context, cardID int64) (*models.PaymentCard, error) {
	if cardID <= 0 {
		return nil, common.ErrorInvalidID
	}
	record, err := r.ex.SelectSingle(ctx,
		`SELECT `+cardColumns+` FROM credit_cards WHERE card_id = $1`,
		cardID)
	if err != nil || record == nil {
		return nil, err
	}
	card, err := r.toCard(record)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Delete removes the card unconditionally.
func (r *PostgresRepository) Delete(ctx context.Context, cardID int64) error {
	if cardID <= 0 {
		return common.ErrorInvalidID
	}
	_, err := r.ex.Exec(ctx, `DELETE FROM credit_cards WHERE card_id = $1`, cardID)
	return err
}

func (r *PostgresRepository) toCard(record dbx.Record) (models.PaymentCard, error) {
	number, err := r.cipher.DecryptString(record.String("card_number"))
	if err != nil {
		return models.PaymentCard{}, fmt.Errorf("decrypt card %d: %w", record.Int("card_id"), err)
	}
	return models.PaymentCard{
		ID:         record.Int("card_id"),
		UserID:     record.Int("user_id"),
		Firstname:  record.String("firstname"),
		Lastname:   record.String("lastname"),
		CardNumber: number,
		CVV:        record.String("cvv"),
		Expiration: record.String("expiration"),
		Website:    record.String("web_site"),
	}, nil
}
