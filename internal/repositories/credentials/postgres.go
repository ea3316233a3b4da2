// Package credentials provides the PostgreSQL-backed repository for login
// secrets, their encryption at rest and the ownership/sharing rules.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mlaplante/passvault/internal/common"
	"github.com/mlaplante/passvault/internal/cryptox"
	"github.com/mlaplante/passvault/internal/dbx"
	"github.com/mlaplante/passvault/internal/models"
)

// uniqueViolation is the postgres error code raised by the primary key on
// user_passwords. Under concurrent shares the constraint, not the existence
// check, is the authoritative guard.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over a dbx.Executor. Secrets are
// encrypted before they reach the database and decrypted on the way out;
// plaintext never outlives a single call.
type PostgresRepository struct {
	ex     *dbx.Executor
	cipher *cryptox.Cipher
}

// NewPostgresRepository constructs a repository bound to the given executor
// and cipher.
func NewPostgresRepository(ex *dbx.Executor, cipher *cryptox.Cipher) *PostgresRepository {
	return &PostgresRepository{ex: ex, cipher: cipher}
}

// Insert persists an encrypted credential and its owner link in one
// transaction, returning the new password id. The favorite flag always
// starts false.
func (r *PostgresRepository) Insert(ctx context.Context, req models.NewCredentialRequest, ownerUserID int64) (int64, error) {
	if ownerUserID <= 0 {
		return 0, common.ErrorInvalidID
	}
	if req.Website == "" || req.Content == "" {
		return 0, common.ErrorInvalidInput
	}

	sealed, err := r.cipher.EncryptString(req.Content)
	if err != nil {
		return 0, fmt.Errorf("encrypt content: %w", err)
	}

	var passwordID int64
	err = r.ex.WithTx(ctx, func(ctx context.Context, tx *dbx.Executor) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO passwords (web_site, password_content, is_fav) VALUES ($1, $2, FALSE)`,
			req.Website, sealed); err != nil {
			return err
		}
		// LASTVAL is connection-scoped: read it before anything else runs.
		passwordID, err = tx.LastInsertedID(ctx)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO user_passwords (user_id, password_id, is_owner) VALUES ($1, $2, TRUE)`,
			ownerUserID, passwordID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return passwordID, nil
}

const credentialColumns = `passwords.password_id, web_site, password_content, is_fav, user_passwords.is_owner`

// SelectForUser returns every credential linked to the user, owned or
// shared, decrypted.
func (r *PostgresRepository) SelectForUser(ctx context.Context, userID int64) ([]models.Credential, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	records, err := r.ex.SelectAll(ctx,
		`SELECT `+credentialColumns+`
		 FROM passwords
		 JOIN user_passwords ON passwords.password_id = user_passwords.password_id
		 WHERE user_passwords.user_id = $1`,
		userID)
	if err != nil {
		return nil, err
	}
	return r.toCredentials(records)
}

// SelectFavorites returns the user's favorite credentials. Only the owner's
// favorite flag is surfaced; shared copies are excluded.
func (r *PostgresRepository) SelectFavorites(ctx context.Context, userID int64) ([]models.Credential, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	records, err := r.ex.SelectAll(ctx,
		`SELECT `+credentialColumns+`
		 FROM passwords
		 JOIN user_passwords ON passwords.password_id = user_passwords.password_id
		 WHERE user_passwords.user_id = $1 AND passwords.is_fav = TRUE AND user_passwords.is_owner = TRUE`,
		userID)
	if err != nil {
		return nil, err
	}
	return r.toCredentials(records)
}

// SelectShared returns the credentials other users have shared with this one.
func (r *PostgresRepository) SelectShared(ctx context.Context, userID int64) ([]models.Credential, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	records, err := r.ex.SelectAll(ctx,
		`SELECT `+credentialColumns+`
		 FROM passwords
		 JOIN user_passwords ON passwords.password_id = user_passwords.password_id
		 WHERE user_passwords.user_id = $1 AND user_passwords.is_owner = FALSE`,
		userID)
	if err != nil {
		return nil, err
	}
	return r.toCredentials(records)
}

// FindByID returns the decrypted credential, or nil when it does not exist.
func (r *PostgresRepository) FindByID(ctx context.Context, passwordID int64) (*models.Credential, error) {
	if passwordID <= 0 {
		return nil, common.ErrorInvalidID
	}
	record, err := r.ex.SelectSingle(ctx,
		`SELECT password_id, web_site, password_content, is_fav FROM passwords WHERE password_id = $1`,
		passwordID)
	if err != nil || record == nil {
		return nil, err
	}
	cred, err := r.toCredential(record)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindByWebsite returns the user's credential for the given site, or nil.
func (r *PostgresRepository) FindByWebsite(ctx context.Context, userID int64, website string) (*models.Credential, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	if website == "" {
		return nil, common.ErrorInvalidInput
	}
	record, err := r.ex.SelectSingle(ctx,
		`SELECT `+credentialColumns+`
		 FROM passwords
		 JOIN user_passwords ON passwords.password_id = user_passwords.password_id
		 WHERE user_passwords.user_id = $1 AND passwords.web_site = $2`,
		userID, website)
	if err != nil || record == nil {
		return nil, err
	}
	cred, err := r.toCredential(record)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Update re-encrypts and overwrites content, website and favorite flag.
// Links are untouched. Only the owner may update.
func (r *PostgresRepository) Update(ctx context.Context, req models.NewCredentialRequest, passwordID int64, isFavorite bool, actingUserID int64) error {
	if passwordID <= 0 || actingUserID <= 0 {
		return common.ErrorInvalidID
	}
	if req.Website == "" || req.Content == "" {
		return common.ErrorInvalidInput
	}
	link, err := r.FindOwnerLink(ctx, actingUserID, passwordID)
	if err != nil {
		return err
	}
	if link == nil {
		return common.ErrorNotOwner
	}

	sealed, err := r.cipher.EncryptString(req.Content)
	if err != nil {
		return fmt.Errorf("encrypt content: %w", err)
	}
	affected, err := r.ex.Exec(ctx,
		`UPDATE passwords SET is_fav = $1, password_content = $2, web_site = $3 WHERE password_id = $4`,
		isFavorite, sealed, req.Website, passwordID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Share links the credential to another user without ownership. Sharing is
// idempotent: an existing link of either kind is left as it is, so an owner
// link can never be downgraded. A concurrent duplicate insert is absorbed
// via the unique constraint.
func (r *PostgresRepository) Share(ctx context.Context, targetUserID, passwordID, actingUserID int64) error {
	if targetUserID <= 0 || passwordID <= 0 || actingUserID <= 0 {
		return common.ErrorInvalidID
	}
	link, err := r.FindOwnerLink(ctx, actingUserID, passwordID)
	if err != nil {
		return err
	}
	if link == nil {
		return common.ErrorNotOwner
	}

	existing, err := r.findLink(ctx, targetUserID, passwordID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = r.ex.Exec(ctx,
		`INSERT INTO user_passwords (user_id, password_id, is_owner) VALUES ($1, $2, FALSE)`,
		targetUserID, passwordID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil
		}
		return err
	}
	return nil
}

// Delete removes the requester's access to a credential. A non-owner only
// loses their own link; the owner cascades, removing every link first and
// then the secret itself (that order keeps referential integrity).
func (r *PostgresRepository) Delete(ctx context.Context, passwordID, requestingUserID int64) error {
	if passwordID <= 0 || requestingUserID <= 0 {
		return common.ErrorInvalidID
	}
	link, err := r.FindOwnerLink(ctx, requestingUserID, passwordID)
	if err != nil {
		return err
	}

	if link == nil {
		// Removing a link that does not exist is a no-op, not an error.
		_, err := r.ex.Exec(ctx,
			`DELETE FROM user_passwords WHERE user_id = $1 AND password_id = $2`,
			requestingUserID, passwordID)
		return err
	}

	return r.ex.WithTx(ctx, func(ctx context.Context, tx *dbx.Executor) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_passwords WHERE password_id = $1`, passwordID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM passwords WHERE password_id = $1`, passwordID)
		return err
	})
}

// FindOwnerLink returns the owner link for (userID, passwordID), or nil when
// the user does not own the credential. Exposed so callers can authorize
// before invoking mutations of their own.
func (r *PostgresRepository) FindOwnerLink(ctx context.Context, userID, passwordID int64) (*models.OwnershipLink, error) {
	if userID <= 0 || passwordID <= 0 {
		return nil, common.ErrorInvalidID
	}
	record, err := r.ex.SelectSingle(ctx,
		`SELECT user_id, password_id, is_owner FROM user_passwords
		 WHERE user_id = $1 AND password_id = $2 AND is_owner = TRUE`,
		userID, passwordID)
	if err != nil || record == nil {
		return nil, err
	}
	return linkFromRecord(record), nil
}

func (r *PostgresRepository) findLink(ctx context.Context, userID, passwordID int64) (*models.OwnershipLink, error) {
	record, err := r.ex.SelectSingle(ctx,
		`SELECT user_id, password_id, is_owner FROM user_passwords
		 WHERE password_id = $1 AND user_id = $2`,
		passwordID, userID)
	if err != nil || record == nil {
		return nil, err
	}
	return linkFromRecord(record), nil
}

func linkFromRecord(record dbx.Record) *models.OwnershipLink {
	return &models.OwnershipLink{
		UserID:     record.Int("user_id"),
		PasswordID: record.Int("password_id"),
		IsOwner:    record.Bool("is_owner"),
	}
}

func (r *PostgresRepository) toCredential(record dbx.Record) (models.Credential, error) {
	content, err := r.cipher.DecryptString(record.String("password_content"))
	if err != nil {
		return models.Credential{}, fmt.Errorf("decrypt credential %d: %w", record.Int("password_id"), err)
	}
	return models.Credential{
		ID:         record.Int("password_id"),
		Website:    record.String("web_site"),
		Content:    content,
		IsFavorite: record.Bool("is_fav"),
		IsOwner:    record.Bool("is_owner"),
	}, nil
}

func (r *PostgresRepository) toCredentials(records []dbx.Record) ([]models.Credential, error) {
	result := make([]models.Credential, 0, len(records))
	for _, record := range records {
		cred, err := r.toCredential(record)
		if err != nil {
			return nil, err
		}
		result = append(result, cred)
	}
	return result, nil
}
