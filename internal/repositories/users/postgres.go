// Package users provides the PostgreSQL-backed identity repository: user
// records, their authentication rows and the lookups behind sharing.
package users

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
// and cipher. The cipher only serves WebsiteAuthentication; passwords used
// for login are hashed, never encrypted.
func NewPostgresRepository(ex *dbx.Executor, cipher *cryptox.Cipher) *PostgresRepository {
	return &PostgresRepository{ex: ex, cipher: cipher}
}

// Insert creates the user row and its authentication record as one unit.
// The authentication row stores the hashed password; a failure on the second
// insert rolls back the first, never leaving an orphaned user.
func (r *PostgresRepository) Insert(ctx context.Context, req models.NewUserRequest) (int64, error) {
	if req.Email == "" || req.Password == "" {
		return 0, common.ErrorInvalidInput
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var userID int64
	err = r.ex.WithTx(ctx, func(ctx context.Context, tx *dbx.Executor) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (firstname, lastname, email, username) VALUES ($1, $2, $3, $4)`,
			req.Firstname, req.Lastname, req.Email, req.Username); err != nil {
			return err
		}
		userID, err = tx.LastInsertedID(ctx)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO authentication (user_id, email, password) VALUES ($1, $2, $3)`,
			userID, req.Email, hash)
		return err
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Authenticate looks up the joined user+authentication row by email and
// verifies the plaintext against the stored hash. Unknown email and wrong
// password both return (nil, nil); the caller cannot tell them apart.
func (r *PostgresRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.ErrorInvalidInput
	}

	record, err := r.ex.SelectSingle(ctx,
		`SELECT users.user_id, firstname, lastname, users.email, username, authentication.password
		 FROM users
		 JOIN authentication ON users.user_id = authentication.user_id
		 WHERE authentication.email = $1`,
		email)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if !cryptox.VerifyHashedPassword(password, record.String("password")) {
		return nil, nil
	}
	user := userFromRecord(record)
	return &user, nil
}

// SharedUsersOf returns the users holding a non-owner link to the secret,
// for presentation to its owner.
func (r *PostgresRepository) SharedUsersOf(ctx context.Context, passwordID int64) ([]models.User, error) {
	if passwordID <= 0 {
		return nil, common.ErrorInvalidID
	}
	records, err := r.ex.SelectAll(ctx,
		`SELECT users.user_id, firstname, lastname, email, username
		 FROM users
		 JOIN user_passwords ON users.user_id = user_passwords.user_id
		 WHERE user_passwords.is_owner = FALSE AND user_passwords.password_id = $1`,
		passwordID)
	if err != nil {
		return nil, err
	}
	return usersFromRecords(records), nil
}

// SelectOthers returns every user except the given one, the candidate list
// for a share.
func (r *PostgresRepository) SelectOthers(ctx context.Context, userID int64) ([]models.User, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	records, err := r.ex.SelectAll(ctx,
		`SELECT user_id, firstname, lastname, email, username FROM users WHERE user_id <> $1`,
		userID)
	if err != nil {
		return nil, err
	}
	return usersFromRecords(records), nil
}

// WebsiteAuthentication returns the decrypted credential content and account
// email the user stored for a site, or nil when none exists. Serves the
// browser-autofill endpoint.
func (r *PostgresRepository) WebsiteAuthentication(ctx context.Context, userID int64, website string) (*models.WebsiteAuthentication, error) {
	if userID <= 0 {
		return nil, common.ErrorInvalidID
	}
	if website == "" {
		return nil, common.ErrorInvalidInput
	}
	record, err := r.ex.SelectSingle(ctx,
		`SELECT password_content, users.email
		 FROM passwords
		 JOIN user_passwords ON passwords.password_id = user_passwords.password_id
		 JOIN users ON user_passwords.user_id = users.user_id
		 WHERE user_passwords.user_id = $1 AND web_site = $2`,
		userID, website)
	if err != nil || record == nil {
		return nil, err
	}
	content, err := r.cipher.DecryptString(record.String("password_content"))
	if err != nil {
		return nil, fmt.Errorf("decrypt credential: %w", err)
	}
	return &models.WebsiteAuthentication{Email: record.String("email"), Content: content}, nil
}

func userFromRecord(record dbx.Record) models.User {
	return models.User{
		ID:        record.Int("user_id"),
		Firstname: record.String("firstname"),
		Lastname:  record.String("lastname"),
		Email:     record.String("email"),
		Username:  record.String("username"),
	}
}

func usersFromRecords(records []dbx.Record) []models.User {
	result := make([]models.User, 0, len(records))
	for _, record := range records {
		result = append(result, userFromRecord(record))
	}
	return result
}
