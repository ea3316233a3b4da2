package cards

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaplante/passvault/internal/common"
	"github.com/mlaplante/passvault/internal/cryptox"
	"github.com/mlaplante/passvault/internal/dbx"
	"github.com/mlaplante/passvault/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB, *cryptox.Cipher) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	cipher, err := cryptox.NewCipher(common.GenerateRandBytes(32))
	require.NoError(t, err)
	return NewPostgresRepository(dbx.NewExecutor(db), cipher), mock, db, cipher
}

func cardRows() *sqlmock.Rows {
	return sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("card_id").OfType("INT8", int64(0)),
		sqlmock.NewColumn("user_id").OfType("INT8", int64(0)),
		sqlmock.NewColumn("firstname").OfType("TEXT", ""),
		sqlmock.NewColumn("lastname").OfType("TEXT", ""),
		sqlmock.NewColumn("card_number").OfType("TEXT", ""),
		sqlmock.NewColumn("cvv").OfType("TEXT", ""),
		sqlmock.NewColumn("expiration").OfType("TEXT", ""),
		sqlmock.NewColumn("web_site").OfType("TEXT", ""),
	)
}

func TestInsert_EncryptsNumberOnly(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	// cvv and expiration travel in clear; the number is ciphertext.
	mock.ExpectExec(`INSERT INTO credit_cards \(user_id, firstname, lastname, card_number, cvv, expiration, web_site\)`).
		WithArgs(int64(3), "Ada", "Lovelace", sqlmock.AnyArg(), "123", "04/27", "shop.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT LASTVAL\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"lastval"}).AddRow(int64(6)))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), models.NewPaymentCardRequest{
		Firstname: "Ada", Lastname: "Lovelace", CardNumber: "4111111111111111",
		CVV: "123", Expiration: "04/27", Website: "shop.com",
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_RejectsInvalidInput(t *testing.T) {
	repo, _, db, _ := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.Insert(context.Background(), models.NewPaymentCardRequest{CardNumber: "4111", Website: "x"}, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidID)

	_, err = repo.Insert(context.Background(), models.NewPaymentCardRequest{CardNumber: "", Website: "x"}, 1)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestSelectForUser_DecryptsNumbers(t *testing.T) {
	repo, mock, db, cipher := newRepoWithMock(t)
	defer db.Close()

	sealed, err := cipher.EncryptString("4111111111111111")
	require.NoError(t, err)

	rows := cardRows().AddRow(int64(6), int64(3), "Ada", "Lovelace", sealed, "123", "04/27", "shop.com")
	mock.ExpectQuery(`FROM credit_cards WHERE \$1 = user_id`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	got, err := repo.SelectForUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4111111111111111", got[0].CardNumber)
	assert.Equal(t, "1111", got[0].Last4())
	assert.Equal(t, "123", got[0].CVV)
}

func TestFindByID(t *testing.T) {
	repo, mock, db, cipher := newRepoWithMock(t)
	defer db.Close()

	sealed, err := cipher.EncryptString("4111111111111111")
	require.NoError(t, err)

	rows := cardRows().AddRow(int64(6), int64(3), "Ada", "Lovelace", sealed, "123", "04/27", "shop.com")
	mock.ExpectQuery(`FROM credit_cards WHERE card_id = \$1`).
		WithArgs(int64(6)).
		WillReturnRows(rows)

	got, err := repo.FindByID(context.Background(), 6)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "4111111111111111", got.CardNumber)
	assert.Equal(t, int64(3), got.UserID)
}

func TestFindByID_AbsentIsNilNotError(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM credit_cards WHERE card_id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(cardRows())

	got, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_Unconditional(t *testing.T) {
	repo, mock, db, _ := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM credit_cards WHERE card_id = \$1`).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 6))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RejectsInvalidID(t *testing.T) {
	repo, _, db, _ := newRepoWithMock(t)
	defer db.Close()

	assert.ErrorIs(t, repo.Delete(context.Background(), 0), common.ErrorInvalidID)
}
