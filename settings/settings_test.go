package settings

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/immodoc"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLStore_SaveAndLoad(t *testing.T) {
	store := NewSQLStore(newTestDB(t), SQLite)
	ctx := context.Background()

	want := &Settings{
		AgencyName:    "Teranga Immo",
		Address:       "Rue 10, Point E, Dakar",
		NINEA:         "0012345 2G3",
		PrimaryColor:  "#F58220",
		CustomFooter:  "Teranga Immo - SARL au capital de 1 000 000 F CFA",
		BailiffFee:    40000,
		Currency:      "XOF",
		LogoPosition:  LogoCenter,
		ReceiptQRCode: false,
	}
	require.NoError(t, store.Save(ctx, "agence-1", want))

	got, err := store.Load(ctx, "agence-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.AgencyName = "Teranga Immobilier"
	require.NoError(t, store.Save(ctx, "agence-1", want))
	got, err = store.Load(ctx, "agence-1")
	require.NoError(t, err)
	assert.Equal(t, "Teranga Immobilier", got.AgencyName)
}

func TestSQLStore_FallsBackToAgencyRow(t *testing.T) {
	store := NewSQLStore(newTestDB(t), SQLite)
	ctx := context.Background()

	require.NoError(t, store.SaveAgency(ctx, Agency{ID: "agence-2", Name: "Keur Immo", Phone: "+221 33 800 00 00"}))

	got, err := store.Load(ctx, "agence-2")
	require.NoError(t, err)
	assert.Equal(t, "Keur Immo", got.AgencyName)
	assert.Equal(t, "+221 33 800 00 00", got.Phone)
	assert.Equal(t, "#F58220", got.PrimaryColor)
	assert.Equal(t, "#333333", got.SecondaryColor)
	assert.Equal(t, DefaultCourt, got.CourtMention)
	assert.Equal(t, "XOF", got.Currency)
}

func TestSQLStore_NotFound(t *testing.T) {
	store := NewSQLStore(newTestDB(t), SQLite)
	_, err := store.Load(context.Background(), "inconnue")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM agency_settings WHERE agency_id = $1")).
		WithArgs("agence-3").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM agencies WHERE id = $1")).
		WithArgs("agence-3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "address", "ninea"}).
			AddRow("agence-3", "Sahel Gestion", nil, "contact@sahel.sn", nil, nil))

	store := NewSQLStore(db, Postgres)
	got, err := store.Load(context.Background(), "agence-3")
	require.NoError(t, err)
	assert.Equal(t, "Sahel Gestion", got.AgencyName)
	assert.Equal(t, "contact@sahel.sn", got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_QueryErrorIsReported(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM agency_settings").WillReturnError(boom)

	_, err = NewSQLStore(db, Postgres).Load(context.Background(), "agence-4")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ScanErrorIsReported(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A settings row with a broken schema must not be replaced by the
	// agency identity row.
	mock.ExpectQuery("FROM agency_settings").
		WillReturnRows(sqlmock.NewRows([]string{"nom_agence"}).AddRow("Keur Immo"))

	_, err = NewSQLStore(db, Postgres).Load(context.Background(), "agence-5")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRebind(t *testing.T) {
	s := &SQLStore{dialect: Postgres}
	assert.Equal(t, "a = $1 AND b = $2", s.rebind("a = ? AND b = ?"))
	s.dialect = SQLite
	assert.Equal(t, "a = ?", s.rebind("a = ?"))
}

type failingLoader struct{ err error }

func (f failingLoader) Load(context.Context, string) (*Settings, error) { return nil, f.err }

func TestFallback(t *testing.T) {
	ctx := context.Background()

	got := NewFallback(failingLoader{err: errors.New("db down")}, nil).Get(ctx, "agence-1")
	assert.Equal(t, Default(), got)

	got = NewFallback(nil, nil).Get(ctx, "agence-1")
	assert.Equal(t, DefaultAgencyName, got.AgencyName)

	static := Static{"agence-1": {AgencyName: "Dakar Habitat", PrimaryColor: "bleu"}}
	got = NewFallback(static, nil).Get(ctx, "agence-1")
	assert.Equal(t, "Dakar Habitat", got.AgencyName)
	assert.Equal(t, DefaultPrimaryColor, got.PrimaryColor, "invalid color is replaced")
	assert.Equal(t, DefaultCurrency, got.Currency)

	got = NewFallback(static, nil).Get(ctx, "absente")
	assert.Equal(t, Default(), got)
}

func TestSettingsLoadErrorWrapping(t *testing.T) {
	err := &immodoc.SettingsLoadError{AgencyID: "a", Err: ErrNotFound}
	assert.ErrorIs(t, err, immodoc.ErrSettingsLoad)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#0066CC")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0, G: 0x66, B: 0xCC}, c)

	c, err = ParseColor("f80")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0xff, G: 0x88, B: 0}, c)

	_, err = ParseColor("#12")
	assert.Error(t, err)
}

func TestPenalties(t *testing.T) {
	s := Default()
	assert.Contains(t, s.Penalties(), "1000 FCFA par jour de retard")
	assert.Contains(t, s.Penalties(), "pendant 03 jours")

	s.PenaltyMention = "Clause personnalisée."
	assert.Equal(t, "Clause personnalisée.", s.Penalties())
	assert.Equal(t, int64(DefaultBailiffFee), s.Fee())
}
