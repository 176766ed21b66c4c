package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when neither settings nor an agency row exist.
var ErrNotFound = errors.New("settings: agency not found")

// DBTX is the subset of *sql.DB and *sql.Tx used by the store.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect selects the SQL placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Open connects to the settings database. SQLite databases are created and
// migrated on open.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case SQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("creating db directory: %w", err)
			}
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		if dsn == ":memory:" {
			// Each connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
		if err := Migrate(context.Background(), db); err != nil {
			db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		return db, nil
	case Postgres:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("settings: unsupported driver %q", dialect)
}

const settingsColumns = `nom_agence, adresse, telephone, email, site_web, ninea, rc,
	representant_nom, representant_fonction, ville, logo_url, logo_position, signature_url,
	couleur_primaire, couleur_secondaire, mention_tribunal, mention_penalites,
	penalite_retard_montant, penalite_retard_delai_jours, pied_page_personnalise,
	frais_huissier, devise, qr_code_quittances`

// SQLStore reads and writes agency settings in a SQL database.
type SQLStore struct {
	db      DBTX
	dialect Dialect
}

// NewSQLStore creates a store over conn using the placeholder style of dialect.
func NewSQLStore(conn DBTX, dialect Dialect) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect}
}

// Load returns the settings saved for agencyID. An agency without saved
// settings gets settings derived from its identity row. Other failures of
// the settings query are returned as is.
func (s *SQLStore) Load(ctx context.Context, agencyID string) (*Settings, error) {
	st, err := s.loadSettings(ctx, agencyID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	agency, err := s.loadAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	return FromAgency(*agency), nil
}

func (s *SQLStore) loadSettings(ctx context.Context, agencyID string) (*Settings, error) {
	query := s.rebind(`SELECT ` + settingsColumns + ` FROM agency_settings WHERE agency_id = ?`)
	var (
		str     [20]sql.NullString
		penalty sql.NullInt64
		days    sql.NullInt64
		fee     sql.NullInt64
		qr      sql.NullBool
	)
	err := s.db.QueryRowContext(ctx, query, agencyID).Scan(
		&str[0], &str[1], &str[2], &str[3], &str[4], &str[5], &str[6],
		&str[7], &str[8], &str[9], &str[10], &str[11], &str[12],
		&str[13], &str[14], &str[15], &str[16],
		&penalty, &days, &str[17],
		&fee, &str[18], &qr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning agency settings: %w", err)
	}
	return &Settings{
		AgencyName:          str[0].String,
		Address:             str[1].String,
		Phone:               str[2].String,
		Email:               str[3].String,
		Website:             str[4].String,
		NINEA:               str[5].String,
		RC:                  str[6].String,
		RepresentativeName:  str[7].String,
		RepresentativeTitle: str[8].String,
		City:                str[9].String,
		LogoURL:             str[10].String,
		LogoPosition:        LogoPosition(str[11].String),
		SignatureURL:        str[12].String,
		PrimaryColor:        str[13].String,
		SecondaryColor:      str[14].String,
		CourtMention:        str[15].String,
		PenaltyMention:      str[16].String,
		LatePenaltyAmount:   penalty.Int64,
		LatePenaltyDays:     int(days.Int64),
		CustomFooter:        str[17].String,
		BailiffFee:          fee.Int64,
		Currency:            str[18].String,
		ReceiptQRCode:       !qr.Valid || qr.Bool,
	}, nil
}

func (s *SQLStore) loadAgency(ctx context.Context, agencyID string) (*Agency, error) {
	query := s.rebind(`SELECT id, name, phone, email, address, ninea FROM agencies WHERE id = ?`)
	var (
		a                            Agency
		phone, email, address, ninea sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, agencyID).Scan(&a.ID, &a.Name, &phone, &email, &address, &ninea)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agency %s: %w", agencyID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning agency: %w", err)
	}
	a.Phone, a.Email, a.Address, a.NINEA = phone.String, email.String, address.String, ninea.String
	return &a, nil
}

// Save creates or replaces the settings of agencyID.
func (s *SQLStore) Save(ctx context.Context, agencyID string, st *Settings) error {
	cols := strings.Fields(strings.ReplaceAll(settingsColumns, ",", " "))
	updates := make([]string, len(cols))
	for i, c := range cols {
		updates[i] = c + " = excluded." + c
	}
	query := s.rebind(`INSERT INTO agency_settings (agency_id, ` + settingsColumns + `)
		VALUES (?` + strings.Repeat(", ?", len(cols)) + `)
		ON CONFLICT (agency_id) DO UPDATE SET ` + strings.Join(updates, ", "))

	_, err := s.db.ExecContext(ctx, query,
		agencyID,
		st.AgencyName, st.Address, st.Phone, st.Email, st.Website, st.NINEA, st.RC,
		st.RepresentativeName, st.RepresentativeTitle, st.City, st.LogoURL, string(st.LogoPosition), st.SignatureURL,
		st.PrimaryColor, st.SecondaryColor, st.CourtMention, st.PenaltyMention,
		st.LatePenaltyAmount, st.LatePenaltyDays, st.CustomFooter,
		st.BailiffFee, st.Currency, st.ReceiptQRCode,
	)
	if err != nil {
		return fmt.Errorf("upserting agency settings: %w", err)
	}
	return nil
}

// SaveAgency creates or replaces an agency identity row.
func (s *SQLStore) SaveAgency(ctx context.Context, a Agency) error {
	query := s.rebind(`INSERT INTO agencies (id, name, phone, email, address, ninea)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, phone = excluded.phone,
		email = excluded.email, address = excluded.address, ninea = excluded.ninea`)
	if _, err := s.db.ExecContext(ctx, query, a.ID, a.Name, a.Phone, a.Email, a.Address, a.NINEA); err != nil {
		return fmt.Errorf("upserting agency: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
