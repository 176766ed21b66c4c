package settings

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS agencies (
		id      TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		phone   TEXT,
		email   TEXT,
		address TEXT,
		ninea   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS agency_settings (
		agency_id                   TEXT PRIMARY KEY,
		nom_agence                  TEXT,
		adresse                     TEXT,
		telephone                   TEXT,
		email                       TEXT,
		site_web                    TEXT,
		ninea                       TEXT,
		rc                          TEXT,
		representant_nom            TEXT,
		representant_fonction       TEXT,
		ville                       TEXT,
		logo_url                    TEXT,
		logo_position               TEXT,
		signature_url               TEXT,
		couleur_primaire            TEXT,
		couleur_secondaire          TEXT,
		mention_tribunal            TEXT,
		mention_penalites           TEXT,
		penalite_retard_montant     BIGINT,
		penalite_retard_delai_jours INTEGER,
		pied_page_personnalise      TEXT,
		frais_huissier              BIGINT,
		devise                      TEXT,
		qr_code_quittances          BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

// Migrate creates the settings schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
