// Package settings provides the per-agency presentation settings used when
// generating documents: agency identity, branding, legal mentions and
// currency.
package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Default values applied when an agency has not configured a field.
const (
	DefaultAgencyName   = "Gestion Locative"
	DefaultPrimaryColor = "#0066CC"
	DefaultCurrency     = "XOF"
	DefaultCity         = "Dakar"
	DefaultCourt        = "Tribunal de commerce de Dakar"
	DefaultBailiffFee   = 37500
)

// LogoPosition places the agency logo in the document header.
type LogoPosition string

const (
	LogoLeft   LogoPosition = "left"
	LogoCenter LogoPosition = "center"
	LogoRight  LogoPosition = "right"
)

// Settings are the presentation settings of one agency.
type Settings struct {
	AgencyName          string       `json:"nom_agence" yaml:"nom_agence"`
	Address             string       `json:"adresse" yaml:"adresse"`
	Phone               string       `json:"telephone" yaml:"telephone"`
	Email               string       `json:"email" yaml:"email"`
	Website             string       `json:"site_web" yaml:"site_web"`
	NINEA               string       `json:"ninea" yaml:"ninea"`
	RC                  string       `json:"rc" yaml:"rc"`
	RepresentativeName  string       `json:"representant_nom" yaml:"representant_nom"`
	RepresentativeTitle string       `json:"representant_fonction" yaml:"representant_fonction"`
	City                string       `json:"ville" yaml:"ville"`
	LogoURL             string       `json:"logo_url" yaml:"logo_url"`
	LogoPosition        LogoPosition `json:"logo_position" yaml:"logo_position"`
	SignatureURL        string       `json:"signature_url" yaml:"signature_url"`
	PrimaryColor        string       `json:"couleur_primaire" yaml:"couleur_primaire"`
	SecondaryColor      string       `json:"couleur_secondaire" yaml:"couleur_secondaire"`
	CourtMention        string       `json:"mention_tribunal" yaml:"mention_tribunal"`
	PenaltyMention      string       `json:"mention_penalites" yaml:"mention_penalites"`
	LatePenaltyAmount   int64        `json:"penalite_retard_montant" yaml:"penalite_retard_montant"`
	LatePenaltyDays     int          `json:"penalite_retard_delai_jours" yaml:"penalite_retard_delai_jours"`
	CustomFooter        string       `json:"pied_page_personnalise" yaml:"pied_page_personnalise"`
	BailiffFee          int64        `json:"frais_huissier" yaml:"frais_huissier"`
	Currency            string       `json:"devise" yaml:"devise"`
	ReceiptQRCode       bool         `json:"qr_code_quittances" yaml:"qr_code_quittances"`
}

// Default returns the settings used when an agency has none.
func Default() *Settings {
	return &Settings{
		AgencyName:    DefaultAgencyName,
		PrimaryColor:  DefaultPrimaryColor,
		Currency:      DefaultCurrency,
		City:          DefaultCity,
		LogoPosition:  LogoLeft,
		ReceiptQRCode: true,
	}
}

// Agency is the identity row of an agency, used when the agency has never
// saved presentation settings.
type Agency struct {
	ID      string
	Name    string
	Phone   string
	Email   string
	Address string
	NINEA   string
}

// FromAgency derives settings from an agency identity row.
func FromAgency(a Agency) *Settings {
	return &Settings{
		AgencyName:     a.Name,
		Address:        a.Address,
		Phone:          a.Phone,
		Email:          a.Email,
		NINEA:          a.NINEA,
		PrimaryColor:   "#F58220",
		SecondaryColor: "#333333",
		CourtMention:   DefaultCourt,
		Currency:       DefaultCurrency,
		City:           DefaultCity,
		LogoPosition:   LogoLeft,
		ReceiptQRCode:  true,
	}
}

// WithDefaults returns a copy of s where empty identity, branding and
// currency fields carry their default values.
func (s Settings) WithDefaults() *Settings {
	if strings.TrimSpace(s.AgencyName) == "" {
		s.AgencyName = DefaultAgencyName
	}
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = DefaultCurrency
	}
	if _, err := ParseColor(s.PrimaryColor); err != nil {
		s.PrimaryColor = DefaultPrimaryColor
	}
	if strings.TrimSpace(s.City) == "" {
		s.City = DefaultCity
	}
	switch s.LogoPosition {
	case LogoLeft, LogoCenter, LogoRight:
	default:
		s.LogoPosition = LogoLeft
	}
	return &s
}

// Court returns the court mention, or the Dakar commercial court.
func (s *Settings) Court() string {
	if s.CourtMention != "" {
		return s.CourtMention
	}
	return DefaultCourt
}

// Fee returns the bailiff fee withheld from the deposit.
func (s *Settings) Fee() int64 {
	if s.BailiffFee > 0 {
		return s.BailiffFee
	}
	return DefaultBailiffFee
}

// Penalties returns the late payment clause of the lease.
func (s *Settings) Penalties() string {
	if s.PenaltyMention != "" {
		return s.PenaltyMention
	}
	amount, days := s.LatePenaltyAmount, s.LatePenaltyDays
	if amount <= 0 {
		amount = 1000
	}
	if days <= 0 {
		days = 3
	}
	return fmt.Sprintf("À défaut de paiement d'un mois de loyer dans les délais impartis (au plus tard le 07 du mois en cours), "+
		"des pénalités qui s'élèvent à %d FCFA par jour de retard seront appliquées pendant %02d jours. "+
		"Passé ce délai, la procédure judiciaire sera enclenchée.", amount, days)
}

// RGB is a color parsed from a settings value.
type RGB struct {
	R, G, B int
}

// ParseColor parses a "#RRGGBB" or "#RGB" hex color.
func ParseColor(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("settings: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("settings: invalid color %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
