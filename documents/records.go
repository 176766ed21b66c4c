package documents

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Date is a calendar date read from records as "2006-01-02" or RFC 3339.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given day in UTC.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("documents: date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("documents: invalid date %q", s)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// valid reports whether d holds a date.
func (d *Date) valid() bool {
	return d != nil && !d.IsZero()
}

// Tenant is the occupant of a unit.
type Tenant struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"prenom"`
	LastName  string `json:"nom"`
	IDNumber  string `json:"piece_identite"`
	Address   string `json:"adresse_personnelle"`
}

// Landlord owns buildings managed by the agency.
type Landlord struct {
	ID                  string           `json:"id,omitempty"`
	FirstName           string           `json:"prenom"`
	LastName            string           `json:"nom"`
	IDNumber            string           `json:"piece_identite"`
	Address             string           `json:"adresse"`
	PropertyAddress     string           `json:"bien_adresse"`
	PropertyComposition string           `json:"bien_composition"`
	Commission          *decimal.Decimal `json:"commission,omitempty"`
	StartDate           *Date            `json:"debut_contrat,omitempty"`
	DurationYears       int              `json:"duree_annees,omitempty"`
}

// Building groups units at one address.
type Building struct {
	Name     string    `json:"nom"`
	Address  string    `json:"adresse"`
	Landlord *Landlord `json:"bailleurs,omitempty"`
}

// Unit is a rentable part of a building.
type Unit struct {
	Name     string    `json:"nom"`
	Building *Building `json:"immeubles,omitempty"`
}

// Lease binds a tenant to a unit.
type Lease struct {
	ID          string          `json:"id,omitempty"`
	Unit        *Unit           `json:"unites,omitempty"`
	Tenant      *Tenant         `json:"locataires,omitempty"`
	Purpose     string          `json:"destination"`
	StartDate   *Date           `json:"date_debut,omitempty"`
	EndDate     *Date           `json:"date_fin,omitempty"`
	MonthlyRent decimal.Decimal `json:"loyer_mensuel"`
	Deposit     decimal.Decimal `json:"caution"`
}

// Payment is a rent payment against a lease.
type Payment struct {
	ID         string          `json:"id,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	Lease      *Lease          `json:"contrats,omitempty"`
	AmountPaid decimal.Decimal `json:"montant_total"`
	PaidOn     *Date           `json:"date_paiement,omitempty"`
	Period     *Date           `json:"mois_concerne,omitempty"`
	CreatedAt  *Date           `json:"created_at,omitempty"`
}

// landlord returns the landlord of the leased unit, or an empty one.
func (l *Lease) landlord() *Landlord {
	if l.Unit != nil && l.Unit.Building != nil && l.Unit.Building.Landlord != nil {
		return l.Unit.Building.Landlord
	}
	return &Landlord{}
}

// tenant returns the tenant of the lease, or an empty one.
func (l *Lease) tenant() *Tenant {
	if l.Tenant != nil {
		return l.Tenant
	}
	return &Tenant{}
}

// DecodeRecord decodes a JSON or YAML record into v. YAML documents are
// converted to JSON first so that the json tags of the record types apply
// to both formats.
func DecodeRecord(data []byte, v any) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("documents: parsing record: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("documents: record is empty")
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("documents: converting record: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("documents: decoding record: %w", err)
	}
	return nil
}
