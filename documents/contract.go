package documents

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lvillar/immodoc"
	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/format"
	"github.com/lvillar/immodoc/settings"
)

// Contract generates the lease contract of lease.
func (e *Engine) Contract(ctx context.Context, agencyID string, lease *Lease) (*Result, error) {
	if lease == nil {
		return nil, &immodoc.MissingInputError{Document: string(KindContract)}
	}
	return e.generate(ctx, agencyID, &document{
		kind:      KindContract,
		title:     "CONTRAT DE LOCATION",
		template:  doctpl.ContractTemplate,
		fontSize:  11,
		lineH:     7,
		bodyGap:   10,
		emptyBody: "Contenu du contrat vide.",
		surname:   lease.tenant().LastName,
		fallback:  "locataire",
		vars: func(st *settings.Settings) doctpl.Vars {
			return e.ContractVars(lease, st)
		},
		signature: true,
	})
}

// ContractVars builds the template variables of a lease contract.
func (e *Engine) ContractVars(lease *Lease, st *settings.Settings) doctpl.Vars {
	landlord, tenant := lease.landlord(), lease.tenant()

	var unitName, buildingName string
	if lease.Unit != nil {
		unitName = lease.Unit.Name
		if lease.Unit.Building != nil {
			buildingName = lease.Unit.Building.Name
		}
	}

	duration := "1"
	if lease.StartDate.valid() && lease.EndDate.valid() {
		duration = format.DurationYears(lease.StartDate.Time, lease.EndDate.Time)
	}

	var deposit, depositWords string
	if !lease.Deposit.IsZero() {
		deposit = format.Currency(lease.Deposit, st.Currency)
		depositWords = format.AmountWords(lease.Deposit)
	}

	return doctpl.Vars{
		"bailleur_prenom":   landlord.FirstName,
		"bailleur_nom":      landlord.LastName,
		"locataire_prenom":  tenant.FirstName,
		"locataire_nom":     tenant.LastName,
		"locataire_cni":     tenant.IDNumber,
		"locataire_adresse": tenant.Address,
		"designation":       unitName + " - " + buildingName,
		"destination_local": lease.Purpose,
		"duree_annees":      duration,
		"date_debut":        dateOr(lease.StartDate, "…"),
		"date_fin":          dateOr(lease.EndDate, "…"),
		"loyer_mensuel":     format.Currency(lease.MonthlyRent, st.Currency),
		"loyer_lettres":     format.AmountWords(lease.MonthlyRent),
		"depot_garantie":    deposit,
		"depot_lettres":     depositWords,
		"date_du_jour":      format.Date(e.now()),
		"representant":      or(st.RepresentativeName, "Le Représentant"),
		"fonction":          or(st.RepresentativeTitle, "Gérant"),
		"agence_nom":        st.AgencyName,
		"mandataire_piece":  "CNI",
		"ville":             or(st.City, settings.DefaultCity),
		"penalites":         st.Penalties(),
		"tribunal":          st.Court(),
		"frais_huissier":    format.Currency(decimal.NewFromInt(st.Fee()), st.Currency),
		"pied_page":         st.CustomFooter,
	}
}

// dateOr formats d as DD/MM/YYYY, or returns def when d is unset.
func dateOr(d *Date, def string) string {
	if !d.valid() {
		return def
	}
	return format.Date(d.Time)
}

// or returns s, or def when s is blank.
func or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
