package documents

import (
	"context"
	"strconv"

	"github.com/lvillar/immodoc"
	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/format"
	"github.com/lvillar/immodoc/settings"
)

// Mandate generates the management mandate signed by landlord.
func (e *Engine) Mandate(ctx context.Context, agencyID string, landlord *Landlord) (*Result, error) {
	if landlord == nil {
		return nil, &immodoc.MissingInputError{Document: string(KindMandate)}
	}
	return e.generate(ctx, agencyID, &document{
		kind:      KindMandate,
		title:     "MANDAT DE GÉRANCE",
		template:  doctpl.MandateTemplate,
		fontSize:  12,
		lineH:     7,
		bodyGap:   14,
		emptyBody: "Contenu du mandat vide.",
		surname:   landlord.LastName,
		fallback:  "bailleur",
		vars: func(st *settings.Settings) doctpl.Vars {
			return e.MandateVars(landlord, st)
		},
		signature: true,
	})
}

// MandateVars builds the template variables of a management mandate.
func (e *Engine) MandateVars(landlord *Landlord, st *settings.Settings) doctpl.Vars {
	rate := "10"
	if landlord.Commission != nil && !landlord.Commission.IsZero() {
		rate = landlord.Commission.String()
	}
	years := "1"
	if landlord.DurationYears > 0 {
		years = strconv.Itoa(landlord.DurationYears)
	}
	today := format.Date(e.now())

	return doctpl.Vars{
		"nom_agence":       or(st.AgencyName, settings.DefaultAgencyName),
		"agence_ninea":     st.NINEA,
		"agence_adresse":   or(st.Address, settings.DefaultCity),
		"agence_directeur": or(st.RepresentativeName, "Le Directeur"),
		"fonction":         or(st.RepresentativeTitle, "Gérant"),
		"lieu":             or(st.City, settings.DefaultCity),
		"bailleur_prenom":  landlord.FirstName,
		"bailleur_nom":     landlord.LastName,
		"bailleur_cni":     landlord.IDNumber,
		"bailleur_adresse": landlord.Address,
		"bien_adresse":     landlord.PropertyAddress,
		"bien_composition": landlord.PropertyComposition,
		"taux_honoraires":  rate,
		"date_debut":       dateOr(landlord.StartDate, today),
		"duree_annees":     years,
		"date_du_jour":     today,
		"tribunal":         st.Court(),
		"pied_page":        st.CustomFooter,
	}
}
