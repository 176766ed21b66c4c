// Package doctpl fetches plain-text document templates and fills their
// placeholders.
//
// A template is UTF-8 text containing placeholders of the form {{name}}.
// Substitution replaces every placeholder with the value bound to its trimmed
// name and reports which values were inserted, so the layout engine can render
// them in bold.
//
// Example template:
//
//	Entre les soussignés : {{bailleur_prenom}} {{bailleur_nom}},
//	ci-après dénommé « le Bailleur »,
//	et {{locataire_prenom}} {{locataire_nom}}.
package doctpl

// Standard template names shipped with the package.
const (
	ContractTemplate = "contrat_location.txt"
	MandateTemplate  = "mandat_gerance.txt"
	ReceiptTemplate  = "quittance_loyer.txt"
)

// Vars maps placeholder names to their display values.
type Vars map[string]string

// Merge returns a copy of v with the entries of other added. Entries of other
// win on conflict.
func (v Vars) Merge(other Vars) Vars {
	out := make(Vars, len(v)+len(other))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range other {
		out[k] = val
	}
	return out
}

// Result is the outcome of a substitution.
type Result struct {
	// Body is the template text with every placeholder replaced.
	Body string
	// Emphasized lists the distinct non-blank values that were inserted, in
	// order of first insertion.
	Emphasized []string
}
