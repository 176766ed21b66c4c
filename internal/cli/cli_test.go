package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/immodoc/pageops"
)

const leaseYAML = `
unites:
  nom: Appartement A1
  immeubles:
    nom: Résidence Les Almadies
    adresse: Route des Almadies, Dakar
    bailleurs: {prenom: Moussa, nom: Ndiaye}
locataires: {prenom: Awa, nom: Diop}
destination: Habitation
date_debut: "2025-02-01"
date_fin: "2027-02-01"
loyer_mensuel: 150000
caution: 300000
`

const paymentYAML = `
reference: FAC-2025-0042
montant_total: 100000
date_paiement: "2025-03-05"
mois_concerne: "2025-03-01"
contrats:
  loyer_mensuel: 150000
  locataires: {prenom: Fatou, nom: %s}
`

// env is a temporary directory holding a configuration file.
type env struct {
	dir    string
	config string
}

func newEnv(t *testing.T, extra string) *env {
	t.Helper()
	dir := t.TempDir()
	cfg := "log:\n  level: error\n  format: json\n" + extra
	path := filepath.Join(dir, "immodoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return &env{dir: dir, config: path}
}

func (e *env) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *env) run(args ...string) (string, error) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestContractCommand(t *testing.T) {
	e := newEnv(t, "")
	rec := e.write(t, "bail.yaml", leaseYAML)
	outDir := filepath.Join(e.dir, "out")

	out, err := e.run("contract", rec, "-o", outDir+string(os.PathSeparator))
	require.NoError(t, err)
	assert.Contains(t, out, "page(s)")

	files, err := filepath.Glob(filepath.Join(outDir, "contrat-Diop-*.pdf"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestContractCommandInvalidRecord(t *testing.T) {
	e := newEnv(t, "")
	rec := e.write(t, "bail.yaml", "loyer_mensuel: [")

	_, err := e.run("contract", rec, "-o", e.dir)
	assert.Error(t, err)
}

func TestBatchMerge(t *testing.T) {
	e := newEnv(t, "batch:\n  concurrency: 2\n")
	a := e.write(t, "a.yaml", fmtPayment("Sow"))
	b := e.write(t, "b.yaml", fmtPayment("Sow"))
	outDir := filepath.Join(e.dir, "quittances")
	merged := filepath.Join(e.dir, "toutes.pdf")

	out, err := e.run("batch", "receipt", a, b, "-o", outDir, "--merge", merged)
	require.NoError(t, err)
	assert.Contains(t, out, "toutes.pdf (2 document(s))")

	files, err := filepath.Glob(filepath.Join(outDir, "*.pdf"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	data, err := os.ReadFile(merged)
	require.NoError(t, err)
	n, err := pageops.PageCount(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
}

func TestBatchUnknownKind(t *testing.T) {
	e := newEnv(t, "")
	rec := e.write(t, "bail.yaml", leaseYAML)

	_, err := e.run("batch", "facture-pro-forma", rec)
	assert.ErrorContains(t, err, "unknown document kind")
}

func TestUniqueName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "facture-Sow-1.pdf", uniqueName("facture-Sow-1.pdf", used))
	assert.Equal(t, "facture-Sow-1-2.pdf", uniqueName("facture-Sow-1.pdf", used))
	assert.Equal(t, "facture-Sow-1-3.pdf", uniqueName("facture-Sow-1.pdf", used))
}

func TestTemplatesCommands(t *testing.T) {
	e := newEnv(t, "")

	out, err := e.run("templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "contrat_location.txt")
	assert.Contains(t, out, "embedded")

	out, err = e.run("templates", "show", "contrat_location.txt", "--placeholders")
	require.NoError(t, err)
	assert.Contains(t, out, "bailleur_nom\n")
	assert.NotContains(t, out, "{{")

	_, err = e.run("templates", "show", "absent.txt")
	assert.Error(t, err)
}

func TestSettingsImportAndShow(t *testing.T) {
	e := newEnv(t, "settings:\n  driver: sqlite\n  dsn: "+filepath.Join(t.TempDir(), "settings.db")+"\n")
	file := e.write(t, "agence.yaml", "nom_agence: Immo Teranga\nville: Thiès\ncouleur_primaire: \"#336699\"\n")

	out, err := e.run("settings", "import", file, "--agency", "teranga")
	require.NoError(t, err)
	assert.Contains(t, out, "settings saved for teranga")

	out, err = e.run("settings", "show", "--agency", "teranga")
	require.NoError(t, err)
	assert.Contains(t, out, "nom_agence: Immo Teranga")
	assert.Contains(t, out, "ville: Thiès")
}

func TestSettingsImportErrors(t *testing.T) {
	e := newEnv(t, "")
	file := e.write(t, "agence.yaml", "nom_agence: Immo\n")

	_, err := e.run("settings", "import", file, "--agency", "a")
	assert.ErrorIs(t, err, errNoSettingsDB)

	e = newEnv(t, "settings:\n  driver: sqlite\n  dsn: "+filepath.Join(t.TempDir(), "settings.db")+"\n")
	bad := e.write(t, "agence.yaml", "couleur_primaire: bleu\n")
	_, err = e.run("settings", "import", bad, "--agency", "a")
	assert.Error(t, err)
}

func TestStampCommand(t *testing.T) {
	e := newEnv(t, "")
	rec := e.write(t, "bail.yaml", leaseYAML)
	src := filepath.Join(e.dir, "contrat.pdf")
	_, err := e.run("contract", rec, "-o", src)
	require.NoError(t, err)

	dst := filepath.Join(e.dir, "duplicata.pdf")
	out, err := e.run("stamp", src, dst, "--number")
	require.NoError(t, err)
	assert.Contains(t, out, dst)

	in, err := os.ReadFile(src)
	require.NoError(t, err)
	stamped, err := os.ReadFile(dst)
	require.NoError(t, err)
	want, err := pageops.PageCount(in)
	require.NoError(t, err)
	got, err := pageops.PageCount(stamped)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func fmtPayment(surname string) string {
	return fmt.Sprintf(paymentYAML, surname)
}
