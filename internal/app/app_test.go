package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/documents"
	"github.com/lvillar/immodoc/internal/config"
	"github.com/lvillar/immodoc/settings"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func lease() *documents.Lease {
	return &documents.Lease{
		Unit: &documents.Unit{
			Name:     "Studio 3",
			Building: &documents.Building{Name: "Immeuble Fann", Address: "Fann Résidence, Dakar"},
		},
		Tenant:      &documents.Tenant{FirstName: "Awa", LastName: "Diop"},
		StartDate:   documents.NewDate(2025, time.March, 1),
		EndDate:     documents.NewDate(2026, time.March, 1),
		MonthlyRent: decimal.NewFromInt(90000),
	}
}

func TestNewDefaults(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Settings)
	infos, err := a.Templates.List()
	require.NoError(t, err)
	assert.NotEmpty(t, infos)

	res, err := a.Engine.Contract(context.Background(), "", lease())
	require.NoError(t, err)
	assert.Equal(t, documents.KindContract, res.Kind)
	assert.Nil(t, res.Location)
	assert.NotEmpty(t, res.Data)
}

func TestNewSQLiteAndFileExport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Settings.Driver = "sqlite"
	cfg.Settings.DSN = filepath.Join(dir, "data", "settings.db")
	cfg.Export.Driver = "file"
	cfg.Export.Dir = filepath.Join(dir, "out")
	cfg.Export.BaseURL = "https://docs.example.sn"

	ctx := context.Background()
	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Settings)
	require.NoError(t, a.Settings.Save(ctx, "agence-fann", &settings.Settings{
		AgencyName: "Immo Fann",
		City:       "Dakar",
	}))
	st, err := a.Settings.Load(ctx, "agence-fann")
	require.NoError(t, err)
	assert.Equal(t, "Immo Fann", st.AgencyName)

	res, err := a.Engine.Contract(ctx, "agence-fann", lease())
	require.NoError(t, err)
	require.NotNil(t, res.Location)
	assert.Contains(t, res.Location.URL, "https://docs.example.sn/")
	_, err = os.Stat(filepath.Join(cfg.Export.Dir, filepath.FromSlash(res.Location.Path)))
	assert.NoError(t, err)

	require.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}

func TestNewTemplateWatch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig(t)
	cfg.Templates.Dir = t.TempDir()
	cfg.Templates.Watch = true

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &doctpl.CachedStore{}, a.Templates)
	require.NoError(t, a.Close())
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"unknown settings driver", func(c *config.Config) {
			c.Settings.Driver = "mysql"
			c.Settings.DSN = "x"
		}},
		{"unknown export driver", func(c *config.Config) {
			c.Export.Driver = "ftp"
		}},
		{"watch missing directory", func(c *config.Config) {
			c.Templates.Dir = filepath.Join(t.TempDir(), "absent")
			c.Templates.Watch = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)
			_, err := New(context.Background(), cfg, nil)
			assert.Error(t, err)
		})
	}
}
