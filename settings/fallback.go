package settings

import (
	"context"

	"go.uber.org/zap"

	"github.com/lvillar/immodoc"
)

// Loader loads the settings of an agency.
type Loader interface {
	Load(ctx context.Context, agencyID string) (*Settings, error)
}

// Fallback is a Loader wrapper that never fails: errors are logged and
// replaced by Default().
type Fallback struct {
	next   Loader
	logger *zap.Logger
}

// NewFallback wraps next, which may be nil to always use defaults.
func NewFallback(next Loader, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{next: next, logger: logger}
}

// Get returns the settings of agencyID with defaults filled in.
func (f *Fallback) Get(ctx context.Context, agencyID string) *Settings {
	if f.next == nil || agencyID == "" {
		return Default()
	}
	st, err := f.next.Load(ctx, agencyID)
	if err != nil {
		f.logger.Warn("using default agency settings",
			zap.String("agency_id", agencyID),
			zap.Error(&immodoc.SettingsLoadError{AgencyID: agencyID, Err: err}))
		return Default()
	}
	if st == nil {
		return Default()
	}
	return st.WithDefaults()
}

// Static is a Loader serving fixed settings, keyed by agency ID.
type Static map[string]*Settings

// Load implements Loader.
func (s Static) Load(_ context.Context, agencyID string) (*Settings, error) {
	st, ok := s[agencyID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}
