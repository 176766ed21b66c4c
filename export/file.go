package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileSystem stores documents under a base directory, laid out as
// {base}/{agency}/{year}/{month}/{file}.
type FileSystem struct {
	base    string
	baseURL string
	logger  *zap.Logger
}

// NewFileSystem creates the base directory if needed. baseURL prefixes the
// URL reported for stored files and may be empty.
func NewFileSystem(base, baseURL string, logger *zap.Logger) (*FileSystem, error) {
	if base == "" {
		return nil, errors.New("export: base directory is required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("export: creating %s: %w", base, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystem{base: base, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}, nil
}

// Save implements Exporter.
func (s *FileSystem) Save(ctx context.Context, a *Artifact) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a == nil || len(a.Data) == 0 {
		return nil, errors.New("export: document is empty")
	}
	if a.FileName == "" || strings.ContainsAny(a.FileName, `/\`) {
		return nil, fmt.Errorf("export: invalid file name %q", a.FileName)
	}

	rel := objectPath(a)
	full := filepath.Join(s.base, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("export: creating directory: %w", err)
	}
	if err := os.WriteFile(full, a.Data, 0o644); err != nil {
		return nil, fmt.Errorf("export: writing %s: %w", full, err)
	}

	url := rel
	if s.baseURL != "" {
		url = s.baseURL + "/" + rel
	}
	s.logger.Info("document stored",
		zap.String("path", full),
		zap.Int("size", len(a.Data)),
		zap.String("url", url))

	return &Stored{Path: rel, URL: url, Size: int64(len(a.Data))}, nil
}

// Open returns the absolute path of a stored document, refusing paths that
// leave the base directory.
func (s *FileSystem) Open(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		s.logger.Warn("blocked path outside export directory", zap.String("path", rel))
		return "", fmt.Errorf("export: invalid path %q", rel)
	}
	full := filepath.Join(s.base, clean)
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return full, nil
}
