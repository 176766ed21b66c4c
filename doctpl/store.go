package doctpl

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lvillar/immodoc"
)

//go:embed templates/*.txt
var embedded embed.FS

// Store provides template text by name.
type Store interface {
	// Fetch returns the text of the named template. A template that cannot
	// be provided yields a *immodoc.TemplateNotFoundError.
	Fetch(ctx context.Context, name string) (string, error)
}

// Catalog is a Store that can enumerate its templates.
type Catalog interface {
	Store
	List() ([]Info, error)
}

// Info describes a template known to an FSStore.
type Info struct {
	ID       string // stable identifier derived from the name
	Name     string
	External bool // true when served from the override directory
}

// templateNamespace seeds the stable template IDs.
var templateNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// FSStore serves templates from an optional override directory, falling back
// to the templates embedded in the binary.
type FSStore struct {
	dir string
	fs  fs.FS
}

// NewFSStore creates a store. An empty dir serves embedded templates only.
func NewFSStore(dir string) *FSStore {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}
	return &FSStore{dir: dir, fs: sub}
}

// Dir returns the override directory, which may be empty.
func (s *FSStore) Dir() string { return s.dir }

// Fetch implements Store.
func (s *FSStore) Fetch(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: err}
	}
	if !validName(name) {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: errors.New("invalid template name")}
	}

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", &immodoc.TemplateNotFoundError{Name: name, Err: err}
		}
	}

	data, err := fs.ReadFile(s.fs, name)
	if err != nil {
		return "", &immodoc.TemplateNotFoundError{Name: name, Err: err}
	}
	return string(data), nil
}

// List returns the templates available from both sources, sorted by name.
// A template present in the override directory hides the embedded one.
func (s *FSStore) List() ([]Info, error) {
	byName := make(map[string]Info)

	entries, err := fs.ReadDir(s.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("doctpl: listing embedded templates: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			byName[e.Name()] = newInfo(e.Name(), false)
		}
	}

	if s.dir != "" {
		entries, err := os.ReadDir(s.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("doctpl: listing %s: %w", s.dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
				byName[e.Name()] = newInfo(e.Name(), true)
			}
		}
	}

	out := make([]Info, 0, len(byName))
	for _, info := range byName {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func newInfo(name string, external bool) Info {
	id := uuid.NewSHA1(templateNamespace, []byte("immodoc-template:"+name)).String()
	return Info{ID: id, Name: name, External: external}
}

// validName rejects names that would escape the template directory.
func validName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	return path.Clean(name) == name && name != "." && name != ".."
}
