// Package export stores generated documents.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/lvillar/immodoc/format"
)

// Artifact is a generated document ready to be stored.
type Artifact struct {
	AgencyID string
	FileName string
	Data     []byte
	Created  time.Time
}

// Stored describes where an artifact was written.
type Stored struct {
	// Path is the location relative to the storage root.
	Path string
	// URL is the address at which the document can be retrieved.
	URL  string
	Size int64
}

// Exporter stores artifacts.
type Exporter interface {
	Save(ctx context.Context, a *Artifact) (*Stored, error)
}

// FileName builds "<kind>-<surname>-<unix millis>.pdf". An empty or
// unusable surname is replaced by fallback.
func FileName(kind, surname, fallback string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d.pdf", kind, format.Surname(surname, fallback), at.UnixMilli())
}

// objectPath returns "<agency>/<yyyy>/<mm>/<file>" for an artifact.
func objectPath(a *Artifact) string {
	agency := format.Surname(a.AgencyID, "default")
	return fmt.Sprintf("%s/%04d/%02d/%s", agency, a.Created.Year(), int(a.Created.Month()), a.FileName)
}
