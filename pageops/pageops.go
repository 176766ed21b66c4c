// Package pageops post-processes generated documents: it stamps copies,
// merges several documents into one and counts pages.
//
// Input documents are parsed with gofpdi and their pages are imported as
// templates into a new gofpdf document.
package pageops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	realgofpdi "github.com/phpdave11/gofpdi"
)

// ErrNoPages is returned when an input document has no readable page.
var ErrNoPages = errors.New("pageops: document has no pages")

// Position specifies where to place an element on a page. The zero value
// is BottomCenter.
type Position int

const (
	BottomCenter Position = iota
	BottomLeft
	BottomRight
	TopLeft
	TopCenter
	TopRight
	Center
)

// A4 size in points, used when an imported page reports no media box.
const (
	a4Width  = 595.28
	a4Height = 841.89
)

type pageSize struct{ w, h float64 }

// PageCount returns the number of pages of the PDF document data.
func PageCount(data []byte) (int, error) {
	sizes, err := pageSizes(data)
	if err != nil {
		return 0, err
	}
	return len(sizes), nil
}

// pageSizes parses data and returns the media box of each page, in order.
// gofpdi panics on malformed input; the panic is turned into an error.
func pageSizes(data []byte) (sizes []pageSize, err error) {
	if len(data) == 0 {
		return nil, ErrNoPages
	}
	defer func() {
		if r := recover(); r != nil {
			sizes, err = nil, fmt.Errorf("pageops: parsing document: %v", r)
		}
	}()

	imp := realgofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(data)
	imp.SetSourceStream(&rs)
	all := imp.GetPageSizes()
	if len(all) == 0 {
		return nil, ErrNoPages
	}
	sizes = make([]pageSize, len(all))
	for i := range sizes {
		sz := pageSize{w: a4Width, h: a4Height}
		if mb, ok := all[i+1]["/MediaBox"]; ok && mb["w"] > 0 && mb["h"] > 0 {
			sz = pageSize{w: mb["w"], h: mb["h"]}
		}
		sizes[i] = sz
	}
	return sizes, nil
}

// newBase returns an empty document in points without automatic breaks.
func newBase() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// appendDocument imports every page of data into pdf. Each page is passed to
// decorate, when set, after its template has been placed.
func appendDocument(pdf *gofpdf.Fpdf, data []byte, decorate func(page int, w, h float64)) (err error) {
	sizes, err := pageSizes(data)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pageops: importing page: %v", r)
		}
	}()

	imp := gofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(data)
	for i, sz := range sizes {
		tplID := imp.ImportPageFromStream(pdf, &rs, i+1, "/MediaBox")
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: sz.w, Ht: sz.h})
		imp.UseImportedTemplate(pdf, tplID, 0, 0, sz.w, sz.h)
		if decorate != nil {
			decorate(i+1, sz.w, sz.h)
		}
	}
	return pdf.Error()
}

// writePDFToFile writes the PDF to a file.
func writePDFToFile(pdf *gofpdf.Fpdf, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("pageops: creating %s: %w", filename, err)
	}
	if err := pdf.Output(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readInputs loads documents from disk.
func readInputs(paths []string) ([][]byte, error) {
	docs := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("pageops: reading %s: %w", p, err)
		}
		docs = append(docs, data)
	}
	return docs, nil
}
