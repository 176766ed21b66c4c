package pageops

import (
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Merge combines documents and writes the result to w. Pages are added in
// order: all pages of the first document, then all of the second, etc.
func Merge(w io.Writer, docs ...[]byte) error {
	pdf, err := buildMerged(docs)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// MergeFiles combines PDF files into a single output file.
func MergeFiles(outputPath string, inputPaths ...string) error {
	docs, err := readInputs(inputPaths)
	if err != nil {
		return err
	}
	pdf, err := buildMerged(docs)
	if err != nil {
		return err
	}
	return writePDFToFile(pdf, outputPath)
}

func buildMerged(docs [][]byte) (*gofpdf.Fpdf, error) {
	if len(docs) == 0 {
		return nil, errors.New("pageops: no input documents provided")
	}
	pdf := newBase()
	for i, data := range docs {
		if err := appendDocument(pdf, data, nil); err != nil {
			return nil, fmt.Errorf("pageops: merging document %d: %w", i+1, err)
		}
	}
	return pdf, nil
}
