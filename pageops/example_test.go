package pageops_test

import (
	"bytes"
	"fmt"

	"github.com/lvillar/immodoc/pageops"
	"github.com/lvillar/immodoc/render"
)

// examplePDF creates a document with labeled pages.
func examplePDF(numPages int, label string) []byte {
	s := render.NewPDF()
	font := render.Font{Family: "Helvetica", Size: 24}
	for i := 1; i <= numPages; i++ {
		s.AddPage()
		s.Text(20, 40, fmt.Sprintf("%s - page %d", label, i), font, render.Black)
	}
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

// ExampleMerge demonstrates merging receipts into a single document and
// stamping the result as a duplicate.
func ExampleMerge() {
	var merged bytes.Buffer
	err := pageops.Merge(&merged, examplePDF(2, "Quittance janvier"), examplePDF(1, "Quittance février"))
	if err != nil {
		fmt.Println(err)
		return
	}

	var stamped bytes.Buffer
	if err := pageops.Stamp(&stamped, merged.Bytes(), pageops.TextWatermark{}); err != nil {
		fmt.Println(err)
		return
	}
	n, err := pageops.PageCount(stamped.Bytes())
	fmt.Println(n, err)
	// Output:
	// 3 <nil>
}
