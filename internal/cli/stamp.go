package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvillar/immodoc/pageops"
)

func newStampCmd(st *state) *cobra.Command {
	var (
		text    string
		pages   []int
		number  bool
		opacity float64
	)
	cmd := &cobra.Command{
		Use:   "stamp IN OUT",
		Short: "Stamp a generated document, by default as a duplicate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			err = pageops.Stamp(&buf, data, pageops.TextWatermark{
				Text:    text,
				Opacity: opacity,
				Pages:   pages,
			})
			if err != nil {
				return err
			}
			if number {
				stamped := buf.Bytes()
				buf = bytes.Buffer{}
				if err := pageops.Number(&buf, stamped, pageops.PageNumberStyle{}); err != nil {
					return err
				}
			}
			if err := os.WriteFile(args[1], buf.Bytes(), 0o644); err != nil {
				return err
			}
			st.logger.Debug("document stamped")
			fmt.Fprintln(cmd.OutOrStdout(), args[1])
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", pageops.DuplicateText, "watermark text")
	cmd.Flags().IntSliceVar(&pages, "pages", nil, "pages to stamp (default all)")
	cmd.Flags().Float64Var(&opacity, "opacity", 0, "watermark opacity between 0 and 1")
	cmd.Flags().BoolVarP(&number, "number", "n", false, "also number the pages")
	return cmd
}
