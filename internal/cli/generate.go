package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvillar/immodoc/documents"
)

func newGenerateCmd(st *state, kind documents.Kind, use, short string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   use + " FILE",
		Short: short,
		Long: short + ".\n\nFILE is a JSON or YAML record; \"-\" reads standard input. " +
			"The PDF is written to the current directory unless --output names a file or directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := readJob(cmd.InOrStdin(), kind, args[0], st.agencyID())
			if err != nil {
				return err
			}
			res, err := st.app.Engine.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			path, err := writeResult(res, output)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), path, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory")
	return cmd
}

// readJob decodes the record at path into a job of the given kind.
func readJob(stdin io.Reader, kind documents.Kind, path, agencyID string) (documents.Job, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return documents.Job{}, err
	}

	job := documents.Job{Kind: kind, AgencyID: agencyID}
	var v any
	switch kind {
	case documents.KindContract:
		job.Lease = &documents.Lease{}
		v = job.Lease
	case documents.KindReceipt:
		job.Payment = &documents.Payment{}
		v = job.Payment
	case documents.KindMandate:
		job.Landlord = &documents.Landlord{}
		v = job.Landlord
	default:
		return job, fmt.Errorf("unknown document kind %q", kind)
	}
	if err := documents.DecodeRecord(data, v); err != nil {
		return job, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// writeResult writes the PDF of res to output and returns the path used.
// An empty output or an existing directory receives the generated file name.
func writeResult(res *documents.Result, output string) (string, error) {
	path := output
	if output == "" || strings.HasSuffix(output, string(os.PathSeparator)) || isDir(output) {
		path = filepath.Join(output, res.FileName)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func report(w io.Writer, path string, res *documents.Result) {
	fmt.Fprintf(w, "%s (%d page(s))", path, res.Pages)
	if res.Degraded {
		fmt.Fprint(w, " [document de secours]")
	}
	if res.Location != nil {
		fmt.Fprintf(w, " -> %s", res.Location.URL)
	}
	fmt.Fprintln(w)
}
