package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvillar/immodoc/documents"
	"github.com/lvillar/immodoc/pageops"
)

func newBatchCmd(st *state) *cobra.Command {
	var (
		output string
		merge  string
	)
	cmd := &cobra.Command{
		Use:   "batch KIND FILE...",
		Short: "Generate one document per record file",
		Long: "Generate one document per record file. KIND is contract, receipt or mandate.\n" +
			"Records are processed concurrently (batch.concurrency); a failed record does not stop the others.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := documents.ParseKind(args[0])
			if err != nil {
				return err
			}
			jobs := make([]documents.Job, 0, len(args)-1)
			for _, path := range args[1:] {
				job, err := readJob(cmd.InOrStdin(), kind, path, st.agencyID())
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
			}
			if output != "" {
				if err := os.MkdirAll(output, 0o755); err != nil {
					return err
				}
			}

			outcomes := documents.Batch(cmd.Context(), st.app.Engine, jobs, st.cfg.Batch.Concurrency)

			w := cmd.OutOrStdout()
			used := map[string]bool{}
			var (
				merged [][]byte
				failed int
			)
			for i, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Fprintf(w, "%s: %v\n", args[i+1], o.Err)
					continue
				}
				name := uniqueName(o.Result.FileName, used)
				path, err := writeResult(o.Result, filepath.Join(output, name))
				if err != nil {
					return err
				}
				report(w, path, o.Result)
				merged = append(merged, o.Result.Data)
			}

			if merge != "" && len(merged) > 0 {
				var buf bytes.Buffer
				if err := pageops.Merge(&buf, merged...); err != nil {
					return fmt.Errorf("merging documents: %w", err)
				}
				if err := os.WriteFile(merge, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(w, "%s (%d document(s))\n", merge, len(merged))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	cmd.Flags().StringVar(&merge, "merge", "", "also write all documents merged into this file")
	return cmd
}

// uniqueName suffixes name with a counter when it is already used.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = strings.TrimSuffix(name, ".pdf") + "-" + strconv.Itoa(n) + ".pdf"
	}
	used[candidate] = true
	return candidate
}
