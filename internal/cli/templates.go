package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lvillar/immodoc/doctpl"
)

func newTemplatesCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Browse document templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(st),
		newTemplatesShowCmd(st),
	)
	return cmd
}

func newTemplatesListCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := st.app.Templates.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSOURCE\tID")
			for _, info := range infos {
				source := "embedded"
				if info.External {
					source = "override"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, source, info.ID)
			}
			return tw.Flush()
		},
	}
}

func newTemplatesShowCmd(st *state) *cobra.Command {
	var placeholders bool
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := st.app.Templates.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if placeholders {
				for _, key := range doctpl.Placeholders(text) {
					fmt.Fprintln(w, key)
				}
				return nil
			}
			fmt.Fprint(w, text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&placeholders, "placeholders", "p", false, "list the template's placeholders instead")
	return cmd
}
