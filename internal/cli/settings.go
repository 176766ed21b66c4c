package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lvillar/immodoc/settings"
)

var errNoSettingsDB = errors.New("no settings database configured (settings.driver)")

func newSettingsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and import agency settings",
	}
	cmd.AddCommand(
		newSettingsShowCmd(st),
		newSettingsImportCmd(st),
	)
	return cmd
}

func newSettingsShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings of the agency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var loader settings.Loader
			if st.app.Settings != nil {
				loader = st.app.Settings
			}
			s := settings.NewFallback(loader, st.logger).Get(cmd.Context(), st.agencyID())

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(s); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newSettingsImportCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Save the settings of the agency from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if st.app.Settings == nil {
				return errNoSettingsDB
			}
			agencyID := st.agencyID()
			if agencyID == "" {
				return errors.New("no agency given (--agency or agency.default_id)")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var s settings.Settings
			if err := yaml.Unmarshal(data, &s); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, c := range []string{s.PrimaryColor, s.SecondaryColor} {
				if c == "" {
					continue
				}
				if _, err := settings.ParseColor(c); err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
			}
			if err := st.app.Settings.Save(cmd.Context(), agencyID, &s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings saved for %s\n", agencyID)
			return nil
		},
	}
}
