// Package cli implements the immodoc command line.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lvillar/immodoc/documents"
	"github.com/lvillar/immodoc/internal/app"
	"github.com/lvillar/immodoc/internal/config"
	"github.com/lvillar/immodoc/internal/logger"
)

// state is shared by all subcommands. The app is built before a command
// runs and closed after it.
type state struct {
	configPath string
	agency     string

	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
}

// agencyID returns the agency named on the command line, or the configured
// default.
func (s *state) agencyID() string {
	if s.agency != "" {
		return s.agency
	}
	return s.cfg.Agency.DefaultID
}

// NewRootCmd creates the top-level "immodoc" command.
func NewRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "immodoc",
		Short:         "Generate lease contracts, rent receipts and management mandates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return st.close()
		},
	}
	root.PersistentFlags().StringVarP(&st.configPath, "config", "c", "", "configuration file (default ./immodoc.yaml)")
	root.PersistentFlags().StringVarP(&st.agency, "agency", "a", "", "agency whose settings brand the documents")

	root.AddCommand(
		newGenerateCmd(st, documents.KindContract, "contract", "Generate the lease contract of a lease record"),
		newGenerateCmd(st, documents.KindReceipt, "receipt", "Generate the rent receipt of a payment record"),
		newGenerateCmd(st, documents.KindMandate, "mandate", "Generate the management mandate of a landlord record"),
		newBatchCmd(st),
		newTemplatesCmd(st),
		newSettingsCmd(st),
		newStampCmd(st),
		newServeCmd(st),
		newMCPCmd(st),
	)
	return root
}

func (s *state) open(cmd *cobra.Command) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	s.cfg, s.logger, s.app = cfg, log, a
	return nil
}

func (s *state) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	_ = s.logger.Sync()
	return err
}
