package cli

import (
	"github.com/spf13/cobra"

	"github.com/lvillar/immodoc/httpapi"
	"github.com/lvillar/immodoc/mcp"
)

func newServeCmd(st *state) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = st.cfg.HTTP.Addr
			}
			srv := httpapi.New(st.app.Engine, st.app.Templates,
				httpapi.WithLogger(st.logger.Named("http")),
				httpapi.WithMaxBody(st.cfg.HTTP.MaxBodySize))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default http.addr)")
	return cmd
}

func newMCPCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the document tools over MCP on standard input and output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, st)
		},
	}
}

// runMCP serves the MCP document tools on the command's input and output.
func runMCP(cmd *cobra.Command, st *state) error {
	srv := mcp.NewServer(
		mcp.WithLogger(st.logger.Named("mcp")),
		mcp.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
	)
	mcp.RegisterDefaultTools(srv, mcp.Toolset{
		Engine:    st.app.Engine,
		Templates: st.app.Templates,
		AgencyID:  st.agencyID(),
	})
	if err := mcp.RegisterTemplateResources(srv, st.app.Templates); err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
