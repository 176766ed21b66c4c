// Command immodoc generates the documents of a property management agency:
// lease contracts, rent receipts and management mandates.
//
//	immodoc contract bail.yaml -o out/
//	immodoc receipt paiement.json --agency agence-dakar
//	immodoc batch receipt paiements/*.yaml --merge quittances.pdf
//	immodoc stamp quittance.pdf duplicata.pdf
//	immodoc serve --addr :8080
//	immodoc mcp
//
// Configuration is read from immodoc.yaml and IMMODOC_* environment
// variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lvillar/immodoc/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "immodoc: %v\n", err)
		stop()
		os.Exit(1)
	}
}
