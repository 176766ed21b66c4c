// Command immodoc-mcp is an MCP (Model Context Protocol) server that exposes
// immodoc document generation to AI assistants over standard input and
// output. It accepts the global flags of immodoc, such as --config and
// --agency.
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "immodoc": {
//	      "command": "immodoc-mcp",
//	      "args": ["--config", "/etc/immodoc/immodoc.yaml"]
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - generate_contract, generate_receipt, generate_mandate: build a document from a record
//   - list_templates: list document templates
//   - stamp_duplicate: stamp a document as a duplicate
//   - merge_documents: merge PDFs
//   - add_page_numbers: number the pages of a PDF
//   - page_count: count the pages of a PDF
//
// # Available Resources
//
//   - template://<name> : the text of a document template
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

	root := cli.NewRootCmd()
	root.SetArgs(append([]string{"mcp"}, os.Args[1:]...))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "immodoc-mcp: %v\n", err)
		stop()
		os.Exit(1)
	}
}
