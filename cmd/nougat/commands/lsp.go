package commands

import (
	"github.com/spf13/cobra"

	"github.com/malphas-lang/nougat/internal/expand"
	"github.com/malphas-lang/nougat/internal/logger"
	"github.com/malphas-lang/nougat/internal/lsp"
)

// LspCmd runs the language server on stdio.
var LspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the nougat language server over stdio",
	Long: `Start a Language Server Protocol server on stdin and stdout.

Open documents are expanded on every change. Expansion diagnostics are
published to the editor, and hovering a Gat! invocation or an item
annotated with #[gat] or #[apply(Gat!)] shows what it expands to.
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("lsp")
		srv := lsp.NewServer(expand.New(logger.Named("expand")), log)
		return srv.RunStdio()
	},
}
