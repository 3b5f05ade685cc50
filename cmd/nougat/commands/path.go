package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
	"github.com/malphas-lang/nougat/internal/lexer"
)

const pathInputName = "<input>"

// PathCmd expands one Gat! argument given on the command line.
var PathCmd = &cobra.Command{
	Use:   "path <fragment>",
	Short: "Expand the argument of a single Gat! invocation",
	Long: `Print what Gat!(<fragment>) expands to. The fragment is usually a
qualified path such as "<I as LendingIterator>::Item<'a>", but an
impl Trait type or a whole item is accepted too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := strings.Join(args, " ")
		toks, lexErrs := lexer.Tokenize(pathInputName, src)
		var ds []diag.Diagnostic
		for _, le := range lexErrs {
			ds = append(ds, le.ToDiagnostic())
		}
		if len(ds) == 0 {
			node, err := gat.Macro(toks[:len(toks)-1])
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), printNode(node))
				return nil
			}
			ds = diag.FromError(err)
		}
		f := diag.NewFormatter(cmd.ErrOrStderr())
		f.AddSource(pathInputName, src)
		f.FormatAll(ds)
		return ErrDiagnostics
	},
}

func printNode(node ast.Node) string {
	if item, ok := node.(ast.Item); ok {
		return strings.TrimRight(ast.PrintItems([]ast.Item{item}, ""), "\n")
	}
	return ast.String(node)
}
