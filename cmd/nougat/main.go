package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/malphas-lang/nougat/cmd/nougat/commands"
	"github.com/malphas-lang/nougat/internal/config"
	"github.com/malphas-lang/nougat/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "nougat",
	Short: "Emulate lifetime-generic associated types in Rust sources",
	Long: `nougat rewrites Rust sources that use lifetime-generic associated types
into code that only needs plain associated types.

Items annotated with #[gat] (traits, trait impls and imports) are split into
auxiliary single-member traits, and Gat!(<T as Trait>::Assoc<'a>) paths are
rewritten to refer to them.

Examples:
  nougat expand src/lib.rs            # print the expanded file
  nougat expand --out-dir gen src/    # expand a tree into gen/
  nougat expand --check src/          # only report diagnostics
  nougat path "<I as LendingIterator>::Item<'a>"
  nougat lsp                          # serve diagnostics to an editor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		v, err := config.New(path)
		if err != nil {
			return err
		}
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if keys := f.Annotations[commands.ConfigKey]; len(keys) > 0 && bindErr == nil {
				bindErr = v.BindPFlag(keys[0], f)
			}
		})
		if bindErr != nil {
			return errors.Wrap(bindErr, "bind flags")
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if err := logger.Initialize(logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON}); err != nil {
			return errors.Wrap(err, "initialize logger")
		}
		commands.SetConfig(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: nougat.toml in the working directory or a parent)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("log-json", false, "emit logs as JSON")
	commands.Bind(flags, "log-level", "log.level")
	commands.Bind(flags, "log-json", "log.json")

	rootCmd.AddCommand(commands.ExpandCmd)
	rootCmd.AddCommand(commands.PathCmd)
	rootCmd.AddCommand(commands.LspCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrDiagnostics) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			for _, hint := range errors.GetAllHints(err) {
				fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}
}
