package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/malphas-lang/nougat/internal/config"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/expand"
	"github.com/malphas-lang/nougat/internal/logger"
)

const stdinName = "<stdin>"

// ExpandCmd expands nougat macros in Rust source files.
var ExpandCmd = &cobra.Command{
	Use:   "expand [paths...]",
	Short: "Expand #[gat] items and Gat! paths",
	Long: `Expand every #[gat], #[apply(Gat!)] and Gat!(...) site in the given files.

Directories are walked for files with one of the configured extensions.
Without arguments the source is read from stdin. Expanded text goes to
stdout unless --out-dir is set; --check only reports diagnostics.`,
	RunE: runExpand,
}

func init() {
	flags := ExpandCmd.Flags()
	flags.String("out-dir", "", "write expanded files below this directory")
	flags.Bool("check", false, "report diagnostics without writing any output")
	flags.IntP("jobs", "j", 4, "number of files expanded in parallel")
	flags.String("format", "human", "diagnostic format: human, json or yaml")
	flags.BoolP("watch", "w", false, "re-expand files when they change")
	Bind(flags, "out-dir", "expand.out_dir")
	Bind(flags, "check", "expand.check")
	Bind(flags, "jobs", "expand.jobs")
	Bind(flags, "format", "expand.format")
}

// run carries the settings of one expand invocation.
type run struct {
	cfg    config.ExpandConfig
	format diag.Format
	exp    *expand.Expander
	stdout io.Writer
	stderr io.Writer
}

func runExpand(cmd *cobra.Command, args []string) error {
	c := currentConfig().Expand
	format, err := diag.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	r := &run{
		cfg:    c,
		format: format,
		exp:    expand.New(logger.Named("expand")),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
	watch, _ := cmd.Flags().GetBool("watch")

	if len(args) == 0 {
		if watch {
			return errors.WithHint(errors.New("--watch needs file arguments"), "pass the files or directories to watch")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "read stdin")
		}
		return r.finish([]*expand.Result{r.exp.Source(stdinName, string(data))})
	}

	files, err := expand.CollectSources(args, c.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.WithHintf(errors.New("no source files found"),
			"looked for files ending in %v", c.Extensions)
	}
	logger.Logger.Debugw("collected sources", "files", len(files), "jobs", c.Jobs)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := r.exp.Files(ctx, files, c.Jobs)
	if err != nil {
		return err
	}
	err = r.finish(results)
	if !watch {
		return err
	}
	return r.watch(ctx, files)
}

// finish writes outputs and reports diagnostics for a batch of results.
func (r *run) finish(results []*expand.Result) error {
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	if err := r.report(results); err != nil {
		return err
	}
	if !r.cfg.Check {
		if err := r.write(results); err != nil {
			return err
		}
	}
	r.summary(results, failed)
	if failed > 0 {
		return ErrDiagnostics
	}
	return nil
}

func (r *run) write(results []*expand.Result) error {
	for _, res := range results {
		if res.Failed() {
			continue
		}
		if r.cfg.OutDir == "" {
			if len(results) > 1 {
				fmt.Fprintf(r.stdout, "// %s\n", res.Filename)
			}
			io.WriteString(r.stdout, res.Output)
			continue
		}
		dst, err := expand.WriteOutput(r.cfg.OutDir, res)
		if err != nil {
			return err
		}
		logger.Logger.Infow("wrote expanded file", "file", res.Filename, "output", dst, "sites", res.Expanded)
	}
	return nil
}

// report prints diagnostics. Machine-readable reports go to stdout only
// when stdout does not carry expanded source.
func (r *run) report(results []*expand.Result) error {
	if r.format == diag.FormatHuman {
		f := diag.NewFormatter(r.stderr)
		var all []diag.Diagnostic
		for _, res := range results {
			f.AddSource(res.Filename, res.DiagSource)
			all = append(all, res.Diagnostics...)
		}
		if len(all) > 0 {
			f.FormatAll(all)
		}
		return nil
	}

	rep := diag.Report{}
	for _, res := range results {
		rep.Files = append(rep.Files, res.Filename)
		rep.Diagnostics = append(rep.Diagnostics, res.Diagnostics...)
	}
	w := r.stderr
	if r.cfg.Check || r.cfg.OutDir != "" {
		w = r.stdout
	}
	return diag.WriteReport(w, r.format, rep)
}

func (r *run) summary(results []*expand.Result, failed int) {
	if r.format != diag.FormatHuman || !diag.IsTerminal(r.stderr) {
		return
	}
	sites := 0
	for _, res := range results {
		sites += res.Expanded
	}
	if failed > 0 {
		pterm.Fprintln(r.stderr, pterm.Red(fmt.Sprintf("✗ %d of %d files failed to expand", failed, len(results))))
		return
	}
	pterm.Fprintln(r.stderr, pterm.LightGreen(fmt.Sprintf("✓ expanded %d sites in %d files", sites, len(results)))+
		pterm.Gray(checkSuffix(r.cfg.Check)))
}

func checkSuffix(check bool) string {
	if check {
		return " (check only)"
	}
	return ""
}

// watch re-expands files as they change until interrupted. Diagnostics
// from a watched change never end the loop.
func (r *run) watch(ctx context.Context, files []string) error {
	w, err := r.exp.NewWatcher(files, time.Duration(r.cfg.DebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}
	if r.format == diag.FormatHuman {
		pterm.Fprintln(r.stderr, pterm.Gray(fmt.Sprintf("watching %d files, press Ctrl+C to stop", len(files))))
	}
	return w.Run(ctx, func(res *expand.Result) {
		if err := r.finish([]*expand.Result{res}); err != nil && !errors.Is(err, ErrDiagnostics) {
			logger.Logger.Errorw("watch update failed", "file", res.Filename, "error", err)
		}
	})
}
