package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	out   io.Writer
	color bool

	mu          sync.Mutex
	sourceCache map[string]string // Cache of source files by filename
}

// NewFormatter creates a formatter writing to w. Colors are enabled when w
// is a terminal.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		out:         w,
		color:       IsTerminal(w),
		sourceCache: make(map[string]string),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColor forces colored output on or off.
func (f *Formatter) SetColor(on bool) {
	f.color = on
}

// AddSource registers in-memory source for a file so snippets can be
// printed without reading it from disk (stdin, expanded buffers).
func (f *Formatter) AddSource(filename, src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", os.ErrNotExist
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// FormatAll prints every diagnostic followed by a one-line summary.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for _, d := range ds {
		f.Format(d)
		fmt.Fprintln(f.out)
	}
	errs := 0
	for _, d := range ds {
		if d.Severity == SeverityError || d.Severity == "" {
			errs++
		}
	}
	if errs > 0 {
		plural := ""
		if errs > 1 {
			plural = "s"
		}
		fmt.Fprintf(f.out, "%s could not expand due to %d previous error%s\n", f.paint(SeverityError, "error:"), errs, plural)
	}
}

// Format formats and prints a diagnostic in Rust-style format.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	var files []string
	for _, span := range spans {
		filename := span.Span.Filename
		if filename == "" {
			filename = "<unknown>"
		}
		if _, seen := spansByFile[filename]; !seen {
			files = append(files, filename)
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	f.printHeader(d)

	for _, filename := range files {
		src, err := f.LoadSource(filename)
		if err != nil {
			fmt.Fprintf(f.out, "  %s %s\n", f.gutter("-->"), d.Span.String())
			continue
		}
		f.printFileSpans(filename, src, spansByFile[filename])
	}

	f.printHelp(d)
}

func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) paint(sev Severity, s string) string {
	if !f.color {
		return s
	}
	switch sev {
	case SeverityWarning:
		return pterm.Yellow(s)
	case SeverityNote:
		return pterm.Green(s)
	default:
		return pterm.Red(s)
	}
}

func (f *Formatter) gutter(s string) string {
	if !f.color {
		return s
	}
	return pterm.Blue(s)
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	label := string(severity)
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}
	msg := d.Message
	if f.color {
		msg = pterm.Bold.Sprint(msg)
	}
	fmt.Fprintf(f.out, "%s: %s\n", f.paint(severity, label), msg)
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	spansByLine := make(map[int][]LabeledSpan)
	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	if len(lineNumbers) == 0 {
		return
	}

	startLine := lineNumbers[0]
	endLine := lineNumbers[len(lineNumbers)-1]

	// One line of context on each side keeps macro snippets compact.
	contextStart := max(1, startLine-1)
	contextEnd := min(maxLine, endLine+1)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	pad := strings.Repeat(" ", lineNumWidth)
	first := spans[0].Span

	fmt.Fprintf(f.out, "%s%s %s:%d:%d\n", pad, f.gutter("-->"), filename, first.Line, first.Column)
	fmt.Fprintf(f.out, "%s %s\n", pad, f.gutter("|"))

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := strings.TrimRight(lines[lineNum-1], "\r")
		lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
		fmt.Fprintf(f.out, "%s %s\n", f.gutter(lineNumStr+" |"), lineContent)

		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(pad, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "%s %s\n", pad, f.gutter("|"))
}

// printUnderlines prints underlines (^ primary, ~ secondary) for spans on a line.
func (f *Formatter) printUnderlines(pad string, lineContent string, spans []LabeledSpan) {
	width := len([]rune(lineContent))
	underline := []rune(strings.Repeat(" ", width))

	mark := func(style string, ch rune) {
		for _, span := range spans {
			if span.Style != style {
				continue
			}
			start := max(0, span.Span.Column-1)
			end := min(width, start+max(1, span.Span.End-span.Span.Start))
			for i := start; i < end; i++ {
				if underline[i] == ' ' {
					underline[i] = ch
				}
			}
		}
	}
	mark("primary", '^')
	mark("secondary", '~')

	text := strings.TrimRight(string(underline), " ")
	if text == "" {
		return
	}

	labels := make([]string, 0, len(spans))
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}
	line := text
	if len(labels) > 0 {
		line += " " + strings.Join(labels, "; ")
	}
	fmt.Fprintf(f.out, "%s %s %s\n", pad, f.gutter("|"), f.paint(SeverityError, line))
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		help := "help:"
		if f.color {
			help = pterm.LightCyan(help)
		}
		fmt.Fprintf(f.out, "%s %s\n", help, d.Help)
	}
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  %s %s\n", f.gutter("-->"), d.Span.String())
	}
	f.printHelp(d)
}
