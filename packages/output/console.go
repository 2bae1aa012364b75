package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/lint"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
	noColor   bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithErrWriter sets where warnings and errors go.
func WithErrWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.errWriter = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("pmplus"), version)
}

// Saved reports a written output file.
func (f *ConsoleFormatter) Saved(path string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s saved\n", green("✓"), path)
}

// Warnf prints a non-fatal condition. It has the shape of the WarnFunc hooks
// of the library packages.
func (f *ConsoleFormatter) Warnf(format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(f.errWriter, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
}

// Infof prints progress lines in verbose mode only.
func (f *ConsoleFormatter) Infof(format string, args ...any) {
	if !f.verbose {
		return
	}
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Fprintln(f.writer, gray(fmt.Sprintf(format, args...)))
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.errWriter, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatReport(r *lint.Report) {
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	title := color.New(color.Bold, color.Underline).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", title("## "+r.File))

	if r.OK() {
		fmt.Fprintf(f.writer, "  %s %d items\n", green("✓"), len(r.Items))
		return
	}

	for _, msg := range r.Schema {
		fmt.Fprintf(f.writer, "  %s %s\n", red("schema:"), msg)
	}

	order, grouped := r.ByItem()
	for _, item := range order {
		issues := grouped[item]
		if len(issues) == 1 && issues[0].Skipped {
			fmt.Fprintf(f.writer, "%s\n", gray(" skipping   "+item))
			continue
		}
		fmt.Fprintf(f.writer, "%s\n", red(" ! "+item))
		for _, is := range issues {
			fmt.Fprintf(f.writer, "   - %s\n", is.Message)
		}
	}
}

// FormatDiff prints a unified diff with added and removed lines colored.
func (f *ConsoleFormatter) FormatDiff(diff string) {
	if diff == "" {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(f.writer, line)
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(f.writer, cyan(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(f.writer, green(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(f.writer, red(line))
		default:
			fmt.Fprint(f.writer, line)
		}
	}
}

// FormatSummary prints the totals of a multi-file command.
func (f *ConsoleFormatter) FormatSummary(done, failed int) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\nFiles: ")
	if done > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d ok", done)))
	}
	if failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", done+failed)
}
