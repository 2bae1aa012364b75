package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/pmplus/packages/lint"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary JSONSummary  `json:"summary"`
	Reports []JSONReport `json:"reports"`
	Errors  []string     `json:"errors,omitempty"`
	Time    string       `json:"time"`
}

type JSONSummary struct {
	Files   int `json:"files"`
	Items   int `json:"items"`
	Issues  int `json:"issues"`
	Skipped int `json:"skipped"`
}

type JSONReport struct {
	File         string      `json:"file"`
	Valid        bool        `json:"valid"`
	Items        []string    `json:"items"`
	SchemaErrors []string    `json:"schemaErrors,omitempty"`
	Issues       []JSONIssue `json:"issues,omitempty"`
}

type JSONIssue struct {
	Item    string `json:"item"`
	Message string `json:"message"`
	Skipped bool   `json:"skipped,omitempty"`
}

// JSONFormatter collects validation reports and writes them as one JSON
// document on Flush.
type JSONFormatter struct {
	writer io.Writer
	out    JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		out:    JSONOutput{Reports: []JSONReport{}},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatReport(r *lint.Report) {
	jr := JSONReport{
		File:         r.File,
		Valid:        r.OK(),
		Items:        r.Items,
		SchemaErrors: r.Schema,
	}
	for _, is := range r.Issues {
		jr.Issues = append(jr.Issues, JSONIssue{Item: is.Item, Message: is.Message, Skipped: is.Skipped})
		if is.Skipped {
			f.out.Summary.Skipped++
		} else {
			f.out.Summary.Issues++
		}
	}
	if jr.Items == nil {
		jr.Items = []string{}
	}

	f.out.Summary.Files++
	f.out.Summary.Items += len(r.Items)
	f.out.Reports = append(f.out.Reports, jr)
}

func (f *JSONFormatter) FormatError(err error) {
	f.out.Errors = append(f.out.Errors, err.Error())
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	f.out.Time = time.Now().Format(time.RFC3339)
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.out)
}
