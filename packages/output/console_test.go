package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/pmplus/packages/lint"
	"github.com/stretchr/testify/assert"
)

func newTestConsole(verbose bool) (*ConsoleFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	f := NewConsoleFormatter(
		WithWriter(&out),
		WithErrWriter(&errOut),
		WithVerbose(verbose),
		WithNoColor(true),
	)
	return f, &out, &errOut
}

func sampleReport() *lint.Report {
	return &lint.Report{
		File:  "api.json",
		Items: []string{"Login", "http://x/users", "Ping"},
		Issues: []lint.Issue{
			{Item: "http://x/users", Message: "add meaningful name"},
			{Item: "http://x/users", Message: "no tests found"},
			{Item: "Ping", Message: "no request or url, skipping", Skipped: true},
		},
	}
}

func TestConsoleFormatter_Report(t *testing.T) {
	f, out, _ := newTestConsole(false)
	f.FormatReport(sampleReport())

	got := out.String()
	assert.Contains(t, got, "## api.json")
	assert.Contains(t, got, " ! http://x/users\n   - add meaningful name\n   - no tests found\n")
	assert.Contains(t, got, " skipping   Ping")
	assert.NotContains(t, got, "Login")
}

func TestConsoleFormatter_CleanReport(t *testing.T) {
	f, out, _ := newTestConsole(false)
	f.FormatReport(&lint.Report{File: "ok.json", Items: []string{"a", "b"}})
	assert.Contains(t, out.String(), "✓ 2 items")
}

func TestConsoleFormatter_WarnAndInfo(t *testing.T) {
	f, out, errOut := newTestConsole(false)
	f.Warnf("file not found: %s", "a.js")
	f.Infof("... %s", "b.js")
	assert.Equal(t, "warning: file not found: a.js\n", errOut.String())
	assert.Empty(t, out.String())

	f, out, _ = newTestConsole(true)
	f.Infof("... %s", "b.js")
	assert.Equal(t, "... b.js\n", out.String())
}

func TestConsoleFormatter_ErrorAndSaved(t *testing.T) {
	f, out, errOut := newTestConsole(false)
	f.FormatError(errors.New("boom"))
	f.Saved("api.json")
	assert.Equal(t, "Error: boom\n", errOut.String())
	assert.Equal(t, "✓ api.json saved\n", out.String())
}

func TestConsoleFormatter_Diff(t *testing.T) {
	f, out, _ := newTestConsole(false)
	diff := "--- a.json\n+++ a.json\n@@ -1 +1 @@\n-old\n+new\n"
	f.FormatDiff(diff)
	assert.Equal(t, diff, out.String())

	out.Reset()
	f.FormatDiff("")
	assert.Empty(t, out.String())
}

func TestConsoleFormatter_Summary(t *testing.T) {
	f, out, _ := newTestConsole(false)
	f.FormatSummary(2, 1)
	assert.Equal(t, "\nFiles: 2 ok, 1 failed, 3 total\n", out.String())
}
