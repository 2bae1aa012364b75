package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/pmplus/packages/lint"
)

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite holds the items of one collection file
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats validation reports as JUnit XML. Each collection is
// a suite and each item a test case; schema violations become one extra
// failing case.
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
	errors     []string
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatReport(r *lint.Report) {
	suite := JUnitTestSuite{Name: r.File, TestCases: make([]JUnitTestCase, 0, len(r.Items)+1)}

	if len(r.Schema) > 0 {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      "schema",
			ClassName: r.File,
			Failure: &JUnitFailure{
				Message: "Schema validation failed",
				Type:    "SchemaError",
				Content: strings.Join(r.Schema, "\n"),
			},
		})
		suite.Failures++
	}

	_, grouped := r.ByItem()
	for _, item := range r.Items {
		tc := JUnitTestCase{Name: item, ClassName: r.File}
		issues := grouped[item]
		switch {
		case len(issues) == 0:
		case issues[0].Skipped:
			tc.Skipped = &JUnitSkipped{Message: issues[0].Message}
			suite.Skipped++
		default:
			var content strings.Builder
			for _, is := range issues {
				fmt.Fprintf(&content, "%s\n", is.Message)
			}
			tc.Failure = &JUnitFailure{
				Message: issues[0].Message,
				Type:    "LintWarning",
				Content: content.String(),
			}
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	suite.Tests = len(suite.TestCases)

	f.testSuites = append(f.testSuites, suite)
}

func (f *JUnitFormatter) FormatError(err error) {
	f.testSuites = append(f.testSuites, JUnitTestSuite{
		Name:   "error",
		Tests:  1,
		Errors: 1,
		TestCases: []JUnitTestCase{{
			Name:  "load",
			Error: &JUnitError{Message: err.Error(), Type: "Error"},
		}},
	})
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush() error {
	var totalTests, totalFailures, totalErrors, totalSkipped int
	for _, suite := range f.testSuites {
		totalTests += suite.Tests
		totalFailures += suite.Failures
		totalErrors += suite.Errors
		totalSkipped += suite.Skipped
	}

	suites := JUnitTestSuites{
		Name:       "pmplus",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Skipped:    totalSkipped,
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
