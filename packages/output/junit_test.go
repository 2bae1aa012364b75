package output

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJUnitFormatter_Flush(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	r := sampleReport()
	r.Schema = []string{"item.0: name is required"}
	f.FormatReport(r)
	require.NoError(t, f.Flush())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, "pmplus", suites.Name)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 2, suites.Failures)
	assert.Equal(t, 1, suites.Skipped)

	require.Len(t, suites.TestSuites, 1)
	cases := suites.TestSuites[0].TestCases
	require.Len(t, cases, 4)
	assert.Equal(t, "schema", cases[0].Name)
	assert.NotNil(t, cases[0].Failure)
	assert.Nil(t, cases[1].Failure)
	assert.Equal(t, "add meaningful name", cases[2].Failure.Message)
	assert.Contains(t, cases[2].Failure.Content, "no tests found")
	assert.NotNil(t, cases[3].Skipped)
}

func TestJUnitFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatError(errors.New("broken"))
	require.NoError(t, f.Flush())

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, "broken", suites.TestSuites[0].TestCases[0].Error.Message)
}
