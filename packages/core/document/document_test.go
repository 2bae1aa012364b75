package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DirectivesAndRequests(t *testing.T) {
	input := `name: Users
description: user endpoints
steps:
  - set(a=1,b=two)
  - Get Thing:
      GET: "{{domain}}/thing"
      headers:
        Accept: application/json
        X-Trace: "1"
  - clear()
`
	doc, err := Parse([]byte(input), "users.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Users", doc.Name)
	assert.Equal(t, "user endpoints", doc.Description)
	require.Len(t, doc.Steps, 3)

	assert.Equal(t, StepDirective, doc.Steps[0].Kind)
	assert.Equal(t, "set(a=1,b=two)", doc.Steps[0].Directive)

	step := doc.Steps[1]
	require.Equal(t, StepRequest, step.Kind)
	assert.Equal(t, "Get Thing", step.Name)
	assert.Equal(t, "GET", step.Body.Method)
	assert.Equal(t, "{{domain}}/thing", step.Body.URL)
	require.Len(t, step.Body.Headers, 2)
	assert.Equal(t, "Accept", step.Body.Headers[0].Key)
	assert.Equal(t, "X-Trace", step.Body.Headers[1].Key)
	assert.Equal(t, "1", step.Body.Headers[1].Value)

	assert.Equal(t, "clear()", doc.Steps[2].Directive)
}

func TestParse_BodyKeyOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		mode string
	}{
		{
			name: "formdata first",
			body: "formdata:\n          - file(a.png)\n        raw: text",
			mode: "formdata",
		},
		{
			name: "raw first",
			body: "raw: text\n        formdata:\n          - file(a.png)",
			mode: "raw",
		},
		{
			name: "mode key ignored",
			body: "mode: raw\n        options: {}\n        raw: text",
			mode: "options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "name: x\nsteps:\n  - Upload:\n      POST: /up\n      body:\n        " + tt.body + "\n"
			doc, err := Parse([]byte(input), "x.yaml")
			require.NoError(t, err)
			body := doc.Steps[0].Body.Body
			require.NotNil(t, body)
			assert.Equal(t, tt.mode, body.Mode())
			assert.NotContains(t, body.Keys, "mode")
		})
	}
}

func TestParse_Passthrough(t *testing.T) {
	input := `name: x
steps:
  - Login:
      POST: "{{domain}}/login"
      protocolProfileBehavior:
        disableBodyPruning: true
      include: lib/a.js, lib/b.js
      urlvars:
        id: 7
      prerequest: |
        console.log(1)
`
	doc, err := Parse([]byte(input), "x.yaml")
	require.NoError(t, err)
	body := doc.Steps[0].Body
	assert.Equal(t, []string{"lib/a.js", "lib/b.js"}, body.Include)
	require.Len(t, body.Extra, 1)
	assert.Equal(t, "protocolProfileBehavior", body.Extra[0].Key)
	assert.Equal(t, map[string]any{"disableBodyPruning": true}, body.Extra[0].Value)
	require.Len(t, body.URLVars, 1)
	assert.Equal(t, 7, body.URLVars[0].Value)
	assert.Equal(t, "console.log(1)\n", body.Prerequest)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shape     bool
		substring string
	}{
		{name: "no steps", input: "name: x\n", substring: "no steps found"},
		{name: "body not object", input: "name: x\nsteps:\n  - A:\n      GET: /a\n      body: nope\n", shape: true, substring: "'body' not object"},
		{name: "step not object", input: "name: x\nsteps:\n  - A: /a\n", shape: true, substring: "step body is not an object"},
		{name: "two verbs", input: "name: x\nsteps:\n  - A:\n      GET: /a\n      POST: /b\n", shape: true, substring: "more than one verb"},
		{name: "invalid yaml", input: "name: [x\n", substring: "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substring)
			var shapeErr *StepShapeError
			assert.Equal(t, tt.shape, errors.As(err, &shapeErr))
		})
	}
}

func TestMarshal_KeyOrder(t *testing.T) {
	doc := &Document{
		Name: "From Curl",
		Steps: []*Step{
			NewDirective("set(a=1)"),
			NewRequest("POST /api", &StepBody{
				Method:     "POST",
				URL:        "{{domain}}/api",
				Headers:    []*Header{{Key: "Content-Type", Value: "application/json"}},
				Prerequest: "pm.variables.set('a', 1);",
				Body:       &Body{Keys: []string{"raw"}, Raw: "{\n  \"a\": 1\n}"},
				Test:       "pm.test('ok', () => {});",
				URLVars:    []*Field{{Key: "id", Value: "1"}},
			}),
		},
	}

	out, err := Marshal(doc)
	require.NoError(t, err)
	text := string(out)

	order := []string{"name: From Curl", "description: \"\"", "ver: 1.0.0", "steps:", "- set(a=1)", "POST /api:", "POST:", "headers:", "prerequest:", "body:", "raw: |-", "test:", "urlvars:"}
	last := -1
	for _, want := range order {
		idx := strings.Index(text, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q in\n%s", want, text)
		assert.Greater(t, idx, last, "%q out of order in\n%s", want, text)
		last = idx
	}

	back, err := Parse(out, "roundtrip.yaml")
	require.NoError(t, err)
	require.Len(t, back.Steps, 2)
	assert.Equal(t, "{\n  \"a\": 1\n}", back.Steps[1].Body.Body.Raw)
	assert.Equal(t, "raw", back.Steps[1].Body.Body.Mode())
}

func TestIsJSONContent(t *testing.T) {
	assert.True(t, IsJSONContent([]*Header{{Key: "Content-Type", Value: "application/json"}}))
	assert.True(t, IsJSONContent([]*Header{{Key: "content-type", Value: "application/json; charset=utf-8"}}))
	assert.True(t, IsJSONContent([]*Header{{Key: "Content-Type", Value: "application/vnd.api+json"}}))
	assert.False(t, IsJSONContent([]*Header{{Key: "Content-Type", Value: "text/plain"}}))
	assert.False(t, IsJSONContent(nil))
}
