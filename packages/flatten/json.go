package flatten

import (
	"bytes"
	"encoding/json"
	"regexp"
)

var (
	bareToken    = regexp.MustCompile(`(:\s*)(\{\{[A-Za-z0-9_]+\}\})(\s*[,}])`)
	wrappedToken = regexp.MustCompile(`"@@pmplus:(\{\{[A-Za-z0-9_]+\}\})@@"`)
)

// Transform is the outcome of a best-effort rewrite. When Changed is false
// Text holds the input unchanged and Reason may say why it was declined.
type Transform struct {
	Text    string
	Changed bool
	Reason  string
}

// FormatJSONBody pretty-prints a JSON request body with two-space
// indentation. Object members whose value is a bare {{token}} are quoted for
// parsing and restored afterwards, so
//
//	{"token": {{id}}}
//
// stays a bare token in the output. Text that still does not parse is
// returned as is.
func FormatJSONBody(raw string) Transform {
	escaped := bareToken.ReplaceAllString(raw, `${1}"@@pmplus:${2}@@"${3}`)

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(escaped)); err != nil {
		return Transform{Text: raw, Reason: err.Error()}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return Transform{Text: raw, Reason: err.Error()}
	}

	text := wrappedToken.ReplaceAllString(out.String(), "$1")
	return Transform{Text: text, Changed: text != raw}
}
