// Package curl parses curl command lines into request descriptors and turns
// them into declarative documents.
package curl

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrNoURL is returned when a command names no URL.
var ErrNoURL = errors.New("no URL found in curl command")

var explicitMethods = []string{"POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

type Header struct {
	Name  string
	Value string
}

// Request describes a parsed curl command.
type Request struct {
	Method  string
	Path    string
	Query   string
	BaseURL string
	URL     string
	Headers []Header
	Cookie  string
	// Multipart maps -F field names to their values. Later fields with the
	// same name replace earlier ones.
	Multipart  map[string]string
	Data       string
	DataBinary bool
	Auth       string
	Insecure   bool
}

// Header returns the value of the named header.
func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func (r *Request) setHeader(name, value string) {
	for i, h := range r.Headers {
		if h.Name == name {
			r.Headers[i].Value = value
			return
		}
	}
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
}

// Parse parses a curl command. It performs no network access.
func Parse(cmd string) (*Request, error) {
	a := parseArgs(tokenize(normalize(cmd)))

	positional := a.positional
	if len(positional) > 0 && positional[0] == "curl" {
		positional = positional[1:]
	}

	rawURL := ""
	if len(positional) > 0 {
		rawURL = positional[0]
	} else {
		for _, fv := range a.seen {
			if strings.HasPrefix(fv.value, "http") || strings.HasPrefix(fv.value, "www.") {
				rawURL = fv.value
				break
			}
		}
	}

	req := &Request{}
	if err := req.parseURL(rawURL); err != nil {
		return nil, err
	}

	for _, name := range []string{"H", "header"} {
		for _, h := range a.values(name) {
			key, value, _ := strings.Cut(h, ":")
			key = strings.TrimSpace(key)
			if strings.Contains(key, "Cookie") {
				req.Cookie = h
			}
			req.setHeader(key, strings.TrimSpace(value))
		}
	}
	if ua := firstNonEmpty(a.last("A"), a.last("user-agent")); ua != "" {
		req.setHeader("User-Agent", ua)
	}
	if c := firstNonEmpty(a.last("b"), a.last("cookie")); c != "" {
		req.Cookie = c
	}

	for _, name := range []string{"F", "form"} {
		for _, f := range a.values(name) {
			if req.Multipart == nil {
				req.Multipart = make(map[string]string)
			}
			key, value, _ := strings.Cut(f, "=")
			req.Multipart[key] = value
		}
	}

	req.Method = method(a)

	switch {
	case len(a.values("data")) > 0:
		req.Data = strings.Join(a.values("data"), "&")
	case len(a.values("data-binary")) > 0:
		req.Data = strings.Join(a.values("data-binary"), "&")
		req.DataBinary = true
	case len(a.values("d")) > 0:
		req.Data = strings.Join(a.values("d"), "&")
	case len(a.values("data-raw")) > 0:
		req.Data = strings.Join(a.values("data-raw"), "&")
	}

	req.Auth = firstNonEmpty(a.last("user"), a.last("u"))
	req.Insecure = a.has("k", "insecure")

	return req, nil
}

// method picks an explicit -X verb when it is one of the body-carrying
// verbs, POST when data or form fields are present, and GET otherwise.
func method(a *args) string {
	explicit := strings.ToUpper(firstNonEmpty(a.last("X"), a.last("request")))
	if slices.Contains(explicitMethods, explicit) {
		return explicit
	}
	if a.has("d", "data", "data-binary", "data-raw", "F", "form") {
		return "POST"
	}
	return "GET"
}

func (r *Request) parseURL(raw string) error {
	raw = trimQuotes(strings.TrimSpace(raw))
	if raw == "" {
		return ErrNoURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	r.URL = raw
	r.Query = u.RawQuery
	r.Path = u.EscapedPath()
	if r.Path == "" && u.Host != "" {
		r.Path = "/"
	}

	base := *u
	base.RawQuery = ""
	base.ForceQuery = false
	base.Fragment = ""
	base.RawFragment = ""
	r.BaseURL = base.String()
	return nil
}

// trimQuotes strips surrounding single quotes, then surrounding double quotes.
func trimQuotes(s string) string {
	for _, q := range []string{"'", `"`} {
		s = strings.TrimPrefix(s, q)
		s = strings.TrimSuffix(s, q)
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
