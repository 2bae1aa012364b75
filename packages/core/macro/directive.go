package macro

import (
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/core/scope"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSet
	KindClear
	KindInclude
)

func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindClear:
		return "clear"
	case KindInclude:
		return "include"
	default:
		return "unknown"
	}
}

var (
	setPattern     = regexp.MustCompile(`^\s*set\(([A-Za-z,._\-0-9 /=]*)\)\s*$`)
	clearPattern   = regexp.MustCompile(`^\s*clear\(([A-Za-z,._\-0-9 /=]*)\)\s*$`)
	includePattern = regexp.MustCompile(`^\s*include\(([A-Za-z,._\-0-9 /=]*)\)\s*$`)
)

type Assignment struct {
	Name  string
	Value scope.Value
}

// Directive is a classified directive string.
type Directive struct {
	Kind        Kind
	Text        string
	Assignments []Assignment
	Names       []string
	Path        string
	Selectors   []string
}

// Parse classifies a directive string. A set() without arguments falls
// through to the clear pattern; any clear() match, even an empty one, stops
// the fall-through to include.
func Parse(text string) Directive {
	d := Directive{Kind: KindUnknown, Text: text}

	if m := setPattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		d.Kind = KindSet
		for _, part := range strings.Split(m[1], ",") {
			if part == "" {
				continue
			}
			name, val, _ := strings.Cut(part, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			d.Assignments = append(d.Assignments, Assignment{
				Name:  name,
				Value: scope.ParseValue(strings.TrimSpace(val)),
			})
		}
		return d
	}

	if m := clearPattern.FindStringSubmatch(text); m != nil {
		d.Kind = KindClear
		for _, part := range strings.Split(m[1], ",") {
			if name := strings.TrimSpace(part); name != "" {
				d.Names = append(d.Names, name)
			}
		}
		return d
	}

	if m := includePattern.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		parts := strings.Split(m[1], ",")
		d.Kind = KindInclude
		d.Path = strings.TrimSpace(parts[0])
		for _, p := range parts[1:] {
			if sel := strings.TrimSpace(p); sel != "" {
				d.Selectors = append(d.Selectors, sel)
			}
		}
		if d.Path == "" {
			d.Kind = KindUnknown
		}
	}

	return d
}

// Apply mutates s for set and clear directives and reports whether the
// directive was one of them.
func (d Directive) Apply(s *scope.Scope) bool {
	switch d.Kind {
	case KindSet:
		for _, a := range d.Assignments {
			s.Set(a.Name, a.Value)
		}
		return true
	case KindClear:
		if len(d.Names) == 0 {
			s.Clear()
			return true
		}
		for _, name := range d.Names {
			s.Delete(name)
		}
		return true
	default:
		return false
	}
}
