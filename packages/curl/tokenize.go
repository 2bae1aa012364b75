package curl

import (
	"regexp"
	"strings"
)

var (
	continuation = regexp.MustCompile(`\\\r?\n`)
	shortMethod  = regexp.MustCompile(`(^|\s)-X(POST|GET|PUT|PATCH|DELETE)\b`)
)

// normalize joins continued lines and splits -XPOST style shorthands into
// two tokens.
func normalize(cmd string) string {
	cmd = continuation.ReplaceAllString(cmd, "")
	cmd = shortMethod.ReplaceAllString(cmd, "${1}-X ${2}")
	return strings.TrimSpace(cmd)
}

// tokenize splits a command line into words the way a POSIX shell would:
// single quotes are literal, double quotes allow \" \\ \$ and \` escapes,
// and an unquoted backslash escapes the next character.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false
	started := false

	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()
			started = false
		}
	}

	for _, r := range cmd {
		if escaped {
			if inDoubleQuote && !strings.ContainsRune("\"\\$`", r) {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case inSingleQuote:
			if r == '\'' {
				inSingleQuote = false
			} else {
				current.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			started = true
		case r == '\'' && !inDoubleQuote:
			inSingleQuote = true
			started = true
		case r == '"':
			inDoubleQuote = !inDoubleQuote
			started = true
		case !inDoubleQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return tokens
}

type flagValue struct {
	name  string
	value string
}

// args is the result of yargs-style parsing: positionals in order, flag
// values collected per name, and every flag value in the order seen.
type args struct {
	positional []string
	flags      map[string][]string
	seen       []flagValue
}

func (a *args) has(names ...string) bool {
	for _, n := range names {
		if _, ok := a.flags[n]; ok {
			return true
		}
	}
	return false
}

// values returns the non-empty values recorded for name.
func (a *args) values(name string) []string {
	var out []string
	for _, v := range a.flags[name] {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (a *args) last(name string) string {
	vs := a.values(name)
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

func (a *args) add(name, value string) {
	a.flags[name] = append(a.flags[name], value)
	a.seen = append(a.seen, flagValue{name: name, value: value})
}

// parseArgs groups tokens into flags and positionals. A flag takes the next
// token as its value unless that token starts with "-". Grouped short flags
// such as -sSk set each letter, and only the last letter may take a value.
// Flags without a value are recorded with an empty value.
func parseArgs(tokens []string) *args {
	a := &args{flags: make(map[string][]string)}

	takeValue := func(i int) (string, bool) {
		if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
			return tokens[i+1], true
		}
		return "", false
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "--":
			a.positional = append(a.positional, tokens[i+1:]...)
			return a
		case strings.HasPrefix(tok, "--"):
			name := tok[2:]
			if k, v, ok := strings.Cut(name, "="); ok {
				a.add(k, v)
				continue
			}
			v, ok := takeValue(i)
			if ok {
				i++
			}
			a.add(name, v)
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			letters := tok[1:]
			for _, l := range letters[:len(letters)-1] {
				a.add(string(l), "")
			}
			v, ok := takeValue(i)
			if ok {
				i++
			}
			a.add(letters[len(letters)-1:], v)
		default:
			a.positional = append(a.positional, tok)
		}
	}
	return a
}
