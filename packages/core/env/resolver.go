package env

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	variablePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

	// scriptSetPattern finds variables assigned by pre-request or test
	// scripts, e.g. pm.environment.set('token', ...).
	scriptSetPattern = regexp.MustCompile(`pm\.(?:variables|environment|globals|collectionVariables)\.set\(\s*['"]([^'"]+)['"]`)
)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver substitutes {{name}} tokens from environment variables and
// tracks names that scripts assign at run time. Tokens starting with $ are
// runner-provided dynamic variables and are never reported.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	declared  map[string]bool
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		declared:  make(map[string]bool),
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

// DeclareFromScript records every variable the script assigns.
func (r *Resolver) DeclareFromScript(script string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range scriptSetPattern.FindAllStringSubmatch(script, -1) {
		r.declared[m[1]] = true
	}
}

// Resolve replaces known tokens with their values. Declared and unknown
// tokens are left as written; unknown ones are reported.
func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if strings.HasPrefix(expr, "$") {
			return match
		}

		r.mu.RLock()
		val, ok := r.variables[expr]
		declared := r.declared[expr]
		r.mu.RUnlock()

		if ok {
			return fmt.Sprintf("%v", val)
		}
		if !declared {
			r.warn("unresolved variable: %s", expr)
		}
		return match
	})
}

func (r *Resolver) HasVariable(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.variables[name]
	return ok || r.declared[name]
}

func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}

// GetUnresolvedVariables lists, in order of appearance, the tokens in input
// that are neither set nor declared.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var out []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if strings.HasPrefix(expr, "$") || r.HasVariable(expr) {
			continue
		}
		out = append(out, expr)
	}
	return out
}

func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	for k := range r.declared {
		clone.declared[k] = true
	}
	clone.warnFunc = r.warnFunc
	return clone
}
