// Package scope implements the variable scope threaded through one document
// compilation. Entries keep insertion order; set(), clear() and include()
// directives mutate or replace a scope, and every compiled request step gets
// a pre-request prologue rendered from the scope as it stands at that step.
package scope

import (
	"math"
	"strconv"
	"strings"
)

// Value is a scope entry: numeric when the assigned text parses fully as a
// finite number, text otherwise.
type Value struct {
	Text     string
	Number   float64
	IsNumber bool
}

// ParseValue classifies assigned text as a number or a string.
func ParseValue(text string) Value {
	if n, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return Value{Text: text, Number: n, IsNumber: true}
	}
	return Value{Text: text}
}

// Literal renders the value as a script literal: numbers bare, strings in
// single quotes.
func (v Value) Literal() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return "'" + quoteEscaper.Replace(v.Text) + "'"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Scope is an ordered name to value mapping owned by a single compilation.
// It is not safe for concurrent use; includes get their own scope.
type Scope struct {
	keys   []string
	values map[string]Value
}

func New() *Scope {
	return &Scope{values: make(map[string]Value)}
}

// Set assigns a value. A new name is appended to the key order; an existing
// name keeps its position.
func (s *Scope) Set(name string, v Value) {
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = v
}

func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Scope) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, k := range s.keys {
		if k == name {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (s *Scope) Clear() {
	s.keys = nil
	s.values = make(map[string]Value)
}

func (s *Scope) Len() int {
	return len(s.keys)
}

// Keys returns the entry names in insertion order.
func (s *Scope) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Clone returns an independent copy.
func (s *Scope) Clone() *Scope {
	clone := New()
	for _, k := range s.keys {
		clone.Set(k, s.values[k])
	}
	return clone
}

// Prologue renders one pm.variables.set statement per entry, in key order.
// An empty scope renders as "".
func (s *Scope) Prologue() string {
	if s == nil || len(s.keys) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		lines = append(lines, "pm.variables.set('"+quoteEscaper.Replace(k)+"', "+s.values[k].Literal()+");")
	}
	return strings.Join(lines, "\n")
}
