package env

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DomainKey names the variable every templated URL starts with.
const DomainKey = "domain"

// Environment is the runner's environment document.
type Environment struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Values []Value `json:"values"`
	Scope  string  `json:"_postman_variable_scope,omitempty"`
}

type Value struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// Variables returns the enabled values as a map.
func (e *Environment) Variables() map[string]any {
	out := make(map[string]any, len(e.Values))
	for _, v := range e.Values {
		if v.Enabled {
			out[v.Key] = v.Value
		}
	}
	return out
}

// BuildEnvironment returns an environment holding domain first and vars
// after it in key order. An empty domain falls back to defaultDomain; a
// domain key in vars is ignored.
func BuildEnvironment(name, domain, defaultDomain string, vars map[string]string) *Environment {
	if domain == "" {
		domain = defaultDomain
	}

	env := &Environment{
		ID:     uuid.NewString(),
		Name:   name,
		Values: []Value{{Key: DomainKey, Value: domain, Type: "text", Enabled: true}},
		Scope:  "environment",
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		if k != DomainKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		env.Values = append(env.Values, Value{Key: k, Value: vars[k], Type: "text", Enabled: true})
	}
	return env
}

// LoadEnvironment reads an environment document.
func LoadEnvironment(path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	var env Environment
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s: invalid environment: %w", path, err)
	}
	return &env, nil
}

// WriteFile writes env as indented JSON.
func (e *Environment) WriteFile(path string) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func MergeVariables(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns OS environment variables whose names start with
// prefix, with the prefix removed.
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	if prefix == "" {
		return result
	}
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok || len(key) <= len(prefix) || !strings.HasPrefix(key, prefix) {
			continue
		}
		result[key[len(prefix):]] = value
	}
	return result
}
