// Package builtin knows the dynamic variables the collection runner fills in
// at run time, such as {{$guid}} or {{$randomInt}}. They need no environment
// value, and a misspelled one silently stays literal in the request, so the
// linter reports names that are not in the registry.
package builtin
