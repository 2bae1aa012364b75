// Package document provides the declarative test document model for pmplus.
//
// A document is a YAML file with a name, a description and an ordered list of
// steps. Each step is either:
//   - a directive: a plain string such as set(a=1), clear() or include(auth, 2)
//   - a request step: a single-key mapping from a display name to a step body
//
// Decoding keeps the authored key order of headers, urlvars and body keys,
// since the wire body mode is derived from the first body key.
package document
