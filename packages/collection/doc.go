// Package collection models the wire collection format (Postman Collection
// v2.x) consumed by the external test-execution engine.
//
// Items are either leaves carrying a request or folders carrying nested
// items. Unknown item and body keys are kept in Extra maps so passthrough
// metadata survives decoding and encoding.
package collection
