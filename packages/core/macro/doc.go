// Package macro resolves the directive strings of a declarative document.
//
// Three directives are recognized, tested in a fixed priority:
//   - set(name=val[,name=val...]) assigns scope entries
//   - clear(name[,name...]) removes entries; clear() empties the scope
//   - include(path[,selector...]) splices steps from another document
//
// Include expansion runs on an explicit stack of frames rather than through
// recursive calls, so include cycles and runaway nesting surface as errors.
package macro
