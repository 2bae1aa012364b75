// Package compiler turns declarative documents into wire collections.
//
// A document is first expanded by the macro package (set, clear and include
// directives), then every resolved request step is compiled into a wire item:
//
//	steps:
//	  - set(user=admin)
//	  - Get Thing:
//	      GET: "{{domain}}/thing"
//	      test: pm.test("ok", () => pm.response.to.have.status(200))
//
// The scope in effect at the step is rendered as a pre-request prologue of
// pm.variables.set statements.
package compiler
