package macro

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/core/scope"
)

const (
	// DefaultExtension is appended to include paths that have none.
	DefaultExtension = ".yaml"

	// DefaultMaxDepth bounds include nesting below the root document.
	DefaultMaxDepth = 16
)

// WarnFunc receives non-fatal conditions such as a missing include target.
type WarnFunc func(format string, args ...any)

// Resolved is a request step ready for compilation, paired with the scope in
// effect at its position and the document it was authored in.
type Resolved struct {
	Step  *document.Step
	Scope *scope.Scope
	File  string
	Dir   string
}

// IncludeCycleError reports a document that includes itself, directly or
// through other documents.
type IncludeCycleError struct {
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return "include cycle: " + strings.Join(e.Chain, " -> ")
}

// IncludeDepthError reports include nesting deeper than the configured limit.
type IncludeDepthError struct {
	Path  string
	Depth int
}

func (e *IncludeDepthError) Error() string {
	return fmt.Sprintf("include %s: nesting exceeds maximum depth of %d", e.Path, e.Depth)
}

type Expander struct {
	ext      string
	maxDepth int
	warn     WarnFunc
	info     WarnFunc
	load     func(path string) (*document.Document, error)
}

type Option func(*Expander)

// WithExtension sets the extension appended to include paths without one.
func WithExtension(ext string) Option {
	return func(e *Expander) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			e.ext = ext
		}
	}
}

// WithMaxDepth sets the include nesting limit. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(e *Expander) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithWarnFunc sets the receiver of non-fatal warnings.
func WithWarnFunc(fn WarnFunc) Option {
	return func(e *Expander) {
		e.warn = fn
	}
}

// WithInfoFunc sets the receiver of progress lines (one per loaded include).
func WithInfoFunc(fn WarnFunc) Option {
	return func(e *Expander) {
		e.info = fn
	}
}

// WithLoader replaces the document loader used for include targets.
func WithLoader(load func(path string) (*document.Document, error)) Option {
	return func(e *Expander) {
		e.load = load
	}
}

func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		ext:      DefaultExtension,
		maxDepth: DefaultMaxDepth,
		load:     document.ParseFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Expander) warnf(format string, args ...any) {
	if e.warn != nil {
		e.warn(format, args...)
	}
}

func (e *Expander) infof(format string, args ...any) {
	if e.info != nil {
		e.info(format, args...)
	}
}

type frame struct {
	file      string
	abs       string
	dir       string
	steps     []*document.Step
	next      int
	scope     *scope.Scope
	out       []*Resolved
	include   bool
	selectors []string
}

// Expand walks doc in order, applying set and clear directives to root and
// splicing included steps. Steps of doc carry a snapshot of root at their
// position. An include is expanded against its own fresh scope, and all of
// its steps carry that scope as it stands after the include's last directive;
// selectors apply afterwards and the include's scope never reaches root.
func (e *Expander) Expand(doc *document.Document, root *scope.Scope) ([]*Resolved, error) {
	if root == nil {
		root = scope.New()
	}

	stack := []*frame{{
		file:  doc.Path,
		abs:   absPath(doc.Path),
		dir:   filepath.Dir(doc.Path),
		steps: doc.Steps,
		scope: root,
	}}

	for {
		top := stack[len(stack)-1]

		if top.next >= len(top.steps) {
			stack = stack[:len(stack)-1]
			result := top.out
			if top.include {
				final := top.scope.Clone()
				for _, r := range top.out {
					if r.Scope == top.scope {
						r.Scope = final
					}
				}
				result = e.selectSteps(top)
			}
			if len(stack) == 0 {
				return result, nil
			}
			parent := stack[len(stack)-1]
			parent.out = append(parent.out, result...)
			continue
		}

		step := top.steps[top.next]
		top.next++

		if step.Kind == document.StepRequest {
			// Include frames share their live scope until the frame ends.
			snapshot := top.scope
			if !top.include {
				snapshot = top.scope.Clone()
			}
			top.out = append(top.out, &Resolved{
				Step:  step,
				Scope: snapshot,
				File:  top.file,
				Dir:   top.dir,
			})
			continue
		}

		d := Parse(step.Directive)
		if d.Apply(top.scope) {
			continue
		}
		if d.Kind != KindInclude {
			e.warnf("%s: ignoring unrecognized directive %q", top.file, step.Directive)
			continue
		}

		child, err := e.open(d, stack)
		if err != nil {
			return nil, err
		}
		if child != nil {
			stack = append(stack, child)
		}
	}
}

// open loads the target of an include directive. A missing target yields a
// nil frame and no error.
func (e *Expander) open(d Directive, stack []*frame) (*frame, error) {
	top := stack[len(stack)-1]
	path := filepath.Join(top.dir, e.withExtension(d.Path))

	if _, err := os.Stat(path); err != nil {
		e.warnf("%s: skipping include(%s): %s not found", top.file, d.Path, path)
		return nil, nil
	}

	abs := absPath(path)
	for i, f := range stack {
		if f.abs != "" && f.abs == abs {
			chain := make([]string, 0, len(stack)-i+1)
			for _, g := range stack[i:] {
				chain = append(chain, g.file)
			}
			return nil, &IncludeCycleError{Chain: append(chain, path)}
		}
	}

	if len(stack) > e.maxDepth {
		return nil, &IncludeDepthError{Path: path, Depth: e.maxDepth}
	}

	e.infof("... %s", path)
	doc, err := e.load(path)
	if err != nil {
		return nil, fmt.Errorf("include %s: %w", path, err)
	}

	return &frame{
		file:      path,
		abs:       abs,
		dir:       filepath.Dir(path),
		steps:     doc.Steps,
		scope:     scope.New(),
		include:   true,
		selectors: d.Selectors,
	}, nil
}

func (e *Expander) withExtension(path string) string {
	switch filepath.Ext(path) {
	case e.ext, ".yaml", ".yml":
		return path
	}
	return path + e.ext
}

// selectSteps applies include selectors, in the order written, to the
// already-expanded steps of f. Numeric selectors are 1-based indexes, others
// match step names exactly. Unmatched selectors are skipped.
func (e *Expander) selectSteps(f *frame) []*Resolved {
	if len(f.selectors) == 0 {
		return f.out
	}

	var selected []*Resolved
	for _, sel := range f.selectors {
		if r := lookup(f.out, sel); r != nil {
			selected = append(selected, r)
			continue
		}
		e.warnf("%s: selector %q matched no step", f.file, sel)
	}
	return selected
}

func lookup(steps []*Resolved, sel string) *Resolved {
	if n, err := strconv.ParseFloat(sel, 64); err == nil {
		i := int(n)
		if float64(i) != n || i < 1 || i > len(steps) {
			return nil
		}
		return steps[i-1]
	}
	for _, r := range steps {
		if r.Step.Name == sel {
			return r
		}
	}
	return nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
