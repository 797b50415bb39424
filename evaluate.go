package jsonschema

// evalScope accumulates the property names and array indices that some
// applicator at the current instance location has already evaluated
// successfully, for consumption by unevaluatedProperties/unevaluatedItems
// (spec.md §3, "evaluated keys"). One scope is shared by every keyword
// validator that applies its sub-schema(s) to the *same* instance value —
// properties, patternProperties, additionalProperties, allOf/anyOf/oneOf,
// if/then/else, $ref, $dynamicRef, dependentSchemas — since from the
// instance's point of view they are all just more ways of looking at the
// one value. A *new* scope is created only when evaluation descends into a
// child instance value (a property's value, an array element).
//
// This mirrors the presence-tracking idea in
// _examples/reoring-goskema/presence.go (a mutable side-table threaded
// through the parse) but keyed by evaluation scope rather than by object
// field, and rebuilt fresh per compound-keyword invocation rather than
// interned globally.
type evalScope struct {
	props map[string]bool
	idx   map[int]bool
}

func newEvalScope() *evalScope {
	return &evalScope{}
}

func (s *evalScope) markProp(name string) {
	if s.props == nil {
		s.props = make(map[string]bool)
	}
	s.props[name] = true
}

func (s *evalScope) markIndex(i int) {
	if s.idx == nil {
		s.idx = make(map[int]bool)
	}
	s.idx[i] = true
}

func (s *evalScope) hasProp(name string) bool { return s.props[name] }
func (s *evalScope) hasIndex(i int) bool      { return s.idx[i] }

// mergeFrom unions another scope's evaluated keys into s, used when a
// combinator (anyOf, oneOf's winning branch, if/then/else) must fold a
// sub-evaluation's annotations back into the parent scope it validated on
// behalf of.
func (s *evalScope) mergeFrom(o *evalScope) {
	for k := range o.props {
		s.markProp(k)
	}
	for i := range o.idx {
		s.markIndex(i)
	}
}

// clone returns a copy, used by branches (anyOf/oneOf candidates) that must
// be evaluated against an independent scope so a failed or non-winning
// branch's partial annotations don't leak into the parent.
func (s *evalScope) clone() *evalScope {
	c := newEvalScope()
	c.mergeFrom(s)
	return c
}

// evalCtx is the mutable evaluation context threaded through a validator
// graph walk (spec.md §5). loc is the instance's current JSON Pointer
// location; scope is the evaluated-keys accumulator for the instance value
// at loc; dynamic is the stack of schema nodes entered so far, consulted by
// $dynamicRef to find the outermost node defining a matching
// $dynamicAnchor (spec.md §4.3 "dynamic scope").
type evalCtx struct {
	loc     string
	scope   *evalScope
	dynamic []*schemaNode
	short   bool
	report  func(Issue)

	// injectDefaults and patch implement defaults injection (spec.md §4.3):
	// when injectDefaults is set, keywords that apply sub-schemas to object
	// members (currently "properties") append an "add" PatchOp to *patch
	// for every named member absent from the instance whose sub-schema
	// carries a "default". patch is a pointer so every evalCtx derived from
	// the same validate() call shares one accumulator, the same way report
	// closes over one shared Issues slice.
	injectDefaults bool
	patch          *Patch
}

// recordDefault appends an "add" patch operation for a missing property's
// declared default, a no-op unless defaults injection is enabled.
func (ec *evalCtx) recordDefault(path string, value any) {
	if !ec.injectDefaults || ec.patch == nil {
		return
	}
	*ec.patch = append(*ec.patch, PatchOp{Op: "add", Path: path, Value: value})
}

// child returns a new evalCtx describing a nested instance location (an
// object's property value or an array's element), with a fresh scope: the
// child location's own evaluated keys are independent of its parent's.
func (ec *evalCtx) child(pathSeg string) *evalCtx {
	nc := *ec
	nc.loc = joinJSONPointerSegment(ec.loc, pathSeg)
	nc.scope = newEvalScope()
	return &nc
}

// withScope returns a copy of ec bound to an independent scope but at the
// same instance location, used by branch-evaluating combinators (anyOf,
// oneOf, not) that must not let a candidate's tentative annotations leak
// into the parent scope unless that candidate is adopted.
func (ec *evalCtx) withScope(s *evalScope) *evalCtx {
	nc := *ec
	nc.scope = s
	return &nc
}

// withReport returns a copy of ec whose report sink also appends to sink,
// used by combinators that must collect a branch's issues separately
// (oneOf/anyOf/not need to know whether a branch failed without polluting
// the parent's issue list until a verdict is reached).
func (ec *evalCtx) withReport(sink *Issues) *evalCtx {
	nc := *ec
	nc.report = func(is Issue) { *sink = AppendIssues(*sink, is) }
	return &nc
}

// dynamicAnchorTarget resolves a $dynamicRef fragment against the dynamic
// scope: it walks the scope from outermost to innermost looking for a node
// whose base defines a $dynamicAnchor equal to name, returning the
// outermost such node (spec.md §4.3's bookending resolution), or the
// static fallback if none of the dynamic scope's bases define it.
func (ec *evalCtx) dynamicAnchorTarget(root *compiledRoot, name string) (*schemaNode, bool) {
	for _, n := range ec.dynamic {
		if node, ok := root.lookupDynamicAnchor(n.loc.Base(), name); ok {
			return node, true
		}
	}
	return nil, false
}
