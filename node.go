package jsonschema

import "sort"

// schemaNode is one compiled schema site: either a boolean schema (`true`/
// `false`) or an object schema carrying an ordered list of keyword
// validators (spec.md §3, "Schema node"). Nodes are immutable once built by
// the compiler.
type schemaNode struct {
	loc     URI        // absolute URI (base + JSON-Pointer fragment) of this site.
	dialect dialectTag

	boolAlways *bool // non-nil for a boolean schema; validators is empty in that case.

	validators []keywordValidator

	anchorName      string // $anchor / (pre-2019) id-fragment name defined at this exact site, if any.
	dynamicAnchor   string // $dynamicAnchor name defined at this exact site (2020-12), if any.
	recursiveAnchor bool   // $recursiveAnchor: true (2019-09), marks this node as a bookending target.

	hasDefault   bool // true when this schema carries a "default" keyword.
	defaultValue any  // the raw "default" value, meaningful only when hasDefault.

	root *compiledRoot
}

// sortValidators orders validators by keywordRank, then by name, giving a
// deterministic evaluation order independent of the source document's key
// order (spec.md §3).
func sortValidators(vs []keywordValidator) {
	sort.SliceStable(vs, func(i, j int) bool {
		ri, rj := rankOf(vs[i].keyword()), rankOf(vs[j].keyword())
		if ri != rj {
			return ri < rj
		}
		return vs[i].keyword() < vs[j].keyword()
	})
}

// evaluate runs every validator attached to n against instance, in order,
// short-circuiting on the first failure only when ec.short is set (spec.md
// §5's fail-fast mode). It returns overall success; individual failures are
// reported through ec.report as they occur.
func (n *schemaNode) evaluate(ec *evalCtx, instance any) bool {
	if n.boolAlways != nil {
		if *n.boolAlways {
			return true
		}
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   n.loc.String(),
			Keyword:          "false",
			Message:          "instance is disallowed by the boolean schema `false`",
		})
		return false
	}

	ec.dynamic = append(ec.dynamic, n)
	defer func() { ec.dynamic = ec.dynamic[:len(ec.dynamic)-1] }()

	ok := true
	for _, kv := range n.validators {
		if !kv.evaluate(ec, instance) {
			ok = false
			if ec.short {
				return false
			}
		}
	}
	return ok
}

// compiledRoot owns every schemaNode produced while compiling one root
// schema resource (plus any embedded or externally loaded resources it
// pulled in transitively), keyed by absolute canonical URI so that $ref
// resolution is a map lookup once compilation finishes.
//
// Grounded on other_examples/santhosh-tekuri-jsonschema__root.go's
// `root.resources map[jsonPointer]*resource` / `resource.anchors` split,
// adapted to index whole compiled nodes rather than raw document
// sub-trees, since here compilation and resolution happen in one pass
// followed by a fixed-point patch-up (loader.go) instead of a lazy walk.
type compiledRoot struct {
	rootURI URI

	// nodes indexes every compiled node by its canonical location: base
	// URI plus JSON-Pointer fragment (never a plain-name anchor).
	nodes map[string]*schemaNode

	// anchors indexes $anchor / legacy id-fragment names: base URI -> name -> node.
	anchors map[string]map[string]*schemaNode

	// dynamicAnchors indexes $dynamicAnchor (2020-12) / $recursiveAnchor (2019-09
	// keeps only the boolean form) names: base URI -> name -> node.
	dynamicAnchors map[string]map[string]*schemaNode

	// docs holds every raw resource document registered on the Compiler,
	// keyed by the URI it was added under, for lazy re-entrant compilation
	// of resources discovered only via a $ref found late.
	docs map[string]any

	// unresolved queues $ref/$dynamicRef targets that could not be found in
	// nodes at the moment they were compiled, for the loader's fixed-point
	// drain (spec.md §4.4).
	unresolved []unresolvedRef

	// dynamicRefFixups copies a resolved static refKeyword's target into
	// its owning dynamicRefKeyword/recursiveRefKeyword once the unresolved
	// queue finishes draining, since those keywords don't sit in
	// nodes/unresolved themselves.
	dynamicRefFixups []func()

	loader ResourceLoader

	assertFormat   bool
	assertContent  bool
	injectDefaults bool
}

type unresolvedRef struct {
	target URI
	site   *refKeyword
}

func newCompiledRoot(rootURI URI, loader ResourceLoader) *compiledRoot {
	return &compiledRoot{
		rootURI:        rootURI,
		nodes:          make(map[string]*schemaNode),
		anchors:        make(map[string]map[string]*schemaNode),
		dynamicAnchors: make(map[string]map[string]*schemaNode),
		docs:           make(map[string]any),
		loader:         loader,
	}
}

func (r *compiledRoot) registerNode(n *schemaNode) {
	r.nodes[n.loc.String()] = n
	if n.anchorName != "" {
		base := n.loc.Base()
		if r.anchors[base] == nil {
			r.anchors[base] = make(map[string]*schemaNode)
		}
		r.anchors[base][n.anchorName] = n
	}
	if n.dynamicAnchor != "" {
		base := n.loc.Base()
		if r.dynamicAnchors[base] == nil {
			r.dynamicAnchors[base] = make(map[string]*schemaNode)
		}
		r.dynamicAnchors[base][n.dynamicAnchor] = n
	}
}

func (r *compiledRoot) lookup(u URI) (*schemaNode, bool) {
	switch u.Kind() {
	case FragmentAnchor:
		if m, ok := r.anchors[u.Base()]; ok {
			if n, ok := m[u.Fragment()]; ok {
				return n, true
			}
		}
		// A $dynamicAnchor also serves as an ordinary plain-name fragment
		// identifier, so a static $ref (or a $dynamicRef's static fallback)
		// can land on a $dynamicAnchor-only site too.
		if n, ok := r.lookupDynamicAnchor(u.Base(), u.Fragment()); ok {
			return n, true
		}
		return nil, false
	default:
		n, ok := r.nodes[u.String()]
		return n, ok
	}
}

func (r *compiledRoot) lookupDynamicAnchor(base, name string) (*schemaNode, bool) {
	if m, ok := r.dynamicAnchors[base]; ok {
		n, ok := m[name]
		return n, ok
	}
	return nil, false
}

// CompiledSchema is the public result of compilation: a validator graph
// rooted at one schema node, ready to evaluate instances (spec.md §3,
// "Compiled schema").
type CompiledSchema struct {
	root    *schemaNode
	registry *compiledRoot
}

// Validate evaluates instance against cs, returning every violation found.
// A nil/empty Issues with a nil error means instance is valid. Validate
// never short-circuits: it collects every issue it can find (spec.md §5,
// default "not fail-fast" mode). Use ValidateFailFast for early exit.
func (cs *CompiledSchema) Validate(instance any) (Issues, error) {
	return cs.validate(instance, false)
}

// ValidateFailFast evaluates instance, stopping at the first violation.
func (cs *CompiledSchema) ValidateFailFast(instance any) (Issues, error) {
	return cs.validate(instance, true)
}

func (cs *CompiledSchema) validate(instance any, short bool) (Issues, error) {
	var issues Issues
	ec := &evalCtx{
		loc:   "",
		scope: newEvalScope(),
		short: short,
		report: func(is Issue) {
			issues = AppendIssues(issues, is)
		},
	}
	cs.root.evaluate(ec, instance)
	return issues, nil
}

// ValidateWithDefaults evaluates instance exactly as Validate does, and
// additionally returns a JSON Patch document that, when applied to
// instance, inserts the declared "default" value of every missing property
// whose schema carries one (spec.md §6's validate(instance, patch_out)).
// The patch is populated only when the compiled schema was built with
// WithDefaultsInjection/EnableDefaultsInjection; otherwise it is always
// empty. No violation is ever suppressed on account of a default: the
// patch describes what *could* be filled in, not a mutation this call
// performs itself.
func (cs *CompiledSchema) ValidateWithDefaults(instance any) (Issues, Patch, error) {
	var issues Issues
	var patch Patch
	ec := &evalCtx{
		loc:   "",
		scope: newEvalScope(),
		report: func(is Issue) {
			issues = AppendIssues(issues, is)
		},
		injectDefaults: cs.registry.injectDefaults,
		patch:          &patch,
	}
	cs.root.evaluate(ec, instance)
	return issues, patch, nil
}

// IsValid reports whether instance satisfies cs, without collecting issues.
func (cs *CompiledSchema) IsValid(instance any) bool {
	ok := true
	ec := &evalCtx{
		loc:   "",
		scope: newEvalScope(),
		short: true,
		report: func(Issue) {
			ok = false
		},
	}
	cs.root.evaluate(ec, instance)
	return ok
}
