package jsonschema

// refKeyword implements "$ref" (and, pre-2019-09, its legacy meaning of
// "ignore every sibling keyword" — handled by the compiler producing a
// node whose only validator is this one). resolved is filled in once the
// target is known, either immediately during compilation (same-document
// ref) or after loader.go's fixed-point drain (cross-document ref).
type refKeyword struct {
	baseKeyword
	target   URI
	resolved *schemaNode
}

func (k *refKeyword) evaluate(ec *evalCtx, instance any) bool {
	if k.resolved == nil {
		// Compile never returns a CompiledSchema with an unresolved $ref
		// left dangling (spec.md §4.4): reaching this means a bug in the
		// loader's fixed point, not a validatable instance error.
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   k.loc.String(),
			Keyword:          "$ref",
			Message:          "internal: $ref target was never resolved at " + k.target.String(),
		})
		return false
	}
	return k.resolved.evaluate(ec, instance)
}

// dynamicRefKeyword implements 2020-12's "$dynamicRef". Resolution is
// deferred to evaluation time: it walks the dynamic scope (the stack of
// schema nodes entered so far) from outermost to innermost looking for the
// first node whose base URI defines a matching $dynamicAnchor, falling
// back to the statically resolved target when none of the dynamic scope
// defines one (spec.md §4.3, "dynamic scope resolution").
type dynamicRefKeyword struct {
	baseKeyword
	anchorName     string
	staticResolved *schemaNode
	root           *compiledRoot
}

func (k *dynamicRefKeyword) evaluate(ec *evalCtx, instance any) bool {
	target := k.staticResolved
	if n, ok := ec.dynamicAnchorTarget(k.root, k.anchorName); ok {
		target = n
	}
	if target == nil {
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   k.loc.String(),
			Keyword:          "$dynamicRef",
			Message:          "internal: $dynamicRef target was never resolved for anchor " + k.anchorName,
		})
		return false
	}
	return target.evaluate(ec, instance)
}

// recursiveRefKeyword implements 2019-09's "$recursiveRef", the precursor
// to $dynamicRef: it only ever means "#" in practice (recursing to the
// nearest enclosing resource that opts in via $recursiveAnchor: true), so
// resolution walks the dynamic scope for the outermost node with
// recursiveAnchor set, falling back to the statically resolved target.
type recursiveRefKeyword struct {
	baseKeyword
	staticResolved *schemaNode
}

func (k *recursiveRefKeyword) evaluate(ec *evalCtx, instance any) bool {
	target := k.staticResolved
	for _, n := range ec.dynamic {
		if n.recursiveAnchor {
			target = n
			break
		}
	}
	if target == nil {
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   k.loc.String(),
			Keyword:          "$recursiveRef",
			Message:          "internal: $recursiveRef target was never resolved",
		})
		return false
	}
	return target.evaluate(ec, instance)
}
