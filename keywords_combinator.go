package jsonschema

import "fmt"

// allOfKeyword implements "allOf": every sub-schema validates against the
// same instance and shares the parent's evaluated-keys scope directly
// (each branch's annotations accumulate into ec.scope as it runs).
type allOfKeyword struct {
	baseKeyword
	schemas []*schemaNode
}

func (k *allOfKeyword) evaluate(ec *evalCtx, instance any) bool {
	ok := true
	for _, s := range k.schemas {
		if !s.evaluate(ec, instance) {
			ok = false
			if ec.short {
				return false
			}
		}
	}
	return ok
}

// anyOfKeyword implements "anyOf": at least one sub-schema must validate.
// Every branch runs against an independent scope clone (so a failing
// branch's partial annotations don't leak); the union of *all* branches
// that matched is folded into the parent scope, per spec.md §5's
// unevaluatedProperties interaction ("anyOf must union every passing
// branch's annotations, since any of them could be the reason the
// instance is considered to use that key").
type anyOfKeyword struct {
	baseKeyword
	schemas []*schemaNode
}

func (k *anyOfKeyword) evaluate(ec *evalCtx, instance any) bool {
	matched := 0
	var branchIssues []Issues
	for _, s := range k.schemas {
		branchScope := ec.scope.clone()
		sink := Issues{}
		bec := ec.withScope(branchScope).withReport(&sink)
		if s.evaluate(bec, instance) {
			matched++
			ec.scope.mergeFrom(branchScope)
		} else {
			branchIssues = append(branchIssues, sink)
		}
	}
	if matched > 0 {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "anyOf",
		Message:          "value does not match any of the required schemas",
		Nested:           flattenNested(branchIssues),
	})
	return false
}

// oneOfKeyword implements "oneOf": exactly one sub-schema must validate.
// Every branch runs independently (for the same reason as anyOf); if
// exactly one matches, its annotations are folded into the parent scope.
// Grounded on the "pick the cheapest failing branch" idea in
// _examples/reoring-goskema/rules/rules.go's Or combinator (which picks
// the branch with fewest issues when every branch fails) — applied here to
// choose which branch's issues to surface when oneOf finds zero matches,
// and to report which two branches conflict when it finds more than one.
type oneOfKeyword struct {
	baseKeyword
	schemas []*schemaNode
}

func (k *oneOfKeyword) evaluate(ec *evalCtx, instance any) bool {
	var matchedIdx []int
	var matchedScopes []*evalScope
	var branchIssues []Issues
	for i, s := range k.schemas {
		branchScope := ec.scope.clone()
		sink := Issues{}
		bec := ec.withScope(branchScope).withReport(&sink)
		if s.evaluate(bec, instance) {
			matchedIdx = append(matchedIdx, i)
			matchedScopes = append(matchedScopes, branchScope)
		} else {
			branchIssues = append(branchIssues, sink)
		}
	}
	switch len(matchedIdx) {
	case 1:
		ec.scope.mergeFrom(matchedScopes[0])
		return true
	case 0:
		best := fewestIssues(branchIssues)
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   k.loc.String(),
			Keyword:          "oneOf",
			Message:          "value does not match any of the required schemas",
			Nested:           best,
		})
		return false
	default:
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   k.loc.String(),
			Keyword:          "oneOf",
			Message:          fmt.Sprintf("value matches %d schemas, want exactly 1", len(matchedIdx)),
			Params:           map[string]any{"matchedIndexes": matchedIdx},
		})
		return false
	}
}

// fewestIssues returns the shortest issue list among candidates, the
// branch considered "closest" to matching.
func fewestIssues(candidates []Issues) Issues {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return best
}

func flattenNested(groups []Issues) []Issue {
	var out []Issue
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// notKeyword implements "not": the sub-schema must NOT validate. Runs
// against a throwaway scope, since a schema's being disallowed carries no
// annotations forward.
type notKeyword struct {
	baseKeyword
	schema *schemaNode
}

func (k *notKeyword) evaluate(ec *evalCtx, instance any) bool {
	sink := Issues{}
	bec := ec.withScope(ec.scope.clone()).withReport(&sink)
	if !k.schema.evaluate(bec, instance) {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "not",
		Message:          "value must not match the schema",
	})
	return false
}
