package jsonschema

// ifThenElseKeyword implements if/then/else as one compiled unit, since
// then/else's applicability depends on if's outcome and all three must
// share the parent's evaluated-keys scope when they apply (spec.md §5).
type ifThenElseKeyword struct {
	baseKeyword
	ifSchema   *schemaNode
	thenSchema *schemaNode // nil if absent.
	elseSchema *schemaNode // nil if absent.
}

func (k *ifThenElseKeyword) evaluate(ec *evalCtx, instance any) bool {
	// if's own outcome is not reported as a failure of "if" itself: it is
	// only a selector between then and else (spec.md: "if never produces
	// a validation failure on its own").
	sink := Issues{}
	branchScope := ec.scope.clone()
	bec := ec.withScope(branchScope).withReport(&sink)
	matched := k.ifSchema.evaluate(bec, instance)

	if matched {
		ec.scope.mergeFrom(branchScope)
		if k.thenSchema != nil {
			return k.thenSchema.evaluate(ec, instance)
		}
		return true
	}
	if k.elseSchema != nil {
		return k.elseSchema.evaluate(ec, instance)
	}
	return true
}
