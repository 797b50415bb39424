package jsonschema

// unevaluatedPropertiesKeyword implements "unevaluatedProperties" (2019-09+).
// It must run after every other applicator at this node (properties,
// patternProperties, additionalProperties, allOf, anyOf, oneOf, not, if/
// then/else, dependentSchemas, $ref, $dynamicRef all rank lower — see
// keywordRank) so that ec.scope already reflects everything they evaluated.
// It applies its sub-schema to every member name not in that accumulated
// set.
type unevaluatedPropertiesKeyword struct {
	baseKeyword
	schema *schemaNode
}

func (k *unevaluatedPropertiesKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, name := range sortedKeys(o) {
		if ec.scope.hasProp(name) {
			continue
		}
		cec := ec.child(name)
		if k.schema.evaluate(cec, o[name]) {
			ec.scope.markProp(name)
		} else {
			ok2 = false
			if ec.short {
				return false
			}
		}
	}
	return ok2
}

// unevaluatedItemsKeyword implements "unevaluatedItems" (2019-09+),
// applying its sub-schema to every array index not yet marked evaluated by
// a lower-ranked sibling (items/prefixItems/additionalItems/contains/
// allOf/anyOf/oneOf/if-then-else/$ref).
type unevaluatedItemsKeyword struct {
	baseKeyword
	schema *schemaNode
}

func (k *unevaluatedItemsKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	ok2 := true
	for i, v := range a {
		if ec.scope.hasIndex(i) {
			continue
		}
		cec := ec.child(itoa(i))
		if k.schema.evaluate(cec, v) {
			ec.scope.markIndex(i)
		} else {
			ok2 = false
			if ec.short {
				return false
			}
		}
	}
	return ok2
}
