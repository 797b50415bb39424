package jsonschema

import (
	"fmt"
	"regexp"
)

// propertiesKeyword implements "properties": each named sub-schema
// validates the correspondingly named member, when present.
type propertiesKeyword struct {
	baseKeyword
	schemas map[string]*schemaNode
}

func (k *propertiesKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, name := range sortedKeys(k.schemas) {
		v, present := o[name]
		if !present {
			if s := k.schemas[name]; s.hasDefault {
				ec.recordDefault(joinJSONPointerSegment(ec.loc, name), s.defaultValue)
			}
			continue
		}
		cec := ec.child(name)
		if k.schemas[name].evaluate(cec, v) {
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

// patternPropertiesKeyword implements "patternProperties": every member
// whose name matches a given regex is validated against that pattern's
// sub-schema. A member can match (and be validated by) more than one
// pattern.
type patternPropertiesKeyword struct {
	baseKeyword
	patterns []patternSchema
}

type patternSchema struct {
	re     *regexp.Regexp
	schema *schemaNode
}

func (k *patternPropertiesKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, name := range sortedKeys(o) {
		for _, ps := range k.patterns {
			if !ps.re.MatchString(name) {
				continue
			}
			cec := ec.child(name)
			if ps.schema.evaluate(cec, o[name]) {
				ec.scope.markProp(name)
			} else {
				ok2 = false
				if ec.short {
					return false
				}
			}
		}
	}
	return ok2
}

// additionalPropertiesKeyword implements "additionalProperties": applies
// to every member not matched by a sibling properties/patternProperties
// keyword at the same schema node (tracked via siblingNames/siblingPatterns,
// populated by the compiler from the node's other keywords, since
// additionalProperties' complement is defined relative to its *siblings*,
// not the accumulated evaluated-keys scope — that's unevaluatedProperties'
// job).
type additionalPropertiesKeyword struct {
	baseKeyword
	schema          *schemaNode
	siblingNames    map[string]bool
	siblingPatterns []*regexp.Regexp
}

func (k *additionalPropertiesKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, name := range sortedKeys(o) {
		if k.siblingNames[name] {
			continue
		}
		matched := false
		for _, re := range k.siblingPatterns {
			if re.MatchString(name) {
				matched = true
				break
			}
		}
		if matched {
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

// propertyNamesKeyword implements "propertyNames": validates every member
// name, treated as a string instance, against one sub-schema.
type propertyNamesKeyword struct {
	baseKeyword
	schema *schemaNode
}

func (k *propertyNamesKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, name := range sortedKeys(o) {
		// Name validation reports at the property's location (not a
		// sub-location of it) and never contributes to the evaluated-keys
		// scope, since it is not validating the property's value.
		sink := Issues{}
		cec := ec.child(name).withReport(&sink)
		if !k.schema.evaluate(cec, name) {
			ok2 = false
			for _, is := range sink {
				ec.report(is)
			}
			if ec.short {
				return false
			}
		}
	}
	return ok2
}

// requiredKeyword implements "required".
type requiredKeyword struct {
	baseKeyword
	names []string
}

func (k *requiredKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	var missing []string
	for _, name := range k.names {
		if _, present := o[name]; !present {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "required",
		Message:          fmt.Sprintf("missing required properties: %v", missing),
		Params:           map[string]any{"missing": missing},
	})
	return false
}

// objectSizeKeyword implements minProperties/maxProperties.
type objectSizeKeyword struct {
	baseKeyword
	limit int
	isMax bool
}

func (k *objectSizeKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	n := len(o)
	ok2 := n >= k.limit
	if k.isMax {
		ok2 = n <= k.limit
	}
	if ok2 {
		return true
	}
	rel := "at least"
	if k.isMax {
		rel = "at most"
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          k.name,
		Message:          fmt.Sprintf("object must have %s %d properties", rel, k.limit),
		Params:           map[string]any{"limit": k.limit, "count": n},
	})
	return false
}

// dependentRequiredKeyword implements dependentRequired (2019-09+) and
// draft4..7's property-name-list form of "dependencies".
type dependentRequiredKeyword struct {
	baseKeyword
	deps map[string][]string
}

func (k *dependentRequiredKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, trigger := range sortedKeys(k.deps) {
		if _, present := o[trigger]; !present {
			continue
		}
		var missing []string
		for _, dep := range k.deps[trigger] {
			if _, present := o[dep]; !present {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			ok2 = false
			ec.report(Issue{
				InstanceLocation: ec.loc,
				SchemaLocation:   k.loc.String(),
				Keyword:          "dependentRequired",
				Message:          fmt.Sprintf("presence of %q requires properties: %v", trigger, missing),
				Params:           map[string]any{"trigger": trigger, "missing": missing},
			})
			if ec.short {
				return false
			}
		}
	}
	return ok2
}

// dependentSchemasKeyword implements dependentSchemas (2019-09+) and
// draft4..7's schema-valued form of "dependencies".
type dependentSchemasKeyword struct {
	baseKeyword
	deps map[string]*schemaNode
}

func (k *dependentSchemasKeyword) evaluate(ec *evalCtx, instance any) bool {
	o, ok := asObject(instance)
	if !ok {
		return true
	}
	ok2 := true
	for _, trigger := range sortedKeys(k.deps) {
		if _, present := o[trigger]; !present {
			continue
		}
		if !k.deps[trigger].evaluate(ec, instance) {
			ok2 = false
			if ec.short {
				return false
			}
		}
	}
	return ok2
}
