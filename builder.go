package jsonschema

import (
	"fmt"
	"math/big"
	"regexp"
)

// buildSchema compiles one schema site (spec.md §4.2's recursive
// make_schema_validator dispatch) into a *schemaNode, registering it (and
// every nested schema site it discovers) into cctx.root as it goes.
func buildSchema(cctx *compileCtx, raw any) (*schemaNode, error) {
	if b, ok := raw.(bool); ok {
		if !cctx.dialect.booleanSchemasAllowed() {
			return nil, newSchemaError(ErrMalformedSchema, cctx.absoluteURI().String(), "boolean schemas are not valid in "+cctx.dialect.String())
		}
		bb := b
		n := &schemaNode{loc: cctx.absoluteURI(), dialect: cctx.dialect, boolAlways: &bb, root: cctx.root}
		cctx.root.registerNode(n)
		return n, nil
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, newSchemaError(ErrMalformedSchema, cctx.absoluteURI().String(), "schema must be an object or boolean")
	}

	if sv, ok := obj["$schema"].(string); ok {
		tag, recognized := dialectFromSchemaID(sv)
		if !recognized {
			return nil, newSchemaError(ErrUnknownDialect, cctx.absoluteURI().String(), "unrecognized $schema: "+sv)
		}
		cctx = cctx.withDialect(tag)
	}

	idKey := cctx.dialect.idKeyword()
	if idv, ok := obj[idKey].(string); ok && idv != "" {
		nc, err := cctx.pushScope(idv)
		if err != nil {
			return nil, newSchemaError(ErrMalformedSchema, cctx.absoluteURI().String(), "invalid "+idKey+": "+err.Error())
		}
		cctx = nc
	}

	n := &schemaNode{loc: cctx.absoluteURI(), dialect: cctx.dialect, root: cctx.root}

	if av, ok := obj["$anchor"].(string); ok && av != "" {
		n.anchorName = av
	} else if cctx.dialect == Draft4 {
		// Pre-draft-6: a bare id fragment (not a JSON Pointer) names an
		// anchor, per other_examples/santhosh-tekuri-jsonschema__root.go's
		// collectAnchors (pre-2019 branch).
		if idv, ok := obj["id"].(string); ok {
			if u, err := ParseURI(idv); err == nil && u.Kind() == FragmentAnchor {
				n.anchorName = u.Fragment()
			}
		}
	}
	if dv, ok := obj["$dynamicAnchor"].(string); ok && dv != "" && cctx.dialect.supportsDynamicRef() {
		n.dynamicAnchor = dv
	}
	if rv, ok := obj["$recursiveAnchor"].(bool); ok && rv && cctx.dialect.supportsRecursiveRef() {
		n.recursiveAnchor = true
	}
	if dv, present := obj["default"]; present {
		n.hasDefault = true
		n.defaultValue = dv
	}
	cctx.root.registerNode(n)

	if n.dynamicAnchor != "" {
		cctx = cctx.withDynamicID(n.dynamicAnchor)
	}

	var vs []keywordValidator

	if refv, ok := obj["$ref"].(string); ok {
		rk, err := buildRefKeyword(cctx, "$ref", refv)
		if err != nil {
			return nil, err
		}
		vs = append(vs, rk)
		if cctx.dialect == Draft4 || cctx.dialect == Draft6 || cctx.dialect == Draft7 {
			// Legacy dialects: $ref supersedes every sibling keyword.
			n.validators = vs
			sortValidators(n.validators)
			return n, nil
		}
	}
	if cctx.dialect.supportsRecursiveRef() {
		if rv, ok := obj["$recursiveRef"].(string); ok {
			rk, err := buildRecursiveRefKeyword(cctx, rv)
			if err != nil {
				return nil, err
			}
			vs = append(vs, rk)
		}
	}
	if cctx.dialect.supportsDynamicRef() {
		if rv, ok := obj["$dynamicRef"].(string); ok {
			rk, err := buildDynamicRefKeyword(cctx, rv)
			if err != nil {
				return nil, err
			}
			vs = append(vs, rk)
		}
	}

	for _, defKey := range []string{"$defs", "definitions"} {
		if defs, ok := asObject(obj[defKey]); ok {
			for _, name := range sortedKeys(defs) {
				if _, err := buildSchema(cctx.withKey(defKey).withKey(name), defs[name]); err != nil {
					return nil, err
				}
			}
		}
	}

	if tv, ok := obj["type"]; ok {
		var types []string
		switch t := tv.(type) {
		case string:
			types = []string{t}
		case []any:
			for _, e := range t {
				if s, ok := e.(string); ok {
					types = append(types, s)
				}
			}
		}
		if len(types) > 0 {
			vs = append(vs, &typeKeyword{baseKeyword{"type", cctx.makeSchemaPathWith("type")}, types})
		}
	}

	if cv, present := obj["const"]; present {
		vs = append(vs, &constKeyword{baseKeyword{"const", cctx.makeSchemaPathWith("const")}, cv})
	}
	if ev, ok := asArray(obj["enum"]); ok {
		vs = append(vs, &enumKeyword{baseKeyword{"enum", cctx.makeSchemaPathWith("enum")}, ev})
	}

	numBound := func(key string, isMax, excFlag bool) error {
		raw, present := obj[key]
		if !present {
			return nil
		}
		f, ok := toBigFloat(raw)
		if !ok {
			return newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith(key).String(), key+" must be a number")
		}
		exclusive := excFlag
		if cctx.dialect.exclusiveBoundsAreNumeric() {
			// draft6+: exclusiveMinimum/exclusiveMaximum themselves carry
			// the bound; handled by their own numBound calls below.
		}
		vs = append(vs, &numericBoundKeyword{baseKeyword{key, cctx.makeSchemaPathWith(key)}, f, exclusive, isMax})
		return nil
	}

	if cctx.dialect.exclusiveBoundsAreNumeric() {
		if err := numBound("maximum", true, false); err != nil {
			return nil, err
		}
		if err := numBound("minimum", false, false); err != nil {
			return nil, err
		}
		if err := numBound("exclusiveMaximum", true, true); err != nil {
			return nil, err
		}
		if err := numBound("exclusiveMinimum", false, true); err != nil {
			return nil, err
		}
	} else {
		// draft4: exclusiveMinimum/exclusiveMaximum are booleans modifying
		// the sibling minimum/maximum bound.
		if raw, present := obj["maximum"]; present {
			f, ok := toBigFloat(raw)
			if !ok {
				return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("maximum").String(), "maximum must be a number")
			}
			excl, _ := obj["exclusiveMaximum"].(bool)
			vs = append(vs, &numericBoundKeyword{baseKeyword{"maximum", cctx.makeSchemaPathWith("maximum")}, f, excl, true})
		}
		if raw, present := obj["minimum"]; present {
			f, ok := toBigFloat(raw)
			if !ok {
				return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("minimum").String(), "minimum must be a number")
			}
			excl, _ := obj["exclusiveMinimum"].(bool)
			vs = append(vs, &numericBoundKeyword{baseKeyword{"minimum", cctx.makeSchemaPathWith("minimum")}, f, excl, false})
		}
	}

	if raw, present := obj["multipleOf"]; present {
		f, ok := toBigFloat(raw)
		if !ok || f.Sign() <= 0 {
			return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("multipleOf").String(), "multipleOf must be a positive number")
		}
		vs = append(vs, &multipleOfKeyword{baseKeyword{"multipleOf", cctx.makeSchemaPathWith("multipleOf")}, f})
	}

	strLen := func(key string, isMax bool) error {
		raw, present := obj[key]
		if !present {
			return nil
		}
		n, ok := intOf(raw)
		if !ok {
			return newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith(key).String(), key+" must be a non-negative integer")
		}
		vs = append(vs, &stringLengthKeyword{baseKeyword{key, cctx.makeSchemaPathWith(key)}, n, isMax})
		return nil
	}
	if err := strLen("minLength", false); err != nil {
		return nil, err
	}
	if err := strLen("maxLength", true); err != nil {
		return nil, err
	}

	if raw, ok := obj["pattern"].(string); ok {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("pattern").String(), "invalid pattern: "+err.Error())
		}
		vs = append(vs, &patternKeyword{baseKeyword{"pattern", cctx.makeSchemaPathWith("pattern")}, re})
	}

	if raw, ok := obj["format"].(string); ok {
		fn, _ := lookupFormat(raw)
		vs = append(vs, &formatKeyword{baseKeyword{"format", cctx.makeSchemaPathWith("format")}, raw, fn, cctx.root.assertFormat})
	}

	if raw, ok := obj["contentEncoding"].(string); ok {
		vs = append(vs, &contentEncodingKeyword{baseKeyword{"contentEncoding", cctx.makeSchemaPathWith("contentEncoding")}, raw, cctx.root.assertContent})
	}
	if cctx.dialect.hasContentSchema() {
		if raw, present := obj["contentSchema"]; present {
			sub, err := buildSchema(cctx.withKey("contentSchema"), raw)
			if err != nil {
				return nil, err
			}
			vs = append(vs, &contentSchemaKeyword{baseKeyword{"contentSchema", cctx.makeSchemaPathWith("contentSchema")}, sub})
		}
	}

	arrLen := func(key string, isMax bool) error {
		raw, present := obj[key]
		if !present {
			return nil
		}
		n, ok := intOf(raw)
		if !ok {
			return newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith(key).String(), key+" must be a non-negative integer")
		}
		vs = append(vs, &arrayLengthKeyword{baseKeyword{key, cctx.makeSchemaPathWith(key)}, n, isMax})
		return nil
	}
	if err := arrLen("minItems", false); err != nil {
		return nil, err
	}
	if err := arrLen("maxItems", true); err != nil {
		return nil, err
	}
	if b, ok := obj["uniqueItems"].(bool); ok && b {
		vs = append(vs, &uniqueItemsKeyword{baseKeyword{"uniqueItems", cctx.makeSchemaPathWith("uniqueItems")}})
	}

	objSize := func(key string, isMax bool) error {
		raw, present := obj[key]
		if !present {
			return nil
		}
		n, ok := intOf(raw)
		if !ok {
			return newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith(key).String(), key+" must be a non-negative integer")
		}
		vs = append(vs, &objectSizeKeyword{baseKeyword{key, cctx.makeSchemaPathWith(key)}, n, isMax})
		return nil
	}
	if err := objSize("minProperties", false); err != nil {
		return nil, err
	}
	if err := objSize("maxProperties", true); err != nil {
		return nil, err
	}

	itemsStart := 0
	if cctx.dialect.itemsIsTupleArray() {
		if tup, ok := asArray(obj["items"]); ok {
			schemas := make([]*schemaNode, len(tup))
			for i, s := range tup {
				sub, err := buildSchema(cctx.withKey("items").withIndex(i), s)
				if err != nil {
					return nil, err
				}
				schemas[i] = sub
			}
			itemsStart = len(tup)
			vs = append(vs, &prefixItemsKeyword{baseKeyword{"items", cctx.makeSchemaPathWith("items")}, schemas})
			if raw, present := obj["additionalItems"]; present {
				sub, err := buildSchema(cctx.withKey("additionalItems"), raw)
				if err != nil {
					return nil, err
				}
				vs = append(vs, &additionalItemsKeyword{baseKeyword{"additionalItems", cctx.makeSchemaPathWith("additionalItems")}, sub, itemsStart})
			}
		} else if raw, present := obj["items"]; present {
			sub, err := buildSchema(cctx.withKey("items"), raw)
			if err != nil {
				return nil, err
			}
			vs = append(vs, &itemsKeyword{baseKeyword{"items", cctx.makeSchemaPathWith("items")}, sub, 0})
		}
	} else {
		if pre, ok := asArray(obj["prefixItems"]); ok {
			schemas := make([]*schemaNode, len(pre))
			for i, s := range pre {
				sub, err := buildSchema(cctx.withKey("prefixItems").withIndex(i), s)
				if err != nil {
					return nil, err
				}
				schemas[i] = sub
			}
			itemsStart = len(pre)
			vs = append(vs, &prefixItemsKeyword{baseKeyword{"prefixItems", cctx.makeSchemaPathWith("prefixItems")}, schemas})
		}
		if raw, present := obj["items"]; present {
			sub, err := buildSchema(cctx.withKey("items"), raw)
			if err != nil {
				return nil, err
			}
			vs = append(vs, &itemsKeyword{baseKeyword{"items", cctx.makeSchemaPathWith("items")}, sub, itemsStart})
		}
	}

	if raw, present := obj["contains"]; present {
		sub, err := buildSchema(cctx.withKey("contains"), raw)
		if err != nil {
			return nil, err
		}
		min := 1
		max := -1
		if raw, present := obj["minContains"]; present {
			if n, ok := intOf(raw); ok {
				min = n
			}
		}
		if raw, present := obj["maxContains"]; present {
			if n, ok := intOf(raw); ok {
				max = n
			}
		}
		vs = append(vs, &containsKeyword{baseKeyword{"contains", cctx.makeSchemaPathWith("contains")}, sub, min, max})
	}

	var propNames map[string]bool
	var propPatterns []*regexp.Regexp

	if props, ok := asObject(obj["properties"]); ok {
		schemas := make(map[string]*schemaNode, len(props))
		propNames = make(map[string]bool, len(props))
		for _, name := range sortedKeys(props) {
			sub, err := buildSchema(cctx.withKey("properties").withKey(name), props[name])
			if err != nil {
				return nil, err
			}
			schemas[name] = sub
			propNames[name] = true
		}
		vs = append(vs, &propertiesKeyword{baseKeyword{"properties", cctx.makeSchemaPathWith("properties")}, schemas})
	}

	if pprops, ok := asObject(obj["patternProperties"]); ok {
		var patterns []patternSchema
		for _, pat := range sortedKeys(pprops) {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("patternProperties").String(), "invalid patternProperties key: "+err.Error())
			}
			sub, err := buildSchema(cctx.withKey("patternProperties").withKey(pat), pprops[pat])
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, patternSchema{re, sub})
			propPatterns = append(propPatterns, re)
		}
		vs = append(vs, &patternPropertiesKeyword{baseKeyword{"patternProperties", cctx.makeSchemaPathWith("patternProperties")}, patterns})
	}

	if raw, present := obj["additionalProperties"]; present {
		sub, err := buildSchema(cctx.withKey("additionalProperties"), raw)
		if err != nil {
			return nil, err
		}
		vs = append(vs, &additionalPropertiesKeyword{
			baseKeyword:     baseKeyword{"additionalProperties", cctx.makeSchemaPathWith("additionalProperties")},
			schema:          sub,
			siblingNames:    propNames,
			siblingPatterns: propPatterns,
		})
	}

	if raw, present := obj["propertyNames"]; present {
		sub, err := buildSchema(cctx.withKey("propertyNames"), raw)
		if err != nil {
			return nil, err
		}
		vs = append(vs, &propertyNamesKeyword{baseKeyword{"propertyNames", cctx.makeSchemaPathWith("propertyNames")}, sub})
	}

	if req, ok := asArray(obj["required"]); ok {
		names := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
		vs = append(vs, &requiredKeyword{baseKeyword{"required", cctx.makeSchemaPathWith("required")}, names})
	}

	if cctx.dialect.dependenciesSplit() {
		if dr, ok := asObject(obj["dependentRequired"]); ok {
			deps := make(map[string][]string, len(dr))
			for k, v := range dr {
				if arr, ok := asArray(v); ok {
					names := make([]string, 0, len(arr))
					for _, e := range arr {
						if s, ok := e.(string); ok {
							names = append(names, s)
						}
					}
					deps[k] = names
				}
			}
			vs = append(vs, &dependentRequiredKeyword{baseKeyword{"dependentRequired", cctx.makeSchemaPathWith("dependentRequired")}, deps})
		}
		if ds, ok := asObject(obj["dependentSchemas"]); ok {
			deps := make(map[string]*schemaNode, len(ds))
			for _, name := range sortedKeys(ds) {
				sub, err := buildSchema(cctx.withKey("dependentSchemas").withKey(name), ds[name])
				if err != nil {
					return nil, err
				}
				deps[name] = sub
			}
			vs = append(vs, &dependentSchemasKeyword{baseKeyword{"dependentSchemas", cctx.makeSchemaPathWith("dependentSchemas")}, deps})
		}
	} else if deps, ok := asObject(obj["dependencies"]); ok {
		reqDeps := make(map[string][]string)
		schemaDeps := make(map[string]*schemaNode)
		for _, name := range sortedKeys(deps) {
			switch v := deps[name].(type) {
			case []any:
				names := make([]string, 0, len(v))
				for _, e := range v {
					if s, ok := e.(string); ok {
						names = append(names, s)
					}
				}
				reqDeps[name] = names
			default:
				sub, err := buildSchema(cctx.withKey("dependencies").withKey(name), v)
				if err != nil {
					return nil, err
				}
				schemaDeps[name] = sub
			}
		}
		if len(reqDeps) > 0 {
			vs = append(vs, &dependentRequiredKeyword{baseKeyword{"dependencies", cctx.makeSchemaPathWith("dependencies")}, reqDeps})
		}
		if len(schemaDeps) > 0 {
			vs = append(vs, &dependentSchemasKeyword{baseKeyword{"dependencies", cctx.makeSchemaPathWith("dependencies")}, schemaDeps})
		}
	}

	listKeyword := func(key string, build func([]*schemaNode) keywordValidator) error {
		arr, ok := asArray(obj[key])
		if !ok {
			return nil
		}
		schemas := make([]*schemaNode, len(arr))
		for i, s := range arr {
			sub, err := buildSchema(cctx.withKey(key).withIndex(i), s)
			if err != nil {
				return err
			}
			schemas[i] = sub
		}
		vs = append(vs, build(schemas))
		return nil
	}
	if err := listKeyword("allOf", func(s []*schemaNode) keywordValidator {
		return &allOfKeyword{baseKeyword{"allOf", cctx.makeSchemaPathWith("allOf")}, s}
	}); err != nil {
		return nil, err
	}
	if err := listKeyword("anyOf", func(s []*schemaNode) keywordValidator {
		return &anyOfKeyword{baseKeyword{"anyOf", cctx.makeSchemaPathWith("anyOf")}, s}
	}); err != nil {
		return nil, err
	}
	if err := listKeyword("oneOf", func(s []*schemaNode) keywordValidator {
		return &oneOfKeyword{baseKeyword{"oneOf", cctx.makeSchemaPathWith("oneOf")}, s}
	}); err != nil {
		return nil, err
	}

	if raw, present := obj["not"]; present {
		sub, err := buildSchema(cctx.withKey("not"), raw)
		if err != nil {
			return nil, err
		}
		vs = append(vs, &notKeyword{baseKeyword{"not", cctx.makeSchemaPathWith("not")}, sub})
	}

	if raw, present := obj["if"]; present {
		ifSub, err := buildSchema(cctx.withKey("if"), raw)
		if err != nil {
			return nil, err
		}
		var thenSub, elseSub *schemaNode
		if tv, present := obj["then"]; present {
			thenSub, err = buildSchema(cctx.withKey("then"), tv)
			if err != nil {
				return nil, err
			}
		}
		if ev, present := obj["else"]; present {
			elseSub, err = buildSchema(cctx.withKey("else"), ev)
			if err != nil {
				return nil, err
			}
		}
		vs = append(vs, &ifThenElseKeyword{baseKeyword{"if", cctx.makeSchemaPathWith("if")}, ifSub, thenSub, elseSub})
	}

	if cctx.dialect.hasUnevaluated() {
		if raw, present := obj["unevaluatedProperties"]; present {
			sub, err := buildSchema(cctx.withKey("unevaluatedProperties"), raw)
			if err != nil {
				return nil, err
			}
			vs = append(vs, &unevaluatedPropertiesKeyword{baseKeyword{"unevaluatedProperties", cctx.makeSchemaPathWith("unevaluatedProperties")}, sub})
		}
		if raw, present := obj["unevaluatedItems"]; present {
			sub, err := buildSchema(cctx.withKey("unevaluatedItems"), raw)
			if err != nil {
				return nil, err
			}
			vs = append(vs, &unevaluatedItemsKeyword{baseKeyword{"unevaluatedItems", cctx.makeSchemaPathWith("unevaluatedItems")}, sub})
		}
	}

	n.validators = vs
	sortValidators(n.validators)
	return n, nil
}

func intOf(v any) (int, bool) {
	f, ok := toBigFloat(v)
	if !ok || !f.IsInt() {
		return 0, false
	}
	i, acc := f.Int64()
	if acc != big.Exact {
		return 0, false
	}
	return int(i), true
}

func buildRefKeyword(cctx *compileCtx, name, ref string) (*refKeyword, error) {
	target, err := Resolve(cctx.currentBase(), ref)
	if err != nil {
		return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith(name).String(), fmt.Sprintf("invalid %s: %v", name, err))
	}
	rk := &refKeyword{baseKeyword: baseKeyword{name, cctx.makeSchemaPathWith(name)}, target: target}
	cctx.root.unresolved = append(cctx.root.unresolved, unresolvedRef{target: target, site: rk})
	return rk, nil
}

func buildDynamicRefKeyword(cctx *compileCtx, ref string) (*dynamicRefKeyword, error) {
	target, err := Resolve(cctx.currentBase(), ref)
	if err != nil {
		return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("$dynamicRef").String(), "invalid $dynamicRef: "+err.Error())
	}
	anchorName := target.Fragment()
	// Bookending (spec.md §4.2): a $dynamicRef's plain-name fragment must be
	// declared as a $dynamicAnchor somewhere in the lexical ancestry of this
	// site, or dynamic-scope resolution at evaluation time would have no
	// legitimate target to fall back to for cross-resource extension.
	if anchorName == "" || !cctx.declaresDynamicAnchor(anchorName) {
		return nil, newSchemaError(ErrBookending, cctx.makeSchemaPathWith("$dynamicRef").String(), "$dynamicRef \"#"+anchorName+"\" has no bookending $dynamicAnchor in an enclosing schema")
	}
	rk := &dynamicRefKeyword{
		baseKeyword: baseKeyword{"$dynamicRef", cctx.makeSchemaPathWith("$dynamicRef")},
		anchorName:  anchorName,
		root:        cctx.root,
	}
	// The static fallback target is resolved the same way a plain $ref
	// would be; queue it so the loader's fixed point fills it in too.
	staticRef := &refKeyword{baseKeyword: baseKeyword{"$dynamicRef", cctx.makeSchemaPathWith("$dynamicRef")}, target: target}
	cctx.root.unresolved = append(cctx.root.unresolved, unresolvedRef{target: target, site: staticRef})
	cctx.root.dynamicRefFixups = append(cctx.root.dynamicRefFixups, func() { rk.staticResolved = staticRef.resolved })
	return rk, nil
}

func buildRecursiveRefKeyword(cctx *compileCtx, ref string) (*recursiveRefKeyword, error) {
	target, err := Resolve(cctx.currentBase(), ref)
	if err != nil {
		return nil, newSchemaError(ErrMalformedSchema, cctx.makeSchemaPathWith("$recursiveRef").String(), "invalid $recursiveRef: "+err.Error())
	}
	rk := &recursiveRefKeyword{baseKeyword: baseKeyword{"$recursiveRef", cctx.makeSchemaPathWith("$recursiveRef")}}
	staticRef := &refKeyword{baseKeyword: baseKeyword{"$recursiveRef", cctx.makeSchemaPathWith("$recursiveRef")}, target: target}
	cctx.root.unresolved = append(cctx.root.unresolved, unresolvedRef{target: target, site: staticRef})
	cctx.root.dynamicRefFixups = append(cctx.root.dynamicRefFixups, func() { rk.staticResolved = staticRef.resolved })
	return rk, nil
}
