package jsonschema

// ResourceLoader fetches a schema document for a URI not already known to
// the compiler (spec.md §4.4, "external reference resolution"). Compile
// calls it only when a $ref's target base URI was not registered via
// AddResource and is not one of the embedded meta-schemas.
type ResourceLoader interface {
	// Load returns the decoded JSON document (map[string]any, []any, or a
	// scalar) for base. It must not recurse into resolving that document's
	// own $refs; the compiler does that.
	Load(base string) (any, error)
}

// ResourceLoaderFunc adapts a plain function to ResourceLoader.
type ResourceLoaderFunc func(base string) (any, error)

func (f ResourceLoaderFunc) Load(base string) (any, error) { return f(base) }

// NoLoader rejects every external reference, for callers who want
// compilation to fail fast on anything not explicitly registered via
// AddResource.
var NoLoader ResourceLoader = ResourceLoaderFunc(func(base string) (any, error) {
	return nil, &SchemaError{Kind: ErrResolverFailed, Location: base, Message: "no resource loader configured for external reference " + base}
})

// drainUnresolved resolves every queued $ref/$dynamicRef/$recursiveRef
// target to its compiled *schemaNode, fetching and compiling any resource
// not yet known via root.loader, and repeats until the queue stops
// shrinking (a single round never suffices when a freshly loaded resource
// itself contains $refs into resources that also needed loading).
//
// Grounded on the external-reference loader's job description in spec.md
// §4.4; the fixed-point shape (process the queue, loading on demand, until
// nothing changes) mirrors the lazy root-resource model in
// other_examples/santhosh-tekuri-jsonschema__root.go, adapted into an
// explicit drain loop since this compiler resolves eagerly in one pass
// rather than lazily per-validate.
func drainUnresolved(root *compiledRoot) error {
	for {
		progressed := false
		var stillUnresolved []unresolvedRef
		for _, u := range root.unresolved {
			n, ok := root.lookup(u.target)
			if !ok {
				if doc, err := ensureResourceLoaded(root, u.target.Base()); err == nil && doc != nil {
					n, ok = root.lookup(u.target)
					_ = doc
				}
			}
			if ok {
				u.site.resolved = n
				progressed = true
				continue
			}
			stillUnresolved = append(stillUnresolved, u)
		}
		root.unresolved = stillUnresolved
		if len(root.unresolved) == 0 {
			break
		}
		if !progressed {
			return &SchemaError{
				Kind:     ErrUnresolvedRef,
				Location: root.unresolved[0].target.String(),
				Message:  "could not resolve reference to " + root.unresolved[0].target.String(),
			}
		}
	}
	for _, fix := range root.dynamicRefFixups {
		fix()
	}
	return nil
}

// ensureResourceLoaded fetches and compiles base if it has not already
// been registered as a document, via root.loader or the built-in
// meta-schema table. Returns the raw document (for callers that only need
// to know loading succeeded); the compiled nodes it produces are registered
// into root as a side effect.
func ensureResourceLoaded(root *compiledRoot, base string) (any, error) {
	if _, already := root.docs[base]; already {
		return root.docs[base], nil
	}
	doc, err := loadResource(root, base)
	if err != nil {
		return nil, err
	}
	root.docs[base] = doc
	baseURI, err := ParseURI(base)
	if err != nil {
		return nil, err
	}
	dialect := root.dialectOf(doc)
	cctx := newCompileCtx(dialect, root, baseURI)
	if _, err := buildSchema(cctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func loadResource(root *compiledRoot, base string) (any, error) {
	if doc, ok := metaSchemaDocument(base); ok {
		return doc, nil
	}
	if root.loader == nil {
		return nil, &SchemaError{Kind: ErrResolverFailed, Location: base, Message: "no resource loader configured"}
	}
	return root.loader.Load(base)
}

// dialectOf determines a freshly loaded document's own dialect from its
// $schema keyword, falling back to the root's dialect when absent (spec.md
// §4.1's dialect-detection default).
func (r *compiledRoot) dialectOf(doc any) dialectTag {
	if obj, ok := asObject(doc); ok {
		if sv, ok := obj["$schema"].(string); ok {
			if tag, ok := dialectFromSchemaID(sv); ok {
				return tag
			}
		}
	}
	if len(r.nodes) > 0 {
		for _, n := range r.nodes {
			return n.dialect
		}
	}
	return Draft2020
}
