package jsonschema

// Compiler accumulates schema resources and compiles one of them (plus
// everything it transitively references) into a validator graph (spec.md
// §4, "Compilation"). The zero value is not usable; construct one with
// NewCompiler.
//
// Grounded on the Compiler/AddResource/Compile shape observed in
// other_examples/xdavidwu-kube-cgi__compile.go, which wraps the same three
// calls around santhosh-tekuri/jsonschema's compiler.
type Compiler struct {
	docs           map[string]any
	loader         ResourceLoader
	defaultDialect dialectTag
	assertFormat   bool
	assertContent  bool
	injectDefaults bool
	defaultBaseURI string
}

// NewCompiler returns a Compiler with no registered resources, no
// resource loader (external $refs fail to resolve until SetLoader is
// called), and a default dialect of 2020-12 for schema documents that omit
// $schema.
func NewCompiler() *Compiler {
	return &Compiler{
		docs:           make(map[string]any),
		loader:         NoLoader,
		defaultDialect: Draft2020,
	}
}

// AddResource registers doc (already decoded into Go values — map[string]any,
// []any, string, json.Number/float64, bool, or nil) under uri, so that
// Compile or any $ref pointing at uri can find it without a ResourceLoader
// round trip.
func (c *Compiler) AddResource(uri string, doc any) {
	c.docs[uri] = doc
}

// SetLoader installs the ResourceLoader used to fetch schema documents for
// $ref targets not registered via AddResource and not one of the five
// bundled meta-schemas.
func (c *Compiler) SetLoader(l ResourceLoader) *Compiler {
	c.loader = l
	return c
}

// AssertFormat makes "format" an assertion instead of an annotation
// (spec.md §9's format Open Question — off by default, matching
// 2019-09+'s opt-in format-assertion vocabulary).
func (c *Compiler) AssertFormat(on bool) *Compiler {
	c.assertFormat = on
	return c
}

// AssertContent makes contentEncoding/contentMediaType assertive instead
// of annotation-only.
func (c *Compiler) AssertContent(on bool) *Compiler {
	c.assertContent = on
	return c
}

// DefaultDialect sets the dialect assumed for a document that has no
// $schema keyword of its own.
func (c *Compiler) DefaultDialect(d dialectTag) *Compiler {
	c.defaultDialect = d
	return c
}

// EnableDefaultsInjection turns on defaults injection: when set,
// CompiledSchema.ValidateWithDefaults records an "add" patch operation for
// every missing object property whose schema carries a "default" (spec.md
// §6's enable_defaults_injection option). Off by default, matching
// Validate/IsValid's behavior of never touching the instance.
func (c *Compiler) EnableDefaultsInjection(on bool) *Compiler {
	c.injectDefaults = on
	return c
}

// DefaultBaseURI sets the retrieval base CompileSchema registers a
// self-contained document under, in place of the synthesized anonymous URI,
// so a schema whose relative $refs assume a real base can supply one
// (spec.md §6's default_base_uri option).
func (c *Compiler) DefaultBaseURI(uri string) *Compiler {
	c.defaultBaseURI = uri
	return c
}

// Compile compiles the resource registered under uri (via AddResource) —
// or, if none was registered, a bundled meta-schema or a document fetched
// through the configured ResourceLoader — into a CompiledSchema.
// Compilation is all-or-nothing: a non-nil error means no partial result
// exists (spec.md §4, "Compile is fatal-on-error").
func (c *Compiler) Compile(uri string) (*CompiledSchema, error) {
	baseURI, err := ParseURI(uri)
	if err != nil {
		return nil, newSchemaError(ErrMalformedSchema, uri, "invalid resource URI: "+err.Error())
	}

	doc, ok := c.docs[baseURI.Base()]
	if !ok {
		if d, ok2 := metaSchemaDocument(baseURI.Base()); ok2 {
			doc = d
		} else {
			d, err := loadResourceViaLoader(c.loader, baseURI.Base())
			if err != nil {
				return nil, err
			}
			doc = d
		}
	}

	root := newCompiledRoot(baseURI, c.loader)
	root.assertFormat = c.assertFormat
	root.assertContent = c.assertContent
	root.injectDefaults = c.injectDefaults
	root.docs[baseURI.Base()] = doc
	for u, d := range c.docs {
		root.docs[u] = d
	}

	dialect := c.defaultDialect
	if obj, ok := asObject(doc); ok {
		if sv, ok := obj["$schema"].(string); ok {
			if tag, ok := dialectFromSchemaID(sv); ok {
				dialect = tag
			} else {
				return nil, newSchemaError(ErrUnknownDialect, baseURI.String(), "unrecognized $schema: "+sv)
			}
		}
	}

	cctx := newCompileCtx(dialect, root, baseURI)
	rootNode, err := buildSchema(cctx, doc)
	if err != nil {
		return nil, err
	}
	if err := drainUnresolved(root); err != nil {
		return nil, err
	}
	return &CompiledSchema{root: rootNode, registry: root}, nil
}

func loadResourceViaLoader(loader ResourceLoader, base string) (any, error) {
	if loader == nil {
		return nil, &SchemaError{Kind: ErrResolverFailed, Location: base, Message: "no resource loader configured"}
	}
	doc, err := loader.Load(base)
	if err != nil {
		return nil, &SchemaError{Kind: ErrResolverFailed, Location: base, Message: "loading resource failed", Cause: err}
	}
	return doc, nil
}

// CompileSchema is a one-shot convenience wrapping NewCompiler + AddResource
// + Compile for the common case of compiling a single, self-contained
// schema document with no pre-existing URI of its own. It synthesizes an
// opaque base URI so internal $ref/$id resolution still has something to
// resolve against.
func CompileSchema(doc any, opts ...CompileOption) (*CompiledSchema, error) {
	const anonymousBase = "urn:jsonschema:anonymous"
	c := NewCompiler()
	for _, o := range opts {
		o(c)
	}
	base := anonymousBase
	if c.defaultBaseURI != "" {
		base = c.defaultBaseURI
	}
	c.AddResource(base, doc)
	return c.Compile(base)
}

// CompileOption configures a one-shot CompileSchema call.
type CompileOption func(*Compiler)

// WithLoader sets the ResourceLoader used for external $ref targets.
func WithLoader(l ResourceLoader) CompileOption { return func(c *Compiler) { c.SetLoader(l) } }

// WithAssertFormat enables format assertion (see Compiler.AssertFormat).
func WithAssertFormat(on bool) CompileOption { return func(c *Compiler) { c.AssertFormat(on) } }

// WithAssertContent enables contentEncoding assertion (see Compiler.AssertContent).
func WithAssertContent(on bool) CompileOption { return func(c *Compiler) { c.AssertContent(on) } }

// WithDefaultDialect sets the dialect assumed when a document has no
// $schema keyword.
func WithDefaultDialect(d dialectTag) CompileOption {
	return func(c *Compiler) { c.DefaultDialect(d) }
}

// WithDefaultsInjection enables defaults injection for a one-shot
// CompileSchema call (see Compiler.EnableDefaultsInjection).
func WithDefaultsInjection(on bool) CompileOption {
	return func(c *Compiler) { c.EnableDefaultsInjection(on) }
}

// WithDefaultBaseURI sets the retrieval base for a one-shot CompileSchema
// call (see Compiler.DefaultBaseURI).
func WithDefaultBaseURI(uri string) CompileOption {
	return func(c *Compiler) { c.DefaultBaseURI(uri) }
}
