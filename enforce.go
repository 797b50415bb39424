package jsonschema

import eng "github.com/reoring/jsonschema/internal/engine"

// EnforceOptions bounds a decode pass: duplicate-key policy, nesting depth,
// and byte budget, all enforced while tokens are streamed rather than after
// the whole document has been buffered.
type EnforceOptions struct {
	OnDuplicate DuplicateKeyPolicy
	MaxDepth    int
	MaxBytes    int64
	FailFast    bool
}

// EnforceSource wraps src so that DecodeDocument (or any other consumer that
// reads tokens from it) rejects documents that violate opts as soon as the
// offending token is read, instead of only after the full value has been
// decoded.
func EnforceSource(src Source, opts EnforceOptions) Source {
	inner := engineTokenSourceFrom(src)
	wrapped := eng.WrapWithEnforcement(inner, eng.EnforceOptions{
		OnDuplicate: opts.OnDuplicate.engine(),
		MaxDepth:    opts.MaxDepth,
		MaxBytes:    opts.MaxBytes,
		FailFast:    opts.FailFast,
	})
	return SourceFromEngine(wrapped, src.NumberMode())
}
