package jsonschema

import (
	"net/url"
	"strings"
)

// URI is an absolute or relative URI with an optional fragment. Fragment
// equality and kind classification follow spec.md §3: empty, JSON-Pointer
// (begins with "/"), or plain-name anchor (anything else).
//
// Grounded on the resource/anchor split in the reference jsonschema
// implementation (other_examples/santhosh-tekuri-jsonschema__root.go), which
// keeps a base url separate from an in-document jsonPointer or anchor name.
type URI struct {
	base     string // Scheme+authority+path, no fragment.
	fragment string // Raw fragment text, without the leading '#'.
}

// FragmentKind classifies a URI's fragment.
type FragmentKind int

const (
	FragmentEmpty FragmentKind = iota
	FragmentPointer
	FragmentAnchor
)

// ParseURI parses s into a URI, splitting off any fragment.
func ParseURI(s string) (URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URI{}, err
	}
	frag := u.Fragment
	u.Fragment = ""
	return URI{base: u.String(), fragment: frag}, nil
}

// MustParseURI parses s, panicking on error. Reserved for compile-time
// constants (built-in meta-schema URIs) known to be valid.
func MustParseURI(s string) URI {
	u, err := ParseURI(s)
	if err != nil {
		panic("jsonschema: invalid built-in URI " + s + ": " + err.Error())
	}
	return u
}

// Base returns the URI without its fragment.
func (u URI) Base() string { return u.base }

// Fragment returns the raw fragment text (without '#').
func (u URI) Fragment() string { return u.fragment }

// Kind classifies the fragment.
func (u URI) Kind() FragmentKind {
	switch {
	case u.fragment == "":
		return FragmentEmpty
	case strings.HasPrefix(u.fragment, "/"):
		return FragmentPointer
	default:
		return FragmentAnchor
	}
}

// String renders the normalized absolute form: base + "#" + fragment (when
// the fragment is non-empty) or base + "#" (when the URI came with an empty,
// but present, fragment marker). Equality of two URIs is byte-exact on this
// form, per spec.md §3.
func (u URI) String() string {
	if u.fragment == "" {
		return u.base
	}
	return u.base + "#" + u.fragment
}

// WithFragment returns a copy of u with its fragment replaced.
func (u URI) WithFragment(frag string) URI {
	return URI{base: u.base, fragment: frag}
}

// WithPointer returns a copy of u whose fragment is the given JSON Pointer
// (a leading "/" is added if missing and ptr is non-empty).
func (u URI) WithPointer(ptr string) URI {
	if ptr != "" && !strings.HasPrefix(ptr, "/") {
		ptr = "/" + ptr
	}
	return URI{base: u.base, fragment: ptr}
}

// Equal compares two URIs by their normalized string form.
func (u URI) Equal(o URI) bool { return u.String() == o.String() }

// IsZero reports whether u is the zero value.
func (u URI) IsZero() bool { return u.base == "" && u.fragment == "" }

// Resolve implements RFC 3986 reference resolution: resolve ref against
// base, which must itself be absolute (or empty, for the document-relative
// case at the very start of compilation).
func Resolve(base URI, ref string) (URI, error) {
	if ref == "" {
		return base, nil
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return URI{}, err
	}
	if base.base == "" {
		frag := refURL.Fragment
		refURL.Fragment = ""
		return URI{base: refURL.String(), fragment: frag}, nil
	}
	baseURL, err := url.Parse(base.base)
	if err != nil {
		return URI{}, err
	}
	resolved := baseURL.ResolveReference(refURL)
	frag := resolved.Fragment
	resolved.Fragment = ""
	return URI{base: resolved.String(), fragment: frag}, nil
}

// joinJSONPointerSegment appends a single (already-unescaped) token to a
// JSON-Pointer fragment, escaping '~' and '/' per RFC 6901.
func joinJSONPointerSegment(ptr, seg string) string {
	esc := strings.NewReplacer("~", "~0", "/", "~1").Replace(seg)
	return ptr + "/" + esc
}
