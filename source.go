package jsonschema

import (
	"io"
	"sync"

	eng "github.com/reoring/jsonschema/internal/engine"
	jsonsrc "github.com/reoring/jsonschema/source/json"
)

// NumberMode controls how a decoded document represents JSON numbers. The
// compiler and evaluator both accept either representation (values.go's
// toBigFloat/jsonKind handle both), so this only matters to callers who
// inspect decoded documents directly.
type NumberMode int

const (
	// NumberJSONNumber decodes numbers as json.Number, preserving the
	// source literal exactly (the default, matching
	// encoding/json.Decoder.UseNumber()).
	NumberJSONNumber NumberMode = iota
	// NumberFloat64 decodes numbers as float64.
	NumberFloat64
)

// Source abstracts over a streaming JSON token source, decoupling document
// loading from any one JSON decoder implementation. Grounded on
// _examples/reoring-goskema/source.go, trimmed to the one thing this
// package actually needs a pluggable decoder for: turning raw JSON bytes
// into the `any` trees that Compile/AddResource and instance Validate
// calls consume.
type Source interface {
	NextToken() (Token, error)
	NumberMode() NumberMode
	Location() int64
}

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token describes one token in the input stream.
type Token struct {
	Kind   TokenKind
	String string
	Number string
	Bool   bool
	Offset int64
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The
// default implementation wraps encoding/json; source/gojson's Driver()
// (enabled with the `gojson` build tag) swaps in goccy/go-json instead.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil is ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewReader(r), numMode: NumberJSONNumber}
}
func (defaultJSONDriver) NewBytes(b []byte) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewBytes(b), numMode: NumberJSONNumber}
}
func (defaultJSONDriver) Name() string { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source using the active driver.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source using the active driver.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an engine.TokenSource as a Source.
func SourceFromEngine(inner eng.TokenSource, mode NumberMode) Source {
	return &engineSourceAdapter{inner: inner, numMode: mode}
}

// DecodeDocument reads one complete JSON value from src into Go values
// (map[string]any, []any, string, json.Number or float64, bool, nil) —
// the representation both the compiler (builder.go) and the evaluator
// (node.go) operate on.
func DecodeDocument(src Source) (any, error) {
	engSrc := engineTokenSourceFrom(src)
	if src.NumberMode() == NumberFloat64 {
		return eng.DecodeAnyFromSourceAsFloat64(engSrc)
	}
	return eng.DecodeAnyFromSource(engSrc)
}

// DecodeJSONReader decodes one JSON document from r using the active
// JSONDriver.
func DecodeJSONReader(r io.Reader) (any, error) { return DecodeDocument(JSONReader(r)) }

// DecodeJSONBytes decodes one JSON document from b using the active
// JSONDriver.
func DecodeJSONBytes(b []byte) (any, error) { return DecodeDocument(JSONBytes(b)) }

// engineTokenSourceFrom adapts a public Source back into an engine.TokenSource,
// unwrapping the fast path when src already wraps one.
func engineTokenSourceFrom(src Source) eng.TokenSource {
	if ea, ok := src.(*engineSourceAdapter); ok {
		return ea.inner
	}
	return &sourceToEngineAdapter{s: src}
}

type sourceToEngineAdapter struct{ s Source }

func (a *sourceToEngineAdapter) NextToken() (eng.Token, error) {
	t, err := a.s.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: toEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (a *sourceToEngineAdapter) Location() int64 { return a.s.Location() }

func toEngineKind(k TokenKind) eng.Kind {
	switch k {
	case TokenBeginObject:
		return eng.KindBeginObject
	case TokenEndObject:
		return eng.KindEndObject
	case TokenBeginArray:
		return eng.KindBeginArray
	case TokenEndArray:
		return eng.KindEndArray
	case TokenKey:
		return eng.KindKey
	case TokenString:
		return eng.KindString
	case TokenNumber:
		return eng.KindNumber
	case TokenBool:
		return eng.KindBool
	default:
		return eng.KindNull
	}
}

type engineSourceAdapter struct {
	inner   eng.TokenSource
	numMode NumberMode
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: fromEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSourceAdapter) NumberMode() NumberMode { return s.numMode }
func (s *engineSourceAdapter) Location() int64        { return s.inner.Location() }

func fromEngineKind(k eng.Kind) TokenKind {
	switch k {
	case eng.KindBeginObject:
		return TokenBeginObject
	case eng.KindEndObject:
		return TokenEndObject
	case eng.KindBeginArray:
		return TokenBeginArray
	case eng.KindEndArray:
		return TokenEndArray
	case eng.KindKey:
		return TokenKey
	case eng.KindString:
		return TokenString
	case eng.KindNumber:
		return TokenNumber
	case eng.KindBool:
		return TokenBool
	default:
		return TokenNull
	}
}
