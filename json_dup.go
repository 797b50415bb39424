package jsonschema

import (
	"io"

	eng "github.com/reoring/jsonschema/internal/engine"
)

// DuplicateKeyPolicy controls how a duplicate object key in a JSON document
// is treated while loading a schema or instance resource, mirroring
// _examples/reoring-goskema/internal/engine/json_dup_detect.go's
// DuplicateStrictness.
type DuplicateKeyPolicy int

const (
	DuplicateKeyIgnore DuplicateKeyPolicy = iota
	DuplicateKeyWarn
	DuplicateKeyError
)

func (p DuplicateKeyPolicy) engine() eng.DuplicateStrictness {
	switch p {
	case DuplicateKeyError:
		return eng.DupError
	case DuplicateKeyWarn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// DetectJSONDuplicateKeysBytes scans data for duplicate object keys without
// fully decoding it, returning at most maxIssues violations.
func DetectJSONDuplicateKeysBytes(data []byte, policy DuplicateKeyPolicy, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysBytes(data, policy.engine(), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

// DetectJSONDuplicateKeysReader is DetectJSONDuplicateKeysBytes for an
// io.Reader source.
func DetectJSONDuplicateKeysReader(r io.Reader, policy DuplicateKeyPolicy, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysReader(r, policy.engine(), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{
			InstanceLocation: s.Path,
			Keyword:          s.Code,
			Message:          s.Message,
		})
	}
	return iss
}
