package jsonschema

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FormatFunc reports whether s satisfies a named string format. Registered
// via RegisterFormat; the built-in set below covers every format spec.md
// §2's "format" keyword names.
type FormatFunc func(s string) bool

var formatRegistry = map[string]FormatFunc{
	"date-time":             isRFC3339DateTime,
	"date":                  isRFC3339Date,
	"time":                  isRFC3339Time,
	"duration":              isISO8601Duration,
	"email":                 isEmail,
	"idn-email":             isEmail,
	"hostname":              isHostname,
	"idn-hostname":          isHostname,
	"ipv4":                  isIPv4,
	"ipv6":                  isIPv6,
	"uri":                   isURI,
	"uri-reference":         isURIReference,
	"iri":                   isURI,
	"iri-reference":         isURIReference,
	"uuid":                  isUUID,
	"regex":                 isValidRegex,
	"json-pointer":          isJSONPointer,
	"relative-json-pointer": isRelativeJSONPointer,
	"uri-template":          isURIReference,
}

// RegisterFormat installs or overrides a named format predicate. Compilers
// created after the call pick it up via NewCompiler's default registry
// snapshot.
func RegisterFormat(name string, fn FormatFunc) {
	formatRegistry[name] = fn
}

func lookupFormat(name string) (FormatFunc, bool) {
	fn, ok := formatRegistry[name]
	return fn, ok
}

// isRFC3339DateTime and isRFC3339Date/Time are grounded on
// _examples/reoring-goskema/codec/rfc3339.go's parseRFC3339, which tries
// RFC3339Nano then falls back to RFC3339; JSON Schema's date-time format
// is RFC 3339 §5.6, a stricter subset of RFC 3339 than time.RFC3339Nano
// alone captures for the "Z or numeric offset, never both, and a lowercase
// or uppercase T/Z" edge cases, but that subset is what real-world schemas
// exercise and what the teacher's own parser accepts.
func isRFC3339DateTime(s string) bool {
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func isRFC3339Date(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func isRFC3339Time(s string) bool {
	for _, layout := range []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

var durationRe = regexp.MustCompile(`^P(?:\d+W|(?:\d+Y)?(?:\d+M)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:\.\d+)?S)?)?)$`)

func isISO8601Duration(s string) bool {
	if s == "" || s == "P" {
		return false
	}
	return durationRe.MatchString(s)
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

var hostnameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func isHostname(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	return hostnameRe.MatchString(s)
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && !strings.Contains(s, ":")
}

func isIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() == nil && strings.Contains(s, ":")
}

func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func isURIReference(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}

var uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func isUUID(s string) bool { return uuidRe.MatchString(s) }

func isValidRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}

func isJSONPointer(s string) bool {
	if s == "" {
		return true
	}
	if !strings.HasPrefix(s, "/") {
		return false
	}
	for _, tok := range strings.Split(s[1:], "/") {
		if strings.Contains(tok, "~") {
			ok := true
			for i := 0; i < len(tok); i++ {
				if tok[i] == '~' && (i+1 >= len(tok) || (tok[i+1] != '0' && tok[i+1] != '1')) {
					ok = false
					break
				}
			}
			if !ok {
				return false
			}
		}
	}
	return true
}

func isRelativeJSONPointer(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	rest := s[i:]
	if rest == "#" {
		return true
	}
	return isJSONPointer(rest)
}
