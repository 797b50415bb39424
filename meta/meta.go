// Package meta embeds the JSON Schema core meta-schemas for every
// supported draft, so compilation can resolve $schema/$ref targets that
// point at json-schema.org without network access.
//
// Grounded on the compiler's built-in resource table idea from
// _examples/other_examples/xdavidwu-kube-cgi__compile.go (AddResource
// before Compile) combined with go:embed, the pattern the teacher repo
// uses for packaging static assets (_examples/reoring-goskema/kubeopenapi
// previously shipped CRD fixtures the same way before that package was
// rebuilt).
package meta

import (
	"embed"
	"encoding/json"
)

//go:embed draft4.json draft6.json draft7.json draft2019-09.json draft2020-12.json
var files embed.FS

var uriToFile = map[string]string{
	"http://json-schema.org/draft-04/schema#":      "draft4.json",
	"http://json-schema.org/draft-04/schema":       "draft4.json",
	"http://json-schema.org/draft-06/schema#":      "draft6.json",
	"http://json-schema.org/draft-06/schema":       "draft6.json",
	"http://json-schema.org/draft-07/schema#":      "draft7.json",
	"http://json-schema.org/draft-07/schema":       "draft7.json",
	"https://json-schema.org/draft/2019-09/schema": "draft2019-09.json",
	"https://json-schema.org/draft/2020-12/schema": "draft2020-12.json",
}

// Document returns the decoded meta-schema document registered under uri,
// or ok=false if uri isn't one of the five bundled meta-schemas.
func Document(uri string) (any, bool) {
	name, ok := uriToFile[uri]
	if !ok {
		return nil, false
	}
	raw, err := files.ReadFile(name)
	if err != nil {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// URIs lists every meta-schema URI this package can serve.
func URIs() []string {
	seen := make(map[string]bool)
	var out []string
	for u := range uriToFile {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
