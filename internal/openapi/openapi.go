// Package openapi serves the machine-readable API description. The JSON
// variant rewrites its server URL from the inbound request so the document is
// portable across deployments; the YAML variant is a pre-authored file served
// verbatim.
package openapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed openapi.json
var specJSON []byte

var (
	parseOnce sync.Once
	parsed    map[string]any
	parseErr  error
)

// Document returns the API description with its server list pointing at
// baseURL. The embedded template is parsed once; each call returns a fresh
// top-level map so callers never share the servers entry.
func Document(baseURL string) (map[string]any, error) {
	parseOnce.Do(func() {
		parseErr = json.Unmarshal(specJSON, &parsed)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse embedded openapi spec: %w", parseErr)
	}

	doc := make(map[string]any, len(parsed)+1)
	for k, v := range parsed {
		doc[k] = v
	}
	doc["servers"] = []any{
		map[string]any{
			"url":         baseURL,
			"description": "current deployment",
		},
	}
	return doc, nil
}
