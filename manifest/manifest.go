package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Details holds the package.json fields the analyzer consumes. Fields
// whose shape varies between packages (exports, browser, bin) are kept
// as decoded JSON values and interpreted by the consumer.
type Details struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description,omitempty"`
	Main        string            `json:"main,omitempty"`
	Module      string            `json:"module,omitempty"`
	Types       string            `json:"types,omitempty"`
	Browser     any               `json:"browser,omitempty"`
	Exports     any               `json:"exports,omitempty"`
	Type        string            `json:"type,omitempty"`
	License     string            `json:"license,omitempty"`
	Bin         any               `json:"bin,omitempty"`
	Scripts     map[string]string `json:"scripts,omitempty"`
	Private     bool              `json:"private,omitempty"`
	SideEffects any               `json:"sideEffects,omitempty"`

	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Load reads and decodes a package.json file. A malformed manifest is a
// genuine error: the caller located the package on disk and expected a
// parseable manifest there.
func Load(path string) (*Details, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var details Details
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return &details, nil
}

// HasBin reports whether the manifest declares any executable entries.
func (d *Details) HasBin() bool {
	return d.Bin != nil
}
