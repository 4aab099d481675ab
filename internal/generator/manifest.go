package generator

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/go-analyze/bulk"
)

// cargoManifest is the part of a Cargo.toml that selects covers features.
type cargoManifest struct {
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

// manifestFeatures returns the sorted features enabled on the covers
// dependency in the manifest at path. A dependency given only as a version
// string enables none.
func manifestFeatures(path string) ([]string, error) {
	var m cargoManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var enabled []string
	for _, deps := range []map[string]any{m.Dependencies, m.DevDependencies} {
		dep, ok := deps[crateName].(map[string]any)
		if !ok {
			continue
		}
		list, _ := dep["features"].([]any)
		for _, f := range list {
			name, ok := f.(string)
			if !ok {
				return nil, fmt.Errorf("%s: feature %v is not a string", path, f)
			}
			enabled = append(enabled, name)
		}
	}
	features := bulk.MapKeysSlice(bulk.SliceToSet(enabled))
	sort.Strings(features)
	return features, nil
}
