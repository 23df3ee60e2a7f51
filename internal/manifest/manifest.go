// Package manifest loads the optional YAML file that drives a `tripc link`
// invocation: which object files to link, in what order, and under what
// module aliases, instead of repeating `.tripc` paths on the command line.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModuleRef names one object file to link, with an optional alias used to
// rename its module in the global namespace (§4.8 ambiguous-export
// avoidance: two object files built under the same module name can be
// linked side by side if one is aliased).
type ModuleRef struct {
	Path string `yaml:"path"`
	As   string `yaml:"as,omitempty"`
}

// LinkManifest is the top-level shape of a link manifest YAML file.
type LinkManifest struct {
	Modules []ModuleRef `yaml:"modules"`
	// Main overrides which qualified Module.symbol the linker extracts as
	// the program entry point; empty means "search exports for main".
	Main    string `yaml:"main,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Load reads and validates a link manifest from path.
func Load(path string) (*LinkManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to read %s: %w", path, err)
	}
	var m LinkManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: failed to parse %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the manifest names at least one module and that
// every module entry has a non-empty path.
func (m *LinkManifest) Validate() error {
	if len(m.Modules) == 0 {
		return fmt.Errorf("manifest lists no modules")
	}
	seen := make(map[string]bool, len(m.Modules))
	for i, ref := range m.Modules {
		if ref.Path == "" {
			return fmt.Errorf("modules[%d] missing path", i)
		}
		key := ref.As
		if key == "" {
			key = ref.Path
		}
		if seen[key] {
			return fmt.Errorf("modules[%d]: duplicate alias/path %q", i, key)
		}
		seen[key] = true
	}
	return nil
}

// Paths returns the object-file paths to link, in manifest order.
func (m *LinkManifest) Paths() []string {
	paths := make([]string, len(m.Modules))
	for i, ref := range m.Modules {
		paths[i] = ref.Path
	}
	return paths
}

// Alias returns the module-name override for path, if the manifest declared
// one via `as`.
func (m *LinkManifest) Alias(path string) (string, bool) {
	for _, ref := range m.Modules {
		if ref.Path == path && ref.As != "" {
			return ref.As, true
		}
	}
	return "", false
}
