// ABOUTME: Registry of per-version layouts
// ABOUTME: Decoder packages register at init; callers look up the layout for a detected version

package layout

import (
	"fmt"
	"sort"
	"sync"
)

// layoutRegistry holds registered layouts
type layoutRegistry struct {
	mu      sync.RWMutex
	layouts map[Version]Layout
}

// Global registry instance
var registry = &layoutRegistry{
	layouts: make(map[Version]Layout),
}

// Register binds a layout to a version, replacing any earlier registration
func Register(v Version, l Layout) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.layouts[v] = l
}

// Lookup returns the layout registered for v
func Lookup(v Version) (Layout, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	l, ok := registry.layouts[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	return l, nil
}

// Versions returns every registered version in ascending order
func Versions() []Version {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	versions := make([]Version, 0, len(registry.layouts))
	for v := range registry.layouts {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}
