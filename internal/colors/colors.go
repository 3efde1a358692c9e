// Package colors assigns stable chart colors to reviewers. The registry is
// built once from the sorted reviewer list, evenly spacing hues around the
// color wheel, so series colors are reproducible across runs instead of
// depending on encounter order in a shared mutable map.
package colors

import (
	"fmt"
	"sort"
)

const (
	hueDegrees = 360
	saturation = 85
	lightness  = 50
)

// FallbackColor is used for names the registry was not built with.
const FallbackColor = "#1890FF"

// Registry maps reviewer names to CSS color strings.
type Registry struct {
	byName map[string]string
}

// NewRegistry builds a registry for the given names. The input is copied and
// sorted before hue assignment; duplicate names collapse to one slot.
func NewRegistry(names []string) *Registry {
	unique := make(map[string]struct{}, len(names))
	for _, name := range names {
		unique[name] = struct{}{}
	}

	sorted := make([]string, 0, len(unique))
	for name := range unique {
		sorted = append(sorted, name)
	}

	sort.Strings(sorted)

	byName := make(map[string]string, len(sorted))
	for i, name := range sorted {
		byName[name] = hsl(i, len(sorted))
	}

	return &Registry{byName: byName}
}

// Color returns the color assigned to name, or FallbackColor for unknown
// names.
func (r *Registry) Color(name string) string {
	c, ok := r.byName[name]
	if !ok {
		return FallbackColor
	}

	return c
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.byName)
}

func hsl(index, total int) string {
	if total == 0 {
		return FallbackColor
	}

	hue := (index * (hueDegrees / total)) % hueDegrees

	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, saturation, lightness)
}
