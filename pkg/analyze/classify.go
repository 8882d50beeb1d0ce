package analyze

import (
	"strings"

	"github.com/matzehuels/bundlescope/pkg/bundle"
)

// DefaultVendorMarker marks modules that come from installed packages.
const DefaultVendorMarker = "node_modules"

// Classification partitions a module set into application and library
// modules. Both slices keep the input order.
type Classification struct {
	Application []bundle.Module
	Library     []bundle.Module
}

// IsLibrary reports whether m's verbose name contains marker anywhere. The
// test is a plain substring match, not a path-segment match.
func IsLibrary(m bundle.Module, marker string) bool {
	return strings.Contains(m.VerboseName, marker)
}

// Classify splits modules by [IsLibrary]. An empty marker uses
// [DefaultVendorMarker].
func Classify(modules []bundle.Module, marker string) Classification {
	if marker == "" {
		marker = DefaultVendorMarker
	}
	c := Classification{
		Application: []bundle.Module{},
		Library:     []bundle.Module{},
	}
	for _, m := range modules {
		if IsLibrary(m, marker) {
			c.Library = append(c.Library, m)
		} else {
			c.Application = append(c.Application, m)
		}
	}
	return c
}
