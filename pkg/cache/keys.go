package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BundleStamp identifies one version of a bundle file on disk.
type BundleStamp struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Stamp stats the bundle at path. The path is made absolute so the same file
// reached by different relative paths shares cache entries.
func Stamp(path string) (BundleStamp, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return BundleStamp{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return BundleStamp{}, err
	}
	return BundleStamp{Path: abs, Size: info.Size(), ModTime: info.ModTime().UTC()}, nil
}

// ModulesKeyOpts holds the settings that change which modules a bundle
// yields.
type ModulesKeyOpts struct {
	Searcher string `json:"searcher"`
	Command  string `json:"command,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// ArtifactKeyOpts holds the settings that change a rendered graph.
type ArtifactKeyOpts struct {
	Format       string `json:"format"`
	VendorMarker string `json:"vendor_marker"`
	AppOnly      bool   `json:"app_only,omitempty"`
	Detailed     bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ModulesKey is the key of the module set parsed from a bundle.
	ModulesKey(stamp BundleStamp, opts ModulesKeyOpts) string

	// ArtifactKey is the key of a graph rendered from a module set, given
	// the module set's content hash.
	ArtifactKey(modulesHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ModulesKey implements [Keyer].
func (DefaultKeyer) ModulesKey(stamp BundleStamp, opts ModulesKeyOpts) string {
	return hashKey("modules", stamp.Path, stamp.Size, stamp.ModTime.UnixNano(), opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(modulesHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", modulesHash, opts)
}
