package cache

// ScopedKeyer wraps a Keyer with a prefix so several tools or deployments
// can share one Redis database.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "bundlescope:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// ModulesKey generates a prefixed module set key.
func (k *ScopedKeyer) ModulesKey(stamp BundleStamp, opts ModulesKeyOpts) string {
	return k.prefix + k.inner.ModulesKey(stamp, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(modulesHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(modulesHash, opts)
}
