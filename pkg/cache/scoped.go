package cache

// ScopedKeyer wraps a Keyer with a prefix so that separate consumers of a
// shared backend (the CLI and the API server on one Redis, for instance)
// never read each other's entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// TableKey generates a prefixed table key.
func (k *ScopedKeyer) TableKey(kind, contentHash string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(kind, contentHash, opts)
}
