package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several studies or tenants
// can share one Redis instance without colliding.
//
// Example usage:
//
//	// Per-study keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "study:gift-exchange:")
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

// ReportKey generates a prefixed key for report caching.
func (k *ScopedKeyer) ReportKey(fingerprint string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(fingerprint, opts)
}

// SampleKey generates a prefixed key for sample caching.
func (k *ScopedKeyer) SampleKey(fingerprint string, opts SampleKeyOpts) string {
	return k.prefix + k.inner.SampleKey(fingerprint, opts)
}
