package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several tools or
// engine versions can share one Redis instance without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "colgrid:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey implements Keyer.
func (k *ScopedKeyer) ResultKey(scenarioHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(scenarioHash, opts)
}

// ExportKey implements Keyer.
func (k *ScopedKeyer) ExportKey(resultHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(resultHash, opts)
}
