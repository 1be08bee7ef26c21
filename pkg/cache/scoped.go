package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Keys for the staging server
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// ToolKey generates a prefixed key for tool results.
func (k *ScopedKeyer) ToolKey(tool, argsHash string) string {
	return k.prefix + k.inner.ToolKey(tool, argsHash)
}

// PreviewKey generates a prefixed key for previews.
func (k *ScopedKeyer) PreviewKey(graphHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(graphHash, opts)
}
