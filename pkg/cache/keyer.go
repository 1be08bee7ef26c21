package cache

import "strings"

// Entry kinds. Every key built by [DefaultKeyer] starts with one of these.
const (
	KindTool    = "tool"
	KindPreview = "preview"
	KindOther   = "other"
)

// Keyer builds cache keys.
type Keyer interface {
	// ToolKey identifies the result of running tool with the given
	// canonical argument hash.
	ToolKey(tool, argsHash string) string

	// PreviewKey identifies a rendered graph preview.
	PreviewKey(graphHash string, opts PreviewKeyOpts) string
}

// PreviewKeyOpts are the preview options that affect the rendered output.
type PreviewKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ToolKey implements Keyer.
func (DefaultKeyer) ToolKey(tool, argsHash string) string {
	return hashKey(KindTool, tool, argsHash)
}

// PreviewKey implements Keyer.
func (DefaultKeyer) PreviewKey(graphHash string, opts PreviewKeyOpts) string {
	return hashKey(KindPreview, graphHash, opts)
}

// KeyKind returns the entry kind of key: the segment just before the
// trailing hash, so "tool:<sha>" and "staging:tool:<sha>" are both
// "tool". Keys with no recognisable kind are [KindOther].
func KeyKind(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return KindOther
	}
	kind := key[:i]
	if j := strings.LastIndexByte(kind, ':'); j >= 0 {
		kind = kind[j+1:]
	}
	if kind == "" || strings.IndexFunc(kind, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '-' || r == '_')
	}) >= 0 {
		return KindOther
	}
	return kind
}
