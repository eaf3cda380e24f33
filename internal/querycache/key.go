package querycache

import (
	"encoding/json"
	"strings"
)

// Key identifies a cached query as an ordered list of parts, e.g.
// Key{"articles", "recent", 7, 100}. Parts must be JSON encodable.
type Key []any

// String returns the canonical JSON encoding of k.
func (k Key) String() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		// unencodable parts still get a stable, distinct key
		return `["!invalid"]`
	}
	return string(b)
}

// Resource is the first part, used as a metrics label.
func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	if s, ok := k[0].(string); ok {
		return s
	}
	return "unknown"
}

// prefixStem is the encoding of prefix without its closing bracket. A key
// matches when it starts with the stem followed by ',' or ']'.
func prefixStem(prefix Key) string {
	return strings.TrimSuffix(prefix.String(), "]")
}

func matchesStem(key, stem string) bool {
	if !strings.HasPrefix(key, stem) || len(key) == len(stem) {
		return false
	}
	if stem == "[" {
		return true
	}
	next := key[len(stem)]
	return next == ',' || next == ']'
}

// HasPrefix reports whether k starts with every part of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	return matchesStem(k.String(), prefixStem(prefix))
}
