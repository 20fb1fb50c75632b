package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a stage-prefixed cache key ("probe:<hash>", "layout:<hash>",
// "artifact:<hash>") from the parts that identify the cached computation.
// Parts are JSON-encoded before hashing so numeric options and strings mix
// without delimiter ambiguity; the full SHA-256 digest rules out collisions
// between photo sets.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	digest := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(digest[:]))
}

// Hash returns the SHA-256 digest of data as a 64-character hex string. It
// is the content hash used for album items and layout documents throughout
// the pipeline.
func Hash(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}
