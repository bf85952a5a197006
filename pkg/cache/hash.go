package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key prefixes, one per cached product.
const (
	prefixPhotos = "photos"
	prefixCanvas = "canvas"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// PhotosKey is the key for the photo list fetched from baseURL.
func PhotosKey(baseURL string) string {
	return hashKey(prefixPhotos, baseURL)
}

// CanvasKeyOpts are the inputs that change a generated canvas.
type CanvasKeyOpts struct {
	Source string  `json:"source"`
	Count  int     `json:"count"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Seed   uint64  `json:"seed"`
	Grid   bool    `json:"grid,omitempty"`
}

// CanvasKey is the key for a placed canvas. itemsHash identifies the source
// items, so editing a caption or deleting a photo yields a new key.
func CanvasKey(itemsHash string, opts CanvasKeyOpts) string {
	return hashKey(prefixCanvas, itemsHash, opts)
}
