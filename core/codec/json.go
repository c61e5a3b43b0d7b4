package codec

import (
	"fmt"

	"scene-mirror/core/proxy"

	"github.com/cespare/xxhash/v2"
	"github.com/ohler55/ojg/oj"
)

// sorted writes object keys in order so equal trees give equal bytes.
var sorted = &oj.Options{Sort: true}

// Marshal encodes a proxy tree as JSON with sorted keys.
func Marshal(p proxy.Proxy) ([]byte, error) {
	data, err := oj.Marshal(Encode(p), sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proxy: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a proxy tree written by Marshal.
func Unmarshal(data []byte) (proxy.Proxy, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proxy: %w", err)
	}
	return Decode(v)
}

// Fingerprint returns a content hash of a proxy tree, as 16 hex digits.
// Structurally equal trees share a fingerprint, entity identifiers included.
func Fingerprint(p proxy.Proxy) (string, error) {
	data, err := Marshal(p)
	if err != nil {
		return "", err
	}
	return FingerprintBytes(data), nil
}

// FingerprintBytes hashes an already marshaled tree.
func FingerprintBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
