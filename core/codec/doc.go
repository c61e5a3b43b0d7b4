// Package codec converts proxy trees to and from a generic tagged form and JSON.
//
// Encode produces nested maps and lists where every proxy node carries its
// variant under the "$kind" key, so Decode can rebuild the exact tree. Values
// whose Go type JSON would lose, floats and typed arrays, are tagged as well.
// Marshal and Unmarshal wrap the generic form with sorted-key JSON, and
// Fingerprint hashes that output, which makes it stable for equal trees.
//
// View is the read-only counterpart used for display and JSONPath queries:
//
//	values, err := codec.Query(root, "$.materials.Red.roughness")
//
// The encoding is not meant to be stable across versions.
package codec
