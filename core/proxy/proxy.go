package proxy

import (
	"fmt"
	"strconv"
)

// NodeKind tags the variants of the proxy tree.
type NodeKind uint8

const (
	KindStruct NodeKind = iota
	KindEntity
	KindReference
	KindStructCollection
	KindDataCollection
	KindSoaElement
	KindAosElement
	KindRoot
)

var nodeKindNames = [...]string{
	KindStruct:           "struct",
	KindEntity:           "entity",
	KindReference:        "reference",
	KindStructCollection: "struct_collection",
	KindDataCollection:   "data_collection",
	KindSoaElement:       "soa_element",
	KindAosElement:       "aos_element",
	KindRoot:             "root",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("node(%d)", uint8(k))
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, bool) {
	for i, name := range nodeKindNames {
		if name == s {
			return NodeKind(i), true
		}
	}
	return 0, false
}

// Proxy is a node of the detached proxy tree.
//
// The variant set is closed: *StructProxy, *EntityProxy, *ReferenceProxy,
// *StructCollectionProxy, *DataCollectionProxy, *SoaElement, *AosElement and *Root.
type Proxy interface {
	// Kind returns the variant tag.
	Kind() NodeKind
	// Equal reports structural equality: same variant and pairwise-equal contents.
	Equal(other Proxy) bool
	// Save writes the node onto the live destination found under key in target.
	// Failures are reported as diagnostics on w and never returned.
	Save(w *Writer, target any, key Key)
}

// Key addresses a destination inside a live container: an attribute or item name,
// or a sequence index.
type Key struct {
	Name    string
	Index   int
	indexed bool
}

// NameKey addresses an attribute or a keyed collection item.
func NameKey(name string) Key {
	return Key{Name: name}
}

// IndexKey addresses an element of a sequence.
func IndexKey(i int) Key {
	return Key{Index: i, indexed: true}
}

// IsIndex reports whether the key is a sequence index.
func (k Key) IsIndex() bool {
	return k.indexed
}

func (k Key) String() string {
	if k.indexed {
		return "[" + strconv.Itoa(k.Index) + "]"
	}
	return k.Name
}
