package variant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/mpvbridge/errors"
)

// Kind is the tag of a Node.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt64
	KindDouble
	KindString
	KindByteArray
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindByteArray:
		return "byte-array"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Owner identifies the domain responsible for releasing a Node.
type Owner uint8

const (
	// OwnerBridge nodes are built by this package and released with Release.
	OwnerBridge Owner = iota
	// OwnerEngine nodes come from the engine and are released through the
	// engine's own free call.
	OwnerEngine
)

func (o Owner) String() string {
	if o == OwnerEngine {
		return "engine"
	}
	return "bridge"
}

// Node is a tagged engine value. Array and Map nodes own their children.
type Node struct {
	s        string
	bytes    []byte
	children []*Node
	keys     []string
	i        int64
	d        float64
	kind     Kind
	b        bool
	owner    Owner
	released bool
}

func None() *Node { return &Node{kind: KindNone} }

func Bool(v bool) *Node { return &Node{kind: KindBool, b: v} }

func Int64(v int64) *Node { return &Node{kind: KindInt64, i: v} }

func Double(v float64) *Node { return &Node{kind: KindDouble, d: v} }

func String(v string) *Node { return &Node{kind: KindString, s: v} }

// ByteArray copies v.
func ByteArray(v []byte) *Node {
	return &Node{kind: KindByteArray, bytes: append([]byte{}, v...)}
}

// Array takes ownership of items.
func Array(items ...*Node) *Node {
	return &Node{kind: KindArray, children: items}
}

// Entry is a key/value pair of a Map.
type Entry struct {
	Value *Node
	Key   string
}

// Map builds a map node. A repeated key replaces the earlier value in place.
func Map(entries ...Entry) *Node {
	n := &Node{kind: KindMap}
	for _, e := range entries {
		n.put(e.Key, e.Value)
	}
	return n
}

func (n *Node) put(key string, v *Node) {
	for i, k := range n.keys {
		if k == key {
			n.children[i] = v
			return
		}
	}
	n.keys = append(n.keys, key)
	n.children = append(n.children, v)
}

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) Owner() Owner { return n.owner }

func (n *Node) AsBool() bool { return n.b }

func (n *Node) AsInt64() int64 { return n.i }

func (n *Node) AsDouble() float64 { return n.d }

func (n *Node) AsString() string { return n.s }

func (n *Node) AsBytes() []byte { return n.bytes }

// Len returns the number of children of an Array or Map.
func (n *Node) Len() int { return len(n.children) }

// At returns the i-th child of an Array or Map.
func (n *Node) At(i int) *Node { return n.children[i] }

// KeyAt returns the i-th key of a Map.
func (n *Node) KeyAt(i int) string { return n.keys[i] }

// Get returns the value for key in a Map.
func (n *Node) Get(key string) (*Node, bool) {
	if n.kind != KindMap {
		return nil, false
	}
	for i, k := range n.keys {
		if k == key {
			return n.children[i], true
		}
	}
	return nil, false
}

// Released reports whether the node has been freed.
func (n *Node) Released() bool { return n.released }

func (n *Node) String() string {
	var b strings.Builder
	n.format(&b)
	return b.String()
}

func (n *Node) format(b *strings.Builder) {
	switch n.kind {
	case KindNone:
		b.WriteString("none")
	case KindBool:
		b.WriteString(strconv.FormatBool(n.b))
	case KindInt64:
		b.WriteString(strconv.FormatInt(n.i, 10))
	case KindDouble:
		b.WriteString(strconv.FormatFloat(n.d, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(n.s))
	case KindByteArray:
		fmt.Fprintf(b, "bytes[%d]", len(n.bytes))
	case KindArray:
		b.WriteByte('[')
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.format(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n.keys[i])
			b.WriteString(": ")
			c.format(b)
		}
		b.WriteByte('}')
	}
}

// Equal reports whether two trees have the same structure and values.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNone:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt64:
		return a.i == b.i
	case KindDouble:
		return a.d == b.d
	case KindString:
		return a.s == b.s
	case KindByteArray:
		return string(a.bytes) == string(b.bytes)
	case KindArray, KindMap:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if a.kind == KindMap && a.keys[i] != b.keys[i] {
				return false
			}
			if !Equal(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Adopt marks a tree as owned by owner. Engines call it with OwnerEngine on
// values they hand out so that only their free call may release them.
func Adopt(n *Node, owner Owner) *Node {
	n.walk(func(c *Node) { c.owner = owner })
	return n
}

// Release frees a bridge-owned tree. Every node is released exactly once;
// a second release or an engine-owned tree is an error.
func Release(n *Node) error {
	return ReleaseOwned(n, OwnerBridge)
}

// ReleaseOwned frees a tree owned by owner. Engine implementations use it
// from their free call with OwnerEngine.
func ReleaseOwned(n *Node, owner Owner) error {
	if n == nil {
		return nil
	}
	if n.owner != owner {
		return errors.Ownership(fmt.Sprintf("%s-owned value released by %s", n.owner, owner))
	}
	if n.released {
		return errors.Ownership("value released twice")
	}
	n.walk(func(c *Node) {
		c.released = true
		c.bytes = nil
	})
	return nil
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		if c != nil {
			c.walk(fn)
		}
	}
}

// Clone returns a bridge-owned deep copy of n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{kind: n.kind, b: n.b, i: n.i, d: n.d, s: n.s}
	if n.bytes != nil {
		c.bytes = append([]byte(nil), n.bytes...)
	}
	if n.keys != nil {
		c.keys = append([]string(nil), n.keys...)
	}
	if n.children != nil {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = Clone(child)
		}
	}
	return c
}
