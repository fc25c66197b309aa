// Package host models the dynamic values and rendering context exposed by the
// host environment.
//
// Host values are plain Go values: nil (null), Undefined, bool, numbers,
// string, []byte, Buffer implementations such as View, []any, *Object and
// map[string]any. Byte slices handed to a host method are only valid for the
// duration of that call.
package host

import "sort"

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined is the host's "no value" marker, distinct from null (nil).
var Undefined UndefinedType

// Buffer is a host binary buffer. Bytes returns the backing storage.
type Buffer interface {
	Bytes() []byte
}

// ViewKind is the element type of a typed array view.
type ViewKind uint8

const (
	Uint8 ViewKind = iota
	Uint16
	Uint32
	Int32
	Float32
)

// ElementSize returns the size of one element in bytes.
func (k ViewKind) ElementSize() int {
	if k == Uint8 {
		return 1
	}
	if k == Uint16 {
		return 2
	}
	return 4
}

func (k ViewKind) String() string {
	switch k {
	case Uint8:
		return "Uint8Array"
	case Uint16:
		return "Uint16Array"
	case Uint32:
		return "Uint32Array"
	case Int32:
		return "Int32Array"
	case Float32:
		return "Float32Array"
	default:
		return "TypedArray"
	}
}

// View is a typed array over engine-provided bytes.
type View struct {
	Data []byte
	Kind ViewKind
}

func (v View) Bytes() []byte { return v.Data }

// Len returns the number of elements in the view.
func (v View) Len() int { return len(v.Data) / v.Kind.ElementSize() }

// Object is a host object with ordered own properties.
type Object struct {
	values map[string]any
	keys   []string
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set assigns a property. Re-assigning keeps the original key position.
func (o *Object) Set(key string, v any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

// Get returns a property.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns own property names in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of own properties.
func (o *Object) Len() int { return len(o.keys) }

// SortedKeys returns the keys of m in sorted order, the enumeration order
// used for plain Go maps.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Func is a host method.
type Func func(args ...any) (any, error)

// Context is a host rendering context exposing named methods.
type Context interface {
	Method(name string) (Func, bool)
}

// Surface is the host drawing target.
type Surface interface {
	// GetContext acquires a rendering context of the given kind, e.g. "webgl".
	GetContext(kind string) (Context, error)

	// Property reads a surface property such as "width" or "height".
	Property(name string) (any, error)
}

// Methods is a Context backed by a map.
type Methods map[string]Func

func (m Methods) Method(name string) (Func, bool) {
	f, ok := m[name]
	return f, ok
}

// Number converts a host number to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
