package variant

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/host"
)

// HostKey translates an engine property name to the host's form by swapping
// underscores and hyphens.
func HostKey(k string) string { return swapSeparators(k) }

// EngineKey is the inverse of HostKey.
func EngineKey(k string) string { return swapSeparators(k) }

func swapSeparators(k string) string {
	if strings.IndexByte(k, '_') < 0 && strings.IndexByte(k, '-') < 0 {
		return k
	}
	b := []byte(k)
	for i, c := range b {
		switch c {
		case '_':
			b[i] = '-'
		case '-':
			b[i] = '_'
		}
	}
	return string(b)
}

// ToHost converts an engine value to a host value. Strings with malformed
// bytes are decoded best-effort, byte arrays are copied, and map keys pass
// through HostKey.
func ToHost(n *Node) any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindBool:
		return n.b
	case KindInt64:
		return float64(n.i)
	case KindDouble:
		return n.d
	case KindString:
		return strings.ToValidUTF8(n.s, string(utf8.RuneError))
	case KindByteArray:
		return append([]byte{}, n.bytes...)
	case KindArray:
		out := make([]any, len(n.children))
		for i, c := range n.children {
			out[i] = ToHost(c)
		}
		return out
	case KindMap:
		obj := host.NewObject()
		for i, c := range n.children {
			obj.Set(HostKey(n.keys[i]), ToHost(c))
		}
		return obj
	default:
		return nil
	}
}

// FromHost converts a host value to a bridge-owned engine value.
func FromHost(v any) (*Node, error) {
	return fromHost(v, nil)
}

func fromHost(v any, path []string) (*Node, error) {
	switch x := v.(type) {
	case nil, host.UndefinedType:
		return None(), nil
	case bool:
		return Bool(x), nil
	case string:
		if x == "" || !utf8.ValidString(x) {
			return None(), nil
		}
		return String(x), nil
	case float64:
		return number(x), nil
	case float32:
		return number(float64(x)), nil
	case int:
		return Int64(int64(x)), nil
	case int8:
		return Int64(int64(x)), nil
	case int16:
		return Int64(int64(x)), nil
	case int32:
		return Int64(int64(x)), nil
	case int64:
		return Int64(x), nil
	case uint8:
		return Int64(int64(x)), nil
	case uint16:
		return Int64(int64(x)), nil
	case uint32:
		return Int64(int64(x)), nil
	case uint:
		return unsigned(uint64(x)), nil
	case uint64:
		return unsigned(x), nil
	case []byte:
		return ByteArray(x), nil
	case host.Buffer:
		return ByteArray(x.Bytes()), nil
	case []any:
		items := make([]*Node, len(x))
		for i, e := range x {
			c, err := fromHost(e, appendPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			items[i] = c
		}
		return Array(items...), nil
	case *host.Object:
		n := &Node{kind: KindMap}
		for _, k := range x.Keys() {
			e, _ := x.Get(k)
			c, err := fromHost(e, appendPath(path, k))
			if err != nil {
				return nil, err
			}
			n.put(EngineKey(k), c)
		}
		return n, nil
	case map[string]any:
		n := &Node{kind: KindMap}
		for _, k := range host.SortedKeys(x) {
			c, err := fromHost(x[k], appendPath(path, k))
			if err != nil {
				return nil, err
			}
			n.put(EngineKey(k), c)
		}
		return n, nil
	default:
		return nil, errors.UnsupportedType(path, v)
	}
}

// number maps integral values in 32-bit range to Int64 and everything else
// to Double. Negative zero stays a Double.
func number(f float64) *Node {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 && !(f == 0 && math.Signbit(f)) {
		return Int64(int64(f))
	}
	return Double(f)
}

func unsigned(u uint64) *Node {
	if u > math.MaxInt64 {
		return Double(float64(u))
	}
	return Int64(int64(u))
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}

// EncodeCommand encodes a command and its arguments. A single argument is
// converted directly, so it may be a bare name or a pre-built argument list;
// two or more become an Array in order.
func EncodeCommand(args ...any) (*Node, error) {
	switch len(args) {
	case 0:
		return nil, errors.InvalidInput(errors.PhaseConvert, "command: at least one argument is expected")
	case 1:
		return FromHost(args[0])
	}
	items := make([]*Node, len(args))
	for i, a := range args {
		c, err := fromHost(a, []string{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		items[i] = c
	}
	return Array(items...), nil
}
