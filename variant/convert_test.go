package variant

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	bridgeerrors "github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/host"
)

func TestToHost(t *testing.T) {
	tree := Map(
		Entry{Key: "time_pos", Value: Double(1.5)},
		Entry{Key: "pause", Value: Bool(true)},
		Entry{Key: "count", Value: Int64(3)},
		Entry{Key: "title", Value: String("a\xffb")},
		Entry{Key: "none", Value: None()},
		Entry{Key: "list", Value: Array(String("x"), Int64(-1))},
	)

	got := ToHost(tree)
	obj, ok := got.(*host.Object)
	if !ok {
		t.Fatalf("ToHost returned %T, want *host.Object", got)
	}

	if diff := cmp.Diff([]string{"time-pos", "pause", "count", "title", "none", "list"}, obj.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"time-pos": 1.5,
		"pause":    true,
		"count":    float64(3),
		"title":    "a\uFFFDb",
		"none":     nil,
		"list":     []any{"x", float64(-1)},
	}
	for k, w := range want {
		v, _ := obj.Get(k)
		if diff := cmp.Diff(w, v); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", k, diff)
		}
	}
}

func TestToHost_CopiesBytes(t *testing.T) {
	n := ByteArray([]byte{1, 2, 3})
	out := ToHost(n).([]byte)
	out[0] = 9
	if n.AsBytes()[0] != 1 {
		t.Error("ToHost aliased engine bytes")
	}
}

func TestFromHost(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *Node
	}{
		{"null", nil, None()},
		{"undefined", host.Undefined, None()},
		{"bool", false, Bool(false)},
		{"empty string", "", None()},
		{"invalid utf8", "a\xffb", None()},
		{"string", "yes", String("yes")},
		{"int32 range", 42.0, Int64(42)},
		{"int32 min", float64(math.MinInt32), Int64(math.MinInt32)},
		{"beyond int32", float64(math.MaxInt32) + 1, Double(float64(math.MaxInt32) + 1)},
		{"fraction", 80.5, Double(80.5)},
		{"negative zero", math.Copysign(0, -1), Double(math.Copysign(0, -1))},
		{"go int", 7, Int64(7)},
		{"go uint64", uint64(5), Int64(5)},
		{"bytes", []byte{1, 2}, ByteArray([]byte{1, 2})},
		{"view", host.View{Kind: host.Uint8, Data: []byte{3}}, ByteArray([]byte{3})},
		{"array", []any{"a", 1.0}, Array(String("a"), Int64(1))},
		{"object", host.NewObject().Set("sub-auto", "no").Set("hwdec", "no"),
			Map(Entry{Key: "sub_auto", Value: String("no")}, Entry{Key: "hwdec", Value: String("no")})},
		{"go map sorted", map[string]any{"b": true, "a": false},
			Map(Entry{Key: "a", Value: Bool(false)}, Entry{Key: "b", Value: Bool(true)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHost(tt.in)
			if err != nil {
				t.Fatalf("FromHost failed: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("FromHost(%v) = %s, want %s", tt.in, got, tt.want)
			}
			if got.Owner() != OwnerBridge {
				t.Errorf("owner = %v, want bridge", got.Owner())
			}
		})
	}
}

func TestFromHost_Unsupported(t *testing.T) {
	_, err := FromHost([]any{1.0, map[string]any{"cb": func() {}}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, &bridgeerrors.Error{Phase: bridgeerrors.PhaseConvert, Kind: bridgeerrors.KindUnsupported}) {
		t.Fatalf("unexpected error: %v", err)
	}
	var e *bridgeerrors.Error
	errors.As(err, &e)
	if diff := cmp.Diff([]string{"1", "cb"}, e.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestKeySymmetry(t *testing.T) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789_-"
	r := rand.New(rand.NewSource(1))
	keys := []string{"", "time_pos", "sub-auto", "__--", "a_b-c"}
	for i := 0; i < 200; i++ {
		b := make([]byte, 1+r.Intn(12))
		for j := range b {
			b[j] = alphabet[r.Intn(len(alphabet))]
		}
		keys = append(keys, string(b))
	}
	for _, k := range keys {
		if got := HostKey(EngineKey(k)); got != k {
			t.Errorf("HostKey(EngineKey(%q)) = %q", k, got)
		}
		if got := EngineKey(HostKey(k)); got != k {
			t.Errorf("EngineKey(HostKey(%q)) = %q", k, got)
		}
	}
	if HostKey("time_pos") != "time-pos" {
		t.Errorf("HostKey(time_pos) = %q", HostKey("time_pos"))
	}
}

// randomTree builds trees whose scalars survive a round trip: Int64 within
// int32 range, non-integral doubles, non-empty valid strings.
func randomTree(r *rand.Rand, depth int) *Node {
	kinds := 7
	if depth == 0 {
		kinds = 5
	}
	switch r.Intn(kinds) {
	case 0:
		return None()
	case 1:
		return Bool(r.Intn(2) == 0)
	case 2:
		return Int64(int64(r.Int31()) - int64(r.Int31()))
	case 3:
		return Double(float64(r.Intn(1000)) + 0.25)
	case 4:
		return String("s" + strconv.Itoa(r.Intn(100)))
	case 5:
		items := make([]*Node, r.Intn(4))
		for i := range items {
			items[i] = randomTree(r, depth-1)
		}
		return Array(items...)
	default:
		n := Map()
		for i := r.Intn(4); i > 0; i-- {
			n.put("key_"+strconv.Itoa(r.Intn(10)), randomTree(r, depth-1))
		}
		return n
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		tree := randomTree(r, 3)
		back, err := FromHost(ToHost(tree))
		if err != nil {
			t.Fatalf("FromHost failed on %s: %v", tree, err)
		}
		if !Equal(tree, back) {
			t.Fatalf("round trip mismatch:\n  in:  %s\n  out: %s", tree, back)
		}
	}
}

func TestRoundTrip_HostFirst(t *testing.T) {
	in := []any{"loadfile", host.NewObject().Set("start-pos", 1.5).Set("bytes", []byte{0, 1}), true, nil}
	n, err := FromHost(in)
	if err != nil {
		t.Fatal(err)
	}
	out := ToHost(n).([]any)

	obj := out[1].(*host.Object)
	if diff := cmp.Diff([]string{"start-pos", "bytes"}, obj.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if b, _ := obj.Get("bytes"); !cmp.Equal(b, []byte{0, 1}) {
		t.Errorf("bytes = %v", b)
	}
	if out[0] != "loadfile" || out[2] != true || out[3] != nil {
		t.Errorf("unexpected %v", out)
	}
}

func TestEncodeCommand(t *testing.T) {
	if _, err := EncodeCommand(); err == nil {
		t.Error("expected error for empty command")
	}

	n, err := EncodeCommand("stop")
	if err != nil || !Equal(n, String("stop")) {
		t.Errorf("single = %v, %v", n, err)
	}

	n, err = EncodeCommand([]any{"seek", 10.0})
	if err != nil || !Equal(n, Array(String("seek"), Int64(10))) {
		t.Errorf("pre-built = %v, %v", n, err)
	}

	n, err = EncodeCommand("loadfile", "movie.mkv", "replace")
	if err != nil || !Equal(n, Array(String("loadfile"), String("movie.mkv"), String("replace"))) {
		t.Errorf("variadic = %v, %v", n, err)
	}

	if _, err := EncodeCommand("x", make(chan int)); err == nil {
		t.Error("expected unsupported error")
	}
}
