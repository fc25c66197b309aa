package message

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/mpvbridge/host"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("message: failed to create CBOR enc mode: %v", err))
	}
	encMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("message: failed to create CBOR dec mode: %v", err))
	}
	decMode = dm
}

// Request is a frame sent by the host.
type Request struct {
	Data cbor.RawMessage `cbor:"data,omitempty"`
	Type string          `cbor:"type"`
	ID   uint64          `cbor:"id"`
}

// Reply answers the request with the same ID.
type Reply struct {
	Result any    `cbor:"result"`
	Error  string `cbor:"error,omitempty"`
	ID     uint64 `cbor:"id"`
}

// Push is an unsolicited frame sent to the host.
type Push struct {
	Data any    `cbor:"data"`
	Type string `cbor:"type"`
}

// PropertyChange is the payload of a property_change push.
type PropertyChange struct {
	Value any    `cbor:"value"`
	Name  string `cbor:"name"`
}

type propertyData struct {
	Value any    `cbor:"value"`
	Name  string `cbor:"name"`
}

type unobserveData struct {
	ID uint64 `cbor:"id"`
}

// MarshalRequest encodes a request frame.
func MarshalRequest(id uint64, typ string, data any) ([]byte, error) {
	req := Request{ID: id, Type: typ}
	if data != nil {
		raw, err := encMode.Marshal(Wire(data))
		if err != nil {
			return nil, fmt.Errorf("message: marshal request data: %w", err)
		}
		req.Data = raw
	}
	return encMode.Marshal(&req)
}

// UnmarshalRequest decodes a request frame.
func UnmarshalRequest(frame []byte) (*Request, error) {
	var r Request
	if err := decMode.Unmarshal(frame, &r); err != nil {
		return nil, fmt.Errorf("message: unmarshal request: %w", err)
	}
	return &r, nil
}

// UnmarshalReply decodes a reply frame.
func UnmarshalReply(frame []byte) (*Reply, error) {
	var r Reply
	if err := decMode.Unmarshal(frame, &r); err != nil {
		return nil, fmt.Errorf("message: unmarshal reply: %w", err)
	}
	return &r, nil
}

// UnmarshalPush decodes a push frame.
func UnmarshalPush(frame []byte) (*Push, error) {
	var p Push
	if err := decMode.Unmarshal(frame, &p); err != nil {
		return nil, fmt.Errorf("message: unmarshal push: %w", err)
	}
	return &p, nil
}

// Wire converts a host value to its CBOR-native form. Objects become maps,
// buffers become byte strings and Undefined becomes null.
func Wire(v any) any {
	switch x := v.(type) {
	case *host.Object:
		m := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			m[k] = Wire(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = Wire(val)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Wire(val)
		}
		return out
	case host.Buffer:
		return x.Bytes()
	case host.UndefinedType:
		return nil
	default:
		return v
	}
}
