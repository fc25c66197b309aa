// Package message carries player commands and property traffic over
// CBOR-encoded frames.
//
// The host sends {id, type, data} requests of type command, get_property,
// set_property, observe_property or unobserve_property. Each request gets
// one {id, result} or {id, error} reply. Observed properties are pushed as
// {type: "property_change", data: {name, value}}.
package message

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge/errors"
	"github.com/wippyai/mpvbridge/events"
)

// Request and push types.
const (
	TypeCommand           = "command"
	TypeGetProperty       = "get_property"
	TypeSetProperty       = "set_property"
	TypeObserveProperty   = "observe_property"
	TypeUnobserveProperty = "unobserve_property"
	TypePropertyChange    = "property_change"
)

// Player is the command and property surface a Channel drives.
type Player interface {
	Command(args ...any) (any, error)
	GetProperty(name string) (any, error)
	SetProperty(name string, value any) error
	ObserveProperty(name string, fn events.PropertyFunc) (uint64, error)
	Unobserve(id uint64) error
}

// Sink receives encoded frames bound for the host.
type Sink func(frame []byte)

// Channel decodes request frames, runs them against a Player and posts
// replies and pushes to a Sink. It is used from the host goroutine.
type Channel struct {
	player Player
	post   Sink
}

// NewChannel creates a channel posting to post.
func NewChannel(p Player, post Sink) *Channel {
	return &Channel{player: p, post: post}
}

// Handle processes one request frame. Failures of the request itself are
// reported in the reply; an error is returned only when the frame cannot be
// decoded or a reply cannot be encoded.
func (c *Channel) Handle(frame []byte) error {
	req, err := UnmarshalRequest(frame)
	if err != nil {
		Logger().Debug("undecodable frame", zap.Int("size", len(frame)), zap.Error(err))
		return errors.Wrap(errors.PhaseMessage, errors.KindInvalidData, err, "decode request")
	}
	result, err := c.run(req)
	reply := Reply{ID: req.ID}
	if err != nil {
		reply.Error = errorText(err)
	} else {
		reply.Result = Wire(result)
	}
	return c.send(&reply)
}

func (c *Channel) run(req *Request) (any, error) {
	switch req.Type {
	case TypeCommand:
		var data any
		if err := c.data(req, &data); err != nil {
			return nil, err
		}
		if args, ok := data.([]any); ok {
			return c.player.Command(args...)
		}
		return c.player.Command(data)

	case TypeGetProperty:
		var d propertyData
		if err := c.data(req, &d); err != nil {
			return nil, err
		}
		return c.player.GetProperty(d.Name)

	case TypeSetProperty:
		var d propertyData
		if err := c.data(req, &d); err != nil {
			return nil, err
		}
		return nil, c.player.SetProperty(d.Name, d.Value)

	case TypeObserveProperty:
		var d propertyData
		if err := c.data(req, &d); err != nil {
			return nil, err
		}
		name := d.Name
		id, err := c.player.ObserveProperty(name, func(v any) { c.push(name, v) })
		if err != nil {
			return nil, err
		}
		return id, nil

	case TypeUnobserveProperty:
		var d unobserveData
		if err := c.data(req, &d); err != nil {
			return nil, err
		}
		return nil, c.player.Unobserve(d.ID)

	default:
		return nil, errors.NotFound(errors.PhaseMessage, "message type", req.Type)
	}
}

func (c *Channel) data(req *Request, v any) error {
	if len(req.Data) == 0 {
		return errors.InvalidInput(errors.PhaseMessage, req.Type+": missing data")
	}
	if err := decMode.Unmarshal(req.Data, v); err != nil {
		return errors.Wrap(errors.PhaseMessage, errors.KindInvalidData, err, req.Type+": decode data")
	}
	return nil
}

func (c *Channel) push(name string, value any) {
	frame, err := encMode.Marshal(&Push{
		Type: TypePropertyChange,
		Data: &PropertyChange{Name: name, Value: Wire(value)},
	})
	if err != nil {
		Logger().Warn("encode property change", zap.String("name", name), zap.Error(err))
		return
	}
	c.post(frame)
}

func (c *Channel) send(r *Reply) error {
	frame, err := encMode.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.PhaseMessage, errors.KindInvalidData, err, "encode reply")
	}
	c.post(frame)
	return nil
}

// errorText keeps engine messages verbatim.
func errorText(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Kind == errors.KindEngine && e.Phase == errors.PhaseEngine {
		return e.Detail
	}
	return err.Error()
}
