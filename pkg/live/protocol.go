package live

import (
	"errors"
	"fmt"

	"github.com/recera/polynet/pkg/state"
)

// Client message types
const (
	TypeHello  = "hello"
	TypeResize = "resize"
	TypeKey    = "key"
	TypeSwipe  = "swipe"
	TypePinch  = "pinch"
	TypeColor  = "color"
)

// Server message types
const (
	TypeFrame  = "frame"
	TypeExport = "export"
	TypeError  = "error"
)

// ErrUnknownMessage is returned for a client message with an unrecognized type.
var ErrUnknownMessage = errors.New("unknown message type")

// ClientMessage is one JSON message from the browser. Which fields are set
// depends on Type.
type ClientMessage struct {
	Type string `json:"type"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Key  string `json:"key,omitempty"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Meta bool   `json:"meta,omitempty"`

	Direction string  `json:"direction,omitempty"`
	Scale     float64 `json:"scale,omitempty"`

	Slot  string `json:"slot,omitempty"`
	Value string `json:"value,omitempty"`
}

// Event converts the message into an input event. Hello is not an event and
// is handled by the session itself.
func (m ClientMessage) Event() (state.Event, error) {
	switch m.Type {
	case TypeResize:
		return state.Resize{Width: m.Width, Height: m.Height}, nil
	case TypeKey:
		if m.Key == "" {
			return nil, errors.New("key message without key")
		}
		return state.KeyPress{Key: m.Key, Ctrl: m.Ctrl, Meta: m.Meta}, nil
	case TypeSwipe:
		d, err := state.ParseDirection(m.Direction)
		if err != nil {
			return nil, err
		}
		return state.Swipe{Direction: d}, nil
	case TypePinch:
		return state.Pinch{Scale: m.Scale}, nil
	case TypeColor:
		slot, err := state.ParseColorSlot(m.Slot)
		if err != nil {
			return nil, err
		}
		return state.ColorChange{Slot: slot, Value: m.Value}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMessage, m.Type)
}

// FrameMessage carries a newly rendered frame
type FrameMessage struct {
	Type    string       `json:"type"`
	SVG     string       `json:"svg"`
	Pickers bool         `json:"pickers"`
	Colors  state.Colors `json:"colors"`
	Sides   int          `json:"sides"`
}

// ExportMessage asks the browser to download a frame.
type ExportMessage struct {
	Type        string `json:"type"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	SVG         string `json:"svg"`
}

// ErrorMessage reports a rejected client message
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
