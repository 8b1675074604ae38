// Package protocol defines the events exchanged between a chat panel and its endpoint.
package protocol

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Event names understood by the panel and the endpoint.
const (
	EventMessage    = "message"
	EventResponse   = "response"
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
)

// Field numbers of the event frame.
const (
	fieldName    protowire.Number = 1
	fieldPayload protowire.Number = 2
)

// ErrMalformedEvent is returned when a frame cannot be decoded into an Event.
var ErrMalformedEvent = errors.New("malformed event")

// Event is a named event carrying a single plain-text payload.
type Event struct {
	Name    string
	Payload string
}

// IsLifecycle reports whether the event is a local connection signal
// that never travels on the wire.
func (e Event) IsLifecycle() bool {
	return e.Name == EventConnect || e.Name == EventDisconnect
}

// Encode encodes the event using the protobuf wire format.
func (e *Event) Encode() ([]byte, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("failed to encode event: %w: empty name", ErrMalformedEvent)
	}
	b := protowire.AppendTag(nil, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, e.Name)
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendString(b, e.Payload)
	return b, nil
}

// Decode decodes bytes produced by Encode.
// Unknown fields are skipped so newer endpoints can extend the frame.
func (e *Event) Decode(data []byte) error {
	var decoded Event
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("failed to decode event: %w: %v", ErrMalformedEvent, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return fmt.Errorf("failed to decode event name: %w: %v", ErrMalformedEvent, protowire.ParseError(n))
			}
			decoded.Name = v
			data = data[n:]
		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return fmt.Errorf("failed to decode event payload: %w: %v", ErrMalformedEvent, protowire.ParseError(n))
			}
			decoded.Payload = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("failed to skip field %d: %w: %v", num, ErrMalformedEvent, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if decoded.Name == "" {
		return fmt.Errorf("failed to decode event: %w: missing name", ErrMalformedEvent)
	}
	*e = decoded
	return nil
}

// String returns a short human readable form of the event for logs.
func (e Event) String() string {
	return fmt.Sprintf("%s(%q)", e.Name, e.Payload)
}
