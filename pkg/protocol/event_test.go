package protocol_test

import (
	"errors"
	"testing"

	"github.com/omochice/chat-panel/pkg/protocol"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestEvent_Encode(t *testing.T) {
	tests := []struct {
		name    string
		event   protocol.Event
		wantErr bool
	}{
		{
			name:  "encode message event",
			event: protocol.Event{Name: protocol.EventMessage, Payload: "hello"},
		},
		{
			name:  "encode response event with empty payload",
			event: protocol.Event{Name: protocol.EventResponse},
		},
		{
			name:    "reject event without name",
			event:   protocol.Event{Payload: "orphan"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.event.Encode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Event.Encode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, protocol.ErrMalformedEvent) {
					t.Errorf("Event.Encode() error = %v, want ErrMalformedEvent", err)
				}
				return
			}
			if len(data) == 0 {
				t.Error("Event.Encode() returned empty data")
			}
		})
	}
}

func TestEvent_Decode(t *testing.T) {
	encode := func(e protocol.Event) []byte {
		data, err := e.Encode()
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		return data
	}

	withUnknownField := func() []byte {
		b := encode(protocol.Event{Name: protocol.EventResponse, Payload: "hi there"})
		b = protowire.AppendTag(b, 9, protowire.VarintType)
		return protowire.AppendVarint(b, 42)
	}

	tests := []struct {
		name    string
		data    []byte
		want    protocol.Event
		wantErr bool
	}{
		{
			name: "decode response event",
			data: encode(protocol.Event{Name: protocol.EventResponse, Payload: "hi there"}),
			want: protocol.Event{Name: protocol.EventResponse, Payload: "hi there"},
		},
		{
			name: "payload keeps markup as plain text",
			data: encode(protocol.Event{Name: protocol.EventResponse, Payload: "<b>bold</b>"}),
			want: protocol.Event{Name: protocol.EventResponse, Payload: "<b>bold</b>"},
		},
		{
			name: "skip unknown fields",
			data: withUnknownField(),
			want: protocol.Event{Name: protocol.EventResponse, Payload: "hi there"},
		},
		{
			name:    "reject truncated frame",
			data:    encode(protocol.Event{Name: protocol.EventMessage, Payload: "hello"})[:4],
			wantErr: true,
		},
		{
			name:    "reject frame without name",
			data:    protowire.AppendString(protowire.AppendTag(nil, 2, protowire.BytesType), "x"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got protocol.Event
			err := got.Decode(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Event.Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, protocol.ErrMalformedEvent) {
					t.Errorf("Event.Decode() error = %v, want ErrMalformedEvent", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Event.Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvent_IsLifecycle(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{protocol.EventConnect, true},
		{protocol.EventDisconnect, true},
		{protocol.EventMessage, false},
		{protocol.EventResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (protocol.Event{Name: tt.name}).IsLifecycle(); got != tt.want {
				t.Errorf("IsLifecycle() = %v, want %v", got, tt.want)
			}
		})
	}
}
