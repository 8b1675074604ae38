package server

// DefaultReply is the text every message is answered with by default.
const DefaultReply = "lmao"

// Responder computes the response payload for a received message.
type Responder func(message string) string

// FixedResponder answers every message with reply.
func FixedResponder(reply string) Responder {
	return func(string) string { return reply }
}

// EchoResponder answers every message with the message itself.
func EchoResponder() Responder {
	return func(message string) string { return message }
}
