package panel

// Origin classifies where a Message came from. It only drives display styling.
type Origin int

const (
	OriginUser Origin = iota
	OriginServer
)

// String returns the string representation of Origin
func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginServer:
		return "server"
	default:
		return "unknown"
	}
}

// StyleClass returns the display class tagged on messages of this origin.
func (o Origin) StyleClass() string {
	switch o {
	case OriginUser:
		return "user-message"
	case OriginServer:
		return "server-response"
	default:
		return "message"
	}
}

// Message is a rendered chat line. It is never mutated after creation.
type Message struct {
	Content string
	Origin  Origin
}
