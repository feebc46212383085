package domain

// EventKind tells which payload an Event carries
type EventKind int

const (
	EventCommand EventKind = iota + 1
	EventText
	EventLocation
)

// Event is one inbound message from the transport
type Event struct {
	Principal Principal
	Kind      EventKind

	// EventCommand
	Command string
	Args    []string

	// EventText
	Text string

	// EventLocation
	Latitude  float64
	Longitude float64
}

// CommandEvent builds a command event; name is stored without the leading slash
func CommandEvent(p Principal, name string, args ...string) Event {
	return Event{Principal: p, Kind: EventCommand, Command: name, Args: args}
}

// TextEvent builds a free text event
func TextEvent(p Principal, text string) Event {
	return Event{Principal: p, Kind: EventText, Text: text}
}

// LocationEvent builds a geolocation event
func LocationEvent(p Principal, lat, lon float64) Event {
	return Event{Principal: p, Kind: EventLocation, Latitude: lat, Longitude: lon}
}

// ReplyOptions controls the keyboard attached to a reply
type ReplyOptions struct {
	Keyboard        []string
	RequestLocation bool
	RemoveKeyboard  bool
}

// Reply is one outbound message
type Reply struct {
	PrincipalID int64
	Text        string
	Options     ReplyOptions
}
