package trovochat

// EventKind discriminates the closed set of typed events the classifier
// can produce.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventPrivateMessage
	EventJoin
	EventPart
	EventUserState
	EventNotice
	EventPing
	EventCapAck
	EventCapNak
	EventReady
)

func (k EventKind) String() string {
	switch k {
	case EventPrivateMessage:
		return "private_message"
	case EventJoin:
		return "join"
	case EventPart:
		return "part"
	case EventUserState:
		return "user_state"
	case EventNotice:
		return "notice"
	case EventPing:
		return "ping"
	case EventCapAck:
		return "cap_ack"
	case EventCapNak:
		return "cap_nak"
	case EventReady:
		return "ready"
	}
	return "unknown"
}

// Event is one classified incoming frame. The set of implementations is
// closed; unmatched commands surface as Unknown, never as an error.
type Event interface {
	Kind() EventKind
}

// PrivateMessage is a chat message sent to a channel.
type PrivateMessage struct {
	Channel     string
	Login       string
	DisplayName string
	Text        string
	Color       Color
	Badges      []Badge
	Emotes      []Emote
	Tags        Tags
}

func (PrivateMessage) Kind() EventKind { return EventPrivateMessage }

// Join is a user entering a channel.
type Join struct {
	Channel string
	Login   string
}

func (Join) Kind() EventKind { return EventJoin }

// Part is a user leaving a channel.
type Part struct {
	Channel string
	Login   string
}

func (Part) Kind() EventKind { return EventPart }

// UserState carries the identity the server associates with us in a
// channel.
type UserState struct {
	Channel     string
	DisplayName string
	Color       Color
	Badges      []Badge
	Tags        Tags
}

func (UserState) Kind() EventKind { return EventUserState }

// Notice is a server notice, chat-wide or targeted.
type Notice struct {
	Target  string
	Message string
	Tags    Tags
}

func (Notice) Kind() EventKind { return EventNotice }

// Ping is the server keep-alive. The client runtime answers it with a PONG
// on its own, independent of any subscription.
type Ping struct {
	Token string
}

func (Ping) Kind() EventKind { return EventPing }

// CapabilityAck acknowledges a requested capability. Known is false when
// the server named a capability this client does not model.
type CapabilityAck struct {
	Capability Capability
	Name       string
	Known      bool
}

func (CapabilityAck) Kind() EventKind { return EventCapAck }

// CapabilityNak rejects a requested capability. A nak never fails
// registration, the capability is just excluded from the granted set.
type CapabilityNak struct {
	Capability Capability
	Name       string
	Known      bool
}

func (CapabilityNak) Kind() EventKind { return EventCapNak }

// Ready is emitted once when registration completes.
type Ready struct {
	User RegisteredUser
}

func (Ready) Kind() EventKind { return EventReady }

// Unknown wraps any frame whose command has no typed mapping. Receiving
// one is a normal, forward-compatible outcome.
type Unknown struct {
	Message Message
}

func (Unknown) Kind() EventKind { return EventUnknown }

// classify maps a raw Message onto the typed event set by exact command
// match. It is total: anything unmatched becomes Unknown.
func classify(msg Message) Event {
	switch msg.Command {
	case "PRIVMSG":
		text := msg.Trailing()
		return PrivateMessage{
			Channel:     msg.Param(0),
			Login:       msg.Prefix.Name(),
			DisplayName: msg.Tags.Get("display-name"),
			Text:        text,
			Color:       ParseColor(msg.Tags.Get("color")),
			Badges:      parseBadges(msg.Tags.Get("badges")),
			Emotes:      parseEmotes(msg.Tags.Get("emotes"), len(text)),
			Tags:        msg.Tags,
		}
	case "JOIN":
		return Join{Channel: msg.Param(0), Login: msg.Prefix.Name()}
	case "PART":
		return Part{Channel: msg.Param(0), Login: msg.Prefix.Name()}
	case "USERSTATE":
		return UserState{
			Channel:     msg.Param(0),
			DisplayName: msg.Tags.Get("display-name"),
			Color:       ParseColor(msg.Tags.Get("color")),
			Badges:      parseBadges(msg.Tags.Get("badges")),
			Tags:        msg.Tags,
		}
	case "NOTICE":
		return Notice{
			Target:  msg.Param(0),
			Message: msg.Trailing(),
			Tags:    msg.Tags,
		}
	case "PING":
		return Ping{Token: msg.Trailing()}
	case "CAP":
		// CAP <target> <ACK|NAK> :<capability>
		if len(msg.Params) < 3 {
			return Unknown{Message: msg}
		}
		name := msg.Trailing()
		capability, known := capabilityFromName(name)
		switch msg.Param(1) {
		case "ACK":
			return CapabilityAck{Capability: capability, Name: name, Known: known}
		case "NAK":
			return CapabilityNak{Capability: capability, Name: name, Known: known}
		}
		return Unknown{Message: msg}
	}
	return Unknown{Message: msg}
}
