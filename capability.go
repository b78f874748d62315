package trovochat

// Capability is one of the protocol extensions the client may request
// during registration. The requested set is fixed when the UserConfig is
// built and never changes afterwards.
type Capability uint8

const (
	// CapMembership shows who is joining and leaving a channel.
	CapMembership Capability = iota
	// CapTags attaches metadata tags to each message.
	CapTags
	// CapCommands enables the provider-specific command extensions.
	CapCommands
)

// String returns the wire name of the capability.
func (c Capability) String() string {
	switch c {
	case CapMembership:
		return "trovo.tv/membership"
	case CapTags:
		return "trovo.tv/tags"
	case CapCommands:
		return "trovo.tv/commands"
	}
	return "unknown"
}

// reqLine is the full request command for this capability.
func (c Capability) reqLine() string {
	return "CAP REQ :" + c.String()
}

func capabilityFromName(name string) (Capability, bool) {
	switch name {
	case "trovo.tv/membership":
		return CapMembership, true
	case "trovo.tv/tags":
		return CapTags, true
	case "trovo.tv/commands":
		return CapCommands, true
	}
	return 0, false
}
