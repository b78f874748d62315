package trovochat

import "strings"

// Prefix is the sender descriptor of a frame, either a server name or a
// `nick[!user][@host]` triple.
type Prefix struct {
	Nick string
	User string
	Host string
}

// Name returns the nick for user prefixes and the host for server prefixes.
func (p *Prefix) Name() string {
	if p == nil {
		return ""
	}
	if p.Nick != "" {
		return p.Nick
	}
	return p.Host
}

func parsePrefix(input string) *Prefix {
	p := &Prefix{}
	rest := input
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		p.Host = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '!'); i >= 0 {
		p.User = rest[i+1:]
		rest = rest[:i]
	}
	// A lone dotted token is a server name, not a nick.
	if p.Host == "" && p.User == "" && strings.ContainsRune(rest, '.') {
		p.Host = rest
	} else {
		p.Nick = rest
	}
	return p
}

// Message is one raw decoded protocol frame:
//
//	['@'tags SP] [':'prefix SP] command [SP param]* [SP ':'trailing]
//
// Params keeps positional order; a trailing parameter, if present, is the
// last element and may contain spaces.
type Message struct {
	Raw     string
	Tags    Tags
	Prefix  *Prefix
	Command string
	Params  []string
}

// Param returns the i-th positional parameter, or "" when out of range.
func (m Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// Trailing returns the last parameter, or "" when there is none.
func (m Message) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// ParseMessage decodes one line, already stripped of its CRLF terminator,
// into a Message. The only fatal condition is an absent command token;
// everything else decodes leniently. The returned Message's fields alias
// the input string, no per-token copies are made.
func ParseMessage(line string) (Message, error) {
	msg := Message{Raw: line}

	rest := strings.Trim(line, "\r\n ")
	if rest == "" {
		return msg, ErrMalformedFrame
	}

	if rest[0] == '@' {
		seg, tail, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return msg, ErrMalformedFrame
		}
		msg.Tags = parseTags(seg)
		rest = strings.TrimLeft(tail, " ")
	}

	if rest != "" && rest[0] == ':' {
		seg, tail, ok := strings.Cut(rest[1:], " ")
		if !ok {
			// a prefix with nothing after it has no command
			return msg, ErrMalformedFrame
		}
		msg.Prefix = parsePrefix(seg)
		rest = strings.TrimLeft(tail, " ")
	}

	if rest == "" {
		return msg, ErrMalformedFrame
	}

	head, trailing, hasTrailing := strings.Cut(rest, " :")
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return msg, ErrMalformedFrame
	}

	msg.Command = fields[0]
	msg.Params = fields[1:]
	if hasTrailing {
		msg.Params = append(msg.Params, trailing)
	}
	return msg, nil
}
