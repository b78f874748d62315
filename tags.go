package trovochat

import (
	"sort"
	"strings"
)

// Tags are the IRCv3 message tags attached to a frame. Trovo uses them
// extensively to carry message metadata (badges, emotes, colors, ids).
//
// A key that appears without a value decodes to an empty string, not to
// absence, so `Has` and a lookup returning "" are distinguishable.
type Tags map[string]string

// Get returns the decoded value for key, or "" when the key is absent.
func (t Tags) Get(key string) string {
	return t[key]
}

// Has reports whether the key was present on the wire.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// parseTags decodes the tag segment of a frame, without the leading '@'.
// Malformed components never fail the whole decode: an escape followed by
// an unrecognized character yields that character verbatim.
func parseTags(input string) Tags {
	tags := make(Tags)
	for len(input) > 0 {
		var part string
		part, input, _ = strings.Cut(input, ";")
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		tags[key] = unescapeTagValue(value)
	}
	return tags
}

// encodeTags is the inverse of parseTags. Keys are emitted in sorted order
// so the encoding is deterministic.
func encodeTags(tags Tags) string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(escapeTagValue(tags[key]))
	}
	return sb.String()
}

func unescapeTagValue(value string) string {
	if !strings.ContainsRune(value, '\\') {
		return value
	}

	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(value) {
			// dangling escape at end of value, dropped
			break
		}
		i++
		switch value[i] {
		case ':':
			sb.WriteByte(';')
		case 's':
			sb.WriteByte(' ')
		case '\\':
			sb.WriteByte('\\')
		case 'r':
			sb.WriteByte('\r')
		case 'n':
			sb.WriteByte('\n')
		default:
			sb.WriteByte(value[i])
		}
	}
	return sb.String()
}

func escapeTagValue(value string) string {
	if !strings.ContainsAny(value, "; \\\r\n") {
		return value
	}

	var sb strings.Builder
	sb.Grow(len(value) * 2)
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case ';':
			sb.WriteString(`\:`)
		case ' ':
			sb.WriteString(`\s`)
		case '\\':
			sb.WriteString(`\\`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
