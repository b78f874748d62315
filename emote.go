package trovochat

import "strings"

// EmoteRange is a half-open [Start, End) byte range into the message text.
type EmoteRange struct {
	Start int
	End   int
}

// Emote is one emote id with every range it occupies in the message text.
type Emote struct {
	ID     int
	Ranges []EmoteRange
}

// parseEmotes decodes an `emotes` tag value of the form
// `id:start-end,start-end/id:start-end` against a message text of textLen
// bytes. Any malformed component degrades the whole list to nil, the
// message itself still classifies.
func parseEmotes(input string, textLen int) []Emote {
	if input == "" {
		return nil
	}
	var emotes []Emote
	for _, part := range strings.Split(input, "/") {
		idStr, rangesStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil
		}
		id, ok := parseInt(idStr)
		if !ok {
			return nil
		}

		emote := Emote{ID: id}
		for _, r := range strings.Split(rangesStr, ",") {
			startStr, endStr, ok := strings.Cut(r, "-")
			if !ok {
				return nil
			}
			start, okS := parseInt(startStr)
			end, okE := parseInt(endStr)
			if !okS || !okE || start >= end || end > textLen {
				return nil
			}
			emote.Ranges = append(emote.Ranges, EmoteRange{Start: start, End: end})
		}
		emotes = append(emotes, emote)
	}
	return emotes
}

// parseInt is a strict non-negative integer parse; strconv.Atoi would also
// accept a leading sign.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
