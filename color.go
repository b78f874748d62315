package trovochat

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit chat color. The zero value means "no color": an absent
// or malformed color tag parses to it, never to an error.
type Color struct {
	R, G, B uint8
	Valid   bool
}

func rgb(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// String renders the color as `#RRGGBB`, or "" for the zero Color.
func (c Color) String() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// defaultColors are the named colors users can pick without turbo.
var defaultColors = map[string]Color{
	"Blue":        rgb(0x00, 0x00, 0xFF),
	"BlueViolet":  rgb(0x8A, 0x2B, 0xE2),
	"CadetBlue":   rgb(0x5F, 0x9E, 0xA0),
	"Chocolate":   rgb(0xD2, 0x69, 0x1E),
	"Coral":       rgb(0xFF, 0x7F, 0x50),
	"DodgerBlue":  rgb(0x1E, 0x90, 0xFF),
	"Firebrick":   rgb(0xB2, 0x22, 0x22),
	"GoldenRod":   rgb(0xDA, 0xA5, 0x20),
	"Green":       rgb(0x00, 0x80, 0x00),
	"HotPink":     rgb(0xFF, 0x69, 0xB4),
	"OrangeRed":   rgb(0xFF, 0x45, 0x00),
	"Red":         rgb(0xFF, 0x00, 0x00),
	"SeaGreen":    rgb(0x2E, 0x8B, 0x57),
	"SpringGreen": rgb(0x00, 0xFF, 0x7F),
	"YellowGreen": rgb(0xAD, 0xFF, 0x2F),
}

// ParseColor parses `#RRGGBB`, `RRGGBB` or one of the named default colors.
// Anything else yields the zero Color.
func ParseColor(input string) Color {
	input = strings.TrimSpace(input)
	if c, ok := defaultColors[input]; ok {
		return c
	}

	hex := input
	switch {
	case len(hex) == 7 && hex[0] == '#':
		hex = hex[1:]
	case len(hex) == 6:
	default:
		return Color{}
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}
	}
	return rgb(uint8(v>>16), uint8(v>>8), uint8(v))
}
