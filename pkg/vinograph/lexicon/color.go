package lexicon

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an sRGB display color.
type Color struct {
	R, G, B uint8
}

// ParseHex parses "#RRGGBB" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ParseHex for the built-in tables.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance is the Rec. 601 luma in [0,255].
func (c Color) Luminance() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Contrast moves the color toward white (dark colors) or black (light colors)
// by factor in [0,1]. Used for label text drawn on top of a band.
func (c Color) Contrast(factor float64) Color {
	target := 0.0
	if c.Luminance() < 140 {
		target = 255
	}
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (target-float64(v))*factor)
	}
	return Color{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
