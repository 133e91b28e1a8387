package model

import (
	"fmt"
	"strings"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// ParseColor accepts the long names and the single letter forms used by
// front ends ("w", "b").
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
}
