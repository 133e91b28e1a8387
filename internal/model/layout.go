package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Placement puts one piece on a grid square. Rows count from the top of
// the board as the front end draws it.
type Placement struct {
	Kind PieceKind `yaml:"kind" json:"kind"`
	Row  int       `yaml:"row" json:"row"`
	Col  int       `yaml:"col" json:"col"`
}

// Layout is the ordered starting description for each color.
type Layout struct {
	ToMove Color       `yaml:"to_move,omitempty" json:"toMove,omitempty"`
	White  []Placement `yaml:"white" json:"white"`
	Black  []Placement `yaml:"black" json:"black"`
}

// StandardLayout is the usual starting array with bottom on rows 6 and 7.
// With black on the bottom the whole array is rotated, so the kings stand
// on column 3.
func StandardLayout(bottom Color) Layout {
	backRank := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	if bottom == Black {
		backRank = []PieceKind{Rook, Knight, Bishop, King, Queen, Bishop, Knight, Rook}
	}
	side := func(backRow, pawnRow int) []Placement {
		placements := make([]Placement, 0, 16)
		for col, kind := range backRank {
			placements = append(placements, Placement{Kind: kind, Row: backRow, Col: col})
		}
		for col := 0; col < 8; col++ {
			placements = append(placements, Placement{Kind: Pawn, Row: pawnRow, Col: col})
		}
		return placements
	}
	layout := Layout{ToMove: White}
	if bottom == White {
		layout.White, layout.Black = side(7, 6), side(0, 1)
	} else {
		layout.White, layout.Black = side(0, 1), side(7, 6)
	}
	return layout
}

// LoadLayout reads a YAML layout file.
func LoadLayout(filename string) (Layout, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return Layout{}, fmt.Errorf("'%s': %v", filename, err)
	}
	return ParseLayout(b)
}

func ParseLayout(b []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(b, &layout); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := layout.validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

func (l Layout) validate() error {
	if l.ToMove != "" {
		if _, err := ParseColor(string(l.ToMove)); err != nil {
			return fmt.Errorf("%w: to_move: %v", ErrInvalidLayout, err)
		}
	}
	seen := make(map[Square]Color)
	for _, side := range []struct {
		color      Color
		placements []Placement
	}{{White, l.White}, {Black, l.Black}} {
		kings := 0
		for _, pl := range side.placements {
			sq := Square{Row: pl.Row, Col: pl.Col}
			if !pl.Kind.valid() {
				return fmt.Errorf("%w: %s piece of unknown kind %q", ErrInvalidLayout, side.color, pl.Kind)
			}
			if !sq.InBounds() {
				return fmt.Errorf("%w: %s %s on %s is off the board", ErrInvalidLayout, side.color, pl.Kind, sq)
			}
			if other, taken := seen[sq]; taken {
				return fmt.Errorf("%w: %s already holds a %s piece", ErrInvalidLayout, sq, other)
			}
			seen[sq] = side.color
			if pl.Kind == King {
				kings++
			}
		}
		if kings != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidLayout, side.color, kings)
		}
	}
	return nil
}
