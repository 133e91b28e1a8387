package model

import (
	"fmt"
	"strings"
)

type PieceKind string

const (
	King   PieceKind = "king"
	Queen  PieceKind = "queen"
	Rook   PieceKind = "rook"
	Bishop PieceKind = "bishop"
	Knight PieceKind = "knight"
	Pawn   PieceKind = "pawn"
)

// PromotionKinds are the pieces a pawn may turn into on the final rank.
var PromotionKinds = []PieceKind{Rook, Knight, Bishop, Queen}

func (k PieceKind) valid() bool {
	switch k {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

func (k PieceKind) symbol() byte {
	switch k {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '?'
}

type Square struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

func (s Square) step(d step) Square {
	return Square{Row: s.Row + d.row, Col: s.Col + d.col}
}

type Piece struct {
	Kind   PieceKind `json:"kind"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
}

func (p *Piece) clone() *Piece {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Board is the 8x8 grid, indexed [row][col]. A nil cell is empty.
type Board [8][8]*Piece

func (b *Board) at(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p *Piece) {
	b[sq.Row][sq.Col] = p
}

// put stores p on sq and keeps the piece's own square in sync with the grid.
func (b *Board) put(p *Piece, sq Square) {
	b.set(sq, p)
	if p != nil {
		p.Square = sq
	}
}

// place relocates p to sq, displacing whatever stood there. The returned
// func puts both cells and the piece's square back exactly as they were.
func (b *Board) place(p *Piece, sq Square) (restore func()) {
	from := p.Square
	displaced := b.at(sq)
	b.set(from, nil)
	b.put(p, sq)
	return func() {
		b.set(sq, displaced)
		b.put(p, from)
	}
}

// lift empties sq until the returned func is called.
func (b *Board) lift(sq Square) (restore func()) {
	held := b.at(sq)
	b.set(sq, nil)
	return func() {
		b.set(sq, held)
	}
}

// String renders the grid with upper case for white and lower case for
// black, row 0 first.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p == nil {
				sb.WriteByte('.')
				continue
			}
			c := p.Kind.symbol()
			if p.Color == Black {
				c += 'a' - 'A'
			}
			sb.WriteByte(c)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
