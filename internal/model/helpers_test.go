package model

import (
	"strings"
	"testing"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenKinds = map[byte]PieceKind{
	'k': King,
	'q': Queen,
	'r': Rook,
	'b': Bishop,
	'n': Knight,
	'p': Pawn,
}

// alg converts a square name such as "e2" to grid coordinates for a board
// drawn with bottom on the lower rows.
func alg(bottom Color, name string) Square {
	file := int(name[0] - 'a')
	rank := int(name[1] - '0')
	if bottom == White {
		return Square{Row: 8 - rank, Col: file}
	}
	return Square{Row: rank - 1, Col: 7 - file}
}

// layoutFromFEN reads the placement and side to move fields of a FEN
// record. Castling and en passant fields are ignored; castling flags are
// derived from the placement.
func layoutFromFEN(t *testing.T, fen string, bottom Color) Layout {
	t.Helper()

	fields := strings.Fields(fen)
	if len(fields) < 2 {
		t.Fatalf("bad FEN %q", fen)
	}
	var layout Layout
	switch fields[1] {
	case "w":
		layout.ToMove = White
	case "b":
		layout.ToMove = Black
	default:
		t.Fatalf("bad side to move in %q", fen)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		t.Fatalf("bad placement in %q", fen)
	}
	for i, rankText := range ranks {
		rank := 8 - i
		file := 0
		for j := 0; j < len(rankText); j++ {
			ch := rankText[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			kind, ok := fenKinds[strings.ToLower(string(ch))[0]]
			if !ok {
				t.Fatalf("bad piece %q in %q", ch, fen)
			}
			name := string([]byte{byte('a' + file), byte('0' + rank)})
			sq := alg(bottom, name)
			pl := Placement{Kind: kind, Row: sq.Row, Col: sq.Col}
			if ch >= 'A' && ch <= 'Z' {
				layout.White = append(layout.White, pl)
			} else {
				layout.Black = append(layout.Black, pl)
			}
			file++
		}
	}
	return layout
}

func stateFromFEN(t *testing.T, fen string, bottom Color) *GameState {
	t.Helper()

	gs, err := NewGameStateFromLayout(bottom, layoutFromFEN(t, fen, bottom))
	if err != nil {
		t.Fatalf("NewGameStateFromLayout(%q): %v", fen, err)
	}
	return gs
}

// play applies moves given as square-name pairs, failing on any rejection.
func play(t *testing.T, gs *GameState, moves ...string) {
	t.Helper()

	for _, m := range moves {
		from, to := alg(gs.BottomColor(), m[:2]), alg(gs.BottomColor(), m[2:4])
		status, err := gs.MovePiece(from, to)
		if err != nil {
			t.Fatalf("move %s: %v\n%s", m, err, gs.board.String())
		}
		if status != MoveApplied {
			t.Fatalf("move %s: status %s", m, status)
		}
	}
}

func sameSquares(a, b []Square) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[Square]int, len(a))
	for _, sq := range a {
		seen[sq]++
	}
	for _, sq := range b {
		if seen[sq] == 0 {
			return false
		}
		seen[sq]--
	}
	return true
}
