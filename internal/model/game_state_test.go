package model

import (
	"errors"
	"reflect"
	"testing"

	"golang.org/x/exp/slices"
)

func TestMovePieceRejections(t *testing.T) {
	tests := []struct {
		name     string
		from, to Square
		want     error
	}{
		{"start off the board", Square{Row: 8, Col: 0}, Square{Row: 7, Col: 0}, ErrOutOfBounds},
		{"end off the board", Square{Row: 6, Col: 0}, Square{Row: 6, Col: -1}, ErrOutOfBounds},
		{"empty start", Square{Row: 4, Col: 4}, Square{Row: 3, Col: 4}, ErrNoPiece},
		{"wrong color", Square{Row: 1, Col: 4}, Square{Row: 3, Col: 4}, ErrNotYourTurn},
		{"illegal destination", Square{Row: 6, Col: 4}, Square{Row: 3, Col: 4}, ErrIllegalDestination},
		{"onto own piece", Square{Row: 7, Col: 0}, Square{Row: 6, Col: 0}, ErrIllegalDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState(White)
			before := gs.Snapshot()

			status, err := gs.MovePiece(tt.from, tt.to)
			if status != MoveRejected {
				t.Errorf("status = %s, want rejected", status)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if after := gs.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Errorf("rejected move changed the game")
			}
		})
	}
}

func TestMovePieceTurns(t *testing.T) {
	for _, bottom := range []Color{White, Black} {
		t.Run(string(bottom), func(t *testing.T) {
			gs := NewGameState(bottom)
			e2, e4 := alg(bottom, "e2"), alg(bottom, "e4")

			status, err := gs.MovePiece(e2, e4)
			if err != nil || status != MoveApplied {
				t.Fatalf("MovePiece = %s, %v", status, err)
			}
			if gs.Turn() != Black {
				t.Errorf("turn = %s, want black", gs.Turn())
			}
			if p, _ := gs.GetPiece(e4.Row, e4.Col); p == nil || p.Kind != Pawn || p.Square != e4 {
				t.Errorf("piece on e4 = %+v", p)
			}
			if gs.IsValidPiece(e2.Row, e2.Col) {
				t.Errorf("e2 still occupied")
			}

			// white cannot move twice
			if _, err := gs.MovePiece(alg(bottom, "d2"), alg(bottom, "d4")); !errors.Is(err, ErrNotYourTurn) {
				t.Errorf("second white move error = %v, want ErrNotYourTurn", err)
			}

			play(t, gs, "e7e5")
			if gs.Turn() != White || gs.MoveCount() != 2 {
				t.Errorf("turn = %s, moves = %d", gs.Turn(), gs.MoveCount())
			}
		})
	}
}

func TestCastling(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	tests := []struct {
		name       string
		king       string
		rookFrom   string
		rookTo     string
		wantRights CastlingRights
	}{
		{"short", "e1g1", "h1", "f1", CastlingRights{RookAUnmoved: true}},
		{"long", "e1c1", "a1", "d1", CastlingRights{RookHUnmoved: true}},
	}
	for _, tt := range tests {
		for _, bottom := range []Color{White, Black} {
			t.Run(tt.name+"/"+string(bottom), func(t *testing.T) {
				gs := stateFromFEN(t, fen, bottom)
				before := gs.Snapshot()
				kingFrom, kingTo := alg(bottom, tt.king[:2]), alg(bottom, tt.king[2:])

				moves := gs.ValidMoves(kingFrom)
				if !sameSquares(moves, squares(bottom, []string{"d1", "d2", "e2", "f2", "f1", "g1", "c1"})) {
					t.Fatalf("king moves = %v", moves)
				}

				play(t, gs, tt.king)
				if p := gs.board.at(kingTo); p == nil || p.Kind != King {
					t.Fatalf("king not on %s:\n%s", tt.king[2:], gs.board.String())
				}
				if p := gs.board.at(alg(bottom, tt.rookTo)); p == nil || p.Kind != Rook || p.Color != White {
					t.Errorf("rook not on %s:\n%s", tt.rookTo, gs.board.String())
				}
				if gs.board.at(alg(bottom, tt.rookFrom)) != nil {
					t.Errorf("%s not emptied", tt.rookFrom)
				}
				want := tt.wantRights
				if bottom == Black {
					// column 0 holds the h rook when black is on the bottom
					want.RookAUnmoved, want.RookHUnmoved = want.RookHUnmoved, want.RookAUnmoved
				}
				if got := gs.CastlingRights(White); got != want {
					t.Errorf("rights = %+v, want %+v", got, want)
				}
				if gs.KingSquare(White) != kingTo {
					t.Errorf("king square = %s, want %s", gs.KingSquare(White), kingTo)
				}
				history := gs.History()
				if len(history) != 1 || !history[0].Castled || history[0].CastleRookMove == nil {
					t.Fatalf("history = %+v", history)
				}

				if _, err := gs.UndoMove(); err != nil {
					t.Fatalf("UndoMove: %v", err)
				}
				if after := gs.Snapshot(); !reflect.DeepEqual(after, before) {
					t.Errorf("undo did not restore the position:\n%s\nwant\n%s", after.Board.String(), before.Board.String())
				}
			})
		}
	}
}

func TestCastlingBlocked(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		allowed []string
		denied  []string
	}{
		{
			name:   "in check",
			fen:    "4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1",
			denied: []string{"g1", "c1"},
		},
		{
			name:    "piece in between",
			fen:     "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1",
			allowed: []string{"g1"},
			denied:  []string{"c1"},
		},
		{
			name:    "landing square attacked",
			fen:     "4k1r1/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			allowed: []string{"c1"},
			denied:  []string{"g1"},
		},
		{
			name:    "rook missing",
			fen:     "4k3/8/8/8/8/8/8/4K2R w K - 0 1",
			allowed: []string{"g1"},
			denied:  []string{"c1"},
		},
	}
	for _, tt := range tests {
		for _, bottom := range []Color{White, Black} {
			t.Run(tt.name+"/"+string(bottom), func(t *testing.T) {
				gs := stateFromFEN(t, tt.fen, bottom)
				moves := gs.ValidMoves(alg(bottom, "e1"))
				for _, sq := range tt.allowed {
					if !slices.Contains(moves, alg(bottom, sq)) {
						t.Errorf("castle to %s missing from %v", sq, moves)
					}
				}
				for _, sq := range tt.denied {
					if slices.Contains(moves, alg(bottom, sq)) {
						t.Errorf("castle to %s offered in %v", sq, moves)
					}
				}
			})
		}
	}
}

func TestRookMoveClearsRight(t *testing.T) {
	gs := stateFromFEN(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", White)

	play(t, gs, "h1h2")
	if got := gs.CastlingRights(White); got.RookHUnmoved || !got.RookAUnmoved || !got.KingUnmoved {
		t.Fatalf("rights after rook move = %+v", got)
	}
	play(t, gs, "e8d8", "h2h1", "d8e8")
	if slices.Contains(gs.ValidMoves(alg(White, "e1")), alg(White, "g1")) {
		t.Errorf("castle offered after the rook returned home")
	}

	// undo back to before the rook left
	for i := 0; i < 4; i++ {
		if _, err := gs.UndoMove(); err != nil {
			t.Fatalf("UndoMove: %v", err)
		}
	}
	if got := gs.CastlingRights(White); !got.RookHUnmoved {
		t.Errorf("undo did not restore the rook flag: %+v", got)
	}
}

func TestRookMoveUndoRestoresRight(t *testing.T) {
	for _, bottom := range []Color{White, Black} {
		t.Run(string(bottom), func(t *testing.T) {
			gs := stateFromFEN(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", bottom)
			before := gs.Snapshot()

			play(t, gs, "h1h2")
			if _, err := gs.UndoMove(); err != nil {
				t.Fatalf("UndoMove: %v", err)
			}
			if after := gs.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Errorf("rights after undo = %+v, want %+v", after.Castling[White], before.Castling[White])
			}
			if !slices.Contains(gs.ValidMoves(alg(bottom, "e1")), alg(bottom, "g1")) {
				t.Errorf("castle to g1 not offered after undoing the rook move")
			}
		})
	}
}

func TestCapturedRookClearsRight(t *testing.T) {
	gs := stateFromFEN(t, "4k3/8/8/8/8/8/6b1/R3K2R b KQ - 0 1", White)

	play(t, gs, "g2h1")
	if got := gs.CastlingRights(White); got.RookHUnmoved {
		t.Errorf("rights after losing the h rook = %+v", got)
	}
	if slices.Contains(gs.ValidMoves(alg(White, "e1")), alg(White, "g1")) {
		t.Errorf("castle offered without a rook")
	}
	captured := gs.Captured()
	if len(captured.Black) != 1 || captured.Black[0].Kind != Rook {
		t.Errorf("captured = %+v", captured)
	}

	if _, err := gs.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if got := gs.CastlingRights(White); !got.RookHUnmoved {
		t.Errorf("undo did not restore the flag: %+v", got)
	}
	if p := gs.board.at(alg(White, "h1")); p == nil || p.Kind != Rook || p.Color != White {
		t.Errorf("captured rook not restored")
	}
}

func TestPromotion(t *testing.T) {
	const fen = "8/P6k/8/8/8/8/6p1/K7 w - - 0 1"
	for _, bottom := range []Color{White, Black} {
		t.Run(string(bottom), func(t *testing.T) {
			gs := stateFromFEN(t, fen, bottom)
			a7, a8 := alg(bottom, "a7"), alg(bottom, "a8")
			before := gs.Snapshot()

			status, err := gs.MovePiece(a7, a8)
			if err != nil || status != MovePendingPromotion {
				t.Fatalf("MovePiece = %s, %v; want pending_promotion", status, err)
			}
			if pending, ok := gs.PendingPromotion(); !ok || pending != (SimpleMove{From: a7, To: a8}) {
				t.Errorf("PendingPromotion = %v, %v", pending, ok)
			}
			if gs.Turn() != White || gs.MoveCount() != 0 || !gs.IsValidPiece(a7.Row, a7.Col) {
				t.Errorf("pending promotion changed the game")
			}

			if _, err := gs.MovePiece(alg(bottom, "a1"), alg(bottom, "b1")); !errors.Is(err, ErrPromotionPending) {
				t.Errorf("move while pending error = %v", err)
			}
			if _, err := gs.UndoMove(); !errors.Is(err, ErrPromotionPending) {
				t.Errorf("undo while pending error = %v", err)
			}
			if err := gs.CompletePromotion(King); !errors.Is(err, ErrInvalidPromotion) {
				t.Errorf("promote to king error = %v", err)
			}
			if err := gs.CompletePromotion(Pawn); !errors.Is(err, ErrInvalidPromotion) {
				t.Errorf("promote to pawn error = %v", err)
			}

			if err := gs.CompletePromotion(Queen); err != nil {
				t.Fatalf("CompletePromotion: %v", err)
			}
			if p := gs.board.at(a8); p == nil || p.Kind != Queen || p.Color != White || p.Square != a8 {
				t.Errorf("a8 = %+v, want white queen", p)
			}
			if gs.board.at(a7) != nil {
				t.Errorf("a7 not emptied")
			}
			if gs.Turn() != Black || gs.MoveCount() != 1 {
				t.Errorf("turn = %s, moves = %d", gs.Turn(), gs.MoveCount())
			}
			if last := gs.History()[0]; !last.Promoted || last.PromotionKind != Queen {
				t.Errorf("history = %+v", last)
			}

			if _, err := gs.UndoMove(); err != nil {
				t.Fatalf("UndoMove: %v", err)
			}
			if after := gs.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Errorf("undo did not restore the pawn:\n%s", after.Board.String())
			}
		})
	}
}

func TestPromotionCancel(t *testing.T) {
	gs := stateFromFEN(t, "8/P6k/8/8/8/8/6p1/K7 w - - 0 1", White)
	before := gs.Snapshot()

	if err := gs.CompletePromotion(Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Errorf("CompletePromotion without pending = %v", err)
	}
	if _, err := gs.MovePiece(alg(White, "a7"), alg(White, "a8")); err != nil {
		t.Fatal(err)
	}
	if err := gs.CancelPromotion(); err != nil {
		t.Fatalf("CancelPromotion: %v", err)
	}
	if err := gs.CancelPromotion(); !errors.Is(err, ErrNoPendingPromotion) {
		t.Errorf("second CancelPromotion = %v", err)
	}
	if after := gs.Snapshot(); !reflect.DeepEqual(after, before) {
		t.Errorf("cancel changed the game")
	}
}

func TestBlackPromotesWithCapture(t *testing.T) {
	gs := stateFromFEN(t, "7k/8/8/8/8/8/6p1/K6R b - - 0 1", White)

	status, err := gs.MovePiece(alg(White, "g2"), alg(White, "h1"))
	if err != nil || status != MovePendingPromotion {
		t.Fatalf("MovePiece = %s, %v", status, err)
	}
	if err := gs.CompletePromotion(Knight); err != nil {
		t.Fatal(err)
	}
	if p := gs.board.at(alg(White, "h1")); p == nil || p.Kind != Knight || p.Color != Black {
		t.Errorf("h1 = %+v, want black knight", p)
	}
	if captured := gs.Captured(); len(captured.Black) != 1 || captured.Black[0].Kind != Rook {
		t.Errorf("captured = %+v", captured)
	}

	if _, err := gs.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if p := gs.board.at(alg(White, "h1")); p == nil || p.Kind != Rook || p.Color != White {
		t.Errorf("h1 after undo = %+v, want white rook", p)
	}
	if p := gs.board.at(alg(White, "g2")); p == nil || p.Kind != Pawn {
		t.Errorf("g2 after undo = %+v, want pawn", p)
	}
}

func TestUndoRoundTrip(t *testing.T) {
	moves := []string{"e2e4", "d7d5", "e4d5", "d8d5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1", "h8g8"}
	for _, bottom := range []Color{White, Black} {
		t.Run(string(bottom), func(t *testing.T) {
			gs := NewGameState(bottom)
			before := gs.Snapshot()

			if _, err := gs.UndoMove(); !errors.Is(err, ErrNoHistory) {
				t.Fatalf("undo on a fresh game = %v, want ErrNoHistory", err)
			}

			play(t, gs, moves...)
			if gs.MoveCount() != len(moves) {
				t.Fatalf("MoveCount = %d", gs.MoveCount())
			}
			captured := gs.Captured()
			if len(captured.White) != 1 || len(captured.Black) != 1 {
				t.Errorf("captured = %+v", captured)
			}
			if got := gs.KingSquare(White); got != alg(bottom, "g1") {
				t.Errorf("white king on %s, want g1", got)
			}

			for range moves {
				if _, err := gs.UndoMove(); err != nil {
					t.Fatalf("UndoMove: %v", err)
				}
			}
			if after := gs.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Errorf("round trip changed the game:\n%s\nwant\n%s", after.Board.String(), before.Board.String())
			}
		})
	}
}

func TestSnapshotLastMove(t *testing.T) {
	gs := NewGameState(White)
	if s := gs.Snapshot(); s.LastMove != nil || s.PendingPromotion != nil {
		t.Fatalf("fresh snapshot = %+v", s)
	}
	play(t, gs, "g1f3")
	s := gs.Snapshot()
	if s.LastMove == nil || *s.LastMove != (SimpleMove{From: alg(White, "g1"), To: alg(White, "f3")}) {
		t.Errorf("LastMove = %v", s.LastMove)
	}
	if s.Turn != Black || s.MoveCount != 1 || s.Outcome != InProgress {
		t.Errorf("snapshot = %+v", s)
	}
}
