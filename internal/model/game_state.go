package model

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// GameState is the rules engine for one game. It is not safe for
// concurrent use; Game serializes access to it.
type GameState struct {
	board   Board
	turn    Color
	bottom  Color
	kings   map[Color]Square
	rights  castlingState
	inCheck bool
	log     []*ChessMove
	pending *SimpleMove
}

type MoveStatus string

const (
	MoveApplied          MoveStatus = "applied"
	MovePendingPromotion MoveStatus = "pending_promotion"
	MoveRejected         MoveStatus = "rejected"
)

// NewGameState sets up the standard array with bottom on the lower rows.
func NewGameState(bottom Color) *GameState {
	gs, err := NewGameStateFromLayout(bottom, StandardLayout(bottom))
	if err != nil {
		panic(err)
	}
	return gs
}

// NewGameStateFromLayout builds a game from an arbitrary layout. Castling
// flags start true only for a king and rook found on their home squares.
func NewGameStateFromLayout(bottom Color, layout Layout) (*GameState, error) {
	if bottom != White && bottom != Black {
		return nil, fmt.Errorf("%w: bottom %q", ErrInvalidColor, bottom)
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	gs := &GameState{
		turn:   White,
		bottom: bottom,
		kings:  make(map[Color]Square, 2),
	}
	if layout.ToMove != "" {
		gs.turn, _ = ParseColor(string(layout.ToMove))
	}
	for _, side := range []struct {
		color      Color
		placements []Placement
	}{{White, layout.White}, {Black, layout.Black}} {
		for _, pl := range side.placements {
			sq := Square{Row: pl.Row, Col: pl.Col}
			gs.board.put(&Piece{Kind: pl.Kind, Color: side.color}, sq)
			if pl.Kind == King {
				gs.kings[side.color] = sq
			}
		}
	}
	for _, c := range []Color{White, Black} {
		gs.rights.of(c).KingUnmoved = gs.pieceIs(Square{Row: gs.homeRow(c), Col: gs.kingHomeCol()}, King, c)
		gs.rights.of(c).RookAUnmoved = gs.pieceIs(Square{Row: gs.homeRow(c), Col: 0}, Rook, c)
		gs.rights.of(c).RookHUnmoved = gs.pieceIs(Square{Row: gs.homeRow(c), Col: 7}, Rook, c)
	}
	gs.refreshCheck()
	return gs, nil
}

func (gs *GameState) pieceIs(sq Square, kind PieceKind, c Color) bool {
	p := gs.board.at(sq)
	return p != nil && p.Kind == kind && p.Color == c
}

// GetPiece returns a copy of the piece on (row, col), nil for an empty
// square, or ErrOutOfBounds.
func (gs *GameState) GetPiece(row, col int) (*Piece, error) {
	sq := Square{Row: row, Col: col}
	if !sq.InBounds() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	return gs.board.at(sq).clone(), nil
}

func (gs *GameState) IsValidPiece(row, col int) bool {
	return gs.board.at(Square{Row: row, Col: col}) != nil
}

func (gs *GameState) Turn() Color {
	return gs.turn
}

func (gs *GameState) BottomColor() Color {
	return gs.bottom
}

// IsCheck reports whether the side to move is in check.
func (gs *GameState) IsCheck() bool {
	return gs.inCheck
}

func (gs *GameState) KingSquare(c Color) Square {
	return gs.kings[c]
}

func (gs *GameState) CastlingRights(c Color) CastlingRights {
	return *gs.rights.of(c)
}

func (gs *GameState) MoveCount() int {
	return len(gs.log)
}

// History returns the applied moves, oldest first.
func (gs *GameState) History() []ChessMove {
	moves := make([]ChessMove, len(gs.log))
	for i, m := range gs.log {
		moves[i] = *m
	}
	return moves
}

// PendingPromotion returns the pawn move waiting for CompletePromotion.
func (gs *GameState) PendingPromotion() (SimpleMove, bool) {
	if gs.pending == nil {
		return SimpleMove{}, false
	}
	return *gs.pending, true
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// Captured lists the pieces taken by each color, in move order.
func (gs *GameState) Captured() CapturedPieces {
	captured := CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)}
	for _, m := range gs.log {
		if m.Captured == nil {
			continue
		}
		if m.Piece.Color == White {
			captured.White = append(captured.White, *m.Captured)
		} else {
			captured.Black = append(captured.Black, *m.Captured)
		}
	}
	return captured
}

// Board returns a deep copy of the grid.
func (gs *GameState) Board() Board {
	var b Board
	for row := range gs.board {
		for col, p := range gs.board[row] {
			b[row][col] = p.clone()
		}
	}
	return b
}

func (gs *GameState) setKingSquare(c Color, sq Square) {
	gs.kings[c] = sq
}

func (gs *GameState) refreshCheck() {
	gs.inCheck = gs.CheckFor(gs.KingSquare(gs.turn), gs.turn).InCheck()
}

// MovePiece applies start->end for the side to move. A rejected move leaves
// the game untouched and returns MoveRejected with the reason. A pawn
// reaching the last row returns MovePendingPromotion and nothing changes
// until CompletePromotion is called.
func (gs *GameState) MovePiece(start, end Square) (MoveStatus, error) {
	if gs.pending != nil {
		return MoveRejected, ErrPromotionPending
	}
	if !start.InBounds() || !end.InBounds() {
		return MoveRejected, fmt.Errorf("%w: %s -> %s", ErrOutOfBounds, start, end)
	}
	p := gs.board.at(start)
	if p == nil {
		return MoveRejected, fmt.Errorf("%w: %s", ErrNoPiece, start)
	}
	if p.Color != gs.turn {
		return MoveRejected, fmt.Errorf("%w: %s to move", ErrNotYourTurn, gs.turn)
	}
	if !slices.Contains(gs.legalMoves(p), end) {
		return MoveRejected, fmt.Errorf("%w: %s %s -> %s", ErrIllegalDestination, p.Kind, start, end)
	}

	var move *ChessMove
	switch {
	case p.Kind == King:
		move = gs.moveKing(p, end)
	case p.Kind == Pawn && end.Row == gs.promotionRow(p.Color):
		gs.pending = &SimpleMove{From: start, To: end}
		return MovePendingPromotion, nil
	default:
		move = gs.newChessMove(p, end)
		if p.Kind == Rook {
			gs.clearRookRight(p.Color, start)
		}
		gs.capture(move)
		gs.board.place(p, end)
	}
	gs.commit(move)
	return MoveApplied, nil
}

// CompletePromotion finishes the pending pawn move by putting a new piece
// of kind on the last row.
func (gs *GameState) CompletePromotion(kind PieceKind) error {
	if gs.pending == nil {
		return ErrNoPendingPromotion
	}
	if !slices.Contains(PromotionKinds, kind) {
		return fmt.Errorf("%w: %q", ErrInvalidPromotion, kind)
	}
	pawn := gs.board.at(gs.pending.From)
	move := gs.newChessMove(pawn, gs.pending.To)
	move.Promoted = true
	move.PromotionKind = kind
	move.Replacement = &Piece{Kind: kind, Color: pawn.Color}
	gs.capture(move)
	gs.board.set(move.Start, nil)
	gs.board.put(move.Replacement, move.End)
	gs.pending = nil
	gs.commit(move)
	return nil
}

// CancelPromotion drops the pending pawn move. The board was never touched.
func (gs *GameState) CancelPromotion() error {
	if gs.pending == nil {
		return ErrNoPendingPromotion
	}
	gs.pending = nil
	return nil
}

// capture clears the flag of a rook taken on its home corner.
func (gs *GameState) capture(move *ChessMove) {
	if move.Captured != nil && move.Captured.Kind == Rook {
		gs.clearRookRight(move.Captured.Color, move.End)
	}
}

func (gs *GameState) commit(move *ChessMove) {
	gs.log = append(gs.log, move)
	gs.turn = gs.turn.Opponent()
	gs.refreshCheck()
}

// UndoMove reverses the most recent move and returns it. ErrNoHistory is
// returned, with nothing changed, when no move has been made.
func (gs *GameState) UndoMove() (*ChessMove, error) {
	if gs.pending != nil {
		return nil, ErrPromotionPending
	}
	if len(gs.log) == 0 {
		return nil, ErrNoHistory
	}
	move := gs.log[len(gs.log)-1]
	gs.log = gs.log[:len(gs.log)-1]

	switch {
	case move.Castled:
		gs.board.set(move.End, nil)
		gs.board.put(move.Piece, move.Start)
		gs.board.set(move.CastleRookMove.To, nil)
		gs.board.put(move.CastleRookMove.Rook, move.CastleRookMove.From)
	default:
		// a promoted piece is dropped here and the pawn goes back
		gs.board.set(move.End, move.Captured)
		gs.board.put(move.Piece, move.Start)
	}
	if move.Piece.Kind == King {
		gs.setKingSquare(move.Piece.Color, move.Start)
	}
	gs.rights = move.rightsBefore
	gs.turn = gs.turn.Opponent()
	gs.refreshCheck()
	return move, nil
}
