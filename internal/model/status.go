package model

type Outcome string

const (
	InProgress Outcome = "in_progress"
	WhiteLost  Outcome = "white_lost"
	BlackLost  Outcome = "black_lost"
	Stalemate  Outcome = "stalemate"
)

// Outcome recomputes every legal move of both colors and classifies the
// position. Nothing is cached between calls.
func (gs *GameState) Outcome() Outcome {
	white := gs.AllLegalMoves(White)
	black := gs.AllLegalMoves(Black)
	toMove := white
	if gs.turn == Black {
		toMove = black
	}
	switch {
	case len(toMove) == 0 && gs.inCheck:
		if gs.turn == White {
			return WhiteLost
		}
		return BlackLost
	case len(toMove) == 0:
		// also covers neither side having a move
		return Stalemate
	}
	return InProgress
}
