package model

type step struct {
	row int
	col int
}

var (
	rookDirs = []step{
		{row: 0, col: -1},
		{row: 0, col: 1},
		{row: 1, col: 0},
		{row: -1, col: 0},
	}

	bishopDirs = []step{
		{row: -1, col: -1},
		{row: -1, col: 1},
		{row: 1, col: -1},
		{row: 1, col: 1},
	}

	knightJumps = []step{
		{row: -2, col: -1},
		{row: -2, col: 1},
		{row: -1, col: -2},
		{row: -1, col: 2},
		{row: 1, col: -2},
		{row: 1, col: 2},
		{row: 2, col: 1},
		{row: 2, col: -1},
	}

	kingSteps = []step{
		{row: -1, col: -1},
		{row: 0, col: -1},
		{row: 1, col: -1},
		{row: -1, col: 0},
		{row: 1, col: 0},
		{row: -1, col: 1},
		{row: 0, col: 1},
		{row: 1, col: 1},
	}
)

// PeacefulMoves lists the squares p can reach without capturing. Like every
// generator in this file it ignores the safety of p's own king.
func (gs *GameState) PeacefulMoves(p *Piece) []Square {
	switch p.Kind {
	case Rook:
		moves, _ := gs.slide(p, rookDirs)
		return moves
	case Bishop:
		moves, _ := gs.slide(p, bishopDirs)
		return moves
	case Queen:
		straight, _ := gs.slide(p, rookDirs)
		diagonal, _ := gs.slide(p, bishopDirs)
		return append(straight, diagonal...)
	case Knight:
		moves, _ := gs.jump(p, knightJumps)
		return moves
	case King:
		moves, _ := gs.jump(p, kingSteps)
		if gs.KingCanCastleLeft(p.Color) {
			moves = append(moves, gs.castlePlan(p.Color, castleLeft).kingTo)
		}
		if gs.KingCanCastleRight(p.Color) {
			moves = append(moves, gs.castlePlan(p.Color, castleRight).kingTo)
		}
		return moves
	case Pawn:
		return gs.pawnAdvances(p)
	}
	return nil
}

// CaptureMoves lists the squares holding an enemy piece that p attacks.
func (gs *GameState) CaptureMoves(p *Piece) []Square {
	switch p.Kind {
	case Rook:
		_, captures := gs.slide(p, rookDirs)
		return captures
	case Bishop:
		_, captures := gs.slide(p, bishopDirs)
		return captures
	case Queen:
		_, straight := gs.slide(p, rookDirs)
		_, diagonal := gs.slide(p, bishopDirs)
		return append(straight, diagonal...)
	case Knight:
		_, captures := gs.jump(p, knightJumps)
		return captures
	case King:
		_, captures := gs.jump(p, kingSteps)
		return captures
	case Pawn:
		return gs.pawnCaptures(p)
	}
	return nil
}

// PieceMoves is the union of peaceful and capture moves, peaceful first.
func (gs *GameState) PieceMoves(p *Piece) []Square {
	return append(gs.PeacefulMoves(p), gs.CaptureMoves(p)...)
}

// slide walks each direction until the edge, stopping before an own piece
// and on an enemy piece.
func (gs *GameState) slide(p *Piece, dirs []step) (peaceful, captures []Square) {
	for _, d := range dirs {
		for sq := p.Square.step(d); sq.InBounds(); sq = sq.step(d) {
			target := gs.board.at(sq)
			if target == nil {
				peaceful = append(peaceful, sq)
				continue
			}
			if target.Color != p.Color {
				captures = append(captures, sq)
			}
			break
		}
	}
	return peaceful, captures
}

func (gs *GameState) jump(p *Piece, offsets []step) (peaceful, captures []Square) {
	for _, d := range offsets {
		sq := p.Square.step(d)
		if !sq.InBounds() {
			continue
		}
		target := gs.board.at(sq)
		switch {
		case target == nil:
			peaceful = append(peaceful, sq)
		case target.Color != p.Color:
			captures = append(captures, sq)
		}
	}
	return peaceful, captures
}

// pawnDirection is -1 for the side sitting on the bottom rows and +1 for
// the side on top.
func (gs *GameState) pawnDirection(c Color) int {
	if c == gs.bottom {
		return -1
	}
	return 1
}

func (gs *GameState) pawnStartRow(c Color) int {
	if c == gs.bottom {
		return 6
	}
	return 1
}

func (gs *GameState) promotionRow(c Color) int {
	if c == gs.bottom {
		return 0
	}
	return 7
}

func (gs *GameState) pawnAdvances(p *Piece) []Square {
	dir := gs.pawnDirection(p.Color)
	one := p.Square.step(step{row: dir})
	if !one.InBounds() || gs.board.at(one) != nil {
		return nil
	}
	moves := []Square{one}
	if p.Square.Row == gs.pawnStartRow(p.Color) {
		two := one.step(step{row: dir})
		if two.InBounds() && gs.board.at(two) == nil {
			moves = append(moves, two)
		}
	}
	return moves
}

func (gs *GameState) pawnCaptures(p *Piece) []Square {
	dir := gs.pawnDirection(p.Color)
	var captures []Square
	for _, col := range []int{-1, 1} {
		sq := p.Square.step(step{row: dir, col: col})
		target := gs.board.at(sq)
		if target != nil && target.Color != p.Color {
			captures = append(captures, sq)
		}
	}
	return captures
}
