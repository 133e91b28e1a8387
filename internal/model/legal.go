package model

// ValidMoves returns the legal destinations of the piece on sq, in
// generation order, or nil when sq is off the board or empty. Turn order is
// not considered; MovePiece enforces it.
func (gs *GameState) ValidMoves(sq Square) []Square {
	p := gs.board.at(sq)
	if p == nil {
		return nil
	}
	return gs.legalMoves(p)
}

func (gs *GameState) legalMoves(p *Piece) []Square {
	kingSq := gs.KingSquare(p.Color)
	report := gs.CheckFor(kingSq, p.Color)
	candidates := gs.PieceMoves(p)
	legal := make([]Square, 0, len(candidates))

	switch {
	case p.Kind == King:
		for _, to := range candidates {
			if gs.kingSafeAt(p, to) {
				legal = append(legal, to)
			}
		}
	case len(report.Checks) > 1:
		// only the king may answer a double check
	case report.InCheck():
		if report.IsPinned(p.Square) {
			break
		}
		checker := report.Checks[0]
		for _, to := range candidates {
			if to == checker || gs.keepsKingSafe(p, to, kingSq) {
				legal = append(legal, to)
			}
		}
	case report.IsPinned(p.Square):
		for _, to := range candidates {
			if gs.keepsKingSafe(p, to, kingSq) {
				legal = append(legal, to)
			}
		}
	default:
		legal = append(legal, candidates...)
	}
	return legal
}

// kingSafeAt tries the king on to and reports whether it would be attacked
// there.
func (gs *GameState) kingSafeAt(king *Piece, to Square) bool {
	restore := gs.board.place(king, to)
	defer restore()
	return !gs.CheckFor(to, king.Color).InCheck()
}

// keepsKingSafe tries p on to and reports whether the king on kingSq is
// left without a checking piece.
func (gs *GameState) keepsKingSafe(p *Piece, to, kingSq Square) bool {
	restore := gs.board.place(p, to)
	defer restore()
	return !gs.CheckFor(kingSq, p.Color).InCheck()
}

// AllLegalMoves scans the board row by row and collects every legal move of
// color c.
func (gs *GameState) AllLegalMoves(c Color) []SimpleMove {
	var moves []SimpleMove
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := gs.board[row][col]
			if p == nil || p.Color != c {
				continue
			}
			from := p.Square
			for _, to := range gs.legalMoves(p) {
				moves = append(moves, SimpleMove{From: from, To: to})
			}
		}
	}
	return moves
}
