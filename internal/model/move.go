package model

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
	Rook *Piece `json:"-"`
}

// ChessMove holds everything needed to reverse one applied move.
type ChessMove struct {
	Start          Square          `json:"start"`
	End            Square          `json:"end"`
	Piece          *Piece          `json:"-"`
	Captured       *Piece          `json:"-"`
	Castled        bool            `json:"castled"`
	Promoted       bool            `json:"promoted"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	PromotionKind  PieceKind       `json:"promotionKind,omitempty"`
	Replacement    *Piece          `json:"-"`

	rightsBefore castlingState
}

// newChessMove records p leaving its square for end, before anything on
// the board changes.
func (gs *GameState) newChessMove(p *Piece, end Square) *ChessMove {
	return &ChessMove{
		Start:        p.Square,
		End:          end,
		Piece:        p,
		Captured:     gs.board.at(end),
		rightsBefore: gs.rights,
	}
}

func (m *ChessMove) simple() SimpleMove {
	return SimpleMove{From: m.Start, To: m.End}
}
