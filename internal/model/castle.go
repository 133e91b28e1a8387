package model

// CastlingRights tracks what has not moved yet for one color. Flags only
// go from true to false during play; undo restores them.
// RookA is the rook starting on column 0 and RookH the one on column 7,
// whichever color sits on the bottom.
type CastlingRights struct {
	KingUnmoved  bool `json:"kingUnmoved"`
	RookAUnmoved bool `json:"rookAUnmoved"`
	RookHUnmoved bool `json:"rookHUnmoved"`
}

type castlingState struct {
	White CastlingRights
	Black CastlingRights
}

func (cs *castlingState) of(c Color) *CastlingRights {
	if c == White {
		return &cs.White
	}
	return &cs.Black
}

type castleSide int

const (
	castleLeft castleSide = iota
	castleRight
)

type castlePlan struct {
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	between  []Square
}

// homeRow is the back rank of color c for this board orientation.
func (gs *GameState) homeRow(c Color) int {
	if c == gs.bottom {
		return 7
	}
	return 0
}

// kingHomeCol is 4 when white sits on the bottom and 3 when black does;
// both kings share the column.
func (gs *GameState) kingHomeCol() int {
	if gs.bottom == White {
		return 4
	}
	return 3
}

// castlePlan describes the castle of color c toward column 0 (left) or
// column 7 (right). The king travels two columns and the rook lands on the
// square the king crossed.
func (gs *GameState) castlePlan(c Color, side castleSide) castlePlan {
	row, kc := gs.homeRow(c), gs.kingHomeCol()
	plan := castlePlan{kingFrom: Square{Row: row, Col: kc}}
	if side == castleLeft {
		plan.kingTo = Square{Row: row, Col: kc - 2}
		plan.rookFrom = Square{Row: row, Col: 0}
		plan.rookTo = Square{Row: row, Col: kc - 1}
		for col := 1; col < kc; col++ {
			plan.between = append(plan.between, Square{Row: row, Col: col})
		}
		return plan
	}
	plan.kingTo = Square{Row: row, Col: kc + 2}
	plan.rookFrom = Square{Row: row, Col: 7}
	plan.rookTo = Square{Row: row, Col: kc + 1}
	for col := kc + 1; col < 7; col++ {
		plan.between = append(plan.between, Square{Row: row, Col: col})
	}
	return plan
}

func (gs *GameState) KingCanCastleLeft(c Color) bool {
	return gs.canCastle(c, castleLeft)
}

func (gs *GameState) KingCanCastleRight(c Color) bool {
	return gs.canCastle(c, castleRight)
}

// canCastle checks the flags, the pieces on their home squares, the empty
// squares in between and that the king is not in check right now. The
// square the king passes over is not tested for attack; only the landing
// square is, through the ordinary king move filter.
func (gs *GameState) canCastle(c Color, side castleSide) bool {
	rights := gs.rights.of(c)
	if !rights.KingUnmoved {
		return false
	}
	if side == castleLeft && !rights.RookAUnmoved || side == castleRight && !rights.RookHUnmoved {
		return false
	}
	plan := gs.castlePlan(c, side)
	king := gs.board.at(plan.kingFrom)
	if king == nil || king.Kind != King || king.Color != c {
		return false
	}
	rook := gs.board.at(plan.rookFrom)
	if rook == nil || rook.Kind != Rook || rook.Color != c {
		return false
	}
	for _, sq := range plan.between {
		if gs.board.at(sq) != nil {
			return false
		}
	}
	return !gs.CheckFor(plan.kingFrom, c).InCheck()
}

// moveKing applies a king move, turning it into a castle when the king
// lands on a castling square it is eligible for. Both pieces move in the
// same step and both flags for that side are cleared.
func (gs *GameState) moveKing(king *Piece, end Square) *ChessMove {
	move := gs.newChessMove(king, end)
	if gs.board.at(end) == nil {
		for _, side := range []castleSide{castleLeft, castleRight} {
			plan := gs.castlePlan(king.Color, side)
			if end != plan.kingTo || !gs.canCastle(king.Color, side) {
				continue
			}
			rook := gs.board.at(plan.rookFrom)
			move.Castled = true
			move.CastleRookMove = &CastleRookMove{From: plan.rookFrom, To: plan.rookTo, Rook: rook}
			gs.board.place(rook, plan.rookTo)
			rights := gs.rights.of(king.Color)
			if side == castleLeft {
				rights.RookAUnmoved = false
			} else {
				rights.RookHUnmoved = false
			}
			break
		}
	}
	gs.capture(move)
	gs.board.place(king, end)
	gs.rights.of(king.Color).KingUnmoved = false
	gs.setKingSquare(king.Color, end)
	return move
}

// clearRookRight drops the flag of the c rook whose home corner is sq.
func (gs *GameState) clearRookRight(c Color, sq Square) {
	if sq.Row != gs.homeRow(c) {
		return
	}
	switch sq.Col {
	case 0:
		gs.rights.of(c).RookAUnmoved = false
	case 7:
		gs.rights.of(c).RookHUnmoved = false
	}
}
