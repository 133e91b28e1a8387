package model

import "golang.org/x/exp/slices"

// CheckReport is the result of scanning outward from a king square.
// Pinned[i] is held in place by the enemy piece on Pinners[i].
type CheckReport struct {
	Checks  []Square `json:"checks"`
	Pinned  []Square `json:"pinned"`
	Pinners []Square `json:"pinners"`
}

func (r CheckReport) InCheck() bool {
	return len(r.Checks) > 0
}

func (r CheckReport) IsPinned(sq Square) bool {
	return slices.Contains(r.Pinned, sq)
}

var rays = []step{
	{row: 0, col: -1},
	{row: 0, col: 1},
	{row: 1, col: 0},
	{row: -1, col: 0},
	{row: -1, col: -1},
	{row: -1, col: 1},
	{row: 1, col: -1},
	{row: 1, col: 1},
}

// CheckFor casts the eight rays and probes the eight knight jumps around
// king, classifying enemy attackers of the c king standing on that square.
// The first own non-king piece on a ray is a pin candidate; a second one
// ends the ray. Knight attacks are always direct checks.
func (gs *GameState) CheckFor(king Square, c Color) CheckReport {
	var report CheckReport
	for _, d := range rays {
		var (
			candidate Square
			shielded  bool
		)
		for sq := king.step(d); sq.InBounds(); sq = sq.step(d) {
			p := gs.board.at(sq)
			if p == nil {
				continue
			}
			if p.Color == c {
				if p.Kind == King {
					continue
				}
				if shielded {
					break
				}
				candidate, shielded = sq, true
				continue
			}
			if shielded {
				if gs.attacksThrough(p, king, candidate) {
					report.Pinned = append(report.Pinned, candidate)
					report.Pinners = append(report.Pinners, sq)
				}
			} else if gs.attacks(p, king) {
				report.Checks = append(report.Checks, sq)
			}
			break
		}
	}
	for _, j := range knightJumps {
		sq := king.step(j)
		p := gs.board.at(sq)
		if p != nil && p.Color != c && gs.attacks(p, king) {
			report.Checks = append(report.Checks, sq)
		}
	}
	return report
}

func (gs *GameState) attacks(p *Piece, target Square) bool {
	return slices.Contains(gs.CaptureMoves(p), target)
}

// attacksThrough reports whether p would attack target if the piece on
// shield were gone.
func (gs *GameState) attacksThrough(p *Piece, target, shield Square) bool {
	restore := gs.board.lift(shield)
	defer restore()
	return gs.attacks(p, target)
}
