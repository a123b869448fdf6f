// Package cook classifies a tactical line with the motifs that make it
// interesting: mating patterns, sacrifices, forks, pins, deflections and so
// on. Cook is a pure function over an immutable Variation; detectors are
// independent predicates applied in a fixed order that is part of the
// contract, with documented precedence between mutually exclusive groups.
package cook

import (
	"github.com/notnil/chess"

	"puzzle_tagger/internal/domain/board"
	"puzzle_tagger/internal/domain/tag"
	"puzzle_tagger/internal/domain/variation"
)

// Cook produces the ordered tag list for a variation. The result depends
// only on the variation: repeated calls yield identical lists, and the
// function never fails on a well-formed input.
func Cook(v *variation.Variation) []tag.Kind {
	tags := make([]tag.Kind, 0, 8)

	if mateTag := mateIn(v); mateTag != tag.None {
		tags = append(tags, mateTag, tag.Mate)
		if pattern := matePattern(v); pattern != tag.None {
			tags = append(tags, pattern)
		}
	} else if v.CP > 600 {
		tags = append(tags, tag.Crushing)
	} else if v.CP > 200 {
		tags = append(tags, tag.Advantage)
	} else {
		tags = append(tags, tag.Equality)
	}

	if attraction(v) {
		tags = append(tags, tag.Attraction)
	}

	if deflection(v) {
		tags = append(tags, tag.Deflection)
	} else if overloading(v) {
		tags = append(tags, tag.Overloading)
	}

	if advancedPawn(v) {
		tags = append(tags, tag.AdvancedPawn)
	}

	if doubleCheck(v) {
		tags = append(tags, tag.DoubleCheck)
	}

	if quietMove(v) {
		tags = append(tags, tag.QuietMove)
	}

	if defensiveMove(v) || checkEscape(v) {
		tags = append(tags, tag.DefensiveMove)
	}

	if sacrifice(v) {
		tags = append(tags, tag.Sacrifice)
	}

	if xRay(v) {
		tags = append(tags, tag.XRayAttack)
	}

	if fork(v) {
		tags = append(tags, tag.Fork)
	}

	if hangingPiece(v) {
		tags = append(tags, tag.HangingPiece)
	}

	if trappedPiece(v) {
		tags = append(tags, tag.TrappedPiece)
	}

	if discoveredAttack(v) {
		tags = append(tags, tag.DiscoveredAttack)
	}

	if exposedKing(v) {
		tags = append(tags, tag.ExposedKing)
	}

	if skewer(v) {
		tags = append(tags, tag.Skewer)
	}

	if selfInterference(v) || interference(v) {
		tags = append(tags, tag.Interference)
	}

	if intermezzo(v) {
		tags = append(tags, tag.Intermezzo)
	}

	if pinPreventsAttack(v) || pinPreventsEscape(v) {
		tags = append(tags, tag.Pin)
	}

	if attackingF2F7(v) {
		tags = append(tags, tag.AttackingF2F7)
	}

	if clearance(v) {
		tags = append(tags, tag.Clearance)
	}

	if enPassant(v) {
		tags = append(tags, tag.EnPassant)
	}

	if castling(v) {
		tags = append(tags, tag.Castling)
	}

	if promotion(v) {
		tags = append(tags, tag.Promotion)
	}

	if underPromotion(v) {
		tags = append(tags, tag.UnderPromotion)
	}

	if capturingDefender(v) {
		tags = append(tags, tag.CapturingDefender)
	}

	// Endgame kinds are mutually exclusive: the single-piece-type checks run
	// first, queen+rook only as the final fallback.
	if pieceEndgame(v, chess.Pawn) {
		tags = append(tags, tag.PawnEndgame)
	} else if pieceEndgame(v, chess.Queen) {
		tags = append(tags, tag.QueenEndgame)
	} else if pieceEndgame(v, chess.Rook) {
		tags = append(tags, tag.RookEndgame)
	} else if pieceEndgame(v, chess.Bishop) {
		tags = append(tags, tag.BishopEndgame)
	} else if pieceEndgame(v, chess.Knight) {
		tags = append(tags, tag.KnightEndgame)
	} else if queenRookEndgame(v) {
		tags = append(tags, tag.QueenRookEndgame)
	}

	if !contains(tags, tag.BackRankMate) && !contains(tags, tag.Fork) {
		if kingsideAttack(v) {
			tags = append(tags, tag.KingsideAttack)
		} else if queensideAttack(v) {
			tags = append(tags, tag.QueensideAttack)
		}
	}

	switch {
	case len(v.Mainline) == 2:
		tags = append(tags, tag.OneMove)
	case len(v.Mainline) == 4:
		tags = append(tags, tag.Short)
	case len(v.Mainline) >= 8:
		tags = append(tags, tag.VeryLong)
	default:
		tags = append(tags, tag.Long)
	}

	return tags
}

// matePattern picks at most one named mate pattern, in fixed priority order.
func matePattern(v *variation.Variation) tag.Kind {
	switch {
	case smotheredMate(v):
		return tag.SmotheredMate
	case backRankMate(v):
		return tag.BackRankMate
	case anastasiaMate(v):
		return tag.AnastasiaMate
	case hookMate(v):
		return tag.HookMate
	case arabianMate(v):
		return tag.ArabianMate
	default:
		if found := bodenOrDoubleBishopMate(v); found != tag.None {
			return found
		}
		if dovetailMate(v) {
			return tag.DovetailMate
		}
	}
	return tag.None
}

func contains(tags []tag.Kind, k tag.Kind) bool {
	for _, t := range tags {
		if t == k {
			return true
		}
	}
	return false
}

func legalMoveCount(pos *chess.Position) int {
	return len(pos.ValidMoves())
}

// moveLegalIn reports whether an equivalent of move is legal in pos.
func moveLegalIn(pos *chess.Position, move *chess.Move) bool {
	for _, m := range pos.ValidMoves() {
		if m.S1() == move.S1() && m.S2() == move.S2() && m.Promo() == move.Promo() {
			return true
		}
	}
	return false
}

// anyCheckByPov reports whether any of pov's moves gives check.
func anyCheckByPov(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		if board.IsCheck(v.Mainline[i].After) {
			return true
		}
	}
	return false
}
