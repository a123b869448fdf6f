package cook

import (
	"github.com/notnil/chess"

	"puzzle_tagger/internal/domain/board"
	"puzzle_tagger/internal/domain/variation"
)

// pieceEndgame: the first two positions hold only kings, pawns and at least
// one piece of the given type.
func pieceEndgame(v *variation.Variation, pt chess.PieceType) bool {
	for _, n := range v.Mainline[:2] {
		b := n.After.Board()
		found := false
		for _, piece := range b.SquareMap() {
			switch piece.Type() {
			case pt:
				found = true
			case chess.King, chess.Pawn:
			default:
				return false
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// queenRookEndgame: exactly one queen, at least one rook, nothing else but
// pawns and kings, in both of the first two positions.
func queenRookEndgame(v *variation.Variation) bool {
	for _, n := range v.Mainline[:2] {
		b := n.After.Board()
		queens, rooks := 0, 0
		for _, piece := range b.SquareMap() {
			switch piece.Type() {
			case chess.Queen:
				queens++
			case chess.Rook:
				rooks++
			case chess.Pawn, chess.King:
			default:
				return false
			}
		}
		if queens != 1 || rooks == 0 {
			return false
		}
	}
	return true
}

func kingsideAttack(v *variation.Variation) bool {
	return sideAttack(v, chess.FileH, []chess.File{chess.FileG, chess.FileH}, 20)
}

func queensideAttack(v *variation.Variation) bool {
	return sideAttack(v, chess.FileA, []chess.File{chess.FileA, chess.FileB, chess.FileC}, 18)
}

// sideAttack scores an attack against a castled king: checks count toward
// the score, captures near the corner count, moves far from the corner count
// against. Sparse boards are out to avoid tagging endgames.
func sideAttack(v *variation.Variation, cornerFile chess.File, kingFiles []chess.File, nbPieces int) bool {
	backRank := chess.Rank1
	if v.Pov == chess.White {
		backRank = chess.Rank8
	}
	initBoard := v.Mainline[0].After.Board()
	kingSq := board.KingSquare(initBoard, v.Pov.Other())
	if kingSq == chess.NoSquare || kingSq.Rank() != backRank {
		return false
	}
	onWing := false
	for _, f := range kingFiles {
		if kingSq.File() == f {
			onWing = true
		}
	}
	if !onWing || len(initBoard.SquareMap()) < nbPieces {
		return false
	}
	if !anyCheckByPov(v) {
		return false
	}
	corner := chess.Square(int(backRank)*8 + int(cornerFile))
	score := 0
	for i := 1; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		dist := board.SquareDistance(corner, n.Move.S2())
		if board.IsCheck(n.After) {
			score++
		}
		if n.IsCapture() && dist <= 3 {
			score++
		} else if dist >= 5 {
			score--
		}
	}
	return score >= 2
}
