package board

import (
	"github.com/notnil/chess"
)

// Values is the material value of each piece kind, used for material
// accounting. The king carries no material value.
var Values = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

// KingValues ranks piece kinds for exchange comparisons. Identical to Values
// except that the king outranks everything, so it is never treated as a cheap
// attacker or an acceptable target.
var KingValues = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   99,
}

// RayPieceTypes are the pieces whose attack lines can be blocked, discovered
// or interfered with.
var RayPieceTypes = []chess.PieceType{chess.Bishop, chess.Rook, chess.Queen}

// IsRayPiece reports whether pt attacks along blockable lines.
func IsRayPiece(pt chess.PieceType) bool {
	return pt == chess.Bishop || pt == chess.Rook || pt == chess.Queen
}

// MaterialCount sums the material value of side's pieces.
func MaterialCount(b *chess.Board, side chess.Color) int {
	total := 0
	for _, p := range b.SquareMap() {
		if p.Color() == side {
			total += Values[p.Type()]
		}
	}
	return total
}

// MaterialDiff is the material balance from pov's perspective, positive when
// pov is ahead.
func MaterialDiff(b *chess.Board, pov chess.Color) int {
	return MaterialCount(b, pov) - MaterialCount(b, pov.Other())
}

// IsDefended reports whether the piece on sq has at least one friendly
// defender of that square.
func IsDefended(b *chess.Board, piece chess.Piece, sq chess.Square) bool {
	return !Attackers(b, piece.Color(), sq).Empty()
}

// IsHanging reports whether the piece on sq is undefended against capture.
func IsHanging(b *chess.Board, piece chess.Piece, sq chess.Square) bool {
	return !IsDefended(b, piece, sq)
}

// IsInBadSpot reports whether the piece on sq is attacked by an enemy piece
// of lower or equal attack priority, regardless of how well it is defended.
func IsInBadSpot(b *chess.Board, sq chess.Square) bool {
	p := b.Piece(sq)
	if p == chess.NoPiece {
		return false
	}
	for _, from := range Attackers(b, p.Color().Other(), sq).Squares() {
		if KingValues[b.Piece(from).Type()] <= KingValues[p.Type()] {
			return true
		}
	}
	return false
}

// IsTrapped reports whether the piece on sq cannot move to safety: every
// legal destination is itself attacked by a lower-or-equal-priority enemy
// piece, and no escape captures a piece worth as much as the trapped one.
// Only meaningful for a piece of the side to move; kings and pawns are never
// considered trapped.
func IsTrapped(pos *chess.Position, sq chess.Square) bool {
	b := pos.Board()
	p := b.Piece(sq)
	if p == chess.NoPiece || p.Type() == chess.King || p.Type() == chess.Pawn {
		return false
	}
	if p.Color() != pos.Turn() || IsCheck(pos) {
		return false
	}
	if _, pinned := Pin(b, p.Color(), sq); pinned {
		return false
	}
	if !IsInBadSpot(b, sq) {
		return false
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() != sq {
			continue
		}
		if t := b.Piece(m.S2()); t != chess.NoPiece && Values[t.Type()] >= Values[p.Type()] {
			return false
		}
		if !IsInBadSpot(pos.Update(m).Board(), m.S2()) {
			return false
		}
	}
	return true
}

// AttackedPiece pairs an attacked piece with the square it stands on.
type AttackedPiece struct {
	Piece  chess.Piece
	Square chess.Square
}

// AttackedOpponentSquares returns the non-pov pieces attacked from a square,
// with the squares they stand on, in ascending square order.
func AttackedOpponentSquares(b *chess.Board, from chess.Square, pov chess.Color) []AttackedPiece {
	var attacked []AttackedPiece
	for _, sq := range Attacks(b, from).Squares() {
		p := b.Piece(sq)
		if p != chess.NoPiece && p.Color() != pov {
			attacked = append(attacked, AttackedPiece{Piece: p, Square: sq})
		}
	}
	return attacked
}

// AttackedOpponentPieces returns just the pieces of AttackedOpponentSquares.
func AttackedOpponentPieces(b *chess.Board, from chess.Square, pov chess.Color) []chess.Piece {
	attacked := AttackedOpponentSquares(b, from, pov)
	pieces := make([]chess.Piece, 0, len(attacked))
	for _, a := range attacked {
		pieces = append(pieces, a.Piece)
	}
	return pieces
}
