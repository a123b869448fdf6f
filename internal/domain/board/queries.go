package board

import (
	"github.com/notnil/chess"
)

// Attacks returns the squares attacked by the piece on from, occupied or not.
// Pawn attacks are the diagonal capture squares only. An empty square attacks
// nothing.
func Attacks(b *chess.Board, from chess.Square) SquareSet {
	p := b.Piece(from)
	if p == chess.NoPiece {
		return 0
	}
	switch p.Type() {
	case chess.Knight:
		return knightAttacks[from]
	case chess.King:
		return kingAttackTable[from]
	case chess.Pawn:
		if p.Color() == chess.White {
			return whitePawnAttacks[from]
		}
		return blackPawnAttacks[from]
	case chess.Bishop:
		return slidingAttacks(b, from, diagDirs[:])
	case chess.Rook:
		return slidingAttacks(b, from, orthoDirs[:])
	case chess.Queen:
		return slidingAttacks(b, from, diagDirs[:]) | slidingAttacks(b, from, orthoDirs[:])
	}
	return 0
}

func slidingAttacks(b *chess.Board, from chess.Square, dirs [][2]int) SquareSet {
	var set SquareSet
	f0, r0 := int(from.File()), int(from.Rank())
	for _, d := range dirs {
		f, r := f0+d[0], r0+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			sq := chess.Square(r*8 + f)
			set.Add(sq)
			if b.Piece(sq) != chess.NoPiece {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return set
}

// Attackers returns the squares of color's pieces attacking sq.
func Attackers(b *chess.Board, color chess.Color, sq chess.Square) SquareSet {
	var set SquareSet
	for from, p := range b.SquareMap() {
		if p.Color() == color && Attacks(b, from).Has(sq) {
			set.Add(from)
		}
	}
	return set
}

// AttackerPieces returns the pieces of color attacking sq.
func AttackerPieces(b *chess.Board, color chess.Color, sq chess.Square) []chess.Piece {
	attackers := Attackers(b, color, sq)
	pieces := make([]chess.Piece, 0, attackers.Count())
	for _, from := range attackers.Squares() {
		pieces = append(pieces, b.Piece(from))
	}
	return pieces
}

// KingSquare locates color's king, chess.NoSquare when absent.
func KingSquare(b *chess.Board, color chess.Color) chess.Square {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := b.Piece(sq)
		if p != chess.NoPiece && p.Type() == chess.King && p.Color() == color {
			return sq
		}
	}
	return chess.NoSquare
}

// PieceSquares lists the squares of color's pieces of the given type in
// ascending square order.
func PieceSquares(b *chess.Board, pt chess.PieceType, color chess.Color) []chess.Square {
	var squares []chess.Square
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := b.Piece(sq)
		if p != chess.NoPiece && p.Type() == pt && p.Color() == color {
			squares = append(squares, sq)
		}
	}
	return squares
}

// Checkers returns the squares of the pieces giving check to the side to move.
func Checkers(pos *chess.Position) SquareSet {
	b := pos.Board()
	king := KingSquare(b, pos.Turn())
	if king == chess.NoSquare {
		return 0
	}
	return Attackers(b, pos.Turn().Other(), king)
}

// IsCheck reports whether the side to move is in check.
func IsCheck(pos *chess.Position) bool {
	return !Checkers(pos).Empty()
}

// IsCheckmate reports whether the side to move is checkmated.
func IsCheckmate(pos *chess.Position) bool {
	return pos.Status() == chess.Checkmate
}

// Pin returns the ray that the piece on sq is absolutely pinned to against
// color's king: the full line through king, piece and pinning slider. The
// second result is false when the piece is not pinned.
func Pin(b *chess.Board, color chess.Color, sq chess.Square) (SquareSet, bool) {
	king := KingSquare(b, color)
	if king == chess.NoSquare || king == sq {
		return 0, false
	}
	occ := occupancy(b)
	for from, p := range b.SquareMap() {
		if p.Color() == color {
			continue
		}
		between := betweenBB[king][from]
		if !between.Has(sq) {
			continue
		}
		ortho := from.File() == king.File() || from.Rank() == king.Rank()
		if p.Type() != chess.Queen &&
			!(ortho && p.Type() == chess.Rook) &&
			!(!ortho && p.Type() == chess.Bishop) {
			continue
		}
		if between&occ == SquareSet(1)<<uint(sq) {
			return lineBB[king][from], true
		}
	}
	return 0, false
}

// HasMoveOffRay reports whether the piece on from has any pseudo-legal move
// to a square outside ray. Used to tell a pinned piece that could otherwise
// flee from one that is frozen in place.
func HasMoveOffRay(b *chess.Board, from chess.Square, ray SquareSet) bool {
	p := b.Piece(from)
	if p == chess.NoPiece {
		return false
	}
	if p.Type() == chess.Pawn {
		return pawnHasMoveOffRay(b, from, p.Color(), ray)
	}
	for _, to := range Attacks(b, from).Squares() {
		if ray.Has(to) {
			continue
		}
		if t := b.Piece(to); t != chess.NoPiece && t.Color() == p.Color() {
			continue
		}
		return true
	}
	return false
}

func pawnHasMoveOffRay(b *chess.Board, from chess.Square, color chess.Color, ray SquareSet) bool {
	push, start := 8, chess.Rank2
	attacks := whitePawnAttacks[from]
	if color == chess.Black {
		push, start = -8, chess.Rank7
		attacks = blackPawnAttacks[from]
	}
	one := from + chess.Square(push)
	if one >= chess.A1 && one <= chess.H8 && b.Piece(one) == chess.NoPiece {
		if !ray.Has(one) {
			return true
		}
		if from.Rank() == start {
			two := one + chess.Square(push)
			if b.Piece(two) == chess.NoPiece && !ray.Has(two) {
				return true
			}
		}
	}
	for _, to := range attacks.Squares() {
		if ray.Has(to) {
			continue
		}
		if t := b.Piece(to); t != chess.NoPiece && t.Color() != color {
			return true
		}
	}
	return false
}

func occupancy(b *chess.Board) SquareSet {
	var occ SquareSet
	for sq := range b.SquareMap() {
		occ.Add(sq)
	}
	return occ
}
