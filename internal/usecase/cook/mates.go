package cook

import (
	"github.com/notnil/chess"

	"puzzle_tagger/internal/domain/board"
	"puzzle_tagger/internal/domain/tag"
	"puzzle_tagger/internal/domain/variation"
)

// mateIn reports how many of pov's moves it takes to deliver the final
// checkmate, capped at five, or tag.None when the line does not end in mate.
func mateIn(v *variation.Variation) tag.Kind {
	if !board.IsCheckmate(v.Final().After) {
		return tag.None
	}
	switch len(v.Mainline) / 2 {
	case 1:
		return tag.MateIn1
	case 2:
		return tag.MateIn2
	case 3:
		return tag.MateIn3
	case 4:
		return tag.MateIn4
	}
	return tag.MateIn5
}

// smotheredMate: a knight delivers the mate and every square adjacent to the
// king is occupied by the mated side's own pieces.
func smotheredMate(v *variation.Variation) bool {
	b := v.Final().After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare {
		return false
	}
	for _, checkerSq := range board.Checkers(v.Final().After).Squares() {
		if b.Piece(checkerSq).Type() != chess.Knight {
			continue
		}
		for sq := chess.A1; sq <= chess.H8; sq++ {
			if board.SquareDistance(sq, king) != 1 {
				continue
			}
			blocker := b.Piece(sq)
			if blocker == chess.NoPiece || blocker.Color() == v.Pov {
				return false
			}
		}
		return true
	}
	return false
}

// backRankMate: the king is mated on its back rank by a checker on that rank,
// with the squares in front of it blocked by its own unattacked pieces.
func backRankMate(v *variation.Variation) bool {
	final := v.Final()
	b := final.After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare || !board.IsCheckmate(final.After) {
		return false
	}
	backRank := 0
	forward := 8
	if v.Pov == chess.White {
		backRank = 7
		forward = -8
	}
	if int(king.Rank()) != backRank {
		return false
	}
	squares := []chess.Square{king + chess.Square(forward)}
	if king.File() < chess.FileH {
		squares = append(squares, king+chess.Square(forward+1))
	}
	if king.File() > chess.FileA {
		squares = append(squares, king+chess.Square(forward-1))
	}
	for _, sq := range squares {
		piece := b.Piece(sq)
		if piece == chess.NoPiece || piece.Color() == v.Pov || !board.Attackers(b, v.Pov, sq).Empty() {
			return false
		}
	}
	for _, checker := range board.Checkers(final.After).Squares() {
		if int(checker.Rank()) == backRank {
			return true
		}
	}
	return false
}

// anastasiaMate: the king is mated on the a or h file by a queen or rook on
// that file, boxed in by its own piece beside it and pov's knight two files
// further in.
func anastasiaMate(v *variation.Variation) bool {
	final := v.Final()
	b := final.After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare {
		return false
	}
	if king.File() != chess.FileA && king.File() != chess.FileH {
		return false
	}
	if king.Rank() == chess.Rank1 || king.Rank() == chess.Rank8 {
		return false
	}
	moved := final.MovedPieceType()
	if final.Move.S2().File() != king.File() || (moved != chess.Queen && moved != chess.Rook) {
		return false
	}
	inward := 1
	if king.File() == chess.FileH {
		inward = -1
	}
	blocker := b.Piece(king + chess.Square(inward))
	if blocker == chess.NoPiece || blocker.Color() == v.Pov {
		return false
	}
	knight := b.Piece(king + chess.Square(3*inward))
	return knight != chess.NoPiece && knight.Color() == v.Pov && knight.Type() == chess.Knight
}

// hookMate: a rook mates next to the king, defended by a knight beside the
// king, itself defended by a pawn.
func hookMate(v *variation.Variation) bool {
	final := v.Final()
	b := final.After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare {
		return false
	}
	if final.MovedPieceType() != chess.Rook || board.SquareDistance(final.Move.S2(), king) != 1 {
		return false
	}
	for _, defenderSq := range board.Attackers(b, v.Pov, final.Move.S2()).Squares() {
		defender := b.Piece(defenderSq)
		if defender.Type() != chess.Knight || board.SquareDistance(defenderSq, king) != 1 {
			continue
		}
		for _, pawnSq := range board.Attackers(b, v.Pov, defenderSq).Squares() {
			if b.Piece(pawnSq).Type() == chess.Pawn {
				return true
			}
		}
	}
	return false
}

// arabianMate: a rook mates the cornered king, defended by a knight two files
// and two ranks away from the king.
func arabianMate(v *variation.Variation) bool {
	final := v.Final()
	b := final.After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare {
		return false
	}
	cornerFile := king.File() == chess.FileA || king.File() == chess.FileH
	cornerRank := king.Rank() == chess.Rank1 || king.Rank() == chess.Rank8
	if !cornerFile || !cornerRank {
		return false
	}
	if final.MovedPieceType() != chess.Rook || board.SquareDistance(final.Move.S2(), king) != 1 {
		return false
	}
	for _, knightSq := range board.Attackers(b, v.Pov, final.Move.S2()).Squares() {
		if b.Piece(knightSq).Type() != chess.Knight {
			continue
		}
		df := int(knightSq.File()) - int(king.File())
		dr := int(knightSq.Rank()) - int(king.Rank())
		if (df == 2 || df == -2) && (dr == 2 || dr == -2) {
			return true
		}
	}
	return false
}

// bodenOrDoubleBishopMate: two pov bishops deliver a mate where every square
// around the king is covered only by bishops. Criss-crossing bishops on
// opposite sides of the king make it a Boden mate, same-side bishops a
// double bishop mate.
func bodenOrDoubleBishopMate(v *variation.Variation) tag.Kind {
	b := v.Final().After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare {
		return tag.None
	}
	bishops := board.PieceSquares(b, chess.Bishop, v.Pov)
	if len(bishops) < 2 {
		return tag.None
	}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if board.SquareDistance(sq, king) >= 2 {
			continue
		}
		for _, p := range board.AttackerPieces(b, v.Pov, sq) {
			if p.Type() != chess.Bishop {
				return tag.None
			}
		}
	}
	if (bishops[0].File() < king.File()) == (bishops[1].File() > king.File()) {
		return tag.BodenMate
	}
	return tag.DoubleBishopMate
}

// dovetailMate: a queen mates diagonally adjacent to a king away from the
// board edge, with the two escape squares not covered by the queen blocked by
// the king's own pieces and nothing else of pov's bearing on the others.
func dovetailMate(v *variation.Variation) bool {
	final := v.Final()
	b := final.After.Board()
	king := board.KingSquare(b, v.Pov.Other())
	if king == chess.NoSquare {
		return false
	}
	if king.File() == chess.FileA || king.File() == chess.FileH ||
		king.Rank() == chess.Rank1 || king.Rank() == chess.Rank8 {
		return false
	}
	queenSq := final.Move.S2()
	if final.MovedPieceType() != chess.Queen ||
		queenSq.File() == king.File() ||
		queenSq.Rank() == king.Rank() ||
		board.SquareDistance(queenSq, king) > 1 {
		return false
	}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if board.SquareDistance(sq, king) != 1 || sq == queenSq {
			continue
		}
		attackers := board.Attackers(b, v.Pov, sq)
		if attackers == board.SquareSet(1)<<uint(queenSq) {
			if b.Piece(sq) != chess.NoPiece {
				return false
			}
		} else if !attackers.Empty() {
			return false
		}
	}
	return true
}
