package board

import (
	"math/bits"

	"github.com/notnil/chess"
)

// SquareSet is a bitboard with one bit per square, a1 = bit 0, h8 = bit 63.
type SquareSet uint64

func (s SquareSet) Has(sq chess.Square) bool {
	return s&(1<<uint(sq)) != 0
}

func (s SquareSet) Empty() bool {
	return s == 0
}

func (s SquareSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

func (s *SquareSet) Add(sq chess.Square) {
	*s |= 1 << uint(sq)
}

// First returns the lowest square of the set, or chess.NoSquare when empty.
func (s SquareSet) First() chess.Square {
	if s == 0 {
		return chess.NoSquare
	}
	return chess.Square(bits.TrailingZeros64(uint64(s)))
}

// Squares lists the members of the set in ascending square order.
func (s SquareSet) Squares() []chess.Square {
	squares := make([]chess.Square, 0, s.Count())
	for v := uint64(s); v != 0; v &= v - 1 {
		squares = append(squares, chess.Square(bits.TrailingZeros64(v)))
	}
	return squares
}

// Pre-computed attack and geometry tables for the fixed-shape movers.
// Sliding attacks are resolved against occupancy at query time.
var (
	knightAttacks    [64]SquareSet
	kingAttackTable  [64]SquareSet
	whitePawnAttacks [64]SquareSet
	blackPawnAttacks [64]SquareSet

	betweenBB [64][64]SquareSet // squares strictly between two aligned squares
	lineBB    [64][64]SquareSet // the full line through two aligned squares
)

var (
	knightDeltas = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	diagDirs     = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthoDirs    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	allDirs      = [8][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func init() {
	for sq := 0; sq < 64; sq++ {
		f, r := sq%8, sq/8
		for _, d := range knightDeltas {
			if set, ok := squareAt(f+d[0], r+d[1]); ok {
				knightAttacks[sq] |= set
			}
		}
		for _, d := range allDirs {
			if set, ok := squareAt(f+d[0], r+d[1]); ok {
				kingAttackTable[sq] |= set
			}
		}
		if set, ok := squareAt(f-1, r+1); ok {
			whitePawnAttacks[sq] |= set
		}
		if set, ok := squareAt(f+1, r+1); ok {
			whitePawnAttacks[sq] |= set
		}
		if set, ok := squareAt(f-1, r-1); ok {
			blackPawnAttacks[sq] |= set
		}
		if set, ok := squareAt(f+1, r-1); ok {
			blackPawnAttacks[sq] |= set
		}
	}
	for sq := 0; sq < 64; sq++ {
		f, r := sq%8, sq/8
		for _, d := range allDirs {
			var walked SquareSet
			tf, tr := f+d[0], r+d[1]
			for tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				to := tr*8 + tf
				betweenBB[sq][to] = walked
				walked.Add(chess.Square(to))
				tf += d[0]
				tr += d[1]
			}
			// The line through sq in this direction covers every walked
			// square in both orientations plus sq itself.
			if walked != 0 {
				full := walked | SquareSet(1)<<uint(sq) | walkBack(f, r, d)
				for _, to := range walked.Squares() {
					lineBB[sq][to] = full
				}
			}
		}
	}
}

func walkBack(f, r int, d [2]int) SquareSet {
	var set SquareSet
	tf, tr := f-d[0], r-d[1]
	for tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
		set.Add(chess.Square(tr*8 + tf))
		tf += d[0]
		tr += d[1]
	}
	return set
}

func squareAt(f, r int) (SquareSet, bool) {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return 0, false
	}
	return SquareSet(1) << uint(r*8+f), true
}

// Between returns the squares strictly between two squares, empty when they
// do not share a rank, file or diagonal.
func Between(s1, s2 chess.Square) SquareSet {
	return betweenBB[s1][s2]
}

// Line returns the full rank, file or diagonal through both squares, empty
// when they are not aligned.
func Line(s1, s2 chess.Square) SquareSet {
	return lineBB[s1][s2]
}

// SquareDistance is the number of king steps between two squares.
func SquareDistance(s1, s2 chess.Square) int {
	df := int(s1.File()) - int(s2.File())
	if df < 0 {
		df = -df
	}
	dr := int(s1.Rank()) - int(s2.Rank())
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}
