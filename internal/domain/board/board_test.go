package board

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	fenOpt, err := chess.FEN(fen)
	require.NoError(t, err)
	return chess.NewGame(fenOpt).Position()
}

func TestBetween(t *testing.T) {
	diag := Between(chess.A1, chess.H8)
	assert.Equal(t, 6, diag.Count())
	assert.True(t, diag.Has(chess.D4))
	assert.False(t, diag.Has(chess.A1))
	assert.False(t, diag.Has(chess.H8))

	file := Between(chess.E1, chess.E8)
	assert.Equal(t, 6, file.Count())
	assert.True(t, file.Has(chess.E5))

	// knight relation, no line
	assert.True(t, Between(chess.A1, chess.B3).Empty())
}

func TestLineExtendsThroughEndpoints(t *testing.T) {
	l := Line(chess.E1, chess.E4)
	for r := 0; r < 8; r++ {
		assert.True(t, l.Has(chess.Square(r*8+int(chess.FileE))))
	}
	assert.False(t, l.Has(chess.D4))
}

func TestSquareDistance(t *testing.T) {
	assert.Equal(t, 7, SquareDistance(chess.A1, chess.H8))
	assert.Equal(t, 1, SquareDistance(chess.E4, chess.F5))
	assert.Equal(t, 0, SquareDistance(chess.C3, chess.C3))
}

func TestAttacksKnightAndSliders(t *testing.T) {
	pos := positionFromFEN(t, "4k3/8/8/3r4/8/2N5/8/4K3 w - - 0 1")
	b := pos.Board()

	knight := Attacks(b, chess.C3)
	assert.Equal(t, 8, knight.Count())
	assert.True(t, knight.Has(chess.D5))
	assert.True(t, knight.Has(chess.B1))

	// rook ray stops at the first blocker, blocker included
	rook := Attacks(b, chess.D5)
	assert.True(t, rook.Has(chess.D8))
	assert.True(t, rook.Has(chess.D4))
	assert.True(t, rook.Has(chess.D1), "nothing blocks the d-file below the rook")
	assert.False(t, rook.Has(chess.C3), "the knight is not on a rook ray from d5")
	assert.True(t, rook.Has(chess.A5))
	assert.True(t, rook.Has(chess.H5))
}

func TestAttackersStartingPosition(t *testing.T) {
	pos := positionFromFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	b := pos.Board()

	att := Attackers(b, chess.White, chess.F3)
	assert.Equal(t, 3, att.Count())
	assert.True(t, att.Has(chess.E2))
	assert.True(t, att.Has(chess.G2))
	assert.True(t, att.Has(chess.G1))

	assert.True(t, Attackers(b, chess.Black, chess.F3).Empty())
}

func TestCheckersAndCheckmate(t *testing.T) {
	pos := positionFromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	checkers := Checkers(pos)
	assert.Equal(t, 1, checkers.Count())
	assert.True(t, checkers.Has(chess.H4))
	assert.True(t, IsCheck(pos))
	assert.True(t, IsCheckmate(pos))
}

func TestPin(t *testing.T) {
	pos := positionFromFEN(t, "4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1")
	b := pos.Board()

	ray, pinned := Pin(b, chess.White, chess.E2)
	require.True(t, pinned)
	assert.True(t, ray.Has(chess.E8))
	assert.True(t, ray.Has(chess.E1))
	assert.True(t, ray.Has(chess.E5))
	assert.False(t, ray.Has(chess.D2))

	// the pinned rook can still slide along the ray, but has moves off it
	assert.True(t, HasMoveOffRay(b, chess.E2, ray))

	_, pinned = Pin(b, chess.Black, chess.E8)
	assert.False(t, pinned)
}

func TestIsHangingAndBadSpot(t *testing.T) {
	// black knight on d5 attacked by a pawn, nothing defends it
	pos := positionFromFEN(t, "4k3/8/8/3n4/4P3/8/8/4K3 b - - 0 1")
	b := pos.Board()

	knight := b.Piece(chess.D5)
	assert.True(t, IsHanging(b, knight, chess.D5))
	assert.True(t, IsInBadSpot(b, chess.D5), "pawn attacker outranks a knight")

	// defended by a pawn on c6 it is no longer hanging, still a bad spot
	pos = positionFromFEN(t, "4k3/8/2p5/3n4/4P3/8/8/4K3 b - - 0 1")
	b = pos.Board()
	knight = b.Piece(chess.D5)
	assert.False(t, IsHanging(b, knight, chess.D5))
	assert.True(t, IsInBadSpot(b, chess.D5))
}

func TestIsTrapped(t *testing.T) {
	// the a8 knight has only b6 (pawn, guarded by a5) and c7 (guarded by the
	// b6 pawn); the d5 bishop eyes a8 itself
	pos := positionFromFEN(t, "n6k/8/1P6/P2B4/8/8/8/7K b - - 0 1")
	assert.True(t, IsTrapped(pos, chess.A8))

	// without the a5 pawn, taking on b6 is a clean escape
	pos = positionFromFEN(t, "n6k/8/1P6/3B4/8/8/8/7K b - - 0 1")
	assert.False(t, IsTrapped(pos, chess.A8))

	// kings are never trapped
	pos = positionFromFEN(t, "n6k/8/1P6/P2B4/8/8/8/7K b - - 0 1")
	assert.False(t, IsTrapped(pos, chess.H8))
}

func TestMaterialDiff(t *testing.T) {
	pos := positionFromFEN(t, "4k3/8/8/8/8/8/P6P/R3K3 w - - 0 1")
	b := pos.Board()

	assert.Equal(t, 7, MaterialDiff(b, chess.White))
	assert.Equal(t, -7, MaterialDiff(b, chess.Black))
	assert.Equal(t, 7, MaterialCount(b, chess.White))
	assert.Equal(t, 0, MaterialCount(b, chess.Black))
}

func TestAttackedOpponentSquares(t *testing.T) {
	// white knight on d5 forks the rooks on c7 and e7
	pos := positionFromFEN(t, "6k1/2r1r2p/8/3N4/8/8/7P/6K1 b - - 0 1")
	b := pos.Board()

	attacked := AttackedOpponentSquares(b, chess.D5, chess.White)
	require.Len(t, attacked, 2)
	assert.Equal(t, chess.C7, attacked[0].Square)
	assert.Equal(t, chess.E7, attacked[1].Square)
	assert.Equal(t, chess.Rook, attacked[0].Piece.Type())
}
