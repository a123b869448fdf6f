package variation

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errdefs "puzzle_tagger/internal/errors"
)

func TestFromRecordBuildsLinkedMainline(t *testing.T) {
	v, err := FromRecord("00abc", "r5k1/p6p/8/8/8/8/7P/R5K1 b - - 0 1",
		[]string{"h7h6", "a1a7", "a8a7", "h2h3"}, 50)
	require.NoError(t, err)

	require.Len(t, v.Mainline, 4)
	assert.Equal(t, chess.White, v.Pov, "pov is the side to move after the setup move")
	assert.Equal(t, 50, v.CP)
	assert.Equal(t, v.Mainline[3], v.Final())

	first := v.Mainline[0]
	assert.Nil(t, first.Parent())
	assert.Equal(t, v.Mainline[1], first.Next())
	assert.Equal(t, v.Mainline[2], first.NextNext())
	assert.Equal(t, first, v.Mainline[2].Grandparent())
	assert.Equal(t, first, v.Mainline[3].GreatGrandparent())

	// Before/After chain is consistent
	for i := 1; i < len(v.Mainline); i++ {
		assert.Equal(t, v.Mainline[i-1].After, v.Mainline[i].Before)
	}
}

func TestFromRecordCaptureFlags(t *testing.T) {
	v, err := FromRecord("00abc", "r5k1/p6p/8/8/8/8/7P/R5K1 b - - 0 1",
		[]string{"h7h6", "a1a7", "a8a7", "h2h3"}, 50)
	require.NoError(t, err)

	assert.False(t, v.Mainline[0].IsCapture())
	assert.True(t, v.Mainline[1].IsCapture(), "rook takes the a7 pawn")
	assert.True(t, v.Mainline[2].IsCapture(), "rook recaptures on a7")
	assert.Equal(t, chess.Rook, v.Mainline[1].MovedPieceType())
	assert.Equal(t, chess.Pawn, v.Mainline[3].MovedPieceType())
}

func TestFromRecordCastling(t *testing.T) {
	v, err := FromRecord("00abc", "4k3/8/8/8/8/8/7r/4K2R w K - 0 1",
		[]string{"e1g1", "h2h5"}, 0)
	require.NoError(t, err)

	assert.True(t, v.Mainline[0].IsCastling())
	assert.False(t, v.Mainline[1].IsCastling())
}

func TestFromRecordRejectsBadFEN(t *testing.T) {
	_, err := FromRecord("00abc", "not a fen", []string{"e2e4", "e7e5"}, 0)
	assert.ErrorIs(t, err, errdefs.ErrBadFEN)
}

func TestFromRecordRejectsShortMainline(t *testing.T) {
	_, err := FromRecord("00abc", "4k3/8/8/8/8/8/8/4K2R w - - 0 1", []string{"h1h8"}, 0)
	assert.ErrorIs(t, err, errdefs.ErrMainlineTooShort)
}

func TestFromRecordRejectsOddMainline(t *testing.T) {
	_, err := FromRecord("00abc", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		[]string{"e2e4", "e7e5", "g1f3"}, 0)
	assert.ErrorIs(t, err, errdefs.ErrOddMainline)
}

func TestFromRecordRejectsIllegalMove(t *testing.T) {
	_, err := FromRecord("00abc", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		[]string{"e2e5", "e7e5"}, 0)
	assert.ErrorIs(t, err, errdefs.ErrIllegalMove)
}

func TestAdvancedPawnMoves(t *testing.T) {
	// white pushes a pawn to the seventh rank, then promotes
	v, err := FromUCILine("00abc", "4k3/8/4P3/8/8/8/8/4K3 b - - 0 1", "e8d8 e6e7 d8c8 e7e8q", 900)
	require.NoError(t, err)

	push := v.Mainline[1]
	assert.True(t, push.IsAdvancedPawnMove())
	assert.True(t, push.IsVeryAdvancedPawnMove())

	promo := v.Mainline[3]
	assert.Equal(t, chess.Queen, promo.Move.Promo())
	assert.True(t, promo.IsAdvancedPawnMove())
	assert.True(t, promo.IsVeryAdvancedPawnMove())

	kingMove := v.Mainline[0]
	assert.False(t, kingMove.IsAdvancedPawnMove())
}

func TestFromUCILineSplitsOnWhitespace(t *testing.T) {
	v, err := FromUCILine("00abc", "4k3/8/8/8/8/8/P7/4K3 b - - 0 1", "e8d8  a2a4", 0)
	require.NoError(t, err)
	assert.Len(t, v.Mainline, 2)
}
