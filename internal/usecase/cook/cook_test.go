package cook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puzzle_tagger/internal/domain/tag"
	"puzzle_tagger/internal/domain/variation"
)

func mustVariation(t *testing.T, fen, line string, cp int) *variation.Variation {
	t.Helper()
	v, err := variation.FromUCILine("00abc", fen, line, cp)
	require.NoError(t, err)
	return v
}

func TestCookSmotheredMate(t *testing.T) {
	v := mustVariation(t, "6rk/p5pp/8/6N1/8/8/8/6K1 b - - 0 1", "a7a6 g5f7", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.SmotheredMate, tag.OneMove}, tags)
}

func TestCookBackRankMate(t *testing.T) {
	v := mustVariation(t, "6k1/p4ppp/8/8/8/8/8/4R1K1 b - - 0 1", "a7a6 e1e8", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.BackRankMate, tag.RookEndgame, tag.OneMove}, tags)
}

func TestCookAnastasiaMate(t *testing.T) {
	// rook mates down the h-file, the king boxed in by its own pawn on g5
	// and the knight on e5
	v := mustVariation(t, "8/p7/8/4N1pk/8/8/2K5/R7 b - - 0 1", "a7a6 a1h1", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.AnastasiaMate, tag.OneMove}, tags)
}

func TestCookHookMate(t *testing.T) {
	// rook lands beside the king, guarded by the knight on g6, which the f5
	// pawn guards in turn
	v := mustVariation(t, "8/p7/6N1/5PPk/3R4/4B3/8/6K1 b - - 0 1", "a7a6 d4h4", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.HookMate, tag.OneMove}, tags)
}

func TestCookArabianMate(t *testing.T) {
	// cornered king, rook on h7 guarded by the knight two files and two
	// ranks away
	v := mustVariation(t, "7k/R7/5N2/8/p7/8/8/6K1 b - - 0 1", "a4a3 a7h7", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.ArabianMate, tag.OneMove}, tags)
}

func TestCookBodenMate(t *testing.T) {
	// criss-crossing bishops against the queenside-castled king
	v := mustVariation(t, "2kr4/3p3p/8/8/5B2/8/4B3/6K1 b - - 0 1", "h7h6 e2a6", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.BodenMate, tag.OneMove}, tags)
}

func TestCookDoubleBishopMate(t *testing.T) {
	// both bishops bear down from the same side of the king
	v := mustVariation(t, "7k/7p/4B3/1p6/8/8/5B2/6K1 b - - 0 1", "b5b4 f2d4", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.DoubleBishopMate, tag.BishopEndgame, tag.OneMove}, tags)
}

func TestCookDovetailMate(t *testing.T) {
	// queen mates diagonally against the king, its escape squares taken by
	// its own pawns
	v := mustVariation(t, "4Q3/7p/2pp4/2pk4/8/5K2/8/8 b - - 0 1", "h7h6 e8e4", 0)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.MateIn1, tag.Mate, tag.DovetailMate, tag.QueenEndgame, tag.OneMove}, tags)
}

func TestCookSacrifice(t *testing.T) {
	v := mustVariation(t, "r5k1/p6p/8/8/8/8/7P/R5K1 b - - 0 1", "h7h6 a1a7 a8a7 h2h3", 50)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.Equality, tag.DefensiveMove, tag.Sacrifice, tag.RookEndgame, tag.Short}, tags)
}

func TestCookAdvantageThresholds(t *testing.T) {
	line := "h7h6 h2h3"
	fen := "r5k1/p6p/8/8/8/8/7P/R5K1 b - - 0 1"

	assert.Contains(t, Cook(mustVariation(t, fen, line, 201)), tag.Advantage)
	assert.Contains(t, Cook(mustVariation(t, fen, line, 601)), tag.Crushing)
	assert.Contains(t, Cook(mustVariation(t, fen, line, 200)), tag.Equality)
	assert.NotContains(t, Cook(mustVariation(t, fen, line, 601)), tag.Advantage)
}

func TestCookFork(t *testing.T) {
	v := mustVariation(t, "6k1/2r1r2p/8/8/8/2N5/7P/6K1 b - - 0 1", "h7h6 c3d5 e7e8 d5c7", 300)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.Advantage, tag.Fork, tag.Short}, tags)
}

func TestCookForkSuppressesSideAttack(t *testing.T) {
	v := mustVariation(t, "6k1/2r1r2p/8/8/8/2N5/7P/6K1 b - - 0 1", "h7h6 c3d5 e7e8 d5c7", 300)

	tags := Cook(v)
	assert.NotContains(t, tags, tag.KingsideAttack)
	assert.NotContains(t, tags, tag.QueensideAttack)
}

func TestCookQueenRookEndgame(t *testing.T) {
	v := mustVariation(t, "3r2k1/7p/8/8/8/8/6PP/3Q1RK1 b - - 0 1", "h7h6 d1d7", 250)

	tags := Cook(v)
	assert.Equal(t, []tag.Kind{tag.Advantage, tag.QueenRookEndgame, tag.OneMove}, tags)
}

func TestCookPawnEndgameAndPromotion(t *testing.T) {
	v := mustVariation(t, "4k3/8/4P3/8/8/8/8/4K3 b - - 0 1", "e8d8 e6e7 d8c8 e7e8q", 900)

	tags := Cook(v)
	assert.Contains(t, tags, tag.Crushing)
	assert.Contains(t, tags, tag.AdvancedPawn)
	assert.Contains(t, tags, tag.Promotion)
	assert.Contains(t, tags, tag.PawnEndgame)
	assert.NotContains(t, tags, tag.UnderPromotion)
}

func TestCookLengthTags(t *testing.T) {
	fen := "k7/8/8/8/8/8/P6P/K7 b - - 0 1"
	cases := []struct {
		line string
		want tag.Kind
	}{
		{"a8b8 h2h3", tag.OneMove},
		{"a8b8 h2h3 b8a8 h3h4", tag.Short},
		{"a8b8 h2h3 b8a8 h3h4 a8b8 a2a3", tag.Long},
		{"a8b8 h2h3 b8a8 h3h4 a8b8 a2a3 b8a8 a3a4", tag.VeryLong},
	}
	lengthTags := []tag.Kind{tag.OneMove, tag.Short, tag.Long, tag.VeryLong}

	for _, tc := range cases {
		tags := Cook(mustVariation(t, fen, tc.line, 0))
		found := 0
		for _, k := range tags {
			for _, lt := range lengthTags {
				if k == lt {
					found++
				}
			}
		}
		assert.Equal(t, 1, found, "exactly one length tag for %q", tc.line)
		assert.Contains(t, tags, tc.want)
	}
}

func TestCookIsDeterministic(t *testing.T) {
	v := mustVariation(t, "6k1/2r1r2p/8/8/8/2N5/7P/6K1 b - - 0 1", "h7h6 c3d5 e7e8 d5c7", 300)

	first := Cook(v)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Cook(v))
	}
}

func TestCookMateFamilyExcludesEvalTags(t *testing.T) {
	v := mustVariation(t, "6rk/p5pp/8/6N1/8/8/8/6K1 b - - 0 1", "a7a6 g5f7", 9999)

	tags := Cook(v)
	assert.Contains(t, tags, tag.MateIn1)
	assert.Contains(t, tags, tag.Mate)
	assert.NotContains(t, tags, tag.Crushing)
	assert.NotContains(t, tags, tag.Advantage)
	assert.NotContains(t, tags, tag.Equality)
}

func TestCookAtMostOneMatePattern(t *testing.T) {
	// back rank mate that is also close to other patterns still yields a
	// single pattern tag
	v := mustVariation(t, "6k1/p4ppp/8/8/8/8/8/4R1K1 b - - 0 1", "a7a6 e1e8", 0)

	tags := Cook(v)
	patterns := []tag.Kind{
		tag.SmotheredMate, tag.BackRankMate, tag.AnastasiaMate, tag.HookMate,
		tag.ArabianMate, tag.BodenMate, tag.DoubleBishopMate, tag.DovetailMate,
	}
	found := 0
	for _, k := range tags {
		for _, p := range patterns {
			if k == p {
				found++
			}
		}
	}
	assert.Equal(t, 1, found)
}

func TestCookEndgameTagsAreExclusive(t *testing.T) {
	v := mustVariation(t, "3r2k1/7p/8/8/8/8/6PP/3Q1RK1 b - - 0 1", "h7h6 d1d7", 250)

	tags := Cook(v)
	endgames := []tag.Kind{
		tag.PawnEndgame, tag.QueenEndgame, tag.RookEndgame,
		tag.BishopEndgame, tag.KnightEndgame, tag.QueenRookEndgame,
	}
	found := 0
	for _, k := range tags {
		for _, e := range endgames {
			if k == e {
				found++
			}
		}
	}
	assert.Equal(t, 1, found)
}

func TestMateIn(t *testing.T) {
	v := mustVariation(t, "6rk/p5pp/8/6N1/8/8/8/6K1 b - - 0 1", "a7a6 g5f7", 0)
	assert.Equal(t, tag.MateIn1, mateIn(v))

	noMate := mustVariation(t, "k7/8/8/8/8/8/P6P/K7 b - - 0 1", "a8b8 h2h3", 0)
	assert.Equal(t, tag.None, mateIn(noMate))
}

func TestCookEnPassant(t *testing.T) {
	v := mustVariation(t, "4k3/2p5/8/3P4/8/8/8/4K3 b - - 0 1", "c7c5 d5c6", 100)

	tags := Cook(v)
	assert.Contains(t, tags, tag.EnPassant)
}

func TestCookCastling(t *testing.T) {
	v := mustVariation(t, "r3k3/8/8/8/8/8/7P/4K2R b Kq - 0 1", "a8a7 e1g1", 100)

	tags := Cook(v)
	assert.Contains(t, tags, tag.Castling)
}

func TestCookDoubleCheck(t *testing.T) {
	// the bishop steps off the e-file with check, discovering the rook
	v := mustVariation(t, "4k3/p7/8/8/4B3/8/4R3/6K1 b - - 0 1", "a7a6 e4c6", 0)

	tags := Cook(v)
	assert.Contains(t, tags, tag.DoubleCheck)
}
