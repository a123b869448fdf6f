package tag

// Kind is one label in the tactical theme vocabulary. The batch layer
// persists kinds as plain strings.
type Kind string

// None marks the absence of a tag from classifiers that pick one of several.
const None Kind = ""

const (
	MateIn1 Kind = "mateIn1"
	MateIn2 Kind = "mateIn2"
	MateIn3 Kind = "mateIn3"
	MateIn4 Kind = "mateIn4"
	MateIn5 Kind = "mateIn5"
	Mate    Kind = "mate"

	SmotheredMate    Kind = "smotheredMate"
	BackRankMate     Kind = "backRankMate"
	AnastasiaMate    Kind = "anastasiaMate"
	HookMate         Kind = "hookMate"
	ArabianMate      Kind = "arabianMate"
	BodenMate        Kind = "bodenMate"
	DoubleBishopMate Kind = "doubleBishopMate"
	DovetailMate     Kind = "dovetailMate"

	Crushing  Kind = "crushing"
	Advantage Kind = "advantage"
	Equality  Kind = "equality"

	Attraction        Kind = "attraction"
	Deflection        Kind = "deflection"
	Overloading       Kind = "overloading"
	AdvancedPawn      Kind = "advancedPawn"
	DoubleCheck       Kind = "doubleCheck"
	QuietMove         Kind = "quietMove"
	DefensiveMove     Kind = "defensiveMove"
	Sacrifice         Kind = "sacrifice"
	XRayAttack        Kind = "xRayAttack"
	Fork              Kind = "fork"
	HangingPiece      Kind = "hangingPiece"
	TrappedPiece      Kind = "trappedPiece"
	DiscoveredAttack  Kind = "discoveredAttack"
	ExposedKing       Kind = "exposedKing"
	Skewer            Kind = "skewer"
	Interference      Kind = "interference"
	Intermezzo        Kind = "intermezzo"
	Pin               Kind = "pin"
	AttackingF2F7     Kind = "attackingF2F7"
	Clearance         Kind = "clearance"
	EnPassant         Kind = "enPassant"
	Castling          Kind = "castling"
	Promotion         Kind = "promotion"
	UnderPromotion    Kind = "underPromotion"
	CapturingDefender Kind = "capturingDefender"

	PawnEndgame      Kind = "pawnEndgame"
	QueenEndgame     Kind = "queenEndgame"
	RookEndgame      Kind = "rookEndgame"
	BishopEndgame    Kind = "bishopEndgame"
	KnightEndgame    Kind = "knightEndgame"
	QueenRookEndgame Kind = "queenRookEndgame"

	KingsideAttack  Kind = "kingsideAttack"
	QueensideAttack Kind = "queensideAttack"

	OneMove  Kind = "oneMove"
	Short    Kind = "short"
	Long     Kind = "long"
	VeryLong Kind = "veryLong"
)

// Strings converts an ordered tag list to plain strings for persistence.
func Strings(kinds []Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
