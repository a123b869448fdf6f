// Package puzzle holds the persisted shapes of tactical puzzles and their
// published tag rounds.
package puzzle

import (
	"strings"
	"time"
)

// Record is a generated puzzle as stored in the play collection. Line holds
// the solution as space-separated coordinate moves; older documents carry
// Moves instead.
type Record struct {
	ID     string   `bson:"_id" json:"id"`
	FEN    string   `bson:"fen" json:"fen"`
	Line   string   `bson:"line,omitempty" json:"line,omitempty"`
	Moves  []string `bson:"moves,omitempty" json:"moves,omitempty"`
	CP     *int     `bson:"cp,omitempty" json:"cp,omitempty"`
	Themes []string `bson:"themes" json:"themes"`
	Dirty  bool     `bson:"dirty,omitempty" json:"dirty,omitempty"`
}

// Centipawns returns the stored evaluation and whether the generator ever
// recorded one. Records without a score need an engine pass before cooking.
func (r Record) Centipawns() (int, bool) {
	if r.CP == nil {
		return 0, false
	}
	return *r.CP, true
}

// UCIMoves returns the solution line as individual coordinate moves,
// preferring Line over the legacy Moves field.
func (r Record) UCIMoves() []string {
	if r.Line != "" {
		return strings.Fields(r.Line)
	}
	return r.Moves
}

// Round is a published tagging verdict for one puzzle. The short field names
// match the round collection schema.
type Round struct {
	ID          string    `bson:"_id" json:"id"`
	Puzzle      string    `bson:"p" json:"puzzle"`
	GeneratedAt time.Time `bson:"d" json:"generatedAt"`
	Weight      int       `bson:"e" json:"weight"`
	Tags        []string  `bson:"t" json:"tags"`
}

// RoundID derives the round key from a puzzle id.
func RoundID(puzzleID string) string {
	return "lichess:" + puzzleID
}

// DefaultWeight is the vote weight assigned to automated rounds.
const DefaultWeight = 100
