package variation

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	errdefs "puzzle_tagger/internal/errors"
)

// Node is one step of a tactical line: the move played and the positions on
// either side of it. Nodes form a simple forward chain built once per
// variation; detectors walk it in both directions but never mutate it.
type Node struct {
	Move   *chess.Move
	Before *chess.Position
	After  *chess.Position

	parent *Node
	next   *Node
}

// Parent is the node one ply earlier, nil for the first node of the line.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Grandparent is the node two plies earlier, nil when the line is too short.
func (n *Node) Grandparent() *Node {
	return n.Parent().Parent()
}

// GreatGrandparent is the node three plies earlier, nil when the line is too
// short.
func (n *Node) GreatGrandparent() *Node {
	return n.Grandparent().Parent()
}

// Next is the node one ply later, nil at the end of the line.
func (n *Node) Next() *Node {
	if n == nil {
		return nil
	}
	return n.next
}

// NextNext is the node two plies later, nil past the end of the line.
func (n *Node) NextNext() *Node {
	return n.Next().Next()
}

// MovedPieceType is the kind of the piece that made this move, read from the
// destination square after the move so that a promotion reports the promoted
// piece and castling reports the king.
func (n *Node) MovedPieceType() chess.PieceType {
	return n.After.Board().Piece(n.Move.S2()).Type()
}

// IsCapture reports whether this move captured a piece, en passant included.
func (n *Node) IsCapture() bool {
	return n.Move.HasTag(chess.Capture) || n.Move.HasTag(chess.EnPassant)
}

// IsCastling reports whether this move castled either side.
func (n *Node) IsCastling() bool {
	return n.Move.HasTag(chess.KingSideCastle) || n.Move.HasTag(chess.QueenSideCastle)
}

// IsAdvancedPawnMove reports a promotion or a pawn push deep into the
// opponent's half (the last three ranks from the mover's point of view).
func (n *Node) IsAdvancedPawnMove() bool {
	if n.Move.Promo() != chess.NoPieceType {
		return true
	}
	if n.MovedPieceType() != chess.Pawn {
		return false
	}
	toRank := int(n.Move.S2().Rank())
	if n.After.Turn() == chess.Black { // white just moved
		return toRank > 4
	}
	return toRank < 3
}

// IsVeryAdvancedPawnMove reports a pawn reaching the last two ranks.
func (n *Node) IsVeryAdvancedPawnMove() bool {
	if !n.IsAdvancedPawnMove() {
		return false
	}
	toRank := int(n.Move.S2().Rank())
	if n.After.Turn() == chess.Black {
		return toRank > 5
	}
	return toRank < 2
}

// Variation is the unit of classification: a rooted, linear sequence of
// moves resolving one tactical opportunity.
//
// Mainline[0] is the move that creates the opportunity, played by the
// opponent; odd indices are Pov's solving moves, even indices the opponent's
// replies. The mainline always has even length, at least two plies.
type Variation struct {
	ID       string
	Root     *chess.Position
	Mainline []*Node
	CP       int
	Pov      chess.Color
}

// Final is the last node of the mainline.
func (v *Variation) Final() *Node {
	return v.Mainline[len(v.Mainline)-1]
}

// FromRecord builds a Variation from persisted data: a starting FEN, a list
// of coordinate moves and an end-of-line evaluation in centipawns from the
// solver's perspective. Malformed input is a caller defect and fails fast
// with a descriptive error; no partial variation is ever returned.
func FromRecord(id string, fen string, moves []string, cp int) (*Variation, error) {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("variation %s: %w: %q", id, errdefs.ErrBadFEN, fen)
	}
	if len(moves) < 2 {
		return nil, fmt.Errorf("variation %s: %w: got %d", id, errdefs.ErrMainlineTooShort, len(moves))
	}
	if len(moves)%2 != 0 {
		return nil, fmt.Errorf("variation %s: %w: got %d", id, errdefs.ErrOddMainline, len(moves))
	}

	root := chess.NewGame(fenOpt).Position()
	mainline := make([]*Node, 0, len(moves))
	pos := root
	var prev *Node
	for i, uci := range moves {
		move, err := legalMove(pos, uci)
		if err != nil {
			return nil, fmt.Errorf("variation %s: move %d (%s): %w", id, i+1, uci, err)
		}
		node := &Node{
			Move:   move,
			Before: pos,
			After:  pos.Update(move),
			parent: prev,
		}
		if prev != nil {
			prev.next = node
		}
		mainline = append(mainline, node)
		prev = node
		pos = node.After
	}

	return &Variation{
		ID:       id,
		Root:     root,
		Mainline: mainline,
		CP:       cp,
		Pov:      mainline[0].After.Turn(),
	}, nil
}

// FromUCILine is FromRecord for a space-separated coordinate move string.
func FromUCILine(id string, fen string, line string, cp int) (*Variation, error) {
	return FromRecord(id, fen, strings.Fields(line), cp)
}

// legalMove decodes a coordinate move and resolves it against the legal move
// set, so the returned move carries the position-derived flags (capture,
// castle, en passant).
func legalMove(pos *chess.Position, uci string) (*chess.Move, error) {
	decoded, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errdefs.ErrIllegalMove, err)
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() == decoded.S1() && m.S2() == decoded.S2() && m.Promo() == decoded.Promo() {
			return m, nil
		}
	}
	return nil, errdefs.ErrIllegalMove
}
