package cook

import (
	"github.com/notnil/chess"

	"puzzle_tagger/internal/domain/board"
	"puzzle_tagger/internal/domain/variation"
)

// advancedPawn: any of pov's moves pushes a pawn to the last two ranks or
// promotes.
func advancedPawn(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		if v.Mainline[i].IsVeryAdvancedPawnMove() {
			return true
		}
	}
	return false
}

// doubleCheck: any of pov's moves leaves the opponent facing two checkers at
// once.
func doubleCheck(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		if board.Checkers(v.Mainline[i].After).Count() > 1 {
			return true
		}
	}
	return false
}

// sacrifice: pov's material balance, measured after each of its moves from
// the second onward, drops at least two points below the line's starting
// balance, and none of pov's moves is a promotion that would account for the
// swing.
func sacrifice(v *variation.Variation) bool {
	diffs := make([]int, len(v.Mainline))
	for i, n := range v.Mainline {
		diffs[i] = board.MaterialDiff(n.After.Board(), v.Pov)
	}
	initial := diffs[0]
	for i := 3; i < len(diffs); i += 2 {
		if diffs[i]-initial <= -2 {
			for j := 1; j < len(v.Mainline); j += 2 {
				if v.Mainline[j].Move.Promo() != chess.NoPieceType {
					return false
				}
			}
			return true
		}
	}
	return false
}

// xRay: a pov capture travels through the square an opponent piece came from
// two plies earlier, after that piece captured on the same destination.
func xRay(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if !n.IsCapture() {
			continue
		}
		prevOp := n.Parent()
		if prevOp.Move.S2() != n.Move.S2() || prevOp.MovedPieceType() == chess.King {
			continue
		}
		prevPl := prevOp.Parent()
		if prevPl.Move.S2() != prevOp.Move.S2() {
			continue
		}
		if board.Between(n.Move.S1(), n.Move.S2()).Has(prevOp.Move.S1()) {
			return true
		}
	}
	return false
}

// fork: a non-king pov move (other than the line's last) attacks two or more
// opponent non-pawn pieces that are each either worth more than the moved
// piece or hanging without defending the forking square.
func fork(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline)-1; i += 2 {
		n := v.Mainline[i]
		if n.MovedPieceType() == chess.King {
			continue
		}
		b := n.After.Board()
		if board.IsInBadSpot(b, n.Move.S2()) {
			continue
		}
		nb := 0
		for _, a := range board.AttackedOpponentSquares(b, n.Move.S2(), v.Pov) {
			if a.Piece.Type() == chess.Pawn {
				continue
			}
			if board.KingValues[a.Piece.Type()] > board.KingValues[n.MovedPieceType()] ||
				(board.IsHanging(b, a.Piece, a.Square) &&
					!board.Attackers(b, v.Pov.Other(), n.Move.S2()).Has(a.Square)) {
				nb++
			}
		}
		if nb > 1 {
			return true
		}
	}
	return false
}

// hangingPiece: pov's first move captures an undefended non-pawn piece, the
// position was not already a check, the capture is not a direct recapture of
// equal or greater value, and the material edge is kept through the next
// full move.
func hangingPiece(v *variation.Variation) bool {
	to := v.Mainline[1].Move.S2()
	b := v.Mainline[0].After.Board()
	captured := b.Piece(to)
	if board.IsCheck(v.Mainline[0].After) && (captured == chess.NoPiece || captured.Type() == chess.Pawn) {
		return false
	}
	if captured == chess.NoPiece || captured.Type() == chess.Pawn {
		return false
	}
	if !board.IsHanging(b, captured, to) {
		return false
	}
	opMove := v.Mainline[0].Move
	opCapture := v.Root.Board().Piece(opMove.S2())
	if opCapture != chess.NoPiece && board.Values[opCapture.Type()] >= board.Values[captured.Type()] && opMove.S2() == to {
		return false
	}
	if len(v.Mainline) < 4 {
		return true
	}
	return board.MaterialDiff(v.Mainline[3].After.Board(), v.Pov) >=
		board.MaterialDiff(v.Mainline[1].After.Board(), v.Pov)
}

// trappedPiece: a non-pawn piece pov captures had no safe escape one ply
// before the opponent's last move (tracking the piece back if it just moved
// onto the capture square).
func trappedPiece(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		sq := n.Move.S2()
		captured := n.Before.Board().Piece(sq)
		if captured == chess.NoPiece || captured.Type() == chess.Pawn {
			continue
		}
		prev := n.Parent()
		if prev.Move.S2() == sq {
			sq = prev.Move.S1()
		}
		if board.IsTrapped(prev.Before, sq) {
			return true
		}
	}
	return false
}

// overloading is a reserved tag: the detector is intentionally a stub that
// never matches.
func overloading(v *variation.Variation) bool {
	return false
}

// discoveredAttack: a discovered check, or a pov capture whose line to the
// target passes through a square the opponent vacated two plies earlier.
func discoveredAttack(v *variation.Variation) bool {
	if discoveredCheck(v) {
		return true
	}
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if !n.IsCapture() {
			continue
		}
		if n.Parent().Move.S2() == n.Move.S2() {
			return false
		}
		prev := n.Parent().Parent()
		if board.Between(n.Move.S1(), n.Move.S2()).Has(prev.Move.S1()) &&
			n.Move.S2() != prev.Move.S2() &&
			n.Move.S1() != prev.Move.S2() &&
			!prev.IsCastling() {
			return true
		}
	}
	return false
}

// discoveredCheck: a pov move gives check with a piece other than the one
// that moved.
func discoveredCheck(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		checkers := board.Checkers(v.Mainline[i].After)
		if !checkers.Empty() && !checkers.Has(v.Mainline[i].Move.S2()) {
			return true
		}
	}
	return false
}

// quietMove: a non-terminal pov move that gives no check, escapes no check,
// captures nothing, threatens no piece, is not an advanced pawn push and not
// a king move.
func quietMove(v *variation.Variation) bool {
	for _, n := range v.Mainline {
		if n.After.Turn() != v.Pov && n.Next() != nil &&
			!board.IsCheck(n.After) && !board.IsCheck(n.Before) &&
			!n.IsCapture() &&
			len(board.AttackedOpponentPieces(n.After.Board(), n.Move.S2(), v.Pov)) == 0 &&
			!n.IsAdvancedPawnMove() &&
			n.MovedPieceType() != chess.King {
			return true
		}
	}
	return false
}

// defensiveMove: the final move is quiet in the quietMove sense and the
// opponent had a real choice beforehand (at least three legal replies).
func defensiveMove(v *variation.Variation) bool {
	final := v.Final()
	if legalMoveCount(final.Before) < 3 {
		return false
	}
	if board.IsCheck(final.After) || final.IsCapture() {
		return false
	}
	if len(board.AttackedOpponentPieces(final.After.Board(), final.Move.S2(), v.Pov)) > 0 {
		return false
	}
	return !final.IsAdvancedPawnMove()
}

// checkEscape: pov's first aggressive-looking duty is simply getting out of
// an active check, with at least three legal moves available to choose from.
func checkEscape(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if board.IsCheck(n.After) || n.IsCapture() {
			return false
		}
		if legalMoveCount(n.Before) < 3 {
			return false
		}
		if board.IsCheck(n.Before) {
			return true
		}
	}
	return false
}

// attraction: pov moves to a square, the opponent is drawn into capturing
// there with a king, queen or rook, and pov then attacks or checks that very
// square.
func attraction(v *variation.Variation) bool {
	for _, n := range v.Mainline[1:] {
		if n.After.Turn() == v.Pov {
			continue
		}
		firstMoveTo := n.Move.S2()
		reply := n.Next()
		if reply == nil || reply.Move.S2() != firstMoveTo {
			continue
		}
		attracted := reply.MovedPieceType()
		if attracted != chess.King && attracted != chess.Queen && attracted != chess.Rook {
			continue
		}
		attractedTo := reply.Move.S2()
		next := reply.Next()
		if next == nil {
			continue
		}
		if !board.Attackers(next.After.Board(), v.Pov, attractedTo).Has(next.Move.S2()) {
			continue
		}
		if attracted == chess.King {
			return true
		}
		if n3 := next.NextNext(); n3 != nil && n3.Move.S2() == attractedTo {
			return true
		}
	}
	return false
}

// deflection: a capturing or promoting pov move exploits an opponent piece
// that was just forced away from a square it had to keep defending.
func deflection(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		capturedPiece := n.Before.Board().Piece(n.Move.S2())
		if capturedPiece == chess.NoPiece && n.Move.Promo() == chess.NoPieceType {
			continue
		}
		capturing := n.MovedPieceType()
		if capturedPiece != chess.NoPiece && board.KingValues[capturedPiece.Type()] > board.KingValues[capturing] {
			continue
		}
		sq := n.Move.S2()
		prevOpMove := n.Parent().Move
		grandpa := n.Parent().Parent()
		prevPlayerMove := grandpa.Move
		prevPlayerCapture := grandpa.Before.Board().Piece(prevPlayerMove.S2())
		grandpaBoard := grandpa.After.Board()
		if (prevPlayerCapture == chess.NoPiece ||
			board.Values[prevPlayerCapture.Type()] < board.Values[grandpa.MovedPieceType()]) &&
			sq != prevOpMove.S2() && sq != prevPlayerMove.S2() &&
			(prevOpMove.S2() == prevPlayerMove.S2() || board.IsCheck(grandpa.After)) &&
			(board.Attacks(grandpaBoard, prevOpMove.S1()).Has(sq) ||
				(n.Move.Promo() != chess.NoPieceType &&
					sq.File() == prevOpMove.S1().File() &&
					board.Attacks(grandpaBoard, prevOpMove.S1()).Has(n.Move.S1()))) &&
			!board.Attacks(n.Before.Board(), prevOpMove.S2()).Has(sq) {
			return true
		}
	}
	return false
}

// exposedKing: the opponent's king sits on its own half without a pawn
// shield and gets checked somewhere in the middle of the line.
func exposedKing(v *variation.Variation) bool {
	b := v.Mainline[0].After.Board()
	opp := v.Pov.Other()
	king := board.KingSquare(b, opp)
	if king == chess.NoSquare {
		return false
	}
	down := -8
	if v.Pov == chess.Black {
		down = 8
	}
	if v.Pov == chess.White {
		if int(king.Rank()) < 5 {
			return false
		}
	} else if int(king.Rank()) > 2 {
		return false
	}
	shield := []chess.Square{king + chess.Square(down)}
	if king.File() > chess.FileA {
		shield = append(shield, king-1, king+chess.Square(down-1))
	}
	if king.File() < chess.FileH {
		shield = append(shield, king+1, king+chess.Square(down+1))
	}
	for _, sq := range shield {
		p := b.Piece(sq)
		if p != chess.NoPiece && p.Type() == chess.Pawn && p.Color() == opp {
			return false
		}
	}
	for i := 3; i < len(v.Mainline)-1; i += 2 {
		if board.IsCheck(v.Mainline[i].After) {
			return true
		}
	}
	return false
}

// skewer: a pov ray piece captures a piece the opponent just moved out from
// in front of a more valuable one, leaving the real target in a bad spot.
func skewer(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		prev := n.Parent()
		capture := n.Before.Board().Piece(n.Move.S2())
		if capture == chess.NoPiece || !board.IsRayPiece(n.MovedPieceType()) || board.IsCheckmate(n.After) {
			continue
		}
		opMove := prev.Move
		if opMove.S2() == n.Move.S2() || !board.Between(n.Move.S1(), n.Move.S2()).Has(opMove.S1()) {
			continue
		}
		if board.KingValues[prev.MovedPieceType()] > board.KingValues[capture.Type()] &&
			board.IsInBadSpot(n.Before.Board(), n.Move.S2()) {
			return true
		}
	}
	return false
}

// selfInterference: the opponent's own move blocks the defender's line to a
// piece pov then wins.
func selfInterference(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		prevBoard := n.Before.Board()
		sq := n.Move.S2()
		capture := prevBoard.Piece(sq)
		if capture == chess.NoPiece || !board.IsHanging(prevBoard, capture, sq) {
			continue
		}
		grandpa := n.Parent().Parent()
		initBoard := grandpa.After.Board()
		defender := board.Attackers(initBoard, capture.Color(), sq).First()
		if defender == chess.NoSquare {
			continue
		}
		defenderPiece := initBoard.Piece(defender)
		if defenderPiece == chess.NoPiece || !board.IsRayPiece(defenderPiece.Type()) {
			continue
		}
		if board.Between(sq, defender).Has(n.Parent().Move.S2()) {
			return true
		}
	}
	return false
}

// interference: pov's own earlier move blocks the defender's line to a piece
// pov then wins.
func interference(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		prevBoard := n.Before.Board()
		sq := n.Move.S2()
		capture := prevBoard.Piece(sq)
		if capture == chess.NoPiece || sq == n.Parent().Move.S2() || !board.IsHanging(prevBoard, capture, sq) {
			continue
		}
		great := n.GreatGrandparent()
		if great == nil {
			continue
		}
		initBoard := great.After.Board()
		defender := board.Attackers(initBoard, capture.Color(), sq).First()
		if defender == chess.NoSquare {
			continue
		}
		defenderPiece := initBoard.Piece(defender)
		if defenderPiece == chess.NoPiece || !board.IsRayPiece(defenderPiece.Type()) {
			continue
		}
		interfering := n.Grandparent()
		if board.Between(sq, defender).Has(interfering.Move.S2()) {
			return true
		}
	}
	return false
}

// intermezzo: pov interrupts a capture sequence with an in-between move and
// only completes the pending recapture afterwards.
func intermezzo(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if !n.IsCapture() {
			continue
		}
		captureSq := n.Move.S2()
		opNode := n.Parent()
		prevPovNode := opNode.Parent()
		if board.Attackers(prevPovNode.After.Board(), v.Pov.Other(), captureSq).Has(opNode.Move.S1()) {
			continue
		}
		if prevPovNode.Move.S2() == captureSq {
			continue
		}
		prevOpNode := prevPovNode.Parent()
		if prevOpNode == nil {
			return false
		}
		return prevOpNode.Move.S2() == captureSq &&
			prevOpNode.IsCapture() &&
			moveLegalIn(prevOpNode.After, n.Move)
	}
	return false
}

// pinPreventsAttack: an opponent piece is pinned off a line along which it
// would otherwise attack a more valuable or hanging pov piece.
func pinPreventsAttack(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		b := v.Mainline[i].After.Board()
		for sq, piece := range b.SquareMap() {
			if piece.Color() == v.Pov {
				continue
			}
			ray, pinned := board.Pin(b, piece.Color(), sq)
			if !pinned {
				continue
			}
			for _, att := range board.Attacks(b, sq).Squares() {
				if ray.Has(att) {
					continue
				}
				attacked := b.Piece(att)
				if attacked == chess.NoPiece || attacked.Color() != v.Pov {
					continue
				}
				if board.Values[attacked.Type()] > board.Values[piece.Type()] ||
					board.IsHanging(b, attacked, att) {
					return true
				}
			}
		}
	}
	return false
}

// pinPreventsEscape: a pinned opponent piece is attacked along its pin ray
// and cannot step off the ray to save itself.
func pinPreventsEscape(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		b := v.Mainline[i].After.Board()
		for pinnedSq, pinnedPiece := range b.SquareMap() {
			if pinnedPiece.Color() == v.Pov {
				continue
			}
			ray, pinned := board.Pin(b, pinnedPiece.Color(), pinnedSq)
			if !pinned {
				continue
			}
			for _, attackerSq := range board.Attackers(b, v.Pov, pinnedSq).Squares() {
				if !ray.Has(attackerSq) {
					continue
				}
				attacker := b.Piece(attackerSq)
				if board.Values[pinnedPiece.Type()] > board.Values[attacker.Type()] {
					return true
				}
				if board.IsHanging(b, pinnedPiece, pinnedSq) &&
					!board.Attackers(b, v.Pov.Other(), attackerSq).Has(pinnedSq) &&
					board.HasMoveOffRay(b, pinnedSq, ray) {
					return true
				}
			}
		}
	}
	return false
}

// attackingF2F7: a pov capture lands on f2 or f7 with the enemy king still
// at home beside it.
func attackingF2F7(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		sq := n.Move.S2()
		if n.Before.Board().Piece(sq) == chess.NoPiece || (sq != chess.F2 && sq != chess.F7) {
			continue
		}
		kingSq := chess.E1
		if sq == chess.F7 {
			kingSq = chess.E8
		}
		king := n.After.Board().Piece(kingSq)
		return king != chess.NoPiece && king.Type() == chess.King && king.Color() != v.Pov
	}
	return false
}

// clearance: a pov move vacates a square or a line specifically so the ray
// piece moved next can use it.
func clearance(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if n.Before.Board().Piece(n.Move.S2()) != chess.NoPiece {
			continue
		}
		piece := n.After.Board().Piece(n.Move.S2())
		if piece == chess.NoPiece || !board.IsRayPiece(piece.Type()) {
			continue
		}
		prev := n.Grandparent()
		prevMove := prev.Move
		if prevMove.Promo() != chess.NoPieceType ||
			prevMove.S2() == n.Move.S1() ||
			prevMove.S2() == n.Move.S2() ||
			board.IsCheck(n.Before) {
			continue
		}
		if board.IsCheck(n.After) && n.Parent().MovedPieceType() == chess.King {
			continue
		}
		if prevMove.S1() != n.Move.S2() && !board.Between(n.Move.S1(), n.Move.S2()).Has(prevMove.S1()) {
			continue
		}
		if prev.Before.Board().Piece(prevMove.S2()) == chess.NoPiece ||
			board.IsInBadSpot(prev.After.Board(), prevMove.S2()) {
			return true
		}
	}
	return false
}

// enPassant: any pov move is an en passant capture.
func enPassant(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if n.MovedPieceType() == chess.Pawn &&
			n.Move.S1().File() != n.Move.S2().File() &&
			n.Before.Board().Piece(n.Move.S2()) == chess.NoPiece {
			return true
		}
	}
	return false
}

// castling: any pov move castles.
func castling(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		if v.Mainline[i].IsCastling() {
			return true
		}
	}
	return false
}

// promotion: any pov move promotes.
func promotion(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		if v.Mainline[i].Move.Promo() != chess.NoPieceType {
			return true
		}
	}
	return false
}

// underPromotion: a pov promotion to something other than a queen — a
// mate-delivering knight promotion, or any non-queen promotion mid-line.
func underPromotion(v *variation.Variation) bool {
	for i := 1; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		if board.IsCheckmate(n.After) {
			return n.Move.Promo() == chess.Knight
		}
		if promo := n.Move.Promo(); promo != chess.NoPieceType && promo != chess.Queen {
			return true
		}
	}
	return false
}

// capturingDefender: pov removes, at acceptable cost, a piece that was
// defending the real target, then collects that target (or mates).
func capturingDefender(v *variation.Variation) bool {
	for i := 3; i < len(v.Mainline); i += 2 {
		n := v.Mainline[i]
		capture := n.Before.Board().Piece(n.Move.S2())
		ok := board.IsCheckmate(n.After) ||
			(capture != chess.NoPiece &&
				n.MovedPieceType() != chess.King &&
				board.Values[capture.Type()] <= board.Values[n.MovedPieceType()] &&
				board.IsHanging(n.Before.Board(), capture, n.Move.S2()) &&
				n.Parent().Move.S2() != n.Move.S2())
		if !ok {
			continue
		}
		prev := n.Grandparent()
		if board.IsCheck(prev.After) || prev.Move.S2() == n.Move.S1() {
			continue
		}
		initBoard := prev.Before.Board()
		defenderSq := prev.Move.S2()
		defender := initBoard.Piece(defenderSq)
		if defender != chess.NoPiece &&
			board.Attackers(initBoard, defender.Color(), n.Move.S2()).Has(defenderSq) &&
			!board.IsCheck(prev.Before) {
			return true
		}
	}
	return false
}
