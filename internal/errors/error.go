package errors

import "errors"

var (
	ErrBadFEN           = errors.New("invalid starting position")
	ErrMainlineTooShort = errors.New("mainline must contain at least two moves")
	ErrOddMainline      = errors.New("mainline must contain an even number of moves")
	ErrIllegalMove      = errors.New("illegal move in mainline")
	ErrMissingEval      = errors.New("puzzle has no evaluation")
	ErrPuzzleNotFound   = errors.New("puzzle not found")
	ErrRunInProgress    = errors.New("tagging run already in progress")
	ErrInternal         = errors.New("internal error")
)
