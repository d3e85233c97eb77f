package search

import "github.com/troppydash/xiangqi-go/pkg/eval"

// Tuning constants for the negamax search. Names and values are carried over
// from the engine this search was distilled from; where a value only makes
// sense as a Score it is declared with that type directly.

const (
	maxPly    = 100 // shared bound for the killer-move table and recursion depth
	maxKillers = 2
)

const aspirationWindow = eval.Score(35)

const (
	staticNullMoveMargin      = 85
	nullMoveDepthLimit        = 3
	singularExtensionDepthLimit = 4
	singularMoveMargin        = eval.Score(125)
	singularMoveExtension     = 1
	lmrLegalMovesLimit        = 4
	lmrDepthLimit             = 3
	futilityDepthLimit        = 8
	iidDepthLimit             = 2
	iidDepthReduction         = 2
)

// lateMovePruningMargins is indexed by depth (0..5): the number of legal
// moves already searched beyond which a quiet, non-checking move at that
// depth is skipped outright.
var lateMovePruningMargins = [6]int{0, 8, 12, 16, 20, 24}

// futilityMargins is indexed by depth (0..8): the evaluation margin under
// which a quiet move cannot plausibly raise alpha and is pruned.
var futilityMargins = [9]eval.Score{0, 200, 250, 300, 350, 400, 450, 500, 550}

// lmr returns the late-move-reduction amount for the given depth and legal
// move count.
func lmr(depth, legalMoves int) int {
	r := depth / 4
	if r < 2 {
		r = 2
	}
	return r + legalMoves/12
}
