// Package search implements iterative-deepening negamax search over a
// board.Position: aspiration windows, a transposition table, null-move and
// static null-move pruning, razoring, futility and late-move pruning, late
// move reductions with re-search, singular extension, internal iterative
// deepening, and quiescence search at the leaves.
package search

import (
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
)

// Searcher runs a node-budgeted search from a position. It is not safe for
// concurrent use; callers wanting concurrent analysis give each goroutine
// its own Searcher (pkg/wsserver builds a fresh Engine, and so a fresh
// Searcher, for every analyze request).
type Searcher struct {
	pos   *board.Position
	tt    *TranspositionTable
	order *Orderer

	nodes    uint64
	maxNodes uint64
}

// NewSearcher builds a Searcher over pos, sharing tt and order so
// transposition and move-ordering state persist across the iterative-
// deepening loop and across successive calls as pos is advanced.
func NewSearcher(pos *board.Position, tt *TranspositionTable, order *Orderer) *Searcher {
	return &Searcher{pos: pos, tt: tt, order: order}
}

// Run performs iterative-deepening aspiration-window search up to maxDepth,
// stopping once the cumulative node count reaches maxNodes -- the sole
// cancellation mechanism; there are no goroutines, timers, or channels
// involved. It returns the last depth whose search completed within budget;
// if none completed, it returns the partial line of the aborted first
// iteration, or an empty PV if that iteration never raised alpha.
func (s *Searcher) Run(maxDepth int, maxNodes uint64) PV {
	s.nodes = 0
	s.maxNodes = maxNodes

	alpha, beta := eval.NegInf, eval.Inf
	var last PV

	for depth := 1; depth <= maxDepth; depth++ {
		var pv []board.Move
		score := s.negamax(depth, 0, alpha, beta, &pv, true, board.Move{}, board.Move{}, false)

		if s.nodes >= s.maxNodes {
			if len(last.Moves) == 0 && len(pv) > 0 {
				// No iteration completed, but this (aborted) iteration
				// already raised alpha at least once before the budget ran
				// out: surface that partial PV as a best-effort answer
				// instead of returning an empty one.
				last = PV{Depth: depth, Score: score, Moves: pv, Nodes: s.nodes, Hash: s.tt.Used()}
			}
			break
		}

		if score <= alpha || score >= beta {
			// Aspiration window missed: re-search the same depth with a
			// fully open window instead of advancing.
			alpha, beta = eval.NegInf, eval.Inf
			depth--
			continue
		}

		last = PV{Depth: depth, Score: score, Moves: pv, Nodes: s.nodes, Hash: s.tt.Used()}

		if depth > 1 {
			alpha = score - aspirationWindow
			beta = score + aspirationWindow
		}
		if score.IsMate() {
			break
		}
	}
	return last
}

// terminalScore reports the score of the current position if it is drawn or
// decisive (the side to move has no legal moves), and whether the position
// is terminal at all.
func (s *Searcher) terminalScore(ply int) (eval.Score, bool) {
	switch s.pos.Outcome() {
	case board.Draw:
		return eval.Zero, true
	case board.Ongoing:
		return 0, false
	default:
		// Outcome only resolves to a decisive result when the side to move
		// has no legal moves, so the mover always loses.
		return eval.MatedIn(ply), true
	}
}

// negamax searches the current position to depth plies, returning a score
// from the perspective of the side to move. prev is the move that led to
// this node (for the counter-move heuristic); skip excludes one move from
// the move loop (used by singular-extension verification); extended tracks
// whether this line has already received a singular extension, to prevent
// extension chains from growing the tree unboundedly.
func (s *Searcher) negamax(depth, ply int, alpha, beta eval.Score, pv *[]board.Move, doNull bool, prev, skip board.Move, extended bool) eval.Score {
	s.nodes++
	if s.nodes > s.maxNodes {
		return eval.Zero
	}
	if score, ok := s.terminalScore(ply); ok {
		return score
	}
	if ply >= maxPly {
		return eval.Evaluate(s.pos)
	}

	inCheck := s.pos.IsInCheck()
	isRoot := ply == 0
	isPV := beta-alpha > 1

	if inCheck {
		depth++
	}
	if depth <= 0 {
		return s.quiescence(ply, 0, alpha, beta, pv)
	}

	side := s.pos.Turn()
	hash := s.pos.Hash()

	ttScore, ttDepth, ttBound, ttMove, ttHit := s.tt.Probe(hash, ply)

	usable := false
	var adjusted eval.Score
	if ttHit && ttDepth >= depth {
		switch ttBound {
		case Exact:
			adjusted, usable = ttScore, true
		case Upper:
			if ttScore <= alpha {
				adjusted, usable = alpha, true
			}
		case Lower:
			if ttScore >= beta {
				adjusted, usable = beta, true
			}
		}
	}
	if usable && !isRoot && !skip.Equals(ttMove) {
		return adjusted
	}

	canSVE := ttHit && (ttBound == Exact || ttBound == Lower)
	canIID := ttHit && ttBound == Lower

	if !inCheck && !isPV && beta.Abs() < eval.MateThreshold {
		static := eval.Evaluate(s.pos)
		margin := eval.Score(staticNullMoveMargin * depth)
		if static-margin >= beta {
			return static - margin
		}
	}

	if doNull && !inCheck && !isPV && depth >= nullMoveDepthLimit {
		null := board.NullMove()
		s.pos.Make(&null)
		var discard []board.Move
		r := 1 + depth/6
		score := s.negamax(depth-1-r, ply+1, beta.Negate(), beta.Negate()+1, &discard, false, board.Move{}, board.Move{}, extended).Negate()
		s.pos.Unmake(&null)

		if score >= beta && score.Abs() < eval.MateThreshold {
			return beta
		}
	}

	if depth <= 2 && !isPV && !inCheck {
		static := eval.Evaluate(s.pos)
		if static+futilityMargins[depth]*3 < alpha {
			var discard []board.Move
			if score := s.quiescence(ply, 0, alpha, beta, &discard); score < alpha {
				return alpha
			}
		}
	}

	canFutilityPrune := false
	if depth <= futilityDepthLimit && !isPV && !inCheck && alpha < eval.MateThreshold && beta < eval.MateThreshold {
		static := eval.Evaluate(s.pos)
		canFutilityPrune = static+futilityMargins[depth] <= alpha
	}

	if ttMove.From == ttMove.To && depth >= iidDepthLimit && (isPV || canIID) {
		// tt miss: the zero Move sentinel has From==To, which no real move does
		var discard []board.Move
		s.negamax(depth-iidDepthReduction-1, ply+1, beta.Negate(), alpha.Negate(), &discard, true, board.Move{}, board.Move{}, extended)
		if len(discard) > 0 {
			ttMove = discard[0]
		}
	}

	moves := s.pos.LegalMoves(false)
	ordered := NewMoveList(moves, func(m board.Move) Priority {
		return s.order.Rank(side, ply, m, ttMove, prev)
	})

	legalMoves := 0
	ttFlag := Upper
	bestScore := eval.NegInf
	var bestMove board.Move

	for {
		m, ok := ordered.Next()
		if !ok {
			break
		}
		if m.Equals(skip) {
			continue
		}

		mm := m
		s.pos.Make(&mm)
		legalMoves++

		if depth <= 5 && !isPV && !inCheck && legalMoves > lateMovePruningMargins[depth] {
			tactical := s.pos.IsInCheck() || !mm.IsQuiet()
			if !tactical {
				s.pos.Unmake(&mm)
				continue
			}
		}

		if canFutilityPrune && legalMoves > 1 && !s.pos.IsInCheck() && mm.IsQuiet() {
			s.pos.Unmake(&mm)
			continue
		}

		var score eval.Score
		var childPV []board.Move

		if legalMoves == 1 {
			nextDepth := depth - 1

			if !extended && depth >= singularExtensionDepthLimit && ttMove.Equals(mm) && isPV && ttHit && canSVE {
				s.pos.Unmake(&mm)

				scoreToBeat := ttScore - singularMoveMargin
				r := 1 + depth/6
				var discard []board.Move
				next := s.negamax(depth-1-r, ply+1, scoreToBeat, scoreToBeat+1, &discard, true, prev, mm, true)
				if next <= scoreToBeat {
					nextDepth += singularMoveExtension
				}

				s.pos.Make(&mm)
			}

			score = s.negamax(nextDepth, ply+1, beta.Negate(), alpha.Negate(), &childPV, true, mm, board.Move{}, extended || nextDepth > depth-1).Negate()
		} else {
			tactical := inCheck && !mm.IsQuiet()
			reduction := 0
			if !isPV && legalMoves >= lmrLegalMovesLimit && depth >= lmrDepthLimit && !tactical {
				reduction = lmr(depth, legalMoves)
			}

			score = s.negamax(depth-1-reduction, ply+1, alpha.Negate()-1, alpha.Negate(), &childPV, true, mm, board.Move{}, extended).Negate()
			if score > alpha && reduction > 0 {
				score = s.negamax(depth-1, ply+1, alpha.Negate()-1, alpha.Negate(), &childPV, true, mm, board.Move{}, extended).Negate()
				if score > alpha {
					score = s.negamax(depth-1, ply+1, beta.Negate(), alpha.Negate(), &childPV, true, mm, board.Move{}, extended).Negate()
				}
			} else if alpha < score && score < beta {
				score = s.negamax(depth-1, ply+1, beta.Negate(), alpha.Negate(), &childPV, true, mm, board.Move{}, extended).Negate()
			}
		}

		s.pos.Unmake(&mm)

		if score > bestScore {
			bestScore = score
			bestMove = mm
		}

		if score >= beta {
			ttFlag = Lower
			s.order.OnCutoff(side, ply, depth, mm, prev)
			break
		}
		if score > alpha {
			alpha = score
			ttFlag = Exact
			*pv = append([]board.Move{mm}, childPV...)
			s.order.OnRaisedAlpha(side, depth, mm)
		} else {
			s.order.OnFailedToRaise(side, mm)
		}
	}

	if legalMoves == 0 {
		// Outcome() above should already have caught this; kept as a
		// defensive fallback against a move generator / Outcome mismatch.
		return eval.MatedIn(ply)
	}

	s.tt.Store(hash, ply, depth, ttFlag, bestScore, bestMove)
	return bestScore
}
