package search

import (
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
)

// quiescence extends the search at the horizon to tactical moves only, until
// the position is quiet enough for the static evaluator to be trusted. ply is
// the absolute ply from the root (used for mate-distance scoring); qply counts
// recursion depth within quiescence itself and bounds the cost of the in-check
// gate below -- a performance heuristic, not a correctness requirement.
func (s *Searcher) quiescence(ply, qply int, alpha, beta eval.Score, pv *[]board.Move) eval.Score {
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

	inCheck := qply <= 2 && s.pos.IsInCheck()

	standPat := eval.Evaluate(s.pos)
	if !inCheck {
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	rankPly := ply
	if rankPly >= maxPly {
		rankPly = maxPly - 1
	}
	side := s.pos.Turn()
	moves := s.pos.LegalMoves(!inCheck)
	ordered := NewMoveList(moves, func(m board.Move) Priority {
		return s.order.Rank(side, rankPly, m, board.Move{}, board.Move{})
	})

	legalMoves := 0
	for {
		m, ok := ordered.Next()
		if !ok {
			break
		}
		legalMoves++

		mm := m
		s.pos.Make(&mm)
		var childPV []board.Move
		score := s.quiescence(ply+1, qply+1, beta.Negate(), alpha.Negate(), &childPV).Negate()
		s.pos.Unmake(&mm)

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
			*pv = append([]board.Move{mm}, childPV...)
		}
	}

	if inCheck && legalMoves == 0 {
		return eval.MatedIn(ply)
	}
	return alpha
}
