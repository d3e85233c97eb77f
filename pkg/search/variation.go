package search

import (
	"fmt"
	"strings"

	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
)

// PV is the principal variation and statistics produced by one
// iterative-deepening depth: the last completed one, or the aborted first
// one when no depth completed within the node budget.
type PV struct {
	Depth int
	Score eval.Score
	Moves []board.Move
	Nodes uint64
	Hash  float64 // transposition table fill fraction [0;1] at completion
}

func (p PV) String() string {
	var sb strings.Builder
	for i, m := range p.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, int(100*p.Hash), sb.String())
}

// Best returns the first move of the principal variation, or the zero Move
// if the variation holds no moves.
func (p PV) Best() board.Move {
	if len(p.Moves) == 0 {
		return board.Move{}
	}
	return p.Moves[0]
}
