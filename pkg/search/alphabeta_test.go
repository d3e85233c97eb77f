package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
	"github.com/troppydash/xiangqi-go/pkg/search"
)

func newSearcher(p *board.Position) *search.Searcher {
	return search.NewSearcher(p, search.NewTranspositionTable(1), search.NewOrderer())
}

func TestSearchReturnsLegalMoveFromOpening(t *testing.T) {
	p := board.New()
	s := newSearcher(p)

	pv := s.Run(4, 200000)
	require.NotEmpty(t, pv.Moves)

	legal := p.LegalMoves(false)
	found := false
	for _, m := range legal {
		if m.Equals(pv.Best()) {
			found = true
			break
		}
	}
	assert.True(t, found, "best move %v not in legal move list", pv.Best())
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Black general at e10, boxed: chariots on files d and f cover its
	// escape squares, and a third chariot swings onto file e to mate. The
	// Black elephant keeps Black from running out of moves after a quiet
	// Red move and blocks the rank-10 check, so the file-e swing is the only
	// win.
	var grid [board.NumRows][board.NumCols]board.Piece
	grid[0][4] = board.NewPiece(board.General, board.Black)
	grid[0][2] = board.NewPiece(board.Elephant, board.Black)
	grid[1][3] = board.NewPiece(board.Chariot, board.Red)
	grid[1][5] = board.NewPiece(board.Chariot, board.Red)
	grid[2][0] = board.NewPiece(board.Chariot, board.Red)
	grid[9][0] = board.NewPiece(board.General, board.Red)

	p := board.NewFromGrid(grid, board.Red)
	s := newSearcher(p)

	pv := s.Run(3, 500000)
	require.NotEmpty(t, pv.Moves)
	assert.True(t, pv.Score.IsMate(), "expected a mate score, got %v", pv.Score)
	want := board.NewMove(board.NewSquare(2, 0), board.NewSquare(2, 4))
	assert.True(t, want.Equals(pv.Best()), "expected mating move %v, got %v", want, pv.Best())
}

func TestSearchStopsAtNodeBudget(t *testing.T) {
	p := board.New()
	s := newSearcher(p)

	pv := s.Run(10, 50)
	assert.LessOrEqual(t, pv.Nodes, uint64(50)+1)
}

func TestSearchScoreIsBoundedNearOpening(t *testing.T) {
	p := board.New()
	s := newSearcher(p)

	pv := s.Run(3, 200000)
	require.NotEmpty(t, pv.Moves)
	assert.Less(t, pv.Score.Abs(), eval.Win)
}
