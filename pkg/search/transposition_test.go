package search_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
	"github.com/troppydash/xiangqi-go/pkg/search"
)

func TestTranspositionTableSize(t *testing.T) {
	tt := search.NewTranspositionTable(1)
	assert.Equal(t, uint64(1024*1024*32), tt.Size())
}

func TestTranspositionTableProbeMiss(t *testing.T) {
	tt := search.NewTranspositionTable(1)
	hash := rand.Uint64()

	_, _, _, _, found := tt.Probe(hash, 0)
	assert.False(t, found)
}

func TestTranspositionTableStoreThenProbe(t *testing.T) {
	tt := search.NewTranspositionTable(1)
	hash := rand.Uint64()
	m := board.NewMove(board.NewSquare(0, 0), board.NewSquare(1, 0))

	tt.Store(hash, 0, 5, search.Exact, eval.Score(42), m)

	score, depth, bound, best, found := tt.Probe(hash, 0)
	assert.True(t, found)
	assert.Equal(t, eval.Score(42), score)
	assert.Equal(t, 5, depth)
	assert.Equal(t, search.Exact, bound)
	assert.True(t, m.Equals(best))
}

func TestTranspositionTableDepthPreferredReplacement(t *testing.T) {
	tt := search.NewTranspositionTable(1)
	hash := rand.Uint64()
	m := board.NewMove(board.NewSquare(0, 0), board.NewSquare(1, 0))

	tt.Store(hash, 0, 5, search.Exact, eval.Score(1), m)
	// A shallower search for the same hash goes to the second bucket and must
	// not overwrite the deeper entry already occupying the primary slot.
	tt.Store(hash, 0, 3, search.Upper, eval.Score(2), m)

	score, depth, bound, _, found := tt.Probe(hash, 0)
	assert.True(t, found)
	assert.Equal(t, 5, depth)
	assert.Equal(t, search.Exact, bound)
	assert.Equal(t, eval.Score(1), score)
}

func TestTranspositionTableMateScoreNormalizedRoundTrip(t *testing.T) {
	tt := search.NewTranspositionTable(1)
	hash := rand.Uint64()
	m := board.NewMove(board.NewSquare(0, 0), board.NewSquare(1, 0))

	// A mate found 3 plies into this search, stored at ply 3.
	mateScore := eval.MateIn(2)
	tt.Store(hash, 3, 6, search.Exact, mateScore, m)

	// Probed again from the same ply, the adjustment round-trips exactly.
	score, _, _, _, found := tt.Probe(hash, 3)
	assert.True(t, found)
	assert.Equal(t, mateScore, score)
}
