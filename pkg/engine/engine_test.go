package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/engine"
)

func TestAnalyzeFromOpeningReturnsLegalMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(engine.WithMaxDepth(3))

	result, err := e.Analyze(ctx, 200000)
	require.NoError(t, err)

	legal := e.Position().LegalMoves(false)
	found := false
	for _, m := range legal {
		if m.Equals(result.Best) {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestApplyMovesRejectsIllegalMove(t *testing.T) {
	e := engine.New()
	before := e.Position().Hash()

	err := e.ApplyMoves([]string{"E4E5", "ZZZZ"})
	assert.Error(t, err)
	assert.Equal(t, before, e.Position().Hash(), "position must be unwound after a rejected move list")
}

func TestApplyMovesThenAnalyze(t *testing.T) {
	ctx := context.Background()
	e := engine.New(engine.WithMaxDepth(3))

	require.NoError(t, e.ApplyMoves([]string{"H3H5"}))
	assert.Equal(t, board.Black, e.Position().Turn())

	result, err := e.Analyze(ctx, 200000)
	require.NoError(t, err)
	assert.NotEqual(t, board.Move{}.From, result.Best.From)
}

func TestAnalyzeRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := engine.New()
	_, err := e.Analyze(ctx, 200000)
	assert.Error(t, err)
}

func TestResetReturnsToOpening(t *testing.T) {
	ctx := context.Background()
	e := engine.New()
	require.NoError(t, e.ApplyMoves([]string{"H3H5"}))

	e.Reset(ctx)
	assert.Equal(t, board.New().Hash(), e.Position().Hash())
}
