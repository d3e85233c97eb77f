package notation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/notation"
)

func TestParseThenDisplayRoundTripsFromOpening(t *testing.T) {
	cases := []string{"S9+1", "H8+7"}
	for _, tok := range cases {
		pos := board.New()
		m, err := notation.Parse(pos, tok)
		require.NoError(t, err, tok)

		legal := pos.LegalMoves(false)
		found := false
		for _, lm := range legal {
			if lm.Equals(m) {
				found = true
				break
			}
		}
		assert.True(t, found, "%v did not resolve to a legal move", tok)

		out, err := notation.Display(pos, m)
		require.NoError(t, err)
		assert.Equal(t, tok, out)

		reparsed, err := notation.Parse(pos, out)
		require.NoError(t, err)
		assert.True(t, reparsed.Equals(m))
	}
}

func TestParseRejectsUnknownPiece(t *testing.T) {
	pos := board.New()
	_, err := notation.Parse(pos, "Z9+1")
	assert.Error(t, err)
}

func TestParseRejectsMalformedToken(t *testing.T) {
	pos := board.New()
	_, err := notation.Parse(pos, "S9+")
	assert.Error(t, err)
}

func tandemGrid() *board.Position {
	var grid [board.NumRows][board.NumCols]board.Piece
	grid[5][0] = board.NewPiece(board.Chariot, board.Red)
	grid[7][0] = board.NewPiece(board.Chariot, board.Red)
	grid[9][4] = board.NewPiece(board.General, board.Red)
	grid[0][4] = board.NewPiece(board.General, board.Black)
	grid[5][4] = board.NewPiece(board.Soldier, board.Black)
	return board.NewFromGrid(grid, board.Red)
}

func TestParseTandemPrefixSelectsFrontPiece(t *testing.T) {
	pos := tandemGrid()

	m, err := notation.Parse(pos, "+R9+2")
	require.NoError(t, err)
	assert.Equal(t, board.NewSquare(5, 0), m.From)
	assert.Equal(t, board.NewSquare(3, 0), m.To)
}

func TestParseTandemPrefixSelectsBackPiece(t *testing.T) {
	pos := tandemGrid()

	m, err := notation.Parse(pos, "-R9+1")
	require.NoError(t, err)
	assert.Equal(t, board.NewSquare(7, 0), m.From)
	assert.Equal(t, board.NewSquare(6, 0), m.To)
}

func TestDisplayEmitsTandemPrefix(t *testing.T) {
	pos := tandemGrid()

	front := board.NewMove(board.NewSquare(5, 0), board.NewSquare(3, 0))
	out, err := notation.Display(pos, front)
	require.NoError(t, err)
	assert.Equal(t, "+R9+2", out)

	back := board.NewMove(board.NewSquare(7, 0), board.NewSquare(6, 0))
	out, err = notation.Display(pos, back)
	require.NoError(t, err)
	assert.Equal(t, "-R9+1", out)
}

func TestParseWithoutTandemIsAmbiguousWhenTwoShareFile(t *testing.T) {
	pos := tandemGrid()

	_, err := notation.Parse(pos, "R9+2")
	assert.Error(t, err)
}
