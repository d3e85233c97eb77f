package pstfile_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/pstfile"
)

func buildFile(mgVal, egVal int) string {
	mgRow := strings.TrimRight(strings.Repeat(strconv.Itoa(mgVal)+",", board.NumKinds*board.NumCols), ",")
	egRow := strings.TrimRight(strings.Repeat(strconv.Itoa(egVal)+",", board.NumKinds*board.NumCols), ",")

	var sb strings.Builder
	sb.WriteString("MG\n")
	for i := 0; i < board.NumRows; i++ {
		sb.WriteString(mgRow)
		sb.WriteByte('\n')
	}
	for i := 0; i < 2; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString("EG\n")
	for i := 0; i < board.NumRows; i++ {
		sb.WriteString(egRow)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestLoadRoundTripsFlatTable(t *testing.T) {
	text := buildFile(42, 7)
	mg, eg, err := pstfile.Load(text)
	require.NoError(t, err)

	for k := 1; k <= board.NumKinds; k++ {
		assert.Equal(t, 42, mg[k][0][0])
		assert.Equal(t, 42, mg[k][9][8])
		assert.Equal(t, 7, eg[k][0][0])
		assert.Equal(t, 7, eg[k][9][8])
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	_, _, err := pstfile.Load("MG\n1,2,3\n")
	assert.Error(t, err)
}

func TestFlatUsesNominalValues(t *testing.T) {
	mg, eg := pstfile.Flat()
	assert.Equal(t, board.NominalValue(board.Chariot), mg[board.Chariot][0][0])
	assert.Equal(t, board.NominalValue(board.Chariot), eg[board.Chariot][0][0])
}

func TestDisplayIsNonEmpty(t *testing.T) {
	mg, _ := pstfile.Flat()
	out := pstfile.Display(mg)
	assert.Contains(t, out, "Chariot")
}
