// Package pstfile loads and renders the piece-square table file format
// consumed by board.SetPST: a plain-text table of per-(piece, square)
// values for the middlegame and endgame tables, authored from Red's
// perspective. Grounded on original_source/src/engine/eval.rs's
// load_pst/create_pst/display_pst trio, which spec.md §6 distilled down to
// a format description without a Go implementation.
package pstfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/troppydash/xiangqi-go/pkg/board"
)

// mgHeaderRow and egHeaderRow are the section-header line indices; the
// values occupy the ten lines immediately after each.
const (
	mgHeaderRow = 0
	egHeaderRow = 13
)

// Load parses the piece-square file format: a header line, ten
// comma-separated rows of seven pieces times nine files (row-major within a
// piece, pieces packed left to right) for the middlegame table, a second
// header line at line index 13, then the same layout for the endgame table.
func Load(text string) (mg, eg [board.NumKinds + 1][board.NumRows][board.NumCols]int, err error) {
	lines := strings.Split(text, "\n")
	if len(lines) < egHeaderRow+board.NumRows+1 {
		return mg, eg, fmt.Errorf("pstfile: expected at least %v lines, got %v", egHeaderRow+board.NumRows+1, len(lines))
	}

	if err := parseSection(lines[mgHeaderRow+1:mgHeaderRow+1+board.NumRows], &mg); err != nil {
		return mg, eg, fmt.Errorf("pstfile: mg section: %w", err)
	}
	if err := parseSection(lines[egHeaderRow+1:egHeaderRow+1+board.NumRows], &eg); err != nil {
		return mg, eg, fmt.Errorf("pstfile: eg section: %w", err)
	}
	return mg, eg, nil
}

func parseSection(rows []string, table *[board.NumKinds + 1][board.NumRows][board.NumCols]int) error {
	for row, line := range rows {
		fields := strings.Split(line, ",")
		for i, piece := range board.PSTOrder {
			for col := 0; col < board.NumCols; col++ {
				idx := board.NumCols*i + col
				if idx >= len(fields) {
					return fmt.Errorf("row %v: expected %v values, got %v", row, board.NumKinds*board.NumCols, len(fields))
				}
				v, err := strconv.Atoi(strings.TrimSpace(fields[idx]))
				if err != nil {
					return fmt.Errorf("row %v, col %v: %w", row, idx, err)
				}
				table[piece][row][col] = v
			}
		}
	}
	return nil
}

// Flat builds the default flat, kind-only table pair: every square of a
// given piece kind holds that kind's nominal value, for both mg and eg.
// Mirrors create_pst's default before a custom file is loaded.
func Flat() (mg, eg [board.NumKinds + 1][board.NumRows][board.NumCols]int) {
	for k := 1; k <= board.NumKinds; k++ {
		v := board.NominalValue(board.Kind(k))
		for row := 0; row < board.NumRows; row++ {
			for col := 0; col < board.NumCols; col++ {
				mg[k][row][col] = v
				eg[k][row][col] = v
			}
		}
	}
	return mg, mg
}

// Display renders a table one piece at a time: a kind-name header, then ten
// rows of nine comma-separated values -- a dump format for tooling, not a
// round-trip partner of Load (which expects the packed layout instead).
func Display(table [board.NumKinds + 1][board.NumRows][board.NumCols]int) string {
	var sb strings.Builder
	for _, k := range board.PSTOrder {
		fmt.Fprintf(&sb, "%v\n", kindName(k))
		for row := 0; row < board.NumRows; row++ {
			for col := 0; col < board.NumCols; col++ {
				if col > 0 {
					sb.WriteByte(',')
				}
				fmt.Fprintf(&sb, "%d", table[k][row][col])
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func kindName(k board.Kind) string {
	switch k {
	case board.Advisor:
		return "Advisor"
	case board.Cannon:
		return "Cannon"
	case board.Chariot:
		return "Chariot"
	case board.Elephant:
		return "Elephant"
	case board.General:
		return "General"
	case board.Horse:
		return "Horse"
	case board.Soldier:
		return "Soldier"
	default:
		return "?"
	}
}
