// Package notation implements the Chinese-notation move format and the
// recorded-game ingestion format described in spec.md §6. Neither has a Go
// or Rust reference implementation in the retrieval pack (original_source's
// own notation.rs equivalent only ever parses coordinate strings); this
// package is built directly from the format description, in the idiom of
// board.ParseMove/board.Move.String for error handling and round-trip
// shape.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/troppydash/xiangqi-go/pkg/board"
)

// forwardSign is the row delta sign of a step toward the opponent: Red's
// back rank is row 9, so advancing decreases the row; Black's is row 0, so
// advancing increases it.
func forwardSign(side board.Color) int {
	if side == board.Red {
		return -1
	}
	return 1
}

// columnForFile converts a side-relative file number (1-9, counted from the
// mover's own right) to a board column. Each side counts its own files
// right-to-left from its own perspective.
func columnForFile(side board.Color, file int) int {
	if side == board.Red {
		return board.NumCols - file
	}
	return file - 1
}

// fileForColumn is the inverse of columnForFile.
func fileForColumn(side board.Color, col int) int {
	if side == board.Red {
		return board.NumCols - col
	}
	return col + 1
}

// isStraightMover reports whether a piece kind moves along its own file or
// rank when advancing/retreating (as opposed to changing file the way a
// horse, elephant, or advisor does).
func isStraightMover(k board.Kind) bool {
	switch k {
	case board.Chariot, board.Cannon, board.Soldier, board.General:
		return true
	default:
		return false
	}
}

// Parse interprets a Chinese-notation token (piece, file, direction,
// amount, with an optional tandem prefix for two same-kind pieces sharing a
// file) against pos, returning the move it denotes for the side to move.
// The returned Move is chosen from pos's legal moves but is not made --
// callers apply it with Position.TryMove.
func Parse(pos *board.Position, token string) (board.Move, error) {
	token = strings.TrimSpace(token)
	r := []rune(token)

	i := 0
	var tandem rune
	if i < len(r) && (r[i] == '+' || r[i] == '-') {
		tandem = r[i]
		i++
	}
	if i >= len(r) {
		return board.Move{}, fmt.Errorf("notation: empty move %q", token)
	}
	kind, ok := board.ParseKind(r[i])
	if !ok {
		return board.Move{}, fmt.Errorf("notation: unknown piece %q in %q", r[i], token)
	}
	i++

	if i >= len(r) {
		return board.Move{}, fmt.Errorf("notation: missing file in %q", token)
	}
	file, err := digit(r[i])
	if err != nil {
		return board.Move{}, fmt.Errorf("notation: %w in %q", err, token)
	}
	i++

	if i >= len(r) {
		return board.Move{}, fmt.Errorf("notation: missing direction in %q", token)
	}
	dir := r[i]
	if dir != '+' && dir != '-' && dir != '.' {
		return board.Move{}, fmt.Errorf("notation: unknown direction %q in %q", dir, token)
	}
	i++

	if i >= len(r) {
		return board.Move{}, fmt.Errorf("notation: missing amount in %q", token)
	}
	amount, err := digit(r[i])
	if err != nil {
		return board.Move{}, fmt.Errorf("notation: %w in %q", err, token)
	}
	i++
	if i != len(r) {
		return board.Move{}, fmt.Errorf("notation: trailing characters in %q", token)
	}

	side := pos.Turn()
	wantCol := columnForFile(side, file)

	src, err := findSource(pos, side, kind, wantCol, tandem)
	if err != nil {
		return board.Move{}, fmt.Errorf("notation: %w in %q", err, token)
	}

	candidates := pos.LegalMoves(false)
	var match *board.Move
	for idx := range candidates {
		m := candidates[idx]
		if m.From != src {
			continue
		}
		if moveMatchesToken(side, kind, m, dir, amount) {
			if match != nil {
				return board.Move{}, fmt.Errorf("notation: ambiguous move %q", token)
			}
			mm := m
			match = &mm
		}
	}
	if match == nil {
		return board.Move{}, fmt.Errorf("notation: no legal move matches %q", token)
	}
	return *match, nil
}

func digit(r rune) (int, error) {
	if r < '1' || r > '9' {
		return 0, fmt.Errorf("invalid digit %q", r)
	}
	return int(r - '0'), nil
}

func findSource(pos *board.Position, side board.Color, kind board.Kind, col int, tandem rune) (board.Square, error) {
	var onFile []board.Square
	for row := 0; row < board.NumRows; row++ {
		sq := board.NewSquare(row, col)
		p := pos.At(sq)
		if p.IsEmpty() || p.Color() != side || p.Kind() != kind {
			continue
		}
		onFile = append(onFile, sq)
	}

	if tandem != 0 {
		if len(onFile) != 2 {
			return 0, fmt.Errorf("tandem prefix requires exactly two pieces sharing the file, found %v", len(onFile))
		}
		front, back := onFile[0], onFile[1]
		if isBehind(side, front, back) {
			front, back = back, front
		}
		if tandem == '+' {
			return front, nil
		}
		return back, nil
	}

	if len(onFile) == 0 {
		return 0, fmt.Errorf("no matching piece on the given file")
	}
	if len(onFile) > 1 {
		return 0, fmt.Errorf("ambiguous piece on the given file, use a tandem prefix")
	}
	return onFile[0], nil
}

// isBehind reports whether a sits further from the opponent's back rank
// than b, for side.
func isBehind(side board.Color, a, b board.Square) bool {
	if side == board.Red {
		return a.Row() > b.Row()
	}
	return a.Row() < b.Row()
}

func moveMatchesToken(side board.Color, kind board.Kind, m board.Move, dir rune, amount int) bool {
	sign := forwardSign(side)

	if dir == '.' {
		wantCol := columnForFile(side, amount)
		return m.To.Row() == m.From.Row() && m.To.Col() == wantCol
	}

	want := sign
	if dir == '-' {
		want = -sign
	}

	if isStraightMover(kind) {
		if m.To.Col() != m.From.Col() {
			return false
		}
		delta := m.To.Row() - m.From.Row()
		return delta == want*amount
	}

	wantCol := columnForFile(side, amount)
	if m.To.Col() != wantCol {
		return false
	}
	delta := m.To.Row() - m.From.Row()
	return delta*want > 0
}

// Display renders m, made from pos, in Chinese notation. pos must be the
// position the move was (or would be) made from -- it is used to
// determine the moving piece's kind and whether a tandem prefix is needed.
func Display(pos *board.Position, m board.Move) (string, error) {
	piece := pos.At(m.From)
	if piece.IsEmpty() {
		return "", fmt.Errorf("notation: no piece on %v", m.From)
	}
	side := piece.Color()
	kind := piece.Kind()

	var sb strings.Builder

	var onFile []board.Square
	for row := 0; row < board.NumRows; row++ {
		sq := board.NewSquare(row, m.From.Col())
		p := pos.At(sq)
		if p.IsEmpty() || p.Color() != side || p.Kind() != kind {
			continue
		}
		onFile = append(onFile, sq)
	}
	if len(onFile) >= 2 {
		front, back := onFile[0], onFile[len(onFile)-1]
		if isBehind(side, front, back) {
			front, back = back, front
		}
		if m.From == front {
			sb.WriteByte('+')
		} else if m.From == back {
			sb.WriteByte('-')
		}
	}

	sb.WriteString(kind.String())
	sb.WriteString(strconv.Itoa(fileForColumn(side, m.From.Col())))

	sign := forwardSign(side)
	switch {
	case m.To.Col() == m.From.Col() && isStraightMover(kind):
		delta := m.To.Row() - m.From.Row()
		if delta*sign > 0 {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
		amount := delta
		if amount < 0 {
			amount = -amount
		}
		sb.WriteString(strconv.Itoa(amount))
	case m.To.Row() == m.From.Row():
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(fileForColumn(side, m.To.Col())))
	default:
		delta := m.To.Row() - m.From.Row()
		if delta*sign > 0 {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.Itoa(fileForColumn(side, m.To.Col())))
	}

	return sb.String(), nil
}
