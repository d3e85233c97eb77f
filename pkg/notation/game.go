package notation

import (
	"fmt"
	"strings"

	"github.com/troppydash/xiangqi-go/pkg/board"
)

// Result is a recorded game's outcome, from Red's perspective.
type Result int

const (
	// Unknown marks a game whose outcome line was "?" -- spec §6 says these
	// entries are skipped outright rather than ingested.
	Unknown Result = iota
	Win
	Draw
	Loss
)

func parseResult(s string) (Result, error) {
	switch strings.TrimSpace(s) {
	case "WIN":
		return Win, nil
	case "DRAW":
		return Draw, nil
	case "LOSS":
		return Loss, nil
	case "?":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("notation: unknown outcome %q", s)
	}
}

// losingSide returns the side that lost the game and whether the result
// designates one. A draw has no losing side.
func losingSide(r Result) (board.Color, bool) {
	switch r {
	case Win:
		return board.Black, true
	case Loss:
		return board.Red, true
	default:
		return 0, false
	}
}

// Game is a recorded game ingested from the {identifier, outcome,
// move-list} file format of spec.md §6.
type Game struct {
	ID     string
	Result Result
	Moves  []board.Move
}

// ErrSkipped is returned by ParseGame when the record's outcome line is "?":
// spec §6 says these are skipped rather than ingested.
var ErrSkipped = fmt.Errorf("notation: game outcome is unknown, skipped")

// ParseGame ingests one recorded-game record: a three-line block of
// identifier, outcome, and a comma-separated sequence of Chinese-notation
// moves played from the standard opening.
//
// A move that fails to parse or is illegal truncates the game at that point
// if the player to move is the losing side (or the game was a draw); the
// same failure on the winning side's move rejects the whole record, since a
// winning game's recorded continuation should never go wrong.
func ParseGame(text string) (*Game, error) {
	lines := strings.SplitN(text, "\n", 3)
	if len(lines) < 2 {
		return nil, fmt.Errorf("notation: record has fewer than 2 lines")
	}
	id := strings.TrimSpace(lines[0])
	result, err := parseResult(lines[1])
	if err != nil {
		return nil, err
	}
	if result == Unknown {
		return nil, ErrSkipped
	}

	var moveLine string
	if len(lines) == 3 {
		moveLine = lines[2]
	}

	losing, hasLosing := losingSide(result)

	pos := board.New()
	var applied []board.Move
	for _, tok := range strings.Split(moveLine, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		mover := pos.Turn()
		m, err := Parse(pos, tok)
		if err == nil {
			var ok bool
			m, ok = pos.TryMove(m)
			if !ok {
				err = fmt.Errorf("notation: move %q is not legal", tok)
			}
		}
		if err != nil {
			if hasLosing && mover != losing {
				return nil, fmt.Errorf("notation: game %v: winning side's move %q failed: %w", id, tok, err)
			}
			break
		}

		applied = append(applied, m)
	}

	return &Game{ID: id, Result: result, Moves: applied}, nil
}
