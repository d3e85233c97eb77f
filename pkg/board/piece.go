package board

import "strings"

// Kind identifies a piece type, irrespective of side.
type Kind int8

const (
	NoKind Kind = iota
	Advisor
	Cannon
	Chariot
	Elephant
	General
	Horse
	Soldier
)

// NumKinds is the number of non-empty piece kinds.
const NumKinds = 7

func (k Kind) String() string {
	switch k {
	case Advisor:
		return "A"
	case Cannon:
		return "C"
	case Chariot:
		return "R"
	case Elephant:
		return "E"
	case General:
		return "G"
	case Horse:
		return "H"
	case Soldier:
		return "S"
	default:
		return " "
	}
}

// ParseKind parses a single-letter kind code, case-insensitive.
func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'a', 'A':
		return Advisor, true
	case 'c', 'C':
		return Cannon, true
	case 'r', 'R':
		return Chariot, true
	case 'e', 'E', 'b', 'B':
		return Elephant, true
	case 'g', 'G', 'k', 'K':
		return General, true
	case 'h', 'H', 'n', 'N':
		return Horse, true
	case 's', 'S', 'p', 'P':
		return Soldier, true
	default:
		return NoKind, false
	}
}

// Piece encodes both kind and side on the board grid: zero is empty, positive
// values belong to Red, negative values to Black.
type Piece int8

// Empty denotes an unoccupied square.
const Empty Piece = 0

// NewPiece builds the signed grid value for a kind and side.
func NewPiece(k Kind, c Color) Piece {
	if k == NoKind {
		return Empty
	}
	if c == Black {
		return Piece(-int8(k))
	}
	return Piece(k)
}

// IsEmpty reports whether the square is unoccupied.
func (p Piece) IsEmpty() bool {
	return p == Empty
}

// Kind returns the piece kind, irrespective of side.
func (p Piece) Kind() Kind {
	if p < 0 {
		return Kind(-p)
	}
	return Kind(p)
}

// Color returns the owning side. Only meaningful if !p.IsEmpty().
func (p Piece) Color() Color {
	if p < 0 {
		return Black
	}
	return Red
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "-"
	}
	s := p.Kind().String()
	if p.Color() == Black {
		return strings.ToLower(s)
	}
	return s
}
