package board

import (
	"fmt"
	"strings"
)

// startingGrid is the standard Xiangqi opening, row 0 Black's back rank, row 9
// Red's back rank.
var startingGrid = [NumRows][NumCols]Piece{
	{-Piece(Chariot), -Piece(Horse), -Piece(Elephant), -Piece(Advisor), -Piece(General), -Piece(Advisor), -Piece(Elephant), -Piece(Horse), -Piece(Chariot)},
	{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
	{Empty, -Piece(Cannon), Empty, Empty, Empty, Empty, Empty, -Piece(Cannon), Empty},
	{-Piece(Soldier), Empty, -Piece(Soldier), Empty, -Piece(Soldier), Empty, -Piece(Soldier), Empty, -Piece(Soldier)},
	{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
	{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
	{Piece(Soldier), Empty, Piece(Soldier), Empty, Piece(Soldier), Empty, Piece(Soldier), Empty, Piece(Soldier)},
	{Empty, Piece(Cannon), Empty, Empty, Empty, Empty, Empty, Piece(Cannon), Empty},
	{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
	{Piece(Chariot), Piece(Horse), Piece(Elephant), Piece(Advisor), Piece(General), Piece(Advisor), Piece(Elephant), Piece(Horse), Piece(Chariot)},
}

// drawPlyLimit is the halfmove-since-capture count ("60-move rule", counted in
// halfmoves rather than full moves) after which a position is a draw.
const drawPlyLimit = 60

// Position is an incrementally-maintained Xiangqi position: the grid, side to
// move, general-square cache, tapered-eval accumulators, Zobrist hash, and the
// bookkeeping needed for the 60-halfmove and three-fold-repetition draw rules.
// Mutated exclusively through Make and Unmake, which must be strictly paired.
type Position struct {
	grid      [NumRows][NumCols]Piece
	turn      Color
	generalSq [NumColors]Square

	mg, eg [NumColors]int

	hash uint64

	ply         int
	lastCapture int
	repetitions map[uint64]int
	drawLatched bool

	cachedMoves []Move
	cacheValid  bool
}

// New returns a Position at the standard opening, Red to move.
func New() *Position {
	return NewFromGrid(startingGrid, Red)
}

// NewFromGrid builds a Position from an arbitrary grid and side to move, with
// no legality checking. Used by New and by tests to set up positions the
// standard opening can't reach directly.
func NewFromGrid(grid [NumRows][NumCols]Piece, turn Color) *Position {
	p := &Position{
		grid:        grid,
		turn:        turn,
		repetitions: make(map[uint64]int),
	}
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			piece := p.grid[row][col]
			if piece.IsEmpty() {
				continue
			}
			sq := NewSquare(row, col)
			if piece.Kind() == General {
				p.generalSq[piece.Color()] = sq
			}
			p.mg[piece.Color()] += pstMG(piece, sq)
			p.eg[piece.Color()] += pstEG(piece, sq)
		}
	}
	p.hash = HashGrid(p.grid, p.turn)
	p.repetitions[p.hash] = 1
	return p
}

// Turn returns the side to move.
func (p *Position) Turn() Color {
	return p.turn
}

// Ply returns the number of halfmoves played since construction.
func (p *Position) Ply() int {
	return p.ply
}

// At returns the piece occupying sq.
func (p *Position) At(sq Square) Piece {
	return p.grid[sq.Row()][sq.Col()]
}

// Hash returns the 64-bit Zobrist key of the position, including side to move.
func (p *Position) Hash() uint64 {
	return p.hash
}

// ScoreMg returns side's incremental middlegame piece-square accumulator.
func (p *Position) ScoreMg(side Color) int {
	return p.mg[side]
}

// ScoreEg returns side's incremental endgame piece-square accumulator.
func (p *Position) ScoreEg(side Color) int {
	return p.eg[side]
}

// GeneralSquare returns the cached square of side's general.
func (p *Position) GeneralSquare(side Color) Square {
	return p.generalSq[side]
}

// IsInCheck reports whether the side to move's general is attacked.
func (p *Position) IsInCheck() bool {
	return p.InCheck(p.turn)
}

// InCheck reports whether side's general is attacked in the current position,
// regardless of whose turn it is.
func (p *Position) InCheck(side Color) bool {
	return p.isAttacked(side.Opponent(), p.generalSq[side])
}

// LegalMoves returns the legal moves available to the side to move. The full
// list is cached and invalidated on every Make/Unmake; capturesOnly filters
// the cached list rather than regenerating it.
func (p *Position) LegalMoves(capturesOnly bool) []Move {
	if !p.cacheValid {
		p.cachedMoves = p.computeLegalMoves()
		p.cacheValid = true
	}
	if capturesOnly {
		return filterCaptures(p.cachedMoves)
	}
	return p.cachedMoves
}

func filterCaptures(moves []Move) []Move {
	var out []Move
	for _, m := range moves {
		if !m.IsQuiet() {
			out = append(out, m)
		}
	}
	return out
}

func (p *Position) computeLegalMoves() []Move {
	mover := p.turn
	pseudo := p.genAllPseudoLegal(mover)

	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		p.Make(&m)
		ok := !p.isAttacked(p.turn, p.generalSq[mover]) && !p.generalsFaceOff()
		p.Unmake(&m)
		if ok {
			legal = append(legal, m)
		}
	}
	return legal
}

// MobilityCount sums the number of pseudo-legal destinations across every
// piece of kind belonging to side -- used by the evaluator's mobility term.
func (p *Position) MobilityCount(side Color, kind Kind) int {
	count := 0
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			piece := p.grid[row][col]
			if piece.IsEmpty() || piece.Color() != side || piece.Kind() != kind {
				continue
			}
			sq := NewSquare(row, col)
			var out []Move
			switch kind {
			case Chariot:
				p.genChariotMoves(side, sq, 0, 0, &out)
			case Cannon:
				p.genCannonMoves(side, sq, 0, 0, &out)
			case Horse:
				p.genHorseMoves(side, sq, 0, 0, &out)
			case Soldier:
				p.genSoldierMoves(side, sq, &out)
			}
			count += len(out)
		}
	}
	return count
}

// TryMove validates a caller-supplied move against the current legal-move
// list and makes it, returning false instead of panicking when it is not
// legal. Used by the recorded-game ingestion path, where moves come from an
// external notation parser rather than the generator. The returned Move is
// the stamped descriptor Make produced (Captured, PrevLastCapture filled
// in) -- callers that may need to Unmake it later must hold onto this
// value, not the move they passed in.
func (p *Position) TryMove(m Move) (Move, bool) {
	for _, legal := range p.LegalMoves(false) {
		if legal.Equals(m) {
			mm := legal
			p.Make(&mm)
			return mm, true
		}
	}
	return Move{}, false
}

// Make applies m, which must be legal (or the null move). The descriptor is
// mutated in place: Captured and PrevLastCapture are stamped so a matching
// Unmake can restore exactly the prior state. Capturing a general is a
// programming error, not a legality failure -- it indicates the caller fed a
// pseudo-legal or unvalidated move into Make, so it faults loudly rather than
// being silently tolerated.
func (p *Position) Make(m *Move) {
	p.cacheValid = false

	if m.IsNull() {
		p.hash ^= blackKey
		p.turn = p.turn.Opponent()
		p.ply++
		return
	}

	fromSq, toSq := m.From, m.To
	fromPiece := p.grid[fromSq.Row()][fromSq.Col()]
	capturedPiece := p.grid[toSq.Row()][toSq.Col()]
	if capturedPiece.Kind() == General {
		panic(fmt.Sprintf("board: illegal capture of general by move %v", m))
	}

	m.Captured = capturedPiece
	m.PrevLastCapture = p.lastCapture

	p.hash ^= pieceKey(fromPiece, fromSq)
	p.hash ^= pieceKey(capturedPiece, toSq)

	if !capturedPiece.IsEmpty() {
		p.lastCapture = p.ply
	}

	mover := fromPiece.Color()
	p.mg[mover] += pstMG(fromPiece, toSq) - pstMG(fromPiece, fromSq)
	p.eg[mover] += pstEG(fromPiece, toSq) - pstEG(fromPiece, fromSq)
	if !capturedPiece.IsEmpty() {
		captSide := capturedPiece.Color()
		p.mg[captSide] -= pstMG(capturedPiece, toSq)
		p.eg[captSide] -= pstEG(capturedPiece, toSq)
	}

	if fromPiece.Kind() == General {
		p.generalSq[mover] = toSq
	}

	p.grid[fromSq.Row()][fromSq.Col()] = Empty
	p.grid[toSq.Row()][toSq.Col()] = fromPiece

	p.hash ^= pieceKey(fromPiece, toSq)

	p.turn = p.turn.Opponent()
	p.hash ^= blackKey
	p.ply++

	p.repetitions[p.hash]++
	if p.repetitions[p.hash] >= 3 {
		p.drawLatched = true
	}
}

// Unmake is the exact inverse of Make. Unmaking after the draw flag has
// latched is only meaningful for search internals that probe past a draw;
// external callers should treat Outcome()==Draw as terminal.
func (p *Position) Unmake(m *Move) {
	p.cacheValid = false

	if m.IsNull() {
		p.hash ^= blackKey
		p.turn = p.turn.Opponent()
		p.ply--
		return
	}

	if n := p.repetitions[p.hash]; n > 0 {
		if n == 1 {
			delete(p.repetitions, p.hash)
		} else {
			p.repetitions[p.hash] = n - 1
		}
	}
	p.drawLatched = false

	p.hash ^= blackKey
	p.turn = p.turn.Opponent()
	p.ply--

	fromSq, toSq := m.From, m.To
	moved := p.grid[toSq.Row()][toSq.Col()]
	mover := moved.Color()

	if !m.Captured.IsEmpty() {
		p.lastCapture = m.PrevLastCapture
	}

	p.hash ^= pieceKey(moved, toSq)

	p.grid[fromSq.Row()][fromSq.Col()] = moved
	p.grid[toSq.Row()][toSq.Col()] = m.Captured

	p.hash ^= pieceKey(moved, fromSq)
	p.hash ^= pieceKey(m.Captured, toSq)

	p.mg[mover] += pstMG(moved, fromSq) - pstMG(moved, toSq)
	p.eg[mover] += pstEG(moved, fromSq) - pstEG(moved, toSq)
	if !m.Captured.IsEmpty() {
		captSide := m.Captured.Color()
		p.mg[captSide] += pstMG(m.Captured, toSq)
		p.eg[captSide] += pstEG(m.Captured, toSq)
	}

	if moved.Kind() == General {
		p.generalSq[mover] = fromSq
	}
}

// Outcome reports the game result as seen from the current position.
func (p *Position) Outcome() Outcome {
	if p.ply-p.lastCapture >= drawPlyLimit || p.drawLatched {
		return Draw
	}
	if len(p.LegalMoves(false)) == 0 {
		if p.turn == Red {
			return BlackWins
		}
		return RedWins
	}
	return Ongoing
}

func (p *Position) String() string {
	var sb strings.Builder
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			sb.WriteString(p.grid[row][col].String())
		}
		sb.WriteRune('\n')
	}
	fmt.Fprintf(&sb, "%v to move", p.turn)
	return sb.String()
}
