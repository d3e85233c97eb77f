package search

import "github.com/troppydash/xiangqi-go/pkg/board"

const (
	mvvLvaOffset      = 60000 - 256
	maxHistoryScore   = mvvLvaOffset - 30
	firstKillerScore  = 10
	secondKillerScore = 20
	counterMoveBonus  = 5
)

// pvBand sits strictly above every MVV-LVA capture score, so the PV/TT move
// always ranks first regardless of what captures are available: the
// costliest possible capture is 5*NominalValue(Chariot), the highest-value
// piece.
var pvBand = Priority(mvvLvaOffset + 5*board.NominalValue(board.Chariot) + 1)

// Orderer accumulates the move-ordering heuristics a search builds up across
// an iterative-deepening run and across successive searches from the same
// position: a history table of (side, from, to) cutoff weight, two killer
// moves per ply, and a counter-move table keyed by the opponent's last move.
// Not safe for concurrent use.
type Orderer struct {
	history [board.NumColors][board.NumSquares][board.NumSquares]int32
	killers [maxPly][maxKillers]board.Move
	counter [board.NumColors][board.NumSquares][board.NumSquares]board.Move
}

// NewOrderer returns an Orderer with no accumulated history.
func NewOrderer() *Orderer {
	return &Orderer{}
}

// Rank scores m for move ordering at ply: the PV/TT move first, then
// captures by MVV-LVA, then killer moves, then history (with a bonus for
// the stored counter-move), highest first.
func (o *Orderer) Rank(side board.Color, ply int, m, pvMove, prev board.Move) Priority {
	switch {
	case m.Equals(pvMove):
		return pvBand
	case !m.IsQuiet():
		return Priority(mvvLvaOffset + 5*board.NominalValue(m.Captured.Kind()))
	case ply < maxPly && m.Equals(o.killers[ply][0]):
		return Priority(mvvLvaOffset - firstKillerScore)
	case ply < maxPly && m.Equals(o.killers[ply][1]):
		return Priority(mvvLvaOffset - secondKillerScore)
	default:
		score := int(o.history[side][m.From][m.To])
		if !prev.IsNull() && m.Equals(o.counter[side][prev.From][prev.To]) {
			score += counterMoveBonus
		}
		return Priority(score)
	}
}

// OnCutoff records a move that caused a beta cutoff: a history bonus, this
// ply's killer slot, and the (side, prev) counter-move slot.
func (o *Orderer) OnCutoff(side board.Color, ply, depth int, m, prev board.Move) {
	o.bumpHistory(side, m, depth)
	o.storeKiller(ply, m)
	o.storeCounter(side, prev, m)
}

// OnRaisedAlpha records a move that improved alpha without a cutoff.
func (o *Orderer) OnRaisedAlpha(side board.Color, depth int, m board.Move) {
	o.bumpHistory(side, m, depth)
}

// OnFailedToRaise records a move that did neither, decaying its history
// weight slightly so persistently weak quiet moves sink in future ordering.
func (o *Orderer) OnFailedToRaise(side board.Color, m board.Move) {
	if !m.IsQuiet() {
		return
	}
	if o.history[side][m.From][m.To] > 0 {
		o.history[side][m.From][m.To]--
	}
}

func (o *Orderer) bumpHistory(side board.Color, m board.Move, depth int) {
	if !m.IsQuiet() {
		return
	}
	o.history[side][m.From][m.To] += int32(depth * depth)
	if o.history[side][m.From][m.To] >= maxHistoryScore {
		o.ageHistory(side)
	}
}

// ageHistory halves every history weight for side, keeping the table from
// saturating over a long search.
func (o *Orderer) ageHistory(side board.Color) {
	for from := 0; from < board.NumSquares; from++ {
		for to := 0; to < board.NumSquares; to++ {
			o.history[side][from][to] /= 2
		}
	}
}

func (o *Orderer) storeKiller(ply int, m board.Move) {
	if ply >= maxPly || !m.IsQuiet() {
		return
	}
	if m.Equals(o.killers[ply][0]) {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

func (o *Orderer) storeCounter(side board.Color, prev, m board.Move) {
	if !m.IsQuiet() || prev.IsNull() {
		return
	}
	o.counter[side][prev.From][prev.To] = m
}
