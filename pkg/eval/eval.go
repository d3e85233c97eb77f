// Package eval contains the tapered static evaluator and its integer Score
// type.
package eval

import "github.com/troppydash/xiangqi-go/pkg/board"

// Phase weights follow the classic tapered-eval scheme
// (https://www.chessprogramming.org/Tapered_Eval): each non-soldier piece
// contributes a weight, and the game phase is the fraction of that weight
// no longer on the board.
const (
	phaseSoldier  = 0
	phaseAdvisor  = 1
	phaseElephant = 1
	phaseCannon   = 3
	phaseHorse    = 3
	phaseChariot  = 4
)

// phaseWeight is indexed by Kind, mirroring the lookup table in
// original_source/src/engine/eval.rs's compute_phase.
var phaseWeight = [board.NumKinds + 1]int{0, phaseAdvisor, phaseCannon, phaseChariot, phaseElephant, 0, phaseHorse, phaseSoldier}

// totalPhase is the phase weight of the full starting material: two
// advisors, two elephants, two cannons, two horses and two chariots per
// side (four of each across both sides), no soldiers.
const totalPhase = phaseAdvisor*4 + phaseCannon*4 + phaseChariot*4 + phaseElephant*4 + phaseHorse*4 + phaseSoldier*10

// tempoBonus rewards the side to move, added only to the middlegame term.
const tempoBonus = 10

// mobilityTerm centers a piece's pseudo-legal move count around a neutral
// value and weights the deviation for the middlegame and endgame scores.
type mobilityTerm struct {
	kind   board.Kind
	offset int
	mg, eg int
}

// mobilityTerms lists chariots, cannons, horses (offset to a neutral count
// per spec) and soldiers (raw count, no offset).
var mobilityTerms = [4]mobilityTerm{
	{board.Chariot, 7, 3, 4},
	{board.Cannon, 7, 2, 1},
	{board.Horse, 2, 3, 2},
	{board.Soldier, 0, 1, 2},
}

// Phase returns the game-phase coefficient in [0;256]. 0 is pure
// middlegame, 256 is pure endgame.
func Phase(pos *board.Position) int {
	remaining := totalPhase
	for sq := 0; sq < board.NumSquares; sq++ {
		piece := pos.At(board.Square(sq))
		if piece.IsEmpty() {
			continue
		}
		remaining -= phaseWeight[piece.Kind()]
	}
	if remaining < 0 {
		remaining = 0
	}
	return (remaining*256 + totalPhase/2) / totalPhase
}

// Evaluate returns the tapered static score of pos from the perspective of
// the side to move: PST difference plus mobility and tempo, interpolated
// between the middlegame and endgame scores by the game phase.
func Evaluate(pos *board.Position) Score {
	side := pos.Turn()
	other := side.Opponent()

	mg := pos.ScoreMg(side) - pos.ScoreMg(other)
	eg := pos.ScoreEg(side) - pos.ScoreEg(other)

	for _, t := range mobilityTerms {
		own := pos.MobilityCount(side, t.kind) - t.offset
		opp := pos.MobilityCount(other, t.kind) - t.offset
		diff := own - opp
		mg += diff * t.mg
		eg += diff * t.eg
	}
	mg += tempoBonus

	phase := Phase(pos)
	return Score((mg*(256-phase) + eg*phase) / 256)
}
