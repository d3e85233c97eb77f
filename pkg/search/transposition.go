package search

import (
	"fmt"

	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
)

// Bound classifies how a stored score relates to the node's true minimax
// value: Exact is the true score, Lower came from a beta cutoff (the true
// score is at least this), Upper came from failing to raise alpha (the true
// score is at most this).
type Bound uint8

const (
	Exact Bound = iota
	Lower
	Upper
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "?"
	}
}

const bytesPerEntry = 32

type entry struct {
	hash  uint64
	depth int16
	bound Bound
	score eval.Score
	best  board.Move
	used  bool
}

// TranspositionTable caches search results keyed by position hash, so
// transposing move orders reuse prior work instead of re-searching. The
// search is single-threaded, so the table needs no synchronization.
type TranspositionTable struct {
	slots []entry
	used  int
}

// NewTranspositionTable allocates a direct-addressed table of n*1024*1024
// slots, n defaulting to 64 at the engine boundary. The two-bucket probe
// scheme means the table actually occupies index and index+1 of this slice.
func NewTranspositionTable(n int) *TranspositionTable {
	if n < 1 {
		n = 1
	}
	return &TranspositionTable{slots: make([]entry, n*1024*1024)}
}

// Size returns the table's capacity in bytes, reckoned at bytesPerEntry
// bytes per slot.
func (t *TranspositionTable) Size() uint64 {
	return uint64(len(t.slots)) * bytesPerEntry
}

// Used returns the fraction of slots holding an entry, in [0;1].
func (t *TranspositionTable) Used() float64 {
	return float64(t.used) / float64(len(t.slots))
}

// bucket returns the two candidate slot indices for hash. A position always
// probes and stores at index or index+1: Probe takes whichever already
// matches the hash, Store the one selected by the depth-preferred
// replacement policy.
func (t *TranspositionTable) bucket(hash uint64) (int, int) {
	n := uint64(len(t.slots))
	i := int(hash % n)
	j := i + 1
	if j == len(t.slots) {
		j = i
	}
	return i, j
}

// Probe returns the entry recorded for hash, if any, with its score already
// adjusted from the node-relative mate-distance form Store saved back into
// the root-relative form for ply. found reports whether hash matched a slot at all;
// callers decide for themselves whether depth and bound make the result
// usable at the window they are searching.
func (t *TranspositionTable) Probe(hash uint64, ply int) (score eval.Score, depth int, bound Bound, best board.Move, found bool) {
	i, j := t.bucket(hash)
	e := &t.slots[i]
	if e.hash != hash {
		e = &t.slots[j]
		if e.hash != hash {
			return 0, 0, 0, board.Move{}, false
		}
	}
	return adjustForProbe(e.score, ply), int(e.depth), e.bound, e.best, true
}

// Store records a search result for hash in the primary slot, unless that
// slot holds an entry searched deeper than depth, in which case the second
// slot is overwritten.
func (t *TranspositionTable) Store(hash uint64, ply, depth int, bound Bound, score eval.Score, best board.Move) {
	i, j := t.bucket(hash)
	slot := i
	if t.slots[i].used && int(t.slots[i].depth) > depth {
		slot = j
	}

	if !t.slots[slot].used {
		t.used++
	}
	t.slots[slot] = entry{
		hash:  hash,
		depth: int16(depth),
		bound: bound,
		score: normalizeForStore(score, ply),
		best:  best,
		used:  true,
	}
}

func (t *TranspositionTable) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}

// normalizeForStore converts a root-relative mate score (plies to mate
// counted from the root, as the search produces it) into a node-relative
// one (counted from the node at ply), so the same entry stays valid however
// a later search path reaches this hash.
func normalizeForStore(score eval.Score, ply int) eval.Score {
	switch {
	case score > eval.MateThreshold:
		return score + eval.Score(ply)
	case score < -eval.MateThreshold:
		return score - eval.Score(ply)
	default:
		return score
	}
}

// adjustForProbe is the inverse of normalizeForStore.
func adjustForProbe(score eval.Score, ply int) eval.Score {
	switch {
	case score > eval.MateThreshold:
		return score - eval.Score(ply)
	case score < -eval.MateThreshold:
		return score + eval.Score(ply)
	default:
		return score
	}
}
