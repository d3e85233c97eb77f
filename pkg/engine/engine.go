// Package engine wires board.Position, search.Searcher, the transposition
// table and the move orderer into the single entry point the WebSocket
// front end drives:
// construct a position, apply a sequence of moves, and analyze within a
// node budget.
package engine

import (
	"context"
	"fmt"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/troppydash/xiangqi-go/pkg/board"
	"github.com/troppydash/xiangqi-go/pkg/eval"
	"github.com/troppydash/xiangqi-go/pkg/search"
)

var version = build.NewVersion(0, 1, 0)

// defaultHashSlots is the default transposition table size, in units of
// 1024*1024 slots, matching spec's "N configurable, default 64".
const defaultHashSlots = 64

// defaultMaxDepth bounds a search that receives no explicit depth limit.
const defaultMaxDepth = 32

// Options are engine creation and per-search defaults.
type Options struct {
	// Hash is the transposition table size, in units of 1024*1024 slots.
	Hash int
	// MaxDepth bounds the iterative-deepening loop absent a request override.
	MaxDepth int
}

func (o Options) String() string {
	return fmt.Sprintf("{hash=%vM, maxDepth=%v}", o.Hash, o.MaxDepth)
}

// Option configures an Engine at construction.
type Option func(*Options)

// WithHash sets the transposition table size, in units of 1024*1024 slots.
func WithHash(slots int) Option {
	return func(o *Options) { o.Hash = slots }
}

// WithMaxDepth sets the default iterative-deepening depth limit.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

// Engine owns one Position plus the search state (transposition table and
// move orderer) needed to analyze it. Not safe for concurrent use: each
// analysis request (e.g. one WebSocket connection) owns a distinct Engine.
type Engine struct {
	opts  Options
	pos   *board.Position
	tt    *search.TranspositionTable
	order *search.Orderer
}

// New returns an Engine at the standard opening.
func New(opts ...Option) *Engine {
	o := Options{Hash: defaultHashSlots, MaxDepth: defaultMaxDepth}
	for _, fn := range opts {
		fn(&o)
	}

	e := &Engine{
		opts:  o,
		pos:   board.New(),
		tt:    search.NewTranspositionTable(o.Hash),
		order: search.NewOrderer(),
	}
	return e
}

// Name returns the engine name and version, in the teacher's "name version"
// shape.
func (e *Engine) Name() string {
	return fmt.Sprintf("xiangqi-go %v", version)
}

// Position returns the position the engine is currently analyzing.
func (e *Engine) Position() *board.Position {
	return e.pos
}

// Reset discards the current position and search state, returning the
// engine to the standard opening. The transposition table and move orderer
// are reset too: their contents are invalidated by the jump, not merely
// stale.
func (e *Engine) Reset(ctx context.Context) {
	logw.Infof(ctx, "Reset to opening position")
	e.pos = board.New()
	e.tt = search.NewTranspositionTable(e.opts.Hash)
	e.order = search.NewOrderer()
}

// ApplyMoves parses and applies a sequence of coordinate-notation moves in
// order, validating each against the position's legal-move list as it goes.
// On the first illegal or unparseable move, it returns an error and leaves
// the position exactly as it stood before the call (any moves already
// applied in this call are unwound).
func (e *Engine) ApplyMoves(moves []string) error {
	applied := make([]board.Move, 0, len(moves))
	for _, s := range moves {
		m, err := board.ParseMove(s)
		if err != nil {
			e.unwind(applied)
			return fmt.Errorf("engine: invalid move %q: %w", s, err)
		}
		if e.pos.Outcome() != board.Ongoing {
			e.unwind(applied)
			return fmt.Errorf("engine: position is already decided, cannot play %q", s)
		}
		stamped, ok := e.pos.TryMove(m)
		if !ok {
			e.unwind(applied)
			return fmt.Errorf("engine: move %q is not legal in the current position", s)
		}
		applied = append(applied, stamped)
	}
	return nil
}

func (e *Engine) unwind(applied []board.Move) {
	for i := len(applied) - 1; i >= 0; i-- {
		m := applied[i]
		e.pos.Unmake(&m)
	}
}

// Result is the outcome of one Analyze call: the recommended move, its
// score from the perspective of the side to move at the position Analyze
// was called on, and the principal variation and node count behind it.
type Result struct {
	Best  board.Move
	Score eval.Score
	PV    search.PV
}

// Analyze runs a node-budgeted iterative-deepening search on the current
// position and returns the best move found. maxNodes is the sole search
// cancellation mechanism (spec §5): there is no time control. If the
// position is already decided, Analyze returns an error instead of
// searching a position with no legal moves.
func (e *Engine) Analyze(ctx context.Context, maxNodes uint64) (Result, error) {
	if contextx.IsCancelled(ctx) {
		return Result{}, fmt.Errorf("engine: context cancelled before analysis started")
	}
	if outcome := e.pos.Outcome(); outcome != board.Ongoing {
		return Result{}, fmt.Errorf("engine: position is decided (%v), nothing to analyze", outcome)
	}

	logw.Infof(ctx, "Analyze %v, maxNodes=%v, maxDepth=%v", e.pos, maxNodes, e.opts.MaxDepth)

	s := search.NewSearcher(e.pos, e.tt, e.order)
	pv := s.Run(e.opts.MaxDepth, maxNodes)

	best := pv.Best()
	if best.From == best.To {
		// No iteration completed before the node budget was exhausted, and
		// the aborted depth-1 iteration never raised alpha either: fall back
		// to the first legal move as a best-effort answer.
		legal := e.pos.LegalMoves(false)
		if len(legal) == 0 {
			return Result{}, fmt.Errorf("engine: no legal move available")
		}
		best = legal[0]
	}

	logw.Infof(ctx, "Analyzed %v: %v", e.pos, pv)
	return Result{Best: best, Score: pv.Score, PV: pv}, nil
}
