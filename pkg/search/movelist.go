package search

import (
	"container/heap"
	"fmt"

	"github.com/troppydash/xiangqi-go/pkg/board"
)

// Priority ranks a move for search order: higher values are searched first.
type Priority int32

// MoveList is a one-shot move priority queue: built once from a fixed slice
// of moves and a ranking function, then drained via Next in ranked order.
type MoveList struct {
	h moveHeap
}

// NewMoveList ranks every move in moves with rank and returns the resulting
// priority queue.
func NewMoveList(moves []board.Move, rank func(m board.Move) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: rank(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the highest-priority move remaining, or false once the list
// is empty.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.h.Len() == 0 {
		return board.Move{}, false
	}
	e := heap.Pop(&ml.h).(elm)
	return e.m, true
}

// Len returns the number of moves not yet returned by Next.
func (ml *MoveList) Len() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.h.Len() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.h.Len())
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int           { return len(h) }
func (h moveHeap) Less(i, j int) bool { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *moveHeap) Push(x interface{}) {
	panic("search: MoveList is fixed-size, built once by NewMoveList")
}

func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
