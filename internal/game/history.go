package game

import (
	"fmt"
	"time"
)

// ring is a bounded sequence backed by a fixed circular buffer. Appending
// beyond capacity evicts the oldest entry; that is the only trimming policy,
// and it is explicit rather than scattered slice surgery.
type ring[T any] struct {
	buf   []T
	start int
	size  int
	total uint64
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) Append(v T) {
	r.total++
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring[T]) Len() int { return r.size }

func (r *ring[T]) Cap() int { return len(r.buf) }

// Total is the number of appends ever made, including evicted entries.
func (r *ring[T]) Total() uint64 { return r.total }

// At returns the i-th retained entry, oldest first. Indexing outside the
// retained window panics rather than silently returning a wrapped-around or
// zero entry.
func (r *ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("ring index %d out of range with %d retained", i, r.size))
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

func (r *ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.At(r.size - 1), true
}

// DropLast removes the newest entry. Used by undo; eviction of the oldest
// still only ever happens through Append.
func (r *ring[T]) DropLast() bool {
	if r.size == 0 {
		return false
	}
	r.size--
	r.total--
	return true
}

func (r *ring[T]) Iter(fn func(T)) {
	for i := 0; i < r.size; i++ {
		fn(r.At(i))
	}
}

func (r *ring[T]) All() []T {
	out := make([]T, 0, r.size)
	r.Iter(func(v T) { out = append(out, v) })
	return out
}

func (r *ring[T]) Clear() {
	r.start = 0
	r.size = 0
	r.total = 0
}

// MoveRecord is one applied move. Entries are append-only and immutable once
// written.
type MoveRecord struct {
	Move        Move       `json:"move"`
	Piece       PieceType  `json:"piece"`
	Color       Color      `json:"color"`
	Captured    *Piece     `json:"captured,omitempty"`
	IsEnPassant bool       `json:"isEnPassant,omitempty"`
	IsCastle    bool       `json:"isCastle,omitempty"`
	Promoted    bool       `json:"promoted,omitempty"`
	Promotion   PieceType  `json:"promotion,omitempty"`
	Status      GameStatus `json:"status"`
	InCheck     bool       `json:"inCheck"`
	MoveNumber  int        `json:"moveNumber"`
	Timestamp   time.Time  `json:"timestamp"`
}

// wasDoublePawnAdvance reports whether this record is a two-square pawn push,
// the only move that opens an en-passant window.
func (mr MoveRecord) wasDoublePawnAdvance() bool {
	return mr.Piece == Pawn && abs(mr.Move.To.Rank()-mr.Move.From.Rank()) == 2
}

// defaultHistoryCap bounds the retained move history. Practical games stay
// far below this; anything longer sheds its oldest plies.
const defaultHistoryCap = 1024

// History is the bounded, append-only move history of one game.
type History struct {
	entries *ring[MoveRecord]
}

func NewHistory(capacity int) *History {
	return &History{entries: newRing[MoveRecord](capacity)}
}

func (h *History) Append(rec MoveRecord) { h.entries.Append(rec) }

// Len is the number of retained entries.
func (h *History) Len() int { return h.entries.Len() }

// TotalPlies counts every ply ever applied, including trimmed ones. Turn
// parity is derived from this, so trimming never skews it.
func (h *History) TotalPlies() uint64 { return h.entries.Total() }

func (h *History) At(i int) MoveRecord { return h.entries.At(i) }

func (h *History) Last() (MoveRecord, bool) { return h.entries.Last() }

func (h *History) All() []MoveRecord { return h.entries.All() }

func (h *History) Iter(fn func(MoveRecord)) { h.entries.Iter(fn) }

func (h *History) dropLast() bool { return h.entries.DropLast() }

func (h *History) Clear() { h.entries.Clear() }
