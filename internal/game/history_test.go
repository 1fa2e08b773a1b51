package game

import "testing"

func TestRingEvictsOldest(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Append(i)
	}

	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}
	if r.Total() != 5 {
		t.Fatalf("total = %d, want 5", r.Total())
	}
	if got := r.All(); len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("retained = %v, want [3 4 5]", got)
	}
}

func TestRingDropLast(t *testing.T) {
	r := newRing[int](4)
	r.Append(1)
	r.Append(2)

	if !r.DropLast() {
		t.Fatal("DropLast on non-empty ring failed")
	}
	if last, ok := r.Last(); !ok || last != 1 {
		t.Fatalf("last = %v/%v, want 1", last, ok)
	}
	if r.Total() != 1 {
		t.Fatalf("total = %d, want 1", r.Total())
	}

	r.DropLast()
	if r.DropLast() {
		t.Fatal("DropLast on empty ring succeeded")
	}
}

func TestRingAtOutOfRangePanics(t *testing.T) {
	r := newRing[int](3)
	r.Append(1)

	defer func() {
		if recover() == nil {
			t.Fatal("out-of-range read did not panic")
		}
	}()
	r.At(1)
}

func TestHistoryTrimmingKeepsTotalPlies(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 10; i++ {
		h.Append(MoveRecord{MoveNumber: i + 1})
	}

	if h.Len() != 4 {
		t.Fatalf("len = %d, want 4", h.Len())
	}
	if h.TotalPlies() != 10 {
		t.Fatalf("total plies = %d, want 10", h.TotalPlies())
	}
	if h.At(0).MoveNumber != 7 {
		t.Fatalf("oldest retained = %d, want 7", h.At(0).MoveNumber)
	}
}

func TestTurnParitySurvivesHistoryTrim(t *testing.T) {
	g := NewGame()
	g.history = NewHistory(2) // force trimming almost immediately

	applyMoves(t, g, "g1f3", "g8f6", "f3g1", "f6g8", "b1c3")
	if g.History().Len() != 2 {
		t.Fatalf("history len = %d, want trimmed to 2", g.History().Len())
	}
	if g.History().TotalPlies() != 5 {
		t.Fatalf("total plies = %d, want 5", g.History().TotalPlies())
	}

	report := g.CheckConsistency()
	if !report.Consistent {
		t.Fatalf("trimmed history broke consistency: %v", report.Violations)
	}
}

func TestLedgerOccurrences(t *testing.T) {
	l := NewPositionLedger(8)
	l.Record("a")
	l.Record("b")
	l.Record("a")

	if got := l.Occurrences("a"); got != 2 {
		t.Fatalf("occurrences = %d, want 2", got)
	}
	if l.IsThreefold("a") {
		t.Fatal("two occurrences reported as threefold")
	}
	l.Record("a")
	if !l.IsThreefold("a") {
		t.Fatal("three occurrences not reported as threefold")
	}
}

func TestLedgerTrimmingForgetsOldOccurrences(t *testing.T) {
	l := NewPositionLedger(2)
	l.Record("a")
	l.Record("a")
	l.Record("b") // evicts the first "a"

	if got := l.Occurrences("a"); got != 1 {
		t.Fatalf("occurrences = %d, want 1 after eviction", got)
	}
}

func TestWasDoublePawnAdvance(t *testing.T) {
	double := MoveRecord{Move: Move{From: mustSquare(t, "e2"), To: mustSquare(t, "e4")}, Piece: Pawn}
	single := MoveRecord{Move: Move{From: mustSquare(t, "e2"), To: mustSquare(t, "e3")}, Piece: Pawn}
	rook := MoveRecord{Move: Move{From: mustSquare(t, "a1"), To: mustSquare(t, "a3")}, Piece: Rook}

	if !double.wasDoublePawnAdvance() {
		t.Error("double pawn push not recognized")
	}
	if single.wasDoublePawnAdvance() {
		t.Error("single push misclassified")
	}
	if rook.wasDoublePawnAdvance() {
		t.Error("rook move misclassified")
	}
}
