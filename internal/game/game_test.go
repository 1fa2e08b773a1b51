package game

import (
	"errors"
	"testing"
)

func mustParseMove(t *testing.T, notation string) Move {
	t.Helper()
	m, ok := ParseMove(notation)
	if !ok {
		t.Fatalf("bad move notation %q", notation)
	}
	return m
}

func applyMoves(t *testing.T, g *Game, notations ...string) {
	t.Helper()
	for _, n := range notations {
		if _, err := g.ApplyMove(mustParseMove(t, n)); err != nil {
			t.Fatalf("ApplyMove(%s): %v", n, err)
		}
	}
}

func mustGameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func TestNewGameStartsActive(t *testing.T) {
	g := NewGame()
	if g.Status() != StatusActive {
		t.Fatalf("status = %s, want active", g.Status())
	}
	if g.CurrentTurn() != White {
		t.Fatalf("turn = %s, want white", g.CurrentTurn())
	}
	if g.StateVersion() == 0 {
		t.Fatal("state version not initialized")
	}
	if got := g.Board().FEN(); got != StartingFEN {
		t.Fatalf("FEN = %q, want %q", got, StartingFEN)
	}
}

func TestScholarsMate(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6")

	rec, err := g.ApplyMove(mustParseMove(t, "h5f7"))
	if err != nil {
		t.Fatalf("mating move: %v", err)
	}
	if !rec.InCheck {
		t.Error("mating move not recorded as check")
	}
	if rec.Status != StatusCheckmate {
		t.Errorf("record status = %s, want checkmate", rec.Status)
	}
	if g.Status() != StatusCheckmate {
		t.Fatalf("status = %s, want checkmate", g.Status())
	}
	winner, ok := g.Winner()
	if !ok || winner != White {
		t.Fatalf("winner = %v/%v, want white", winner, ok)
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	if g.Status() != StatusCheckmate {
		t.Fatalf("status = %s, want checkmate", g.Status())
	}
	winner, ok := g.Winner()
	if !ok || winner != Black {
		t.Fatalf("winner = %v/%v, want black", winner, ok)
	}
}

func TestCheckThenEscape(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4", "e7e5", "d1h5", "b8c6", "h5f7")
	// Qxf7+ is check but not mate; the king captures the queen.
	if g.Status() != StatusCheck {
		t.Fatalf("status = %s, want check", g.Status())
	}
	applyMoves(t, g, "e8f7")
	if g.Status() != StatusActive {
		t.Fatalf("status after escape = %s, want active", g.Status())
	}
}

func TestStalemate(t *testing.T) {
	// Black king on a8, white queen on c7 and king on b6: black to move has
	// no legal move and is not in check.
	g := mustGameFromFEN(t, "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1")
	if g.Status() != StatusStalemate {
		t.Fatalf("status = %s, want stalemate", g.Status())
	}
	if _, ok := g.Winner(); ok {
		t.Fatal("stalemate must not have a winner")
	}
}

func TestTerminalGameRejectsMoves(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	_, err := g.ApplyMove(mustParseMove(t, "e2e4"))
	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rej.Code != RejectGameNotActive {
		t.Fatalf("code = %s, want GAME_NOT_ACTIVE", rej.Code)
	}
}

func TestResign(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4")
	version := g.StateVersion()

	if err := g.Resign(Black); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if g.Status() != StatusResigned {
		t.Fatalf("status = %s, want resigned", g.Status())
	}
	if g.StateVersion() != version+1 {
		t.Fatalf("state version = %d, want %d after resignation", g.StateVersion(), version+1)
	}
	winner, ok := g.Winner()
	if !ok || winner != White {
		t.Fatalf("winner = %v/%v, want white", winner, ok)
	}

	if err := g.Resign(White); err == nil {
		t.Fatal("resigning a finished game must fail")
	}
}

func TestThreefoldRepetitionDraw(t *testing.T) {
	g := NewGame()

	// Each knight shuffle cycle revisits the starting position. The initial
	// position counts once, so two full cycles produce the third occurrence.
	cycle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	applyMoves(t, g, cycle...)
	if g.Status() != StatusActive {
		t.Fatalf("after one cycle: status = %s, want active", g.Status())
	}

	applyMoves(t, g, cycle...)
	if g.Status() != StatusDraw {
		t.Fatalf("after two cycles: status = %s, want draw", g.Status())
	}
	if g.DrawReason() != DrawThreefoldRepetition {
		t.Fatalf("draw reason = %q, want threefold repetition", g.DrawReason())
	}
	if _, ok := g.Winner(); ok {
		t.Fatal("draw must not have a winner")
	}
}

func TestInsufficientMaterialDraw(t *testing.T) {
	// White king captures the last black pawn, leaving bare kings.
	g := mustGameFromFEN(t, "8/8/8/3k4/8/1p6/1K6/8 w - - 0 1")
	applyMoves(t, g, "b2b3")

	if g.Status() != StatusDraw {
		t.Fatalf("status = %s, want draw", g.Status())
	}
	if g.DrawReason() != DrawInsufficientMaterial {
		t.Fatalf("draw reason = %q, want insufficient material", g.DrawReason())
	}
}

func TestKingVsKingAndKnightStaysActive(t *testing.T) {
	// Deliberately conservative: only bare king vs bare king is a dead
	// position, king+knight keeps playing.
	g := mustGameFromFEN(t, "8/8/8/3k4/8/1n6/1K6/8 w - - 0 1")
	if g.Status() != StatusActive {
		t.Fatalf("status = %s, want active", g.Status())
	}
}

func TestUndoRestoresPriorState(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4", "e7e5")
	fenAfterTwo := g.Board().FEN()
	versionAfterTwo := g.StateVersion()

	applyMoves(t, g, "g1f3")
	if err := g.Undo(1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := g.Board().FEN(); got != fenAfterTwo {
		t.Fatalf("FEN after undo = %q, want %q", got, fenAfterTwo)
	}
	if g.History().Len() != 2 {
		t.Fatalf("history length = %d, want 2", g.History().Len())
	}
	if g.StateVersion() <= versionAfterTwo {
		t.Fatal("undo must advance the state version")
	}
}

func TestUndoOutOfTerminalState(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	if err := g.Undo(1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if g.Status() != StatusActive {
		t.Fatalf("status after undo = %s, want active", g.Status())
	}
	applyMoves(t, g, "g1h3")
	if g.Status() == StatusCheckmate {
		t.Fatal("game replayed differently but stayed checkmate")
	}
}

func TestUndoBeyondHistoryFails(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4")
	if err := g.Undo(2); !errors.Is(err, ErrUndoUnavailable) {
		t.Fatalf("err = %v, want ErrUndoUnavailable", err)
	}
	if g.History().Len() != 1 {
		t.Fatal("failed undo must not change history")
	}
}

func TestRejectedMoveLeavesStateUntouched(t *testing.T) {
	g := NewGame()
	before := g.Board().FEN()
	version := g.StateVersion()

	if _, err := g.ApplyMove(mustParseMove(t, "e2e5")); err == nil {
		t.Fatal("expected rejection")
	}
	if got := g.Board().FEN(); got != before {
		t.Fatalf("board changed on rejected move: %q", got)
	}
	if g.StateVersion() != version {
		t.Fatal("state version changed on rejected move")
	}
	if g.History().Len() != 0 {
		t.Fatal("history grew on rejected move")
	}
}

func TestLegalMovesMatchesApply(t *testing.T) {
	g := NewGame()
	moves := g.LegalMoves(White)
	if len(moves) != 20 {
		t.Fatalf("initial legal moves = %d, want 20", len(moves))
	}
	for _, m := range moves {
		if _, rej := g.Board().Validate(m, White); rej != nil {
			t.Errorf("offered move %s rejected: %v", m, rej)
		}
	}
	if got := g.LegalMoves(Black); got != nil {
		t.Fatalf("moves offered out of turn: %v", got)
	}
}

func TestLegalMovesEmptyWhenTerminal(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	if moves := g.LegalMoves(White); moves != nil {
		t.Fatalf("terminal game offered %d moves", len(moves))
	}
}

func TestStateProjection(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4", "e7e5", "d1h5", "b8c6", "h5f7")

	state := g.State()
	if state.Status != StatusCheck || state.StatusName != "check" {
		t.Fatalf("status = %s/%s, want check", state.Status, state.StatusName)
	}
	if !state.InCheck {
		t.Error("projection missing check flag")
	}
	if state.Turn != Black || state.TurnName != "black" {
		t.Errorf("turn = %s/%s, want black", state.Turn, state.TurnName)
	}
	if len(state.Pieces) != g.Board().PieceCount() {
		t.Errorf("pieces = %d, want %d", len(state.Pieces), g.Board().PieceCount())
	}
	if len(state.MoveHistory) != 5 {
		t.Errorf("history entries = %d, want 5", len(state.MoveHistory))
	}
	if state.FEN != g.Board().FEN() {
		t.Error("projection FEN disagrees with board")
	}
	if state.WinnerName != "" {
		t.Errorf("winner name = %q on a running game", state.WinnerName)
	}
}

func TestMoveRecordFields(t *testing.T) {
	g := NewGame()
	applyMoves(t, g, "e2e4", "d7d5")

	rec, err := g.ApplyMove(mustParseMove(t, "e4d5"))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if rec.Captured == nil || rec.Captured.Type != Pawn || rec.Captured.Color != Black {
		t.Fatalf("captured = %+v, want black pawn", rec.Captured)
	}
	if rec.Color != White || rec.Piece != Pawn {
		t.Errorf("mover = %s %s, want white pawn", rec.Color, rec.Piece.Name())
	}
	if rec.MoveNumber != 2 {
		t.Errorf("move number = %d, want 2", rec.MoveNumber)
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestPieceCountNeverIncreases(t *testing.T) {
	g := NewGame()
	moves := []string{"e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5e5", "f1e2", "b8c6"}
	prev := g.Board().PieceCount()
	for _, n := range moves {
		applyMoves(t, g, n)
		count := g.Board().PieceCount()
		if count > prev {
			t.Fatalf("piece count grew after %s: %d -> %d", n, prev, count)
		}
		prev = count
	}
}

func TestSeededGameClassifiesImmediately(t *testing.T) {
	// Back-rank mate already on the board, black to move.
	g := mustGameFromFEN(t, "6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1")
	applyMoves(t, g, "e1e8")
	if g.Status() != StatusCheckmate {
		t.Fatalf("status = %s, want checkmate", g.Status())
	}
}

func TestNewGameFromFENRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"8/8/8/8/8/8/8/4K3 w - - 0 1", // black king missing
	}
	for _, fen := range cases {
		if _, err := NewGameFromFEN(fen); err == nil {
			t.Errorf("NewGameFromFEN(%q) accepted invalid input", fen)
		}
	}
}
