package game

import (
	"fmt"
	"time"
)

// ValidateBoard checks the structural integrity of a position and returns
// every violation found, not just the first. A healthy board returns nil.
func ValidateBoard(b *Board) []string {
	var violations []string

	var fromPieces [2]Bitboard
	for color := White; color <= Black; color++ {
		for pt := Pawn; pt <= King; pt++ {
			fromPieces[color] = fromPieces[color] | b.pieces[color][pt]
		}
		if fromPieces[color] != b.occupancy[color] {
			violations = append(violations,
				fmt.Sprintf("%s occupancy does not match piece sets", color))
		}
	}
	if b.occupancy[White]&b.occupancy[Black] != 0 {
		violations = append(violations, "white and black occupancy overlap")
	}
	if b.occupancy[White]|b.occupancy[Black] != b.allOcc {
		violations = append(violations, "combined occupancy does not match per-color sets")
	}

	for sq := Square(0); sq < 64; sq++ {
		occupied := b.allOcc.Has(sq)
		pc := b.squares[sq]
		switch {
		case occupied && (pc.Type > King || pc.Color > Black):
			violations = append(violations,
				fmt.Sprintf("invalid piece on %s", sq))
		case occupied && !b.pieces[pc.Color][pc.Type].Has(sq):
			violations = append(violations,
				fmt.Sprintf("square %s disagrees with piece sets", sq))
		case !occupied && pc != (Piece{}):
			violations = append(violations,
				fmt.Sprintf("stale piece entry on empty square %s", sq))
		}
	}

	for color := White; color <= Black; color++ {
		switch kings := b.pieces[color][King].Count(); {
		case kings == 0:
			violations = append(violations,
				fmt.Sprintf("%s has no king", color))
		case kings > 1:
			violations = append(violations,
				fmt.Sprintf("%s has %d kings", color, kings))
		}
	}

	const backRanks Bitboard = 0xFF000000000000FF
	for color := White; color <= Black; color++ {
		(b.pieces[color][Pawn] & backRanks).Iter(func(sq Square) {
			violations = append(violations,
				fmt.Sprintf("%s pawn on back rank at %s", color, sq))
		})
	}

	return violations
}

// ConsistencyReport is the outcome of a full cross-check between the board
// and the derived state the engine maintains alongside it.
type ConsistencyReport struct {
	Consistent bool     `json:"consistent"`
	Violations []string `json:"violations,omitempty"`
}

// CheckConsistency re-derives turn and en-passant state from the move history
// and validates board structure, reporting every divergence it finds. The
// game itself is never repaired; callers decide what to do with the report.
func (g *Game) CheckConsistency() ConsistencyReport {
	var violations []string

	expectedTurn := g.initialTurn
	if g.history.TotalPlies()%2 == 1 {
		expectedTurn = expectedTurn.Opposite()
	}
	if g.board.turn != expectedTurn {
		violations = append(violations,
			fmt.Sprintf("turn is %s, expected %s from %d plies", g.board.turn, expectedTurn, g.history.TotalPlies()))
	}

	expectedEP := EnPassantTarget{}
	if last, ok := g.history.Last(); ok && last.wasDoublePawnAdvance() {
		passedRank := (last.Move.From.Rank() + last.Move.To.Rank()) / 2
		if sq, ok := SquareFromCoords(passedRank, last.Move.From.File()); ok {
			expectedEP = NewEnPassantTarget(sq)
		}
	}
	if g.board.enPassant != expectedEP {
		violations = append(violations,
			fmt.Sprintf("en-passant target is %s, expected %s from last move", g.board.enPassant, expectedEP))
	}

	if g.status.requiresWinner() != g.hasWinner {
		violations = append(violations,
			fmt.Sprintf("status %s disagrees with winner flag", g.status))
	}

	violations = append(violations, ValidateBoard(&g.board)...)

	return ConsistencyReport{
		Consistent: len(violations) == 0,
		Violations: violations,
	}
}

// Snapshot is a self-contained serialization of a game at one version.
type Snapshot struct {
	Timestamp    int64     `json:"timestamp"`
	StateVersion uint64    `json:"stateVersion"`
	Game         GameState `json:"gameState"`
}

// Snapshot captures the current state for persistence or reconnecting
// clients.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:    time.Now().UnixMilli(),
		StateVersion: g.stateVersion,
		Game:         g.State(),
	}
}

// Restore replaces the game's state with a previously captured snapshot. The
// snapshot is fully validated first; a malformed snapshot is rejected and the
// current state stays untouched. The version counter keeps increasing across
// restores so stale clients can always be detected.
func (g *Game) Restore(snap Snapshot) error {
	if snap.Timestamp <= 0 {
		return fmt.Errorf("%w: missing timestamp", ErrSnapshotMalformed)
	}
	if snap.StateVersion == 0 {
		return fmt.Errorf("%w: missing state version", ErrSnapshotMalformed)
	}
	if snap.Game.Status > StatusResigned {
		return fmt.Errorf("%w: unknown status %d", ErrSnapshotMalformed, snap.Game.Status)
	}
	if snap.Game.Status.requiresWinner() != snap.Game.HasWinner {
		return fmt.Errorf("%w: status %s disagrees with winner flag", ErrSnapshotMalformed, snap.Game.Status)
	}
	if snap.Game.HasWinner && snap.Game.Winner > Black {
		return fmt.Errorf("%w: unknown winner %d", ErrSnapshotMalformed, snap.Game.Winner)
	}

	board, err := ParseFEN(snap.Game.FEN)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotMalformed, err)
	}
	if findings := ValidateBoard(board); len(findings) > 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotMalformed, findings[0])
	}
	if board.turn != snap.Game.Turn {
		return fmt.Errorf("%w: turn field disagrees with FEN", ErrSnapshotMalformed)
	}

	g.board = *board
	g.status = snap.Game.Status
	g.hasWinner = snap.Game.HasWinner
	g.winner = snap.Game.Winner
	g.drawReason = parseDrawReason(snap.Game.DrawReason)

	g.history.Clear()
	for _, rec := range snap.Game.MoveHistory {
		g.history.Append(rec)
	}
	// Repetition counting restarts from the restored position; earlier
	// occurrences are not reconstructible from a single snapshot.
	g.ledger.Clear()
	g.ledger.Record(g.board.Fingerprint())
	g.undoStack.Clear()

	// Re-anchor the seed so InitialFEN reflects the restored game and
	// ply-parity re-derivation stays valid for the restored history.
	g.initialFEN = g.board.FEN()
	g.initialTurn = g.board.turn
	if g.history.TotalPlies()%2 == 1 {
		g.initialTurn = g.initialTurn.Opposite()
	}

	if snap.StateVersion > g.stateVersion {
		g.stateVersion = snap.StateVersion
	}
	g.stateVersion++
	return nil
}

func parseDrawReason(s string) DrawReason {
	switch s {
	case DrawThreefoldRepetition.String():
		return DrawThreefoldRepetition
	case DrawInsufficientMaterial.String():
		return DrawInsufficientMaterial
	default:
		return DrawNone
	}
}
