package game

import (
	"fmt"
	"log"
	"time"
)

// GameStatus is the orchestrator's state machine. Moves only ever advance
// between StatusActive and StatusCheck; the remaining states are terminal and
// reject further moves.
type GameStatus uint8

const (
	StatusActive GameStatus = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
	StatusDraw
	StatusResigned
)

func (s GameStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	case StatusDraw:
		return "draw"
	case StatusResigned:
		return "resigned"
	default:
		return "unknown"
	}
}

func (s GameStatus) Terminal() bool {
	switch s {
	case StatusCheckmate, StatusStalemate, StatusDraw, StatusResigned:
		return true
	default:
		return false
	}
}

// requiresWinner reports whether the status is only valid with a winner set.
func (s GameStatus) requiresWinner() bool {
	return s == StatusCheckmate || s == StatusResigned
}

// DrawReason records which rule produced a draw status.
type DrawReason uint8

const (
	DrawNone DrawReason = iota
	DrawThreefoldRepetition
	DrawInsufficientMaterial
)

func (d DrawReason) String() string {
	switch d {
	case DrawThreefoldRepetition:
		return "threefold repetition"
	case DrawInsufficientMaterial:
		return "insufficient material"
	default:
		return ""
	}
}

// undoFrame captures everything needed to roll back one applied move.
type undoFrame struct {
	board      Board
	status     GameStatus
	hasWinner  bool
	winner     Color
	drawReason DrawReason
}

// defaultUndoCap bounds how many applied moves can be rolled back.
const defaultUndoCap = 64

// Game owns the canonical state of a single match. It is not safe for
// concurrent use; the session layer serializes submissions per game.
// Independent games share no mutable state.
type Game struct {
	board        Board
	status       GameStatus
	hasWinner    bool
	winner       Color
	drawReason   DrawReason
	history      *History
	ledger       *PositionLedger
	undoStack    *ring[undoFrame]
	stateVersion uint64
	initialFEN   string
	initialTurn  Color
}

// NewGame starts a game from the standard initial position.
func NewGame() *Game {
	g, err := NewGameFromFEN(StartingFEN)
	if err != nil {
		// The starting FEN is a constant; failing to parse it is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return g
}

// NewGameFromFEN starts a game from a seeded position.
func NewGameFromFEN(fen string) (*Game, error) {
	board, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if findings := ValidateBoard(board); len(findings) > 0 {
		return nil, fmt.Errorf("invalid position: %s", findings[0])
	}

	g := &Game{
		board:        *board,
		history:      NewHistory(defaultHistoryCap),
		ledger:       NewPositionLedger(defaultLedgerCap),
		undoStack:    newRing[undoFrame](defaultUndoCap),
		stateVersion: 1,
		initialFEN:   fen,
		initialTurn:  board.turn,
	}
	g.ledger.Record(g.board.Fingerprint())
	g.classifyPosition()
	return g, nil
}

func (g *Game) Board() *Board { return &g.board }
func (g *Game) Status() GameStatus { return g.status }
func (g *Game) DrawReason() DrawReason { return g.drawReason }
func (g *Game) History() *History { return g.history }
func (g *Game) Ledger() *PositionLedger { return g.ledger }
func (g *Game) StateVersion() uint64 { return g.stateVersion }
func (g *Game) InitialFEN() string { return g.initialFEN }
func (g *Game) CurrentTurn() Color { return g.board.turn }
func (g *Game) InCheck() bool { return g.board.InCheck(g.board.turn) }
func (g *Game) CheckDetails() CheckDetails { return g.board.CheckDetails(g.board.turn) }
func (g *Game) Fingerprint() string { return g.board.Fingerprint() }

// Winner reports the winning color for checkmate/resigned games.
func (g *Game) Winner() (Color, bool) {
	if !g.hasWinner {
		return White, false
	}
	return g.winner, true
}

// LegalMoves enumerates the moves ApplyMove would accept for color. A
// terminal game offers none.
func (g *Game) LegalMoves(color Color) []Move {
	if g.status.Terminal() {
		return nil
	}
	if color != g.board.turn {
		return nil
	}
	return g.board.LegalMovesFor(color)
}

// ApplyMove is the single mutating entry point for moves. All validation
// happens before any mutation; a rejected move leaves the prior state
// untouched.
func (g *Game) ApplyMove(move Move) (*MoveRecord, error) {
	if g.status.Terminal() {
		return nil, reject(RejectGameNotActive, "game over: %s", g.status)
	}

	mover := g.board.turn
	lm, rej := g.board.Validate(move, mover)
	if rej != nil {
		return nil, rej
	}

	g.pushUndo()

	moveNumber := g.board.fullmove
	g.board.apply(lm)
	g.board.turn = mover.Opposite()

	g.classifyPosition()
	g.recordPosition()

	rec := MoveRecord{
		Move:        move,
		Piece:       lm.Piece.Type,
		Color:       mover,
		IsEnPassant: lm.IsEnPassant,
		IsCastle:    lm.IsCastle,
		Promoted:    lm.Promotes,
		Promotion:   lm.Promotion,
		Status:      g.status,
		InCheck:     g.status == StatusCheck || g.status == StatusCheckmate,
		MoveNumber:  moveNumber,
		Timestamp:   time.Now(),
	}
	if lm.HasCapture {
		captured := lm.Capture
		rec.Captured = &captured
	}
	g.history.Append(rec)
	g.stateVersion++

	return &rec, nil
}

// Resign ends the game in favor of the resigning color's opponent. Only a
// running game can be resigned.
func (g *Game) Resign(color Color) error {
	if g.status.Terminal() {
		return reject(RejectGameNotActive, "game over: %s", g.status)
	}
	if err := g.setStatus(StatusResigned, color.Opposite(), true, DrawNone); err != nil {
		return err
	}
	g.stateVersion++
	return nil
}

// Undo rolls back the last count applied moves. Rolling back past the undo
// window (or past the start of the game) is an error and changes nothing.
func (g *Game) Undo(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}
	if count > g.undoStack.Len() {
		return ErrUndoUnavailable
	}
	for i := 0; i < count; i++ {
		frame, _ := g.undoStack.Last()
		g.undoStack.DropLast()
		g.board = frame.board
		g.status = frame.status
		g.hasWinner = frame.hasWinner
		g.winner = frame.winner
		g.drawReason = frame.drawReason
		g.history.dropLast()
		g.ledger.dropLast()
	}
	g.stateVersion++
	return nil
}

func (g *Game) pushUndo() {
	g.undoStack.Append(undoFrame{
		board:      g.board,
		status:     g.status,
		hasWinner:  g.hasWinner,
		winner:     g.winner,
		drawReason: g.drawReason,
	})
}

// classifyPosition runs the check analyzer for the side to move and sets the
// resulting status: active, check, checkmate, or stalemate.
func (g *Game) classifyPosition() {
	current := g.board.turn
	inCheck := g.board.InCheck(current)
	hasMove := g.board.HasAnyLegalMove(current)

	switch {
	case !hasMove && inCheck:
		g.mustSetStatus(StatusCheckmate, current.Opposite(), true, DrawNone)
	case !hasMove:
		g.mustSetStatus(StatusStalemate, White, false, DrawNone)
	case g.insufficientMaterial():
		g.mustSetStatus(StatusDraw, White, false, DrawInsufficientMaterial)
	case inCheck:
		g.mustSetStatus(StatusCheck, White, false, DrawNone)
	default:
		g.mustSetStatus(StatusActive, White, false, DrawNone)
	}
}

// recordPosition appends the position fingerprint and converts a third
// occurrence into a draw, unless the move already ended the game.
func (g *Game) recordPosition() {
	fp := g.board.Fingerprint()
	g.ledger.Record(fp)
	if !g.status.Terminal() && g.ledger.IsThreefold(fp) {
		g.mustSetStatus(StatusDraw, White, false, DrawThreefoldRepetition)
	}
}

// insufficientMaterial stays deliberately conservative: only bare king versus
// bare king is treated as a dead position. Ambiguous material edge cases keep
// the game active.
func (g *Game) insufficientMaterial() bool {
	return g.board.PieceCount() == 2 &&
		g.board.pieces[White][King].Count() == 1 &&
		g.board.pieces[Black][King].Count() == 1
}

// setStatus validates the transition invariants before applying: a winner is
// required for checkmate/resigned and forbidden everywhere else, and terminal
// states cannot be left except through Undo or Restore.
func (g *Game) setStatus(status GameStatus, winner Color, hasWinner bool, reason DrawReason) error {
	if status.requiresWinner() != hasWinner {
		if hasWinner {
			return reject(RejectInvalidTransition, "%s cannot have a winner", status)
		}
		return reject(RejectInvalidTransition, "%s requires a winner", status)
	}
	if g.status.Terminal() && status != g.status {
		return reject(RejectInvalidTransition, "cannot leave terminal status %s", g.status)
	}
	g.status = status
	g.hasWinner = hasWinner
	if hasWinner {
		g.winner = winner
	} else {
		g.winner = White
	}
	g.drawReason = reason
	return nil
}

// mustSetStatus is setStatus for transitions the orchestrator itself derives.
// A failure here is a broken internal invariant, so it is surfaced loudly.
func (g *Game) mustSetStatus(status GameStatus, winner Color, hasWinner bool, reason DrawReason) {
	if err := g.setStatus(status, winner, hasWinner, reason); err != nil {
		log.Printf("status transition invariant: %v", err)
		panic(reject(RejectInternal, "status transition: %v", err))
	}
}

// PieceState is a serializable representation of one occupied square.
type PieceState struct {
	Square    Square    `json:"square"`
	Coord     string    `json:"coord"`
	Type      PieceType `json:"type"`
	TypeName  string    `json:"typeName"`
	Color     Color     `json:"color"`
	ColorName string    `json:"colorName"`
}

// GameState is the read-only projection handed to the session layer and the
// AI collaborator.
type GameState struct {
	Pieces         []PieceState    `json:"pieces"`
	Turn           Color           `json:"turn"`
	TurnName       string          `json:"turnName"`
	Status         GameStatus      `json:"status"`
	StatusName     string          `json:"statusName"`
	HasWinner      bool            `json:"hasWinner"`
	Winner         Color           `json:"winner"`
	WinnerName     string          `json:"winnerName"`
	DrawReason     string          `json:"drawReason,omitempty"`
	InCheck        bool            `json:"inCheck"`
	CheckDetails   CheckDetails    `json:"checkDetails"`
	Castling       CastlingRights  `json:"castling"`
	EnPassant      EnPassantTarget `json:"enPassant"`
	HalfmoveClock  int             `json:"halfmoveClock"`
	FullmoveNumber int             `json:"fullmoveNumber"`
	MoveHistory    []MoveRecord    `json:"moveHistory"`
	FEN            string          `json:"fen"`
	Fingerprint    string          `json:"fingerprint"`
	StateVersion   uint64          `json:"stateVersion"`
}

// State builds the projection for the current position.
func (g *Game) State() GameState {
	winnerName := ""
	if g.hasWinner {
		winnerName = g.winner.String()
	}

	state := GameState{
		Pieces:         make([]PieceState, 0, g.board.PieceCount()),
		Turn:           g.board.turn,
		TurnName:       g.board.turn.String(),
		Status:         g.status,
		StatusName:     g.status.String(),
		HasWinner:      g.hasWinner,
		Winner:         g.winner,
		WinnerName:     winnerName,
		DrawReason:     g.drawReason.String(),
		InCheck:        g.InCheck(),
		CheckDetails:   g.CheckDetails(),
		Castling:       g.board.castling,
		EnPassant:      g.board.enPassant,
		HalfmoveClock:  g.board.halfmove,
		FullmoveNumber: g.board.fullmove,
		MoveHistory:    g.history.All(),
		FEN:            g.board.FEN(),
		Fingerprint:    g.board.Fingerprint(),
		StateVersion:   g.stateVersion,
	}

	g.board.allOcc.Iter(func(sq Square) {
		pc := g.board.squares[sq]
		state.Pieces = append(state.Pieces, PieceState{
			Square:    sq,
			Coord:     sq.String(),
			Type:      pc.Type,
			TypeName:  pc.Type.Name(),
			Color:     pc.Color,
			ColorName: pc.Color.String(),
		})
	})

	return state
}
