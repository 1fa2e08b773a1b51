package game

import (
	"fmt"
	"strings"
)

// Piece is an occupant of a board square. Pieces carry no identity beyond
// type and color; they are not tracked across moves by id.
type Piece struct {
	Type  PieceType
	Color Color
}

// Board is the full position: an 8x8 grid plus the auxiliary state every rule
// decision depends on. It is a plain value; copying it yields an independent
// scratch position, which is how move simulation works.
type Board struct {
	pieces    [2][6]Bitboard
	occupancy [2]Bitboard
	allOcc    Bitboard
	squares   [64]Piece
	turn      Color
	castling  CastlingRights
	enPassant EnPassantTarget
	halfmove  int
	fullmove  int
}

// NewBoard sets up the standard initial position, white to move.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset restores the standard initial position.
func (b *Board) Reset() {
	*b = Board{}

	setup := func(color Color, backRank, pawnRank int) {
		order := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
		for file, pt := range order {
			b.place(Piece{Type: pt, Color: color}, Square(backRank*8+file))
		}
		for file := 0; file < 8; file++ {
			b.place(Piece{Type: Pawn, Color: color}, Square(pawnRank*8+file))
		}
	}

	setup(White, 0, 1)
	setup(Black, 7, 6)
	b.turn = White
	b.castling = CastlingAll
	b.enPassant = NoEnPassantTarget()
	b.halfmove = 0
	b.fullmove = 1
}

func (b *Board) Turn() Color { return b.turn }
func (b *Board) Castling() CastlingRights { return b.castling }
func (b *Board) EnPassant() EnPassantTarget { return b.enPassant }
func (b *Board) HalfmoveClock() int { return b.halfmove }
func (b *Board) FullmoveNumber() int { return b.fullmove }

// PieceAt reports the occupant of sq, if any.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	if !b.allOcc.Has(sq) {
		return Piece{}, false
	}
	return b.squares[sq], true
}

// PieceCount returns the number of occupied squares.
func (b *Board) PieceCount() int { return b.allOcc.Count() }

// KingSquare locates the king of the given color.
func (b *Board) KingSquare(color Color) (Square, bool) {
	kings := b.pieces[color][King]
	if kings.Empty() {
		return 0, false
	}
	sq, _ := kings.PopLSB()
	return sq, true
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

func (b *Board) place(pc Piece, sq Square) {
	b.squares[sq] = pc
	b.pieces[pc.Color][pc.Type] = b.pieces[pc.Color][pc.Type].Add(sq)
	b.occupancy[pc.Color] = b.occupancy[pc.Color].Add(sq)
	b.allOcc = b.allOcc.Add(sq)
}

func (b *Board) remove(sq Square) {
	pc, ok := b.PieceAt(sq)
	if !ok {
		return
	}
	b.pieces[pc.Color][pc.Type] = b.pieces[pc.Color][pc.Type].Remove(sq)
	b.occupancy[pc.Color] = b.occupancy[pc.Color].Remove(sq)
	b.allOcc = b.allOcc.Remove(sq)
	b.squares[sq] = Piece{}
}

func (b *Board) movePiece(from, to Square) {
	pc, ok := b.PieceAt(from)
	if !ok {
		return
	}
	b.remove(from)
	b.remove(to)
	b.place(pc, to)
}

// apply mutates the board with the side effects computed by Validate: piece
// placement, capture removal, rook relocation, promotion substitution, plus
// the castling-rights / en-passant / clock bookkeeping that follows every
// accepted move. It does not flip the turn; the orchestrator owns that.
func (b *Board) apply(lm *LegalMove) {
	pc := lm.Piece

	if lm.HasCapture {
		b.updateCastlingRightsForCapture(lm.Capture, lm.CaptureSquare)
		b.remove(lm.CaptureSquare)
	}

	b.enPassant = NoEnPassantTarget()

	b.movePiece(lm.Move.From, lm.Move.To)
	b.updateCastlingRightsForMove(pc, lm.Move.From)

	if pc.Type == Pawn {
		diff := lm.Move.To.Rank() - lm.Move.From.Rank()
		if diff == 2 || diff == -2 {
			midRank := lm.Move.From.Rank() + diff/2
			if sq, ok := SquareFromCoords(midRank, lm.Move.From.File()); ok {
				b.enPassant = NewEnPassantTarget(sq)
			}
		}
	}

	if lm.IsCastle {
		b.movePiece(lm.RookFrom, lm.RookTo)
	}

	if lm.Promotes {
		b.remove(lm.Move.To)
		b.place(Piece{Type: lm.Promotion, Color: pc.Color}, lm.Move.To)
	}

	if pc.Type == Pawn || lm.HasCapture {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if pc.Color == Black {
		b.fullmove++
	}
}

func castlingRightForRook(color Color, sq Square) CastlingRights {
	switch color {
	case White:
		if sq.Rank() != 0 {
			return CastlingNone
		}
		switch sq.File() {
		case 0:
			return CastlingRight(White, CastleQueenside)
		case 7:
			return CastlingRight(White, CastleKingside)
		}
	case Black:
		if sq.Rank() != 7 {
			return CastlingNone
		}
		switch sq.File() {
		case 0:
			return CastlingRight(Black, CastleQueenside)
		case 7:
			return CastlingRight(Black, CastleKingside)
		}
	}
	return CastlingNone
}

func (b *Board) updateCastlingRightsForMove(pc Piece, from Square) {
	switch pc.Type {
	case King:
		b.castling = b.castling.WithoutColor(pc.Color)
	case Rook:
		b.castling = b.castling.Without(castlingRightForRook(pc.Color, from))
	}
}

func (b *Board) updateCastlingRightsForCapture(pc Piece, sq Square) {
	if pc.Type == Rook {
		b.castling = b.castling.Without(castlingRightForRook(pc.Color, sq))
	}
}

// ToASCII renders the position for diagnostics, rank 8 on top.
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < 8; file++ {
			sq := Square(rank*8 + file)
			if pc, ok := b.PieceAt(sq); ok {
				sb.WriteByte(fenLetter(pc.Type, pc.Color))
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", rank+1))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
