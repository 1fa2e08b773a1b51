package game

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, true
	case "b", "black":
		return Black, true
	default:
		return White, false
	}
}

type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

// Name returns the lowercase spelled-out piece name used in projections.
func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "?"
	}
}

func fenLetter(pt PieceType, c Color) byte {
	var l byte
	switch pt {
	case Pawn:
		l = 'p'
	case Knight:
		l = 'n'
	case Bishop:
		l = 'b'
	case Rook:
		l = 'r'
	case Queen:
		l = 'q'
	case King:
		l = 'k'
	}
	if c == White {
		return l - 'a' + 'A'
	}
	return l
}

func pieceFromFENLetter(ch byte) (PieceType, Color, bool) {
	color := Black
	if ch >= 'A' && ch <= 'Z' {
		color = White
		ch = ch - 'A' + 'a'
	}
	switch ch {
	case 'p':
		return Pawn, color, true
	case 'n':
		return Knight, color, true
	case 'b':
		return Bishop, color, true
	case 'r':
		return Rook, color, true
	case 'q':
		return Queen, color, true
	case 'k':
		return King, color, true
	default:
		return 0, 0, false
	}
}

type Square uint8

func (s Square) Rank() int { return int(s) >> 3 }
func (s Square) File() int { return int(s) & 7 }

func (s Square) String() string {
	file := byte('a' + s.File())
	rank := byte('1' + s.Rank())
	return string([]byte{file, rank})
}

func CoordToSquare(coord string) (Square, bool) {
	if len(coord) != 2 {
		return 0, false
	}
	file := coord[0]
	rank := coord[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, false
	}
	r := int(rank - '1')
	c := int(file - 'a')
	return Square(r*8 + c), true
}

func SquareFromCoords(rank, file int) (Square, bool) {
	if rank < 0 || rank > 7 || file < 0 || file > 7 {
		return 0, false
	}
	return Square(rank*8 + file), true
}

// Line returns the squares strictly between from and to when they share a
// rank, file or diagonal, or nil when they are not aligned.
func Line(from, to Square) []Square {
	dr := to.Rank() - from.Rank()
	df := to.File() - from.File()
	stepR := normalize(dr)
	stepF := normalize(df)

	aligned := false
	switch {
	case dr == 0 && df != 0:
		stepR = 0
		aligned = true
	case df == 0 && dr != 0:
		stepF = 0
		aligned = true
	case abs(dr) == abs(df) && dr != 0:
		aligned = true
	}

	if !aligned {
		return nil
	}

	distance := max(abs(dr), abs(df)) - 1
	if distance <= 0 {
		return nil
	}

	squares := make([]Square, 0, distance)
	rank := from.Rank()
	file := from.File()
	for i := 0; i < distance; i++ {
		rank += stepR
		file += stepF
		sq, ok := SquareFromCoords(rank, file)
		if !ok {
			return nil
		}
		squares = append(squares, sq)
	}
	return squares
}

func normalize(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type CastlingRights uint8

const (
	CastlingNone          CastlingRights = 0
	CastlingWhiteKingside CastlingRights = 1 << iota
	CastlingWhiteQueenside
	CastlingBlackKingside
	CastlingBlackQueenside
	CastlingAll = CastlingWhiteKingside | CastlingWhiteQueenside | CastlingBlackKingside | CastlingBlackQueenside
)

type CastlingSide uint8

const (
	CastleKingside CastlingSide = iota
	CastleQueenside
)

func (cs CastlingSide) String() string {
	switch cs {
	case CastleKingside:
		return "kingside"
	case CastleQueenside:
		return "queenside"
	default:
		return "?"
	}
}

func CastlingRight(color Color, side CastlingSide) CastlingRights {
	switch color {
	case White:
		if side == CastleQueenside {
			return CastlingWhiteQueenside
		}
		return CastlingWhiteKingside
	case Black:
		if side == CastleQueenside {
			return CastlingBlackQueenside
		}
		return CastlingBlackKingside
	default:
		return CastlingNone
	}
}

func CastlingRightsForColor(color Color) CastlingRights {
	switch color {
	case White:
		return CastlingWhiteKingside | CastlingWhiteQueenside
	case Black:
		return CastlingBlackKingside | CastlingBlackQueenside
	default:
		return CastlingNone
	}
}

func (cr CastlingRights) Has(right CastlingRights) bool { return cr&right != 0 }

func (cr CastlingRights) HasSide(color Color, side CastlingSide) bool {
	return cr.Has(CastlingRight(color, side))
}

func (cr CastlingRights) Without(right CastlingRights) CastlingRights { return cr &^ right }

func (cr CastlingRights) WithoutColor(color Color) CastlingRights {
	return cr.Without(CastlingRightsForColor(color))
}

func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	var b strings.Builder
	if cr.Has(CastlingWhiteKingside) {
		b.WriteByte('K')
	}
	if cr.Has(CastlingWhiteQueenside) {
		b.WriteByte('Q')
	}
	if cr.Has(CastlingBlackKingside) {
		b.WriteByte('k')
	}
	if cr.Has(CastlingBlackQueenside) {
		b.WriteByte('q')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func ParseCastlingRights(s string) (CastlingRights, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "-" {
		return CastlingNone, nil
	}
	var rights CastlingRights
	for _, r := range trimmed {
		switch r {
		case 'K':
			rights |= CastlingWhiteKingside
		case 'Q':
			rights |= CastlingWhiteQueenside
		case 'k':
			rights |= CastlingBlackKingside
		case 'q':
			rights |= CastlingBlackQueenside
		default:
			return CastlingNone, fmt.Errorf("invalid castling flag %q", string(r))
		}
	}
	return rights, nil
}

func (cr CastlingRights) MarshalText() ([]byte, error) { return []byte(cr.String()), nil }

func (cr *CastlingRights) UnmarshalText(text []byte) error {
	parsed, err := ParseCastlingRights(string(text))
	if err != nil {
		return err
	}
	*cr = parsed
	return nil
}

type EnPassantTarget struct {
	square Square
	valid  bool
}

func NewEnPassantTarget(sq Square) EnPassantTarget { return EnPassantTarget{square: sq, valid: true} }

func NoEnPassantTarget() EnPassantTarget { return EnPassantTarget{} }

func (e EnPassantTarget) Valid() bool { return e.valid }

func (e EnPassantTarget) Square() (Square, bool) {
	if !e.valid {
		return 0, false
	}
	return e.square, true
}

func (e EnPassantTarget) String() string {
	if !e.valid {
		return "-"
	}
	return e.square.String()
}

func ParseEnPassantTarget(s string) (EnPassantTarget, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "-" {
		return EnPassantTarget{}, nil
	}
	sq, ok := CoordToSquare(strings.ToLower(trimmed))
	if !ok {
		return EnPassantTarget{}, fmt.Errorf("invalid en-passant square %q", s)
	}
	return NewEnPassantTarget(sq), nil
}

func (e EnPassantTarget) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EnPassantTarget) UnmarshalText(text []byte) error {
	parsed, err := ParseEnPassantTarget(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// promotionTypes are the only legal promotion targets.
var promotionTypes = [...]PieceType{Queen, Rook, Bishop, Knight}

func isPromotionType(pt PieceType) bool {
	for _, p := range promotionTypes {
		if p == pt {
			return true
		}
	}
	return false
}

func ParsePromotionPiece(s string) (PieceType, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "q", "queen":
		return Queen, true
	case "r", "rook":
		return Rook, true
	case "b", "bishop":
		return Bishop, true
	case "n", "knight":
		return Knight, true
	default:
		return 0, false
	}
}

// Move is a request from the session layer or the AI collaborator. It is not
// validated until it reaches Validate.
type Move struct {
	From         Square
	To           Square
	Promotion    PieceType
	HasPromotion bool
}

func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.HasPromotion {
		s += strings.ToLower(m.Promotion.String())
	}
	return s
}

// ParseMove decodes coordinate notation ("e2e4", "e7e8q").
func ParseMove(s string) (Move, bool) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if len(trimmed) != 4 && len(trimmed) != 5 {
		return Move{}, false
	}
	from, ok := CoordToSquare(trimmed[:2])
	if !ok {
		return Move{}, false
	}
	to, ok := CoordToSquare(trimmed[2:4])
	if !ok {
		return Move{}, false
	}
	m := Move{From: from, To: to}
	if len(trimmed) == 5 {
		pt, ok := ParsePromotionPiece(trimmed[4:])
		if !ok {
			return Move{}, false
		}
		m.Promotion = pt
		m.HasPromotion = true
	}
	return m, true
}
