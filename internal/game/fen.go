package game

import (
	"fmt"
	"strconv"
	"strings"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN serializes the full position, all six fields.
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.WriteString(b.placementField())

	sb.WriteByte(' ')
	if b.turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmove))

	return sb.String()
}

func (b *Board) placementField() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := Square(rank*8 + file)
			pc, ok := b.PieceAt(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenLetter(pc.Type, pc.Color))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ParseFEN builds a board from a FEN string, validating each field.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: expected 6 fields, got %d", len(parts))
	}

	b := &Board{}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pt, color, ok := pieceFromFENLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q in rank %d", string(ch), rank+1)
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many squares in rank %d", rank+1)
			}
			b.place(Piece{Type: pt, Color: color}, Square(rank*8+file))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", rank+1, file)
		}
	}

	switch parts[1] {
	case "w":
		b.turn = White
	case "b":
		b.turn = Black
	default:
		return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}

	castling, err := ParseCastlingRights(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	b.castling = castling

	enPassant, err := ParseEnPassantTarget(parts[3])
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	b.enPassant = enPassant

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("invalid FEN: halfmove clock %q", parts[4])
	}
	b.halfmove = halfmove

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("invalid FEN: fullmove number %q", parts[5])
	}
	b.fullmove = fullmove

	return b, nil
}
