package game

import (
	"errors"
	"fmt"
)

// RejectionCode is the closed set of reasons a move or state transition can be
// refused. Every expected rule violation maps to exactly one code; nothing in
// this package panics or returns free-form strings for rule breaks.
type RejectionCode uint8

const (
	RejectMalformedInput RejectionCode = iota
	RejectOutOfBounds
	RejectNoPieceAtSource
	RejectWrongTurn
	RejectSameSquare
	RejectOwnPieceCapture
	RejectIllegalPieceMove
	RejectPathBlocked
	RejectIllegalCastling
	RejectIllegalPromotion
	RejectIllegalEnPassant
	RejectSelfCheck
	RejectDoubleCheckKingOnly
	RejectGameNotActive
	RejectInvalidTransition
	RejectInternal
)

// Code returns the stable machine-readable identifier for the rejection.
func (c RejectionCode) Code() string {
	switch c {
	case RejectMalformedInput:
		return "MALFORMED_INPUT"
	case RejectOutOfBounds:
		return "OUT_OF_BOUNDS"
	case RejectNoPieceAtSource:
		return "NO_PIECE_AT_SOURCE"
	case RejectWrongTurn:
		return "WRONG_TURN"
	case RejectSameSquare:
		return "SAME_SQUARE"
	case RejectOwnPieceCapture:
		return "OWN_PIECE_CAPTURE"
	case RejectIllegalPieceMove:
		return "ILLEGAL_PIECE_MOVE"
	case RejectPathBlocked:
		return "PATH_BLOCKED"
	case RejectIllegalCastling:
		return "ILLEGAL_CASTLING"
	case RejectIllegalPromotion:
		return "ILLEGAL_PROMOTION"
	case RejectIllegalEnPassant:
		return "ILLEGAL_EN_PASSANT"
	case RejectSelfCheck:
		return "SELF_CHECK"
	case RejectDoubleCheckKingOnly:
		return "DOUBLE_CHECK_KING_ONLY"
	case RejectGameNotActive:
		return "GAME_NOT_ACTIVE"
	case RejectInvalidTransition:
		return "INVALID_TRANSITION"
	case RejectInternal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

func (c RejectionCode) String() string { return c.Code() }

// Rejection is a refused move or transition. It satisfies error so callers can
// thread it through ordinary error returns, and exposes the stable code for
// the session layer.
type Rejection struct {
	Code    RejectionCode
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code.Code(), r.Message)
}

func reject(code RejectionCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps a Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

var (
	ErrUndoUnavailable   = errors.New("no moves available to undo")
	ErrSnapshotMalformed = errors.New("malformed snapshot")
)
