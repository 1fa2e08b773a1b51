package game

// LegalMove is a validated move together with the side effects applying it
// entails. Validate computes these; Board.apply executes them. Nothing is
// mutated until the whole validation pipeline has passed.
type LegalMove struct {
	Move          Move
	Piece         Piece
	HasCapture    bool
	Capture       Piece
	CaptureSquare Square
	IsEnPassant   bool
	IsCastle      bool
	CastleSide    CastlingSide
	RookFrom      Square
	RookTo        Square
	Promotes      bool
	Promotion     PieceType
}

// Validate checks a candidate move for mover against the full rule set and
// returns either the legal move with its computed side effects or a typed
// rejection. The board is never mutated; simulation runs on scratch copies.
func (b *Board) Validate(move Move, mover Color) (*LegalMove, *Rejection) {
	if move.From > 63 || move.To > 63 {
		return nil, reject(RejectOutOfBounds, "square out of bounds")
	}
	if move.From == move.To {
		return nil, reject(RejectSameSquare, "destination equals source %s", move.From)
	}

	pc, ok := b.PieceAt(move.From)
	if !ok {
		return nil, reject(RejectNoPieceAtSource, "no piece at %s", move.From)
	}
	if pc.Color != mover {
		return nil, reject(RejectWrongTurn, "%s piece at %s, %s to move", pc.Color, move.From, mover)
	}

	target, targetOccupied := b.PieceAt(move.To)
	if targetOccupied && target.Color == pc.Color {
		return nil, reject(RejectOwnPieceCapture, "own %s on %s", target.Type.Name(), move.To)
	}

	// In double check only the king may move; no interposition or capture
	// can resolve two simultaneous attacks.
	if pc.Type != King && b.CheckDetails(mover).DoubleCheck {
		return nil, reject(RejectDoubleCheckKingOnly, "double check: only king moves allowed")
	}

	if !b.pseudoMoves(pc, move.From).Has(move.To) {
		return nil, b.classifyGeometricRejection(pc, move.From, move.To)
	}

	lm := &LegalMove{Move: move, Piece: pc}

	if targetOccupied {
		lm.HasCapture = true
		lm.Capture = target
		lm.CaptureSquare = move.To
	} else if pc.Type == Pawn && move.From.File() != move.To.File() {
		// Diagonal pawn move to an empty square is only ever en passant.
		epSq, valid := b.enPassant.Square()
		if !valid || epSq != move.To {
			return nil, reject(RejectIllegalEnPassant, "no en-passant capture available on %s", move.To)
		}
		capRank := move.To.Rank()
		if pc.Color == White {
			capRank--
		} else {
			capRank++
		}
		capSq, ok := SquareFromCoords(capRank, move.To.File())
		if !ok {
			return nil, reject(RejectIllegalEnPassant, "no en-passant capture available on %s", move.To)
		}
		victim, occupied := b.PieceAt(capSq)
		if !occupied || victim.Color == pc.Color || victim.Type != Pawn {
			return nil, reject(RejectIllegalEnPassant, "no capturable pawn behind %s", move.To)
		}
		lm.HasCapture = true
		lm.Capture = victim
		lm.CaptureSquare = capSq
		lm.IsEnPassant = true
	}

	if pc.Type == King && move.From.Rank() == move.To.Rank() && abs(move.To.File()-move.From.File()) == 2 {
		lm.IsCastle = true
		if move.To.File() > move.From.File() {
			lm.CastleSide = CastleKingside
		} else {
			lm.CastleSide = CastleQueenside
		}
		lm.RookFrom, lm.RookTo = castleRookMove(move.From, move.To)
	}

	if rej := b.validatePromotion(pc, move, lm); rej != nil {
		return nil, rej
	}

	if b.moveLeavesKingInCheck(pc, move.From, move.To) {
		if b.InCheck(mover) {
			return nil, reject(RejectSelfCheck, "move does not resolve check")
		}
		return nil, reject(RejectSelfCheck, "move leaves own king attacked")
	}

	return lm, nil
}

// validatePromotion enforces mandatory promotion on the far rank and the
// queen/rook/bishop/knight restriction.
func (b *Board) validatePromotion(pc Piece, move Move, lm *LegalMove) *Rejection {
	lastRank := 7
	if pc.Color == Black {
		lastRank = 0
	}
	promotes := pc.Type == Pawn && move.To.Rank() == lastRank

	if promotes {
		if !move.HasPromotion {
			return reject(RejectIllegalPromotion, "promotion required on %s", move.To)
		}
		if !isPromotionType(move.Promotion) {
			return reject(RejectIllegalPromotion, "cannot promote to %s", move.Promotion.Name())
		}
		lm.Promotes = true
		lm.Promotion = move.Promotion
		return nil
	}

	if move.HasPromotion {
		return reject(RejectIllegalPromotion, "promotion not available for %s to %s", pc.Type.Name(), move.To)
	}
	return nil
}

// classifyGeometricRejection explains why a destination is not even pseudo
// legal: wrong shape for the piece, a blocked path, or a failed castle.
func (b *Board) classifyGeometricRejection(pc Piece, from, to Square) *Rejection {
	switch pc.Type {
	case Knight:
		return reject(RejectIllegalPieceMove, "knight cannot reach %s from %s", to, from)

	case King:
		if from.Rank() == to.Rank() && abs(to.File()-from.File()) == 2 {
			return reject(RejectIllegalCastling, "castling %s unavailable", castleSideOf(from, to))
		}
		return reject(RejectIllegalPieceMove, "king cannot reach %s from %s", to, from)

	case Pawn:
		dir := 1
		startRank := 1
		if pc.Color == Black {
			dir = -1
			startRank = 6
		}
		dr := to.Rank() - from.Rank()
		df := to.File() - from.File()
		switch {
		case df == 0 && dr == dir:
			return reject(RejectPathBlocked, "square %s occupied", to)
		case df == 0 && dr == 2*dir && from.Rank() == startRank:
			return reject(RejectPathBlocked, "path to %s blocked", to)
		case abs(df) == 1 && dr == dir:
			return reject(RejectIllegalEnPassant, "no en-passant capture available on %s", to)
		default:
			return reject(RejectIllegalPieceMove, "pawn cannot reach %s from %s", to, from)
		}

	case Bishop, Rook, Queen:
		straight := from.Rank() == to.Rank() || from.File() == to.File()
		diagonal := abs(to.Rank()-from.Rank()) == abs(to.File()-from.File())
		fits := false
		switch pc.Type {
		case Rook:
			fits = straight
		case Bishop:
			fits = diagonal
		case Queen:
			fits = straight || diagonal
		}
		if !fits {
			return reject(RejectIllegalPieceMove, "%s cannot reach %s from %s", pc.Type.Name(), to, from)
		}
		for _, sq := range Line(from, to) {
			if b.allOcc.Has(sq) {
				return reject(RejectPathBlocked, "path to %s blocked at %s", to, sq)
			}
		}
		return reject(RejectPathBlocked, "path from %s to %s blocked", from, to)

	default:
		return reject(RejectIllegalPieceMove, "%s cannot reach %s from %s", pc.Type.Name(), to, from)
	}
}

func castleSideOf(from, to Square) CastlingSide {
	if to.File() > from.File() {
		return CastleKingside
	}
	return CastleQueenside
}

// LegalMovesFor enumerates every legal move for color through the exact same
// Validate path that ApplyMove uses, so what the AI is offered and what the
// engine accepts can never drift apart.
func (b *Board) LegalMovesFor(color Color) []Move {
	var out []Move
	b.occupancy[color].Iter(func(from Square) {
		pc := b.squares[from]
		lastRank := 7
		if color == Black {
			lastRank = 0
		}
		b.pseudoMoves(pc, from).Iter(func(to Square) {
			if pc.Type == Pawn && to.Rank() == lastRank {
				for _, promo := range promotionTypes {
					m := Move{From: from, To: to, Promotion: promo, HasPromotion: true}
					if _, rej := b.Validate(m, color); rej == nil {
						out = append(out, m)
					}
				}
				return
			}
			m := Move{From: from, To: to}
			if _, rej := b.Validate(m, color); rej == nil {
				out = append(out, m)
			}
		})
	})
	return out
}
