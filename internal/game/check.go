package game

// CheckDetails describes how a king is attacked in the current position.
type CheckDetails struct {
	InCheck     bool     `json:"inCheck"`
	Attackers   []Square `json:"attackers,omitempty"`
	DoubleCheck bool     `json:"doubleCheck"`
}

// Attackers returns the squares of every piece of byColor that attacks target.
// Attack here is geometric and path legality only; whether the attacker is
// itself pinned does not matter for check purposes.
func (b *Board) Attackers(target Square, byColor Color) Bitboard {
	var attackers Bitboard
	rank := target.Rank()
	file := target.File()

	scan := func(directions []moveDelta, matches func(PieceType) bool) {
		for _, delta := range directions {
			r := rank + delta.dr
			f := file + delta.df
			for {
				sq, ok := SquareFromCoords(r, f)
				if !ok {
					break
				}
				if occupant, occupied := b.PieceAt(sq); occupied {
					if occupant.Color == byColor && matches(occupant.Type) {
						attackers = attackers.Add(sq)
					}
					break
				}
				r += delta.dr
				f += delta.df
			}
		}
	}

	scan(rookDirections[:], func(pt PieceType) bool { return pt == Rook || pt == Queen })
	scan(bishopDirections[:], func(pt PieceType) bool { return pt == Bishop || pt == Queen })

	for _, delta := range knightOffsets {
		if sq, ok := SquareFromCoords(rank+delta.dr, file+delta.df); ok {
			if occupant, occupied := b.PieceAt(sq); occupied && occupant.Color == byColor && occupant.Type == Knight {
				attackers = attackers.Add(sq)
			}
		}
	}

	for _, delta := range kingOffsets {
		if sq, ok := SquareFromCoords(rank+delta.dr, file+delta.df); ok {
			if occupant, occupied := b.PieceAt(sq); occupied && occupant.Color == byColor && occupant.Type == King {
				attackers = attackers.Add(sq)
			}
		}
	}

	// A pawn attacks diagonally forward, so it sits one rank behind the
	// target relative to its own direction of travel.
	pawnRank := rank - 1
	if byColor == Black {
		pawnRank = rank + 1
	}
	for _, df := range []int{-1, 1} {
		if sq, ok := SquareFromCoords(pawnRank, file+df); ok {
			if occupant, occupied := b.PieceAt(sq); occupied && occupant.Color == byColor && occupant.Type == Pawn {
				attackers = attackers.Add(sq)
			}
		}
	}

	return attackers
}

// IsSquareAttacked reports whether any piece of byColor attacks sq.
func (b *Board) IsSquareAttacked(sq Square, byColor Color) bool {
	return !b.Attackers(sq, byColor).Empty()
}

// InCheck reports whether the given color's king is attacked.
func (b *Board) InCheck(color Color) bool {
	kingSq, ok := b.KingSquare(color)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(kingSq, color.Opposite())
}

// CheckDetails locates the color's king and classifies the attack on it.
func (b *Board) CheckDetails(color Color) CheckDetails {
	kingSq, ok := b.KingSquare(color)
	if !ok {
		return CheckDetails{}
	}
	attackers := b.Attackers(kingSq, color.Opposite())
	if attackers.Empty() {
		return CheckDetails{}
	}
	return CheckDetails{
		InCheck:     true,
		Attackers:   attackers.Squares(),
		DoubleCheck: attackers.Count() >= 2,
	}
}

// moveLeavesKingInCheck simulates from->to on a scratch copy and reports
// whether the mover's own king ends up attacked. En-passant captures remove
// the bypassed pawn so the simulation sees the true resulting position.
func (b *Board) moveLeavesKingInCheck(pc Piece, from, to Square) bool {
	scratch := *b

	if pc.Type == Pawn && from.File() != to.File() {
		if epSq, ok := b.enPassant.Square(); ok && epSq == to {
			capRank := to.Rank()
			if pc.Color == White {
				capRank--
			} else {
				capRank++
			}
			if capSq, ok := SquareFromCoords(capRank, to.File()); ok {
				scratch.remove(capSq)
			}
		}
	}

	scratch.movePiece(from, to)
	return scratch.InCheck(pc.Color)
}

// HasAnyLegalMove reports whether color has at least one fully legal move,
// short-circuiting on the first found. It drives the checkmate/stalemate
// distinction: in check with no legal move is mate, out of check with no
// legal move is stalemate.
func (b *Board) HasAnyLegalMove(color Color) bool {
	found := false
	b.occupancy[color].Iter(func(from Square) {
		if found {
			return
		}
		pc := b.squares[from]
		b.pseudoMoves(pc, from).Iter(func(to Square) {
			if found {
				return
			}
			if !b.moveLeavesKingInCheck(pc, from, to) {
				found = true
			}
		})
	})
	return found
}
