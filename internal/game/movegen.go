package game

type moveDelta struct {
	dr int
	df int
}

var (
	rookDirections = [...]moveDelta{
		{dr: 1, df: 0},
		{dr: -1, df: 0},
		{dr: 0, df: 1},
		{dr: 0, df: -1},
	}
	bishopDirections = [...]moveDelta{
		{dr: 1, df: 1},
		{dr: 1, df: -1},
		{dr: -1, df: 1},
		{dr: -1, df: -1},
	}
	knightOffsets = [...]moveDelta{
		{dr: 2, df: 1},
		{dr: 1, df: 2},
		{dr: -1, df: 2},
		{dr: -2, df: 1},
		{dr: -2, df: -1},
		{dr: -1, df: -2},
		{dr: 1, df: -2},
		{dr: 2, df: -1},
	}
	kingOffsets = [...]moveDelta{
		{dr: 1, df: 0}, {dr: 1, df: 1}, {dr: 0, df: 1}, {dr: -1, df: 1},
		{dr: -1, df: 0}, {dr: -1, df: -1}, {dr: 0, df: -1}, {dr: 1, df: -1},
	}
)

// pseudoMoves generates the geometrically reachable destinations for the piece
// on from: piece-shape legality, path obstruction, and capture-square color
// only. King safety is layered on by Validate.
func (b *Board) pseudoMoves(pc Piece, from Square) Bitboard {
	switch pc.Type {
	case Pawn:
		return b.pawnMoves(pc, from)
	case Knight:
		return b.stepMoves(pc, from, knightOffsets[:])
	case Bishop:
		return b.slidingMoves(pc, from, bishopDirections[:])
	case Rook:
		return b.slidingMoves(pc, from, rookDirections[:])
	case Queen:
		return b.slidingMoves(pc, from, rookDirections[:]) | b.slidingMoves(pc, from, bishopDirections[:])
	case King:
		return b.kingMoves(pc, from)
	default:
		return 0
	}
}

func (b *Board) pawnMoves(pc Piece, from Square) Bitboard {
	var moves Bitboard

	rank := from.Rank()
	file := from.File()
	dir := 1
	startRank := 1
	if pc.Color == Black {
		dir = -1
		startRank = 6
	}

	if target, ok := SquareFromCoords(rank+dir, file); ok && !b.allOcc.Has(target) {
		moves = moves.Add(target)
		if rank == startRank {
			if doubleSq, ok := SquareFromCoords(rank+2*dir, file); ok && !b.allOcc.Has(doubleSq) {
				moves = moves.Add(doubleSq)
			}
		}
	}

	for _, df := range []int{-1, 1} {
		target, ok := SquareFromCoords(rank+dir, file+df)
		if !ok {
			continue
		}
		if victim, occupied := b.PieceAt(target); occupied && victim.Color != pc.Color {
			moves = moves.Add(target)
		} else if epSq, valid := b.enPassant.Square(); valid && epSq == target {
			moves = moves.Add(target)
		}
	}

	return moves
}

func (b *Board) stepMoves(pc Piece, from Square, offsets []moveDelta) Bitboard {
	var moves Bitboard
	rank := from.Rank()
	file := from.File()

	for _, delta := range offsets {
		if target, ok := SquareFromCoords(rank+delta.dr, file+delta.df); ok {
			if occupant, occupied := b.PieceAt(target); !occupied || occupant.Color != pc.Color {
				moves = moves.Add(target)
			}
		}
	}
	return moves
}

func (b *Board) slidingMoves(pc Piece, from Square, directions []moveDelta) Bitboard {
	var moves Bitboard
	startRank := from.Rank()
	startFile := from.File()

	for _, delta := range directions {
		rank := startRank + delta.dr
		file := startFile + delta.df
		for {
			target, ok := SquareFromCoords(rank, file)
			if !ok {
				break
			}
			occupant, occupied := b.PieceAt(target)
			if !occupied {
				moves = moves.Add(target)
				rank += delta.dr
				file += delta.df
				continue
			}
			if occupant.Color != pc.Color {
				moves = moves.Add(target)
			}
			break
		}
	}
	return moves
}

func (b *Board) kingMoves(pc Piece, from Square) Bitboard {
	moves := b.stepMoves(pc, from, kingOffsets[:])
	if dest, ok := b.castleDestination(pc, from, CastleKingside); ok {
		moves = moves.Add(dest)
	}
	if dest, ok := b.castleDestination(pc, from, CastleQueenside); ok {
		moves = moves.Add(dest)
	}
	return moves
}

// castleDestination reports the king's landing square for the given side when
// castling is fully legal: rights intact, rook in place, squares between them
// empty, king not in check, and the king neither crossing nor landing on an
// attacked square.
func (b *Board) castleDestination(pc Piece, from Square, side CastlingSide) (Square, bool) {
	if pc.Type != King {
		return 0, false
	}
	if !b.castling.HasSide(pc.Color, side) {
		return 0, false
	}
	rank := from.Rank()
	file := from.File()
	enemy := pc.Color.Opposite()

	var rookFile, destFile int
	var travelFiles, emptyFiles []int
	switch side {
	case CastleKingside:
		rookFile = 7
		travelFiles = []int{file + 1, file + 2}
		emptyFiles = []int{file + 1, file + 2}
		destFile = file + 2
	case CastleQueenside:
		rookFile = 0
		travelFiles = []int{file - 1, file - 2}
		emptyFiles = []int{file - 1, file - 2, file - 3}
		destFile = file - 2
	default:
		return 0, false
	}

	rookSq, ok := SquareFromCoords(rank, rookFile)
	if !ok {
		return 0, false
	}
	rook, occupied := b.PieceAt(rookSq)
	if !occupied || rook.Color != pc.Color || rook.Type != Rook {
		return 0, false
	}

	for _, f := range emptyFiles {
		sq, ok := SquareFromCoords(rank, f)
		if !ok {
			return 0, false
		}
		if b.allOcc.Has(sq) {
			return 0, false
		}
	}

	if b.IsSquareAttacked(from, enemy) {
		return 0, false
	}
	for _, f := range travelFiles {
		sq, ok := SquareFromCoords(rank, f)
		if !ok {
			return 0, false
		}
		if b.IsSquareAttacked(sq, enemy) {
			return 0, false
		}
	}

	return SquareFromCoords(rank, destFile)
}

// castleRookMove returns the rook relocation paired with a king castle move.
func castleRookMove(from, to Square) (rookFrom, rookTo Square) {
	rank := from.Rank()
	if to.File() > from.File() {
		rookFrom, _ = SquareFromCoords(rank, 7)
		rookTo, _ = SquareFromCoords(rank, to.File()-1)
	} else {
		rookFrom, _ = SquareFromCoords(rank, 0)
		rookTo, _ = SquareFromCoords(rank, to.File()+1)
	}
	return rookFrom, rookTo
}
