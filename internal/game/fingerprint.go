package game

import "strings"

// Fingerprint canonically encodes board + turn + castling rights + en-passant
// target. Move counters are deliberately excluded so repeated positions
// fingerprint identically regardless of when they occur; the session layer
// also uses this encoding for spectator/reconnect state comparison.
func (b *Board) Fingerprint() string {
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
	return sb.String()
}

// defaultLedgerCap retains far more positions than any practical game
// produces, so trimming never costs a detectable repetition. Correctness is
// preferred over memory here.
const defaultLedgerCap = 512

// PositionLedger is the bounded, ordered record of position fingerprints used
// for threefold-repetition detection. The oldest entries are evicted once the
// cap is exceeded.
type PositionLedger struct {
	entries *ring[string]
}

func NewPositionLedger(capacity int) *PositionLedger {
	return &PositionLedger{entries: newRing[string](capacity)}
}

// Record appends the fingerprint of a reached position.
func (l *PositionLedger) Record(fp string) { l.entries.Append(fp) }

func (l *PositionLedger) Len() int { return l.entries.Len() }

// Occurrences counts how often fp appears among the retained entries.
func (l *PositionLedger) Occurrences(fp string) int {
	count := 0
	l.entries.Iter(func(entry string) {
		if entry == fp {
			count++
		}
	})
	return count
}

// IsThreefold reports whether fp has occurred at least three times.
func (l *PositionLedger) IsThreefold(fp string) bool {
	return l.Occurrences(fp) >= 3
}

func (l *PositionLedger) dropLast() bool { return l.entries.DropLast() }

func (l *PositionLedger) Clear() { l.entries.Clear() }
