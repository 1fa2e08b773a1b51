package game

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFENRoundTrip(t *testing.T) {
	cases := []string{
		StartingFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 4 9",
		"8/P6k/8/8/8/8/8/K7 w - - 12 40",
		"k7/2Q5/1K6/8/8/8/8/8 b - - 0 1",
	}

	for _, fen := range cases {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Errorf("ParseFEN(%q): %v", fen, err)
			continue
		}
		if diff := cmp.Diff(fen, b.FEN()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"rank too wide", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"rank too narrow", "rnbqkbnr/pppppppp/7/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"unknown piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"bad turn", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1"},
		{"bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"negative halfmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1"},
		{"zero fullmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); err == nil {
				t.Fatalf("ParseFEN(%q) accepted invalid input", tc.fen)
			}
		})
	}
}

func TestToASCII(t *testing.T) {
	rendered := NewBoard().ToASCII()
	lines := strings.Split(rendered, "\n")
	if len(lines) != 10 {
		t.Fatalf("rendered %d lines, want 10", len(lines))
	}
	if !strings.HasPrefix(lines[1], "8 r n b q k b n r") {
		t.Errorf("top rank = %q", lines[1])
	}
	if !strings.HasPrefix(lines[8], "1 R N B Q K B N R") {
		t.Errorf("bottom rank = %q", lines[8])
	}
}

func TestFingerprintIgnoresClocks(t *testing.T) {
	a := mustBoardFromFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	b := mustBoardFromFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 14 33")

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("move counters leaked into the fingerprint")
	}
	if a.FEN() == b.FEN() {
		t.Fatal("FEN should include the move counters")
	}
}

func TestFingerprintDistinguishesRightsAndEP(t *testing.T) {
	base := mustBoardFromFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	noRights := mustBoardFromFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - - 0 1")
	blackToMove := mustBoardFromFEN(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1")

	if base.Fingerprint() == noRights.Fingerprint() {
		t.Error("castling rights missing from fingerprint")
	}
	if base.Fingerprint() == blackToMove.Fingerprint() {
		t.Error("side to move missing from fingerprint")
	}
}
