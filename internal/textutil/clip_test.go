package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than limit", "notícia", 20, "notícia"},
		{"exact limit", "abc", 3, "abc"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"cut inside two byte rune", "coração", 5, "cora"},
		{"cut lands on rune start", "coração", 6, "coraç"},
		{"cut after full rune", "coração", 8, "coraçã"},
		{"zero limit", "texto", 0, ""},
		{"negative limit", "texto", -1, ""},
		{"empty input", "", 10, ""},
	}
	for _, tt := range tests {
		if got := Clip(tt.in, tt.max); got != tt.want {
			t.Errorf("%s: Clip(%q, %d) = %q, want %q", tt.name, tt.in, tt.max, got, tt.want)
		}
	}
}

func TestClipAlwaysValidUTF8(t *testing.T) {
	s := strings.Repeat("ação é notícia, sim! ", 50)
	for max := 0; max <= len(s)+2; max++ {
		out := Clip(s, max)
		if !utf8.ValidString(out) {
			t.Fatalf("Clip(..., %d) produced invalid UTF-8: %q", max, out)
		}
		if len(out) > max {
			t.Fatalf("Clip(..., %d) returned %d bytes", max, len(out))
		}
	}
}
