package common

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	t.Run("Lowercases and strips diacritics", func(t *testing.T) {
		if got := NormalizeText("Valparaíso y Ñuble"); got != "valparaiso y nuble" {
			t.Errorf("NormalizeText = %q", got)
		}
	})

	t.Run("Empty input stays empty", func(t *testing.T) {
		if got := NormalizeText(""); got != "" {
			t.Errorf("NormalizeText(\"\") = %q", got)
		}
	})

	t.Run("Punctuation is preserved", func(t *testing.T) {
		if got := NormalizeText("O'Higgins, región"); got != "o'higgins, region" {
			t.Errorf("NormalizeText = %q", got)
		}
	})
}

func TestExtractContext(t *testing.T) {
	text := "El bloqueo de la ruta principal mantiene aislada a la comuna desde temprano"

	t.Run("Middle position is ellipsed on both sides", func(t *testing.T) {
		position := strings.Index(text, "aislada")
		got := ExtractContext(text, position, 10)
		if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
			t.Errorf("Expected ellipses on both sides, got %q", got)
		}
		if !strings.Contains(got, "aislada") {
			t.Errorf("Expected toponym in context, got %q", got)
		}
	})

	t.Run("Window covering the whole text has no ellipses", func(t *testing.T) {
		got := ExtractContext(text, 0, len(text))
		if got != text {
			t.Errorf("Expected full text, got %q", got)
		}
	})

	t.Run("Negative position clamps to the start", func(t *testing.T) {
		got := ExtractContext(text, -5, 10)
		if !strings.HasPrefix(got, "El bloqueo") {
			t.Errorf("Expected context from the start, got %q", got)
		}
	})
}

func TestCountOccurrences(t *testing.T) {
	t.Run("Diacritics and case are ignored", func(t *testing.T) {
		if got := CountOccurrences("Machalí y machali y MACHALI", "Machalí"); got != 3 {
			t.Errorf("Expected 3, got %d", got)
		}
	})

	t.Run("Empty needle counts zero", func(t *testing.T) {
		if got := CountOccurrences("texto", ""); got != 0 {
			t.Errorf("Expected 0, got %d", got)
		}
	})
}

func TestClamp01(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.5, 1},
	}
	for _, tc := range cases {
		if got := Clamp01(tc.in); got != tc.want {
			t.Errorf("Clamp01(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
