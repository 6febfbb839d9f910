package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"first empty", "", "hello", 0.0},
		{"second empty", "hello", "", 0.0},
		{"exact match", "Invoice", "Invoice", 1.0},
		{"case-insensitive match", "INVOICE", "invoice", 1.0},
		{"trimmed match", "  total  ", "total", 1.0},
		{"substring", "Grand Total", "Total", 0.9},
		{"substring reversed", "Total", "Grand Total", 0.9},
		{"single edit", "total", "totel", 1.0 - 1.0/5.0},
		{"disjoint", "abc", "xyz", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"receipt", "reciept"},
		{"hello world", "hello word"},
		{"abc", "abcd"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-12)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"同じ", "同じ", 0},
	}
	for _, tt := range tests {
		got := levenshtein([]rune(tt.a), []rune(tt.b))
		assert.Equal(t, tt.want, got, "levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "hello", Clean("  hello \n"))
	// decomposed e + combining acute normalizes to a single rune
	assert.Equal(t, "café", Clean("café"))
}
