package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"pagamento", "pagamentos", 1},
		{"a", "b", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistance(tt.a, tt.b), "editDistance(%q, %q)", tt.a, tt.b)
	}
}

func TestEditDistance_Unicode(t *testing.T) {
	// Multi-byte runes count as single characters.
	assert.Equal(t, 1, editDistance("tarifa bancária", "tarifa bancaria"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("pagamento", "pagamento"), 1e-9)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 1.0, similarity("", ""), 1e-9)
	// (10 - 1) / 10
	assert.InDelta(t, 0.9, similarity("pagamento", "pagamentos"), 1e-9)
}
