package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{name: "identical", a: "врач", b: "врач", expected: 1},
		{name: "empty left", a: "", b: "врач", expected: 0},
		{name: "whitespace only", a: "  ", b: "врач", expected: 0},
		{name: "subset counts as full match", a: "запись", b: "запись на приём", expected: 1},
		{name: "token order ignored", a: "на приём запись", b: "запись на приём", expected: 1},
		{name: "single edit", a: "abc", b: "abd", expected: 4.0 / 6.0},
		{name: "cyrillic ending", a: "кнопка", b: "кнопки", expected: 10.0 / 12.0},
		{name: "shared token with differing rest", a: "hello world", b: "hello there", expected: 14.0 / 22.0},
		{name: "disjoint", a: "abc", b: "xyz", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TokenSetRatio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.expected, TokenSetRatio(tt.b, tt.a), 1e-9, "symmetric")
		})
	}
}

func TestLCSLength(t *testing.T) {
	assert.Equal(t, 0, lcsLength(nil, []rune("abc")))
	assert.Equal(t, 3, lcsLength([]rune("abc"), []rune("aXbXc")))
	assert.Equal(t, 4, lcsLength([]rune("врач"), []rune("врача")))
}
