package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil becomes empty", nil, ""},
		{"plain string unchanged", "Abc", "Abc"},
		{"leading whitespace stripped", " Abc", "Abc"},
		{"trailing whitespace stripped", "10 ", "10"},
		{"case preserved", "AbC", "AbC"},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float without trailing zeros", 1.5, "1.5"},
		{"bool", true, "true"},
		{"byte slice", []byte(" x "), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, String(tt.input))
		})
	}
}

func TestKey_NoCollisionAcrossColumns(t *testing.T) {
	// ("a","bc") and ("ab","c") must produce distinct composite keys.
	assert.NotEqual(t, Key([]string{"a", "bc"}), Key([]string{"ab", "c"}))
}

func TestKeyParts_RoundTrip(t *testing.T) {
	parts := []string{"EntityA", "Record1"}
	assert.Equal(t, parts, KeyParts(Key(parts)))
}

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"EntityName", "RecordName"}, SplitColumns("EntityName, RecordName"))
	assert.Equal(t, []string{"id"}, SplitColumns("id"))
	assert.Empty(t, SplitColumns(" , ,"))
}

func TestShortCode(t *testing.T) {
	assert.Equal(t, "Alph", ShortCode("Alphabet"))
	assert.Equal(t, "Ab", ShortCode("Ab"))
	assert.Equal(t, "", ShortCode(""))
	// Rune-safe, not byte-safe.
	assert.Equal(t, "日本語テ", ShortCode("日本語テスト"))
}
