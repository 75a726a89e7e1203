package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEntities(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"满100&amp;赠20", "满100&赠20"},
		{"&lt;b&gt;bold&lt;/b&gt;", "<b>bold</b>"},
		{"say &quot;hi&quot;", `say "hi"`},
		{"it&#39;s", "it's"},
		{"a&nbsp;b", "a b"},
		// Unrecognized entities pass through unchanged
		{"&copy; 2024", "&copy; 2024"},
		{"plain text", "plain text"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, DecodeEntities(tc.input), "input: "+tc.input)
	}
}
