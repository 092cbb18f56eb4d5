package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightBestSentenceKeepsAllSentences(t *testing.T) {
	text := "The cat sat on the mat. Dogs bark at night. Fish swim in water."
	out := highlightBestSentence(text, "dogs barking")

	assert.Contains(t, out, "The cat sat on the mat.")
	assert.Contains(t, out, "Fish swim in water.")
	// the best-overlap sentence is present even if wrapped in styling
	assert.Contains(t, stripANSI(out), "Dogs bark at night.")
}

func TestHighlightBestSentenceEmptyInputs(t *testing.T) {
	assert.Equal(t, "   ", highlightBestSentence("   ", "query"))
	assert.Equal(t, "No punctuation here", highlightBestSentence("No punctuation here", ""))
}

func TestTokenOverlapScoreCountsDistinctMatches(t *testing.T) {
	q := toTokenSet("dogs bark bark night")
	assert.Equal(t, 3, tokenOverlapScore(q, "Dogs bark at night, dogs bark."))
	assert.Equal(t, 0, tokenOverlapScore(q, "Fish swim in water."))
}

func TestToTokenSetLowercasesAndDeduplicates(t *testing.T) {
	set := toTokenSet("Cats CATS cats don't")
	assert.Len(t, set, 2)
	_, ok := set["cats"]
	assert.True(t, ok)
	_, ok = set["don't"]
	assert.True(t, ok)
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
