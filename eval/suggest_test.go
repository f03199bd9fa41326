package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestNameFindsCloseMatch(t *testing.T) {
	got, ok := suggestName([]string{"length", "concat", "reverse"}, "lenth")
	assert.True(t, ok)
	assert.Equal(t, "length", got)
}

func TestSuggestNameNoCandidates(t *testing.T) {
	_, ok := suggestName(nil, "anything")
	assert.False(t, ok)
}

func TestSuggestNameNoCloseMatch(t *testing.T) {
	_, ok := suggestName([]string{"alpha", "beta"}, "zzzzzzzzzzzzzzz")
	assert.False(t, ok)
}
