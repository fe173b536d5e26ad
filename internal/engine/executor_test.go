package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	assert.Equal(t, "DELETE FROM a", summarize("  DELETE FROM a\n"))
	assert.Equal(t, "BEGIN ...", summarize("BEGIN\n  FOR c IN (...) LOOP\nEND;"))

	long := "DELETE FROM " + strings.Repeat("x", 100)
	assert.Equal(t, long[:80]+"...", summarize(long))
}
