package docparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextParser_SplitsOnChapterHeadings(t *testing.T) {
	text := "My Novel\n\nChapter 1\nOnce upon a time.\n\nChapter 2\nThe end came quickly.\n"
	result, err := PlainTextParser{}.Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, "My Novel", result.Title)
	require.Len(t, result.Chapters, 2)
	assert.Contains(t, result.Chapters[0], "Once upon a time")
	assert.Contains(t, result.Chapters[1], "The end came quickly")
	assert.Greater(t, result.Detection.Confidence, 0.5)
}

func TestPlainTextParser_FallsBackToLengthSplit(t *testing.T) {
	text := "Title Line\n\n" + strings.Repeat("word ", 9000)
	result, err := PlainTextParser{}.Parse([]byte(text))
	require.NoError(t, err)
	assert.True(t, len(result.Chapters) > 1)
	assert.Contains(t, result.Detection.StructuralIndicators, "length-based fallback")
}

func TestSplitByLength_RespectsTargetApproximately(t *testing.T) {
	text := strings.Repeat("one two three four five. ", 1000)
	chapters := SplitByLength(text, 500)
	require.True(t, len(chapters) >= 2)
}
