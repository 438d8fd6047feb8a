package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_EmptyInput(t *testing.T) {
	_, err := Chunk("   \n\n  ", StrategyParagraph, Options{MaxSize: 100})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestChunk_Paragraph_ContiguousIndices(t *testing.T) {
	text := "Para one.\n\nPara two.\n\nPara three."
	chunks, err := Chunk(text, StrategyParagraph, Options{MaxSize: 1000})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, len(c.Text), 1000)
	}
}

func TestChunk_Paragraph_OversizedParagraphForceSplit(t *testing.T) {
	long := strings.Repeat("word ", 500) // ~2500 bytes, one paragraph
	chunks, err := Chunk(long, StrategyParagraph, Options{MaxSize: 200})
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 200)
		assert.Equal(t, BoundaryForced, c.Boundary)
	}
}

func TestChunk_Semantic_RecognisesSceneBreaks(t *testing.T) {
	text := "Scene one opens quietly.\n\n***\n\nScene two begins elsewhere."
	chunks, err := Chunk(text, StrategySemantic, Options{MaxSize: 1000})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "Scene one")
	assert.Contains(t, chunks[1].Text, "Scene two")
}

func TestChunk_Fixed_NoChunkExceedsMaxSize(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps. ", 400) // 10800 bytes, no paragraph breaks
	chunks, err := Chunk(text, StrategyFixed, Options{MaxSize: 2000, Overlap: 50})
	require.NoError(t, err)
	require.True(t, len(chunks) >= 5 && len(chunks) <= 6, "expected 5-6 chunks, got %d", len(chunks))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 2000)
	}
}

func TestChunk_Fixed_ReChunkReproducesCountWithinOne(t *testing.T) {
	text := strings.Repeat("Alpha beta gamma delta epsilon zeta. ", 300)
	first, err := Chunk(text, StrategyFixed, Options{MaxSize: 1500})
	require.NoError(t, err)

	reconstructed := Reconstruct(first, Options{MaxSize: 1500})
	second, err := Chunk(reconstructed, StrategyFixed, Options{MaxSize: 1500})
	require.NoError(t, err)

	diff := len(first) - len(second)
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, 1)
}

func TestChunk_Paragraph_TinyMaxSizeFallsBackToFixed(t *testing.T) {
	chunks, err := Chunk("one two three", StrategyParagraph, Options{MaxSize: 5})
	require.NoError(t, err)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 5)
	}
}
