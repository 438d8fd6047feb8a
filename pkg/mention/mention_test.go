package mention

import (
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_CharacterCandidate(t *testing.T) {
	mentions := Find("Elara drew her sword and faced the dragon.")
	require.NotEmpty(t, mentions)
	var found bool
	for _, m := range mentions {
		if m.Text == "Elara" {
			found = true
			assert.Equal(t, models.MentionKindCharacter, m.Kind)
			assert.True(t, m.IsProperNoun)
		}
	}
	assert.True(t, found, "expected Elara to be found as a character candidate")
}

func TestFind_TitlePrefix(t *testing.T) {
	mentions := Find("Captain Rourke gave the order.")
	var found bool
	for _, m := range mentions {
		if m.Text == "Captain Rourke" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFind_Pronoun(t *testing.T) {
	mentions := Find("She walked away without looking back.")
	var found bool
	for _, m := range mentions {
		if m.IsPronoun {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFind_Location(t *testing.T) {
	mentions := Find("They traveled to Westmoor before reaching the castle.")
	var hasLocation bool
	for _, m := range mentions {
		if m.Kind == models.MentionKindLocation {
			hasLocation = true
		}
	}
	assert.True(t, hasLocation)
}

func TestFind_StopwordsExcluded(t *testing.T) {
	mentions := Find("The Chapter began on a Monday in Spring.")
	for _, m := range mentions {
		assert.NotEqual(t, "Chapter", m.Text)
		assert.NotEqual(t, "Monday", m.Text)
		assert.NotEqual(t, "Spring", m.Text)
	}
}

func TestFind_DedupBySentenceAndText(t *testing.T) {
	mentions := Find("Elara spoke. Elara spoke again in the same sentence Elara spoke.")
	counts := map[string]int{}
	for _, m := range mentions {
		counts[m.Sentence+"|"+m.Text]++
	}
	for _, c := range counts {
		assert.Equal(t, 1, c)
	}
}

func TestFind_SpanLengthFilter(t *testing.T) {
	mentions := Find("A Xa spoke to Abcdefghijklmnopqrstuvwxyzabcdefghijklmnop.")
	for _, m := range mentions {
		assert.GreaterOrEqual(t, len(m.Text), 2)
		assert.LessOrEqual(t, len(m.Text), 50)
	}
}
