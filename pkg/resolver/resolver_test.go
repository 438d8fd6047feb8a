package resolver

import (
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExactNameMatch(t *testing.T) {
	known := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter}}
	mentions := []models.Mention{{Text: "Elara", Sentence: "Elara said nothing."}}

	links := Resolve(mentions, known, Options{})
	require.Len(t, links, 1)
	assert.True(t, links[0].Resolved())
	assert.Equal(t, "e1", links[0].ResolvedEntityID)
	assert.InDelta(t, 1.0, links[0].Confidence, 1e-9)
}

func TestResolve_AliasMatch(t *testing.T) {
	known := []models.Entity{{ID: "e1", Name: "Elara Windthorn", Aliases: []string{"the Ranger"}, Kind: models.EntityKindCharacter}}
	mentions := []models.Mention{{Text: "the Ranger", Sentence: "the Ranger walked on."}}

	links := Resolve(mentions, known, Options{})
	require.Len(t, links, 1)
	assert.True(t, links[0].Resolved())
	// 0.95 alias base × 1.2 character-verb boost ("walked"), clamped to 1.
	assert.InDelta(t, 1.0, links[0].Confidence, 1e-9)
}

func TestResolve_PronounDampened(t *testing.T) {
	known := []models.Entity{{ID: "e1", Name: "She", Kind: models.EntityKindCharacter}}
	mentions := []models.Mention{{Text: "She", Sentence: "She said nothing.", IsPronoun: true}}

	links := Resolve(mentions, known, Options{})
	require.Len(t, links, 1)
	// 1.0 exact base × 1.2 ("said") × 0.6 pronoun × 1.1 capitalised shape.
	assert.InDelta(t, 0.792, links[0].Confidence, 1e-9)
}

func TestResolve_NoCandidateUnresolved(t *testing.T) {
	known := []models.Entity{{ID: "e1", Name: "Zyxelqor", Kind: models.EntityKindCharacter}}
	mentions := []models.Mention{{Text: "Marigold", Sentence: "Marigold walked the field."}}

	links := Resolve(mentions, known, Options{})
	require.Len(t, links, 1)
	assert.False(t, links[0].Resolved())
	assert.NotEmpty(t, links[0].DisambiguationNote)
}

func TestResolve_AlternativesCappedAndOrdered(t *testing.T) {
	known := []models.Entity{
		{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter},
		{ID: "e2", Name: "Elarra", Kind: models.EntityKindCharacter},
		{ID: "e3", Name: "Elaraa", Kind: models.EntityKindCharacter},
		{ID: "e4", Name: "Elaraaa", Kind: models.EntityKindCharacter},
	}
	mentions := []models.Mention{{Text: "Elara", Sentence: "Elara walked on."}}

	links := Resolve(mentions, known, Options{MaxAlternatives: 2})
	require.Len(t, links, 1)
	assert.LessOrEqual(t, len(links[0].AlternativeEntityIDs), 2)
}

func TestResolve_ContextualBoostForCharacterVerb(t *testing.T) {
	known := []models.Entity{{ID: "e1", Name: "Thornewood", Kind: models.EntityKindCharacter}}
	withVerb := []models.Mention{{Text: "Thornwood", Sentence: "Thornwood said softly.", IsProperNoun: true}}
	withoutVerb := []models.Mention{{Text: "Thornwood", Sentence: "Thornwood.", IsProperNoun: true}}

	linksWith := Resolve(withVerb, known, Options{})
	linksWithout := Resolve(withoutVerb, known, Options{})
	require.Len(t, linksWith, 1)
	require.Len(t, linksWithout, 1)
	assert.Greater(t, linksWith[0].Confidence, linksWithout[0].Confidence)
}

func TestResolve_OrderedByConfidenceDescending(t *testing.T) {
	known := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter}}
	mentions := []models.Mention{
		{Text: "Zyx", Sentence: "Zyx walked."},
		{Text: "Elara", Sentence: "Elara walked."},
	}
	links := Resolve(mentions, known, Options{})
	require.Len(t, links, 2)
	assert.GreaterOrEqual(t, links[0].Confidence, links[1].Confidence)
}
