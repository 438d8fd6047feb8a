package promptcompose

import (
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() func() string { return func() string { return "p-1" } }

func baseScene() models.Scene {
	return models.Scene{
		ID:            "s-1",
		Text:          "The knight crossed the burning courtyard under falling embers",
		TimeOfDay:     models.TimeOfDayDusk,
		EmotionalTone: models.ToneTense,
		ActionLevel:   0.8,
	}
}

func baseStyle() models.StylePreset {
	return models.StylePreset{Name: "fantasy", BasePrompt: "epic fantasy illustration style"}
}

func TestCompose_AssemblesAllClauses(t *testing.T) {
	resolved := []ResolvedEntity{
		{Entity: models.Entity{ID: "e1", Name: "Aldric", Kind: models.EntityKindCharacter}, Link: models.EntityLink{}},
		{Entity: models.Entity{ID: "e2", Name: "Castle Vaun", Kind: models.EntityKindLocation}, Link: models.EntityLink{}},
	}

	p, err := Compose(baseScene(), resolved, baseStyle(), "", "", "", 1, Options{}, fixedID())
	require.NoError(t, err)
	assert.Contains(t, p.Text, "featuring Aldric")
	assert.Contains(t, p.Text, "set in Castle Vaun")
	assert.Contains(t, p.Text, "epic fantasy illustration style")
	assert.Contains(t, p.Text, "high quality, detailed, professional artwork, masterpiece")
	assert.Contains(t, p.NegativeText, "low quality")
}

func TestCompose_OmitsPronounMentionsFromCharacterClause(t *testing.T) {
	resolved := []ResolvedEntity{
		{Entity: models.Entity{ID: "e1", Name: "Aldric", Kind: models.EntityKindCharacter}, Link: models.EntityLink{Mention: models.Mention{IsPronoun: true}}},
	}
	p, err := Compose(baseScene(), resolved, baseStyle(), "", "", "", 1, Options{}, fixedID())
	require.NoError(t, err)
	assert.NotContains(t, p.Text, "featuring")
}

func TestCompose_ReferenceWeightsTopThree(t *testing.T) {
	resolved := []ResolvedEntity{
		{
			Entity: models.Entity{ID: "e1", Name: "Aldric", Kind: models.EntityKindCharacter},
			References: []models.EntityReference{
				{ID: "r1", ImagePointer: "p1"},
				{ID: "r2", ImagePointer: "p2"},
				{ID: "r3", ImagePointer: "p3"},
				{ID: "r4", ImagePointer: "p4"},
			},
		},
	}
	p, err := Compose(baseScene(), resolved, baseStyle(), "", "", "", 1, Options{}, fixedID())
	require.NoError(t, err)
	require.Len(t, p.References, 3)
	assert.Equal(t, 1.0, p.References[0].Weight)
	assert.Equal(t, 0.8, p.References[1].Weight)
	assert.Equal(t, 0.6, p.References[2].Weight)
}

func TestValidate_RejectsTooShortPrompt(t *testing.T) {
	err := Validate(models.Prompt{Text: "too short"}, Options{})
	require.Error(t, err)
	var ve *PromptValidationError
	require.ErrorAs(t, err, &ve)
}

func TestModify_AddElementIsNoOpIfPresent(t *testing.T) {
	parent := models.Prompt{ID: "parent", Text: "a knight stands in a burning courtyard, high quality, detailed, professional artwork, masterpiece"}
	mods := []models.Modification{{Kind: models.ModAddElement, Value: "burning courtyard"}}
	p, err := Modify(parent, mods, nil, Options{}, fixedID())
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(p.Text, "burning courtyard"))
}

func TestModify_ConflictingStyleChangesRejected(t *testing.T) {
	parent := models.Prompt{ID: "parent", Text: "a knight stands in a courtyard, high quality, detailed, professional artwork, masterpiece"}
	mods := []models.Modification{
		{Kind: models.ModChangeStyle, Value: "noir"},
		{Kind: models.ModChangeStyle, Value: "anime"},
	}
	_, err := Modify(parent, mods, nil, Options{}, fixedID())
	require.ErrorIs(t, err, ErrConflictingModifications)
}

func TestModify_RemoveElementStripsWordBoundaryMatch(t *testing.T) {
	parent := models.Prompt{ID: "parent", Text: "a knight stands with a sword, high quality, detailed, professional artwork, masterpiece"}
	mods := []models.Modification{{Kind: models.ModRemoveElement, Value: "sword"}}
	p, err := Modify(parent, mods, nil, Options{}, fixedID())
	require.NoError(t, err)
	assert.NotContains(t, p.Text, "sword")
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
		}
	}
	return count
}
