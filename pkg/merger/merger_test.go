package merger

import (
	"fmt"
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() NewIDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func TestMerge_ExactDuplicateMerges(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger"}}
	incoming := []models.Entity{{Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger"}}

	results := Merge(incoming, existing, 1, sequentialIDs())
	require.Len(t, results, 1)
	assert.Equal(t, ActionMerge, results[0].Action)
	assert.Equal(t, "e1", results[0].Entity.ID)
}

func TestMerge_DifferentKindSameNameConflicts(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Ashford", Kind: models.EntityKindCharacter, Description: "a stern duke"}}
	incoming := []models.Entity{{Name: "Ashford", Kind: models.EntityKindLocation, Description: "a stern duke"}}

	results := Merge(incoming, existing, 1, sequentialIDs())
	require.Len(t, results, 1)
	assert.Equal(t, ActionConflict, results[0].Action)
	assert.Contains(t, results[0].Entity.Name, "(variant)")
	assert.NotEqual(t, "e1", results[0].Entity.ID)
}

func TestMerge_UnrelatedEntityAdds(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger"}}
	incoming := []models.Entity{{Name: "Westmoor", Kind: models.EntityKindLocation, Description: "a coastal city"}}

	results := Merge(incoming, existing, 1, sequentialIDs())
	require.Len(t, results, 1)
	assert.Equal(t, ActionAdd, results[0].Action)
	assert.Equal(t, "gen-1", results[0].Entity.ID)
}

func TestMerge_AliasUnionDeduplicatesCaseInsensitively(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter, Aliases: []string{"the Ranger"}}}
	incoming := []models.Entity{{Name: "Elara", Kind: models.EntityKindCharacter, Aliases: []string{"THE RANGER", "Windwalker"}}}

	results := Merge(incoming, existing, 1, sequentialIDs())
	require.Len(t, results, 1)
	assert.Len(t, results[0].Entity.Aliases, 2)
}

func TestMerge_StampsFirstAppearanceChapterOnNewEntities(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger", FirstAppearanceChap: 1}}
	incoming := []models.Entity{{Name: "Westmoor", Kind: models.EntityKindLocation, Description: "a coastal city"}}

	results := Merge(incoming, existing, 4, sequentialIDs())
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Entity.FirstAppearanceChap)
}

func TestMerge_KeepsEarliestFirstAppearanceOnMerge(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger", FirstAppearanceChap: 5}}
	incoming := []models.Entity{{Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger seen earlier"}}

	results := Merge(incoming, existing, 2, sequentialIDs())
	require.Len(t, results, 1)
	assert.Equal(t, ActionMerge, results[0].Action)
	assert.Equal(t, 2, results[0].Entity.FirstAppearanceChap)
}

func TestMerge_DeterministicForGivenOrder(t *testing.T) {
	existing := []models.Entity{{ID: "e1", Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger"}}
	incoming := []models.Entity{
		{Name: "Elara", Kind: models.EntityKindCharacter, Description: "a ranger"},
		{Name: "Westmoor", Kind: models.EntityKindLocation, Description: "a city"},
	}

	r1 := Merge(incoming, existing, 1, sequentialIDs())
	r2 := Merge(incoming, existing, 1, sequentialIDs())
	require.Len(t, r1, len(r2))
	for i := range r1 {
		assert.Equal(t, r1[i].Action, r2[i].Action)
	}
}
