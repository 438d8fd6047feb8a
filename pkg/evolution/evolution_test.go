package evolution

import (
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() func() string {
	return func() string { return "rec-1" }
}

func TestTrack_IdenticalDescriptionsEmitNothing(t *testing.T) {
	e := models.Entity{ID: "e1", Description: "A tall ranger in a worn cloak."}
	rec := Track(e, "A tall ranger in a worn cloak.", 2, fixedID())
	assert.Nil(t, rec)
}

func TestTrack_NearIdenticalEmitsMinimalNote(t *testing.T) {
	e := models.Entity{ID: "e1", Description: "A tall ranger in a worn cloak standing quietly."}
	rec := Track(e, "A tall ranger in a worn cloak standing quiet.", 2, fixedID())
	require.NotNil(t, rec)
	assert.False(t, rec.Updated)
	assert.Equal(t, "minimal changes", rec.Note)
	assert.Empty(t, rec.Changes)
}

func TestTrack_AttributeChangeDetected(t *testing.T) {
	e := models.Entity{ID: "e1", Description: "A wounded soldier wearing a tattered tunic, anxious and pale, in the autumn cold of the eastern hills near the old keep."}
	rec := Track(e, "A healed soldier wearing a tattered tunic, confident and pale, in the autumn cold of the eastern hills near the old keep.", 3, fixedID())
	require.NotNil(t, rec)
	assert.True(t, rec.Updated)
	assert.Contains(t, rec.Changes, "physical condition: no longer wounded")
	assert.Contains(t, rec.Changes, "physical condition: now healed")
	assert.Contains(t, rec.Changes, "emotional state: no longer anxious")
	assert.Contains(t, rec.Changes, "emotional state: now confident")
}

func TestTrack_AddedAndRemovedPhrases(t *testing.T) {
	e := models.Entity{ID: "e1", Description: "old description with unique words here present"}
	rec := Track(e, "new description containing entirely different vocabulary phrasing", 1, fixedID())
	require.NotNil(t, rec)
	var sawAdded, sawRemoved bool
	for _, c := range rec.Changes {
		if len(c) > 6 && c[:6] == "added:" {
			sawAdded = true
		}
		if len(c) > 8 && c[:8] == "removed:" {
			sawRemoved = true
		}
	}
	assert.True(t, sawAdded)
	assert.True(t, sawRemoved)
}
