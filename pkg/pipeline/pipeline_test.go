package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novelenchant/enchant/pkg/models"
)

func TestActiveOnly(t *testing.T) {
	entities := []models.Entity{
		{ID: "1", Name: "Aria", Active: true},
		{ID: "2", Name: "Ghost Town", Active: false},
		{ID: "3", Name: "Bram", Active: true},
	}

	got := activeOnly(entities)

	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestNamesOfKind(t *testing.T) {
	entities := []models.Entity{
		{Name: "Aria", Kind: models.EntityKindCharacter},
		{Name: "The Keep", Kind: models.EntityKindLocation},
		{Name: "Bram", Kind: models.EntityKindCharacter},
	}

	assert.Equal(t, []string{"Aria", "Bram"}, namesOfKind(entities, models.EntityKindCharacter))
	assert.Equal(t, []string{"The Keep"}, namesOfKind(entities, models.EntityKindLocation))
}

func TestAllMentionNames(t *testing.T) {
	entities := []models.Entity{
		{Name: "Aria", Aliases: []string{"the Wanderer"}},
		{Name: "Bram"},
	}

	got := allMentionNames(entities)

	assert.Equal(t, []string{"Aria", "the Wanderer", "Bram"}, got)
}

func TestUnresolvedMentions(t *testing.T) {
	links := []models.EntityLink{
		{Mention: models.Mention{Text: "she"}, ResolvedEntityID: "1"},
		{Mention: models.Mention{Text: "the stranger"}},
	}

	got := unresolvedMentions(links)

	assert.Len(t, got, 1)
	assert.Equal(t, "the stranger", got[0].Text)
}
