// Package entityextract implements the Entity Extractor: given still-
// unresolved mentions, asks the text model for new entity records.
package entityextract

import (
	"context"
	"strings"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textmodel"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

// NewIDFunc mints a fresh entity id.
type NewIDFunc func() string

// ExtractNew asks the text model for new entity records when unresolved
// mentions remain, then filters the reply to entities that textually
// overlap at least one unresolved mention.
func ExtractNew(ctx context.Context, client textmodel.Client, sceneText string, unresolved []models.Mention, knownMentions []string, newID NewIDFunc) ([]models.Entity, error) {
	if len(unresolved) == 0 {
		return nil, nil
	}

	raw, err := client.ExtractEntities(ctx, sceneText, knownMentions)
	if err != nil {
		return nil, err
	}

	var out []models.Entity
	for _, r := range raw {
		if !overlapsUnresolved(r, unresolved) {
			continue
		}
		out = append(out, models.Entity{
			ID:          newID(),
			Name:        r.Name,
			Kind:        mapKind(r.Kind),
			Description: r.Description,
			Aliases:     r.Aliases,
			Active:      true,
		})
	}
	return out, nil
}

func mapKind(raw string) models.EntityKind {
	if strings.EqualFold(raw, "location") {
		return models.EntityKindLocation
	}
	return models.EntityKindCharacter
}

// overlapsUnresolved reports whether raw's name case-insensitively
// substring-matches (either direction) or alias-exact-matches at least
// one unresolved mention.
func overlapsUnresolved(r textmodel.RawEntity, unresolved []models.Mention) bool {
	for _, m := range unresolved {
		if textnorm.ContainsFold(r.Name, m.Text) {
			return true
		}
		for _, alias := range r.Aliases {
			if textnorm.Normalize(alias) == textnorm.Normalize(m.Text) {
				return true
			}
		}
	}
	return false
}
