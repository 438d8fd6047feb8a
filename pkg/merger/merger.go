// Package merger folds newly extracted entities into an existing set
// under identity, conflict and aliasing rules.
package merger

import (
	"strings"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

// descriptionWeight discounts description-level similarity relative to
// name/alias similarity when searching for a merge candidate.
const descriptionWeight = 0.7

// Action records what Merge decided for one new entity.
type Action string

const (
	ActionMerge    Action = "merge"
	ActionConflict Action = "conflict"
	ActionAdd      Action = "add"
)

// Result pairs a resulting entity with the action taken to produce it.
type Result struct {
	Entity models.Entity
	Action Action
}

// NewIDFunc mints a fresh entity id; injected so callers can supply
// google/uuid (or a deterministic generator in tests).
type NewIDFunc func() string

// Merge folds new_entities into existing_entities in order, returning one
// Result per new entity (the merged, conflicted or added entity and the
// action taken); existing entities left untouched are not returned. atChapter is the ordinal of the chapter being processed;
// it stamps FirstAppearanceChap on entities that don't already carry one,
// so mergeEntities' "keep the earliest first_appearance" rule has a real
// value to compare against. The operation is deterministic for a given
// input ordering.
func Merge(newEntities, existingEntities []models.Entity, atChapter int, newID NewIDFunc) []Result {
	combined := append([]models.Entity(nil), existingEntities...)
	results := make([]Result, 0, len(newEntities))

	for _, ne := range newEntities {
		if ne.FirstAppearanceChap == 0 {
			ne.FirstAppearanceChap = atChapter
		}
		idx, sim := bestCandidate(ne, combined)
		if idx < 0 {
			added := ne
			added.ID = newID()
			combined = append(combined, added)
			results = append(results, Result{Entity: added, Action: ActionAdd})
			continue
		}

		existing := combined[idx]
		sameKind := existing.Kind == ne.Kind
		exactName := textnorm.Normalize(existing.Name) == textnorm.Normalize(ne.Name)

		switch {
		case sim > 0.95 && sameKind:
			merged := mergeEntities(existing, ne)
			combined[idx] = merged
			results = append(results, Result{Entity: merged, Action: ActionMerge})
		case sim > 0.95 && !sameKind:
			conflicted := ne
			conflicted.ID = newID()
			conflicted.Name = ne.Name + " (variant)"
			combined = append(combined, conflicted)
			results = append(results, Result{Entity: conflicted, Action: ActionConflict})
		case sim > 0.8 && exactName && sameKind:
			merged := mergeEntities(existing, ne)
			combined[idx] = merged
			results = append(results, Result{Entity: merged, Action: ActionMerge})
		case sim > 0.8 && exactName && !sameKind:
			conflicted := ne
			conflicted.ID = newID()
			conflicted.Name = ne.Name + " (variant)"
			combined = append(combined, conflicted)
			results = append(results, Result{Entity: conflicted, Action: ActionConflict})
		default:
			added := ne
			added.ID = newID()
			combined = append(combined, added)
			results = append(results, Result{Entity: added, Action: ActionAdd})
		}
	}

	return results
}

// bestCandidate finds the existing entity most similar to ne, scoring at
// name-, alias- and description-level (the latter discounted), and
// returns its index and similarity, or (-1, 0) if combined is empty.
func bestCandidate(ne models.Entity, combined []models.Entity) (int, float64) {
	bestIdx := -1
	bestSim := 0.0

	for i, e := range combined {
		sim := textnorm.Similarity(ne.Name, e.Name)
		for _, alias := range e.Aliases {
			if s := textnorm.Similarity(ne.Name, alias); s > sim {
				sim = s
			}
		}
		for _, alias := range ne.Aliases {
			if s := textnorm.Similarity(alias, e.Name); s > sim {
				sim = s
			}
		}
		if descSim := textnorm.Similarity(ne.Description, e.Description) * descriptionWeight; descSim > sim {
			sim = descSim
		}

		if sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}

	return bestIdx, bestSim
}

// mergeEntities combines an existing entity with a newly matched one per
// §4.6: keep existing id and earliest first_appearance; pick the longer
// description unless the new one adds enough novel vocabulary to warrant
// concatenation; union aliases case-insensitively; widen the name if the
// new one strictly supersedes it.
func mergeEntities(existing, incoming models.Entity) models.Entity {
	merged := existing

	if incoming.FirstAppearanceChap > 0 && incoming.FirstAppearanceChap < merged.FirstAppearanceChap {
		merged.FirstAppearanceChap = incoming.FirstAppearanceChap
	}

	merged.Description = mergeDescription(existing.Description, incoming.Description)
	merged.Aliases = unionAliases(existing.Aliases, incoming.Aliases)
	merged.Name = widenName(existing.Name, incoming.Name)
	merged.Active = existing.Active || incoming.Active

	return merged
}

func mergeDescription(oldDesc, newDesc string) string {
	if newDesc == "" {
		return oldDesc
	}
	if oldDesc == "" {
		return newDesc
	}
	if textnorm.DistinctNewLemmas(oldDesc, newDesc) > 3 {
		return oldDesc + " " + newDesc
	}
	if len(newDesc) > len(oldDesc) {
		return newDesc
	}
	return oldDesc
}

func unionAliases(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := append([]string(nil), existing...)
	for _, a := range existing {
		seen[textnorm.Normalize(a)] = struct{}{}
	}
	for _, a := range incoming {
		key := textnorm.Normalize(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// widenName adopts the incoming name if it strictly contains the existing
// name as a substring and is longer.
func widenName(existingName, incomingName string) string {
	if len(incomingName) > len(existingName) &&
		strings.Contains(strings.ToLower(incomingName), strings.ToLower(existingName)) &&
		!strings.EqualFold(incomingName, existingName) {
		return incomingName
	}
	return existingName
}
