// Package resolver matches candidate mentions against the current entity
// set using exact/alias/partial/fuzzy scoring with contextual boosts.
package resolver

import (
	"regexp"
	"sort"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

// Options tunes the resolver's thresholds. Zero-value Options yields the
// spec's documented defaults via WithDefaults.
type Options struct {
	SimilarityThreshold float64
	MinConfidence       float64
	MaxAlternatives     int
}

// WithDefaults fills any zero fields with the documented default.
func (o Options) WithDefaults() Options {
	if o.SimilarityThreshold == 0 {
		o.SimilarityThreshold = 0.6
	}
	if o.MinConfidence == 0 {
		o.MinConfidence = 0.5
	}
	if o.MaxAlternatives == 0 {
		o.MaxAlternatives = 3
	}
	return o
}

const unresolvedFloor = 0.1

var (
	characterVerbPattern = regexp.MustCompile(`(?i)\b(said|asked|replied|shouted|whispered|walked|ran|smiled|frowned|nodded|grabbed|turned|looked|stared|gasped|sighed|laughed|cried)\b`)
	bodyPartPattern       = regexp.MustCompile(`(?i)\b(hand|hands|eyes|face|arm|arms|leg|legs|hair|shoulder|shoulders|chest|fist|fists)\b`)
	locationPrepAndLexPattern = regexp.MustCompile(`(?i)\b(in|at|to|from|near|within|beyond|castle|tower|forest|village|city|kingdom|palace|temple|mountain|river|lake|sea)\b`)
	properNounShapePattern = regexp.MustCompile(`^[A-Z][a-z]+(\s[A-Z][a-z]+)*$`)
)

type candidate struct {
	entity     models.Entity
	confidence float64
}

// Resolve produces an EntityLink per mention, each link's alternatives and
// confidence derived from scoring every known entity; the returned slice
// is ordered by confidence descending.
func Resolve(mentions []models.Mention, known []models.Entity, opts Options) []models.EntityLink {
	opts = opts.WithDefaults()

	links := make([]models.EntityLink, 0, len(mentions))
	for _, m := range mentions {
		links = append(links, resolveOne(m, known, opts))
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Confidence > links[j].Confidence
	})
	return links
}

func resolveOne(m models.Mention, known []models.Entity, opts Options) models.EntityLink {
	var candidates []candidate
	for _, e := range known {
		base := baseScore(m.Text, e, opts)
		if base <= 0 {
			continue
		}
		conf := textnorm.Clamp01(base * contextualMultiplier(m, e))
		candidates = append(candidates, candidate{entity: e, confidence: conf})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	link := models.EntityLink{Mention: m}
	if len(candidates) == 0 || candidates[0].confidence < unresolvedFloor {
		link.DisambiguationNote = "no candidate entity met the minimum match floor"
		return link
	}

	best := candidates[0]
	if best.confidence >= opts.MinConfidence {
		link.ResolvedEntityID = best.entity.ID
		link.Confidence = best.confidence
	} else {
		link.Confidence = best.confidence
		link.DisambiguationNote = "best candidate below minimum confidence"
	}

	for i := 1; i < len(candidates) && i <= opts.MaxAlternatives; i++ {
		link.AlternativeEntityIDs = append(link.AlternativeEntityIDs, candidates[i].entity.ID)
	}
	return link
}

// baseScore returns the highest-scoring match basis for mention text
// against a known entity, per §4.4's ordered rule list.
func baseScore(mentionText string, e models.Entity, opts Options) float64 {
	norm := textnorm.Normalize(mentionText)
	if norm == textnorm.Normalize(e.Name) {
		return 1.00
	}
	for _, alias := range e.Aliases {
		if norm == textnorm.Normalize(alias) {
			return 0.95
		}
	}

	sim := textnorm.Similarity(mentionText, e.Name)
	for _, alias := range e.Aliases {
		if s := textnorm.Similarity(mentionText, alias); s > sim {
			sim = s
		}
	}

	if textnorm.ContainsFold(e.Name, mentionText) && sim > 0.7 {
		return sim * 0.80
	}
	if sim >= opts.SimilarityThreshold {
		return sim * 0.70
	}
	return 0
}

func contextualMultiplier(m models.Mention, e models.Entity) float64 {
	mult := 1.0
	sentence := m.Sentence

	if e.Kind == models.EntityKindCharacter && (characterVerbPattern.MatchString(sentence) || bodyPartPattern.MatchString(sentence)) {
		mult *= 1.2
	}
	if e.Kind == models.EntityKindLocation && locationPrepAndLexPattern.MatchString(sentence) {
		mult *= 1.2
	}
	if m.IsPronoun {
		mult *= 0.6
	}
	if properNounShapePattern.MatchString(m.Text) {
		mult *= 1.1
	}
	return mult
}
