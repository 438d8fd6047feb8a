// Package evolution computes structured diffs between an entity's prior
// and current description, emitting append-only evolution records.
package evolution

import (
	"fmt"
	"strings"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

const (
	identicalThreshold = 1.0
	minimalThreshold   = 0.95
	sentencePairLow    = 0.5
	sentencePairHigh   = 0.95
	minPhraseLen       = 3
)

// vocabularies are the four closed attribute-change keyword sets.
var vocabularies = map[string][]string{
	"appearance":         {"tall", "short", "slender", "stocky", "scarred", "pale", "tanned", "freckled", "bald", "gaunt", "muscular", "wiry"},
	"clothing":           {"cloak", "armor", "armour", "robe", "tunic", "dress", "boots", "gloves", "hood", "cape", "uniform"},
	"emotional state":    {"anxious", "confident", "grieving", "hopeful", "bitter", "weary", "content", "furious", "calm", "desperate"},
	"physical condition": {"wounded", "healed", "exhausted", "healthy", "ill", "injured", "recovering", "weakened", "scarred"},
}

// vocabOrder fixes iteration order so diffs are deterministic.
var vocabOrder = []string{"appearance", "clothing", "emotional state", "physical condition"}

// Track computes the structured diff between an entity's current
// description and a newly observed one. Returns nil if no record should
// be emitted (identical descriptions, or a non-empty diff never found).
func Track(entity models.Entity, newDescription string, atChapter int, newID func() string) *models.EvolutionRecord {
	oldDesc := entity.Description
	sim := textnorm.Similarity(oldDesc, newDescription)

	if textnorm.Normalize(oldDesc) == textnorm.Normalize(newDescription) {
		return nil
	}

	if sim > minimalThreshold {
		return &models.EvolutionRecord{
			ID:           newID(),
			EntityID:     entity.ID,
			AtChapter:    atChapter,
			PreviousDesc: oldDesc,
			NewDesc:      newDescription,
			Updated:      false,
			Note:         "minimal changes",
		}
	}

	var changes []string
	changes = append(changes, addedPhrases(oldDesc, newDescription)...)
	changes = append(changes, removedPhrases(oldDesc, newDescription)...)
	changes = append(changes, sentenceModifications(oldDesc, newDescription)...)
	changes = append(changes, attributeChanges(oldDesc, newDescription)...)

	if len(changes) == 0 {
		return nil
	}

	return &models.EvolutionRecord{
		ID:           newID(),
		EntityID:     entity.ID,
		AtChapter:    atChapter,
		PreviousDesc: oldDesc,
		NewDesc:      newDescription,
		Changes:      changes,
		Updated:      true,
	}
}

// addedPhrases returns maximal runs of words present in newText absent
// from oldText, each rendered as a phrase longer than minPhraseLen chars.
func addedPhrases(oldText, newText string) []string {
	return phraseDiff(textnorm.WordSet(oldText), textnorm.Words(newText), "added")
}

func removedPhrases(oldText, newText string) []string {
	return phraseDiff(textnorm.WordSet(newText), textnorm.Words(oldText), "removed")
}

func phraseDiff(baseline map[string]struct{}, words []string, label string) []string {
	var out []string
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		phrase := strings.Join(run, " ")
		if len(phrase) > minPhraseLen {
			out = append(out, fmt.Sprintf("%s: %s", label, phrase))
		}
		run = nil
	}

	for _, w := range words {
		if _, present := baseline[w]; present {
			flush()
			continue
		}
		run = append(run, w)
	}
	flush()

	return out
}

func sentenceModifications(oldText, newText string) []string {
	oldSentences := textnorm.Sentences(oldText)
	newSentences := textnorm.Sentences(newText)

	var out []string
	for _, ns := range newSentences {
		bestSim := 0.0
		bestOld := ""
		for _, os := range oldSentences {
			if s := textnorm.Similarity(os, ns); s > bestSim {
				bestSim = s
				bestOld = os
			}
		}
		if bestSim >= sentencePairLow && bestSim <= sentencePairHigh {
			out = append(out, fmt.Sprintf("%q -> %q", bestOld, ns))
		}
	}
	return out
}

func attributeChanges(oldText, newText string) []string {
	oldSet := textnorm.WordSet(oldText)
	newSet := textnorm.WordSet(newText)

	var out []string
	for _, category := range vocabOrder {
		for _, kw := range vocabularies[category] {
			_, inOld := oldSet[kw]
			_, inNew := newSet[kw]
			switch {
			case inOld && !inNew:
				out = append(out, fmt.Sprintf("%s: no longer %s", category, kw))
			case !inOld && inNew:
				out = append(out, fmt.Sprintf("%s: now %s", category, kw))
			}
		}
	}
	return out
}
