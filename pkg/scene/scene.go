// Package scene implements the Scene Extractor: for each chunk, asks the
// text model for visually compelling scenes, filters and normalizes them.
package scene

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textmodel"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

// ErrExtractionFormat surfaces a malformed model reply; not retried.
var ErrExtractionFormat = errors.New("scene: malformed extraction reply")

// minChunkLength below which a chunk is skipped outright.
const minChunkLength = 100

// Options tunes the filtering minima and how many scenes are requested
// per chunk.
type Options struct {
	MinVisualScore float64
	MinImpactScore float64
	MaxScenes      int
}

func (o Options) withDefaults() Options {
	if o.MaxScenes == 0 {
		o.MaxScenes = 5
	}
	return o
}

var timeOfDaySynonyms = map[string]models.TimeOfDay{
	"dawn": models.TimeOfDayDawn, "sunrise": models.TimeOfDayDawn, "daybreak": models.TimeOfDayDawn,
	"morning": models.TimeOfDayMorning, "early morning": models.TimeOfDayMorning,
	"noon": models.TimeOfDayNoon, "midday": models.TimeOfDayNoon,
	"afternoon": models.TimeOfDayAfternoon,
	"dusk": models.TimeOfDayDusk, "twilight": models.TimeOfDayDusk, "sunset": models.TimeOfDayDusk,
	"evening": models.TimeOfDayEvening,
	"night": models.TimeOfDayNight, "midnight": models.TimeOfDayNight, "late night": models.TimeOfDayNight,
}

var emotionalToneSynonyms = map[string]models.EmotionalTone{
	"tense": models.ToneTense, "anxious": models.ToneTense, "suspenseful": models.ToneTense,
	"joyful": models.ToneJoyful, "happy": models.ToneJoyful, "cheerful": models.ToneJoyful,
	"melancholic": models.ToneMelancholic, "sad": models.ToneMelancholic, "sorrowful": models.ToneMelancholic,
	"romantic": models.ToneRomantic, "tender": models.ToneRomantic,
	"ominous": models.ToneOminous, "foreboding": models.ToneOminous, "dread": models.ToneOminous,
	"triumphant": models.ToneTriumphant, "victorious": models.ToneTriumphant,
	"neutral": models.ToneNeutral, "calm": models.ToneNeutral,
	"mysterious": models.ToneMysterious, "eerie": models.ToneMysterious, "enigmatic": models.ToneMysterious,
}

// toneActionBonus is the per-tone bonus applied when computing action_level.
var toneActionBonus = map[models.EmotionalTone]float64{
	models.ToneTense:      0.2,
	models.ToneTriumphant: 0.2,
	models.ToneOminous:    0.1,
}

var actionWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"ran", "run", "running", "fought", "fight", "fighting", "struck", "strike", "striking",
		"leapt", "leap", "jumped", "jump", "charged", "charge", "charging", "fled", "flee", "fleeing",
		"chased", "chase", "chasing", "clashed", "clash", "slashed", "slash", "dodged", "dodge",
		"threw", "throw", "hurled", "grabbed", "grab", "seized", "punched", "punch", "kicked", "kick",
		"sprinted", "sprint", "wrestled", "wrestle", "exploded", "explode", "collapsed", "collapse",
		"slammed", "slam", "crashed", "crash",
	} {
		actionWords[w] = struct{}{}
	}
}

// Extract runs the Scene Extractor contract for one chunk.
func Extract(ctx context.Context, client textmodel.Client, chunkText string, workCtx textmodel.WorkContext, opts Options) ([]models.Scene, error) {
	opts = opts.withDefaults()

	if len(strings.TrimSpace(chunkText)) < minChunkLength {
		return nil, nil
	}

	raw, err := client.ExtractScenes(ctx, chunkText, workCtx, opts.MaxScenes)
	if err != nil {
		if errors.Is(err, textmodel.ErrExtractionFormat) {
			return nil, fmt.Errorf("%w: %v", ErrExtractionFormat, err)
		}
		return nil, err
	}

	scenes := make([]models.Scene, 0, len(raw))
	for i, r := range raw {
		s := normalize(r, i)
		if s.VisualScore < opts.MinVisualScore || s.ImpactScore < opts.MinImpactScore {
			continue
		}
		scenes = append(scenes, s)
	}

	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].ImpactScore > scenes[j].ImpactScore
	})

	return scenes, nil
}

func normalize(r textmodel.RawScene, index int) models.Scene {
	tone := mapTone(r.EmotionalTone)
	return models.Scene{
		SceneIndex:    index,
		Text:          r.Text,
		Summary:       r.Summary,
		VisualScore:   textnorm.Clamp01(r.VisualScore),
		ImpactScore:   textnorm.Clamp01(r.ImpactScore),
		TimeOfDay:     mapTimeOfDay(r.TimeOfDay),
		EmotionalTone: tone,
		ActionLevel:   computeActionLevel(r.Text, tone, r.DialogueRatio),
	}
}

func mapTimeOfDay(raw string) models.TimeOfDay {
	if tod, ok := timeOfDaySynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return tod
	}
	return models.TimeOfDayUnknown
}

func mapTone(raw string) models.EmotionalTone {
	if tone, ok := emotionalToneSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return tone
	}
	return models.ToneNeutral
}

func computeActionLevel(text string, tone models.EmotionalTone, dialogueRatio float64) float64 {
	words := textnorm.Words(text)
	count := 0
	for _, w := range words {
		if _, ok := actionWords[w]; ok {
			count++
		}
	}

	level := 0.1*float64(count) + toneActionBonus[tone]
	if dialogueRatio > 0.1 {
		level -= 0.1
	}
	return textnorm.Clamp01(level)
}
