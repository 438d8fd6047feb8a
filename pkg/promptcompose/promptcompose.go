// Package promptcompose implements the Prompt Composer: assembles scene
// text, resolved entities (with reference weights), style preset,
// technical parameters, and a negative prompt into a single Prompt
// record, and the modification operator that derives new Prompts from
// existing ones.
package promptcompose

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/novelenchant/enchant/pkg/contentpolicy"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

// ErrConflictingModifications marks an ordered modification list that
// cannot be applied unambiguously.
var ErrConflictingModifications = errors.New("promptcompose: conflicting modifications")

// PromptValidationError itemises every assembly-validation failure.
type PromptValidationError struct {
	Issues []string
}

func (e *PromptValidationError) Error() string {
	return fmt.Sprintf("promptcompose: invalid prompt: %s", strings.Join(e.Issues, "; "))
}

var negativeBase = "low quality, blurry, pixelated, distorted, ugly, duplicate, mutated, extra limbs, missing limbs, bad anatomy, bad proportions, malformed, watermark, signature, text, logo"

var technicalModifiers = "high quality, detailed, professional artwork, masterpiece"

// knownStyleKeywords are stripped from prompt text on change_style.
var knownStyleKeywords = []string{
	"photorealistic", "anime", "watercolor", "oil painting", "digital art",
	"comic book", "noir", "pastel", "impressionist", "cyberpunk", "fantasy art",
}

// ResolvedEntity pairs an EntityLink with the entity and its selected
// reference images, as handed to the composer by the caller.
type ResolvedEntity struct {
	Entity     models.Entity
	Link       models.EntityLink
	References []models.EntityReference
}

// ReferenceWeights is the fixed top-3 weighting the reference image
// manager's selection step assigns.
var ReferenceWeights = [3]float64{1.0, 0.8, 0.6}

// Options carries defaults and per-work limits for assembly.
type Options struct {
	MaxPromptLength int
	DefaultWidth    int
	DefaultHeight   int
	DefaultSteps    int
	DefaultCFGScale float64
	DefaultSampler  string
}

func (o Options) withDefaults() Options {
	if o.MaxPromptLength == 0 {
		o.MaxPromptLength = 2000
	}
	if o.DefaultWidth == 0 {
		o.DefaultWidth = 1024
	}
	if o.DefaultHeight == 0 {
		o.DefaultHeight = 1024
	}
	if o.DefaultSteps == 0 {
		o.DefaultSteps = 30
	}
	if o.DefaultCFGScale == 0 {
		o.DefaultCFGScale = 7.0
	}
	if o.DefaultSampler == "" {
		o.DefaultSampler = "euler_a"
	}
	return o
}

// Compose assembles a new Prompt for scene per §4.9's ordered concatenation.
func Compose(scene models.Scene, resolved []ResolvedEntity, style models.StylePreset, customStyle, artisticDirection, priorChapterContext string, chapterOrdinal int, opts Options, newID func() string) (models.Prompt, error) {
	opts = opts.withDefaults()

	var parts []string
	parts = append(parts, sceneClause(scene))

	if chars := characterClause(resolved); chars != "" {
		parts = append(parts, chars)
	}
	if locs := locationClause(resolved); locs != "" {
		parts = append(parts, locs)
	}
	parts = append(parts, styleClause(style, customStyle))
	if artisticDirection != "" {
		parts = append(parts, artisticDirection)
	}
	parts = append(parts, technicalModifiers)

	text := strings.Join(parts, ", ")

	negative := negativeBase
	if style.NegativeExtension != "" {
		negative = negative + ", " + style.NegativeExtension
	}

	technical := overlayTechnical(opts, style.Technical)

	prompt := models.Prompt{
		ID:           newID(),
		SceneID:      scene.ID,
		Text:         text,
		NegativeText: negative,
		StylePreset:  style.Name,
		References:   referenceList(resolved),
		Technical:    technical,
	}

	if err := Validate(prompt, opts); err != nil {
		return models.Prompt{}, err
	}

	return prompt, nil
}

func sceneClause(scene models.Scene) string {
	hint := actionHint(scene.ActionLevel)
	clause := fmt.Sprintf("%s, %s lighting, %s atmosphere", scene.Text, scene.TimeOfDay, scene.EmotionalTone)
	if hint != "" {
		clause += ", " + hint
	}
	return clause
}

func actionHint(level float64) string {
	switch {
	case level >= 0.7:
		return "intense action"
	case level >= 0.3:
		return "dynamic motion"
	default:
		return ""
	}
}

func characterClause(resolved []ResolvedEntity) string {
	var names []string
	for _, r := range resolved {
		if r.Entity.Kind != models.EntityKindCharacter {
			continue
		}
		if r.Link.Mention.IsPronoun {
			continue
		}
		names = append(names, r.Entity.Name)
	}
	if len(names) == 0 {
		return ""
	}
	return "featuring " + strings.Join(names, ", ")
}

func locationClause(resolved []ResolvedEntity) string {
	var names []string
	for _, r := range resolved {
		if r.Entity.Kind != models.EntityKindLocation {
			continue
		}
		names = append(names, r.Entity.Name)
	}
	if len(names) == 0 {
		return ""
	}
	return "set in " + strings.Join(names, ", ")
}

func styleClause(style models.StylePreset, customStyle string) string {
	if customStyle == "" {
		return style.BasePrompt
	}
	return style.BasePrompt + ", " + customStyle
}

func overlayTechnical(opts Options, override models.TechnicalParams) models.TechnicalParams {
	t := models.TechnicalParams{
		Width:    opts.DefaultWidth,
		Height:   opts.DefaultHeight,
		Steps:    opts.DefaultSteps,
		CFGScale: opts.DefaultCFGScale,
		Sampler:  opts.DefaultSampler,
	}
	if override.Width != 0 {
		t.Width = override.Width
	}
	if override.Height != 0 {
		t.Height = override.Height
	}
	if override.Steps != 0 {
		t.Steps = override.Steps
	}
	if override.CFGScale != 0 {
		t.CFGScale = override.CFGScale
	}
	if override.Sampler != "" {
		t.Sampler = override.Sampler
	}
	return t
}

// referenceList takes, per resolved character/location entity, up to its
// top-3 active references weighted {1.0, 0.8, 0.6}.
func referenceList(resolved []ResolvedEntity) []models.PromptReference {
	var out []models.PromptReference
	for _, r := range resolved {
		refs := r.References
		if len(refs) > 3 {
			refs = refs[:3]
		}
		for i, ref := range refs {
			out = append(out, models.PromptReference{
				EntityID:          r.Entity.ID,
				EntityReferenceID: ref.ID,
				ImagePointer:      ref.ImagePointer,
				Weight:            ReferenceWeights[i],
			})
		}
	}
	return out
}

// Validate enforces §4.9's post-assembly checks.
func Validate(p models.Prompt, opts Options) error {
	opts = opts.withDefaults()
	var issues []string

	if len(p.Text) < 10 || len(p.Text) > opts.MaxPromptLength {
		issues = append(issues, fmt.Sprintf("length %d outside [10,%d]", len(p.Text), opts.MaxPromptLength))
	}

	words := textnorm.Words(p.Text)
	if len(words) < 3 {
		issues = append(issues, "word count below 3")
	}

	if len(words) > 0 {
		unique := textnorm.WordSet(p.Text)
		if ratio := float64(len(unique)) / float64(len(words)); ratio < 0.5 {
			issues = append(issues, fmt.Sprintf("unique-word ratio %.2f below 0.5", ratio))
		}
	}

	for _, v := range contentpolicy.Check(p.Text) {
		issues = append(issues, fmt.Sprintf("disallowed content: %s (%q)", v.Category, v.Match))
	}

	if len(issues) > 0 {
		return &PromptValidationError{Issues: issues}
	}
	return nil
}

// Modify derives a new Prompt from parent by applying mods in order.
func Modify(parent models.Prompt, mods []models.Modification, newStyle *models.StylePreset, opts Options, newID func() string) (models.Prompt, error) {
	if err := detectConflicts(mods); err != nil {
		return models.Prompt{}, err
	}

	text := parent.Text
	stylePreset := parent.StylePreset

	for _, mod := range mods {
		switch mod.Kind {
		case models.ModAddElement, models.ModAddDetail:
			text = addElement(text, mod.Value)
		case models.ModRemoveElement, models.ModRemoveDetail:
			text = removeElement(text, mod.Value)
		case models.ModChangeStyle:
			if newStyle != nil {
				text = changeStyle(text, *newStyle)
				stylePreset = newStyle.Name
			}
		case models.ModAdjustLighting, models.ModModifyCharacter, models.ModChangeMood, models.ModAdjustComposition:
			text = addElement(text, mod.Value)
		case models.ModCustom:
			text = applyCustom(text, mod.Value)
		}
	}

	result := models.Prompt{
		ID:             newID(),
		SceneID:        parent.SceneID,
		Text:           text,
		NegativeText:   parent.NegativeText,
		StylePreset:    stylePreset,
		References:     parent.References,
		Technical:      parent.Technical,
		ParentPromptID: parent.ID,
		Modifications:  mods,
	}

	if err := Validate(result, opts); err != nil {
		return models.Prompt{}, err
	}

	return result, nil
}

func detectConflicts(mods []models.Modification) error {
	styleCount, moodCount := 0, 0
	var addRemoveTargets []string

	for _, m := range mods {
		switch m.Kind {
		case models.ModChangeStyle:
			styleCount++
		case models.ModChangeMood:
			moodCount++
		case models.ModAddElement, models.ModRemoveElement, models.ModAddDetail, models.ModRemoveDetail:
			addRemoveTargets = append(addRemoveTargets, strings.ToLower(strings.TrimSpace(m.Value)))
		}
	}

	if styleCount > 1 || moodCount > 1 {
		return ErrConflictingModifications
	}

	seen := make(map[string]struct{})
	for _, t := range addRemoveTargets {
		if _, ok := seen[t]; ok {
			return ErrConflictingModifications
		}
		seen[t] = struct{}{}
	}

	return nil
}

func addElement(text, element string) string {
	if element == "" {
		return text
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(element)) {
		return text
	}
	if text == "" {
		return element
	}
	return text + ", " + element
}

var wordBoundaryVariants = func(element string) []*regexp.Regexp {
	escaped := regexp.QuoteMeta(element)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b` + escaped + `\b`),
	}
}

func removeElement(text, element string) string {
	for _, re := range wordBoundaryVariants(element) {
		text = re.ReplaceAllString(text, "")
	}
	return normalizePunctuation(text)
}

var repeatedCommaPattern = regexp.MustCompile(`,\s*,+`)
var edgeCommaPattern = regexp.MustCompile(`^[,\s]+|[,\s]+$`)
var multiSpacePattern = regexp.MustCompile(`\s{2,}`)

func normalizePunctuation(text string) string {
	text = repeatedCommaPattern.ReplaceAllString(text, ",")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	text = edgeCommaPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func changeStyle(text string, style models.StylePreset) string {
	for _, kw := range knownStyleKeywords {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		text = re.ReplaceAllString(text, "")
	}
	text = normalizePunctuation(text)
	return style.BasePrompt + ", " + text
}

func applyCustom(text, value string) string {
	lower := strings.ToLower(value)
	if strings.Contains(lower, "replace") {
		parts := strings.SplitN(value, "->", 2)
		if len(parts) == 2 {
			target := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), "replace"))
			replacement := strings.TrimSpace(parts[1])
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(target))
			return re.ReplaceAllString(text, replacement)
		}
	}
	return addElement(text, value)
}
