// Package pipeline implements the Chapter Pipeline: the per-chapter
// orchestrator that wires chunking, scene extraction, mention finding,
// entity resolution/extraction/merging, reference image management,
// prompt composition, image generation and quality assessment into one
// ordered run (§4.12).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/novelenchant/enchant/pkg/chunk"
	"github.com/novelenchant/enchant/pkg/entityextract"
	"github.com/novelenchant/enchant/pkg/evolution"
	"github.com/novelenchant/enchant/pkg/imagegen"
	"github.com/novelenchant/enchant/pkg/imagemodel"
	"github.com/novelenchant/enchant/pkg/mention"
	"github.com/novelenchant/enchant/pkg/merger"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/promptcompose"
	"github.com/novelenchant/enchant/pkg/quality"
	"github.com/novelenchant/enchant/pkg/reference"
	"github.com/novelenchant/enchant/pkg/repo"
	"github.com/novelenchant/enchant/pkg/resolver"
	"github.com/novelenchant/enchant/pkg/scene"
	"github.com/novelenchant/enchant/pkg/textmodel"
)

// Config bundles the per-run tuning knobs the pure collaborators expose;
// zero values fall back to each collaborator's own defaults.
type Config struct {
	ChunkStrategy   chunk.Strategy
	ChunkOptions    chunk.Options
	SceneOptions    scene.Options
	ResolverOptions resolver.Options
	PromptOptions   promptcompose.Options
}

// Pipeline processes one chapter at a time; callers (the scheduler) own
// cross-chapter ordering and concurrency.
type Pipeline struct {
	Repo       *repo.Repo
	TextModel  textmodel.Client
	ImageModel imagemodel.Client
	Reference  *reference.Manager
	ImageGen   *imagegen.Generator
	Styles     map[string]models.StylePreset
	Config     Config
	NewID      func() string
	Logger     *slog.Logger
}

// Result summarizes one chapter run for the caller (the scheduler).
type Result struct {
	Chapter models.Chapter
	Scenes  []models.Scene
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) style(work models.Work) models.StylePreset {
	if style, ok := p.Styles[work.StylePreset]; ok {
		return style
	}
	return models.StylePreset{Name: work.StylePreset}
}

// ProcessChapter runs the full §4.12 sequence for one chapter, leaving it
// completed or failed, and never returns a half-committed scene: each
// scene's steps persist as they complete, and a failure past that point
// only affects the scenes not yet reached.
func (p *Pipeline) ProcessChapter(ctx context.Context, chapterID string) (Result, error) {
	chapter, err := p.Repo.GetChapter(ctx, chapterID)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: load chapter: %w", err)
	}
	work, err := p.Repo.GetWork(ctx, chapter.WorkID)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: load work: %w", err)
	}

	if err := p.Repo.UpdateChapterStatus(ctx, chapter.ID, models.ChapterStatusProcessing, ""); err != nil {
		return Result{}, fmt.Errorf("pipeline: mark processing: %w", err)
	}
	chapter.Status = models.ChapterStatusProcessing

	result, runErr := p.run(ctx, work, chapter)

	if runErr != nil {
		if err := p.Repo.UpdateChapterStatus(ctx, chapter.ID, models.ChapterStatusFailed, runErr.Error()); err != nil {
			p.logger().Error("failed to record chapter failure", "chapter_id", chapter.ID, "error", err)
		}
		result.Chapter.Status = models.ChapterStatusFailed
		return result, runErr
	}

	if err := p.Repo.UpdateChapterStatus(ctx, chapter.ID, models.ChapterStatusCompleted, ""); err != nil {
		return result, fmt.Errorf("pipeline: mark completed: %w", err)
	}
	result.Chapter.Status = models.ChapterStatusCompleted
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, work models.Work, chapter models.Chapter) (Result, error) {
	style := p.style(work)

	priorContext, err := p.priorChapterContext(ctx, work, chapter)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: build prior-chapter context: %w", err)
	}

	known, err := p.Repo.ListEntitiesByWork(ctx, work.ID)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: load known entities: %w", err)
	}
	known = activeOnly(known)

	chunks, err := chunk.Chunk(chapter.Text, p.Config.ChunkStrategy, p.Config.ChunkOptions)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: chunk chapter: %w", err)
	}

	workCtx := textmodel.WorkContext{
		Title:           work.Title,
		StylePreset:     work.StylePreset,
		KnownCharacters: namesOfKind(known, models.EntityKindCharacter),
		KnownLocations:  namesOfKind(known, models.EntityKindLocation),
	}

	result := Result{Chapter: chapter}
	sceneIndex := 0

	for _, c := range chunks {
		scenes, err := scene.Extract(ctx, p.TextModel, c.Text, workCtx, p.Config.SceneOptions)
		if err != nil {
			return result, fmt.Errorf("pipeline: extract scenes (chunk %d): %w", c.Index, err)
		}

		for _, s := range scenes {
			s.ChapterID = chapter.ID
			s.ChunkIndex = c.Index
			s.SceneIndex = sceneIndex
			sceneIndex++

			persisted, err := p.Repo.CreateScene(ctx, s)
			if err != nil {
				return result, fmt.Errorf("pipeline: persist scene: %w", err)
			}
			result.Scenes = append(result.Scenes, persisted)

			known, err = p.processScene(ctx, work, chapter, style, persisted, known, priorContext)
			if err != nil {
				return result, fmt.Errorf("pipeline: process scene %s: %w", persisted.ID, err)
			}
		}
	}

	return result, nil
}

// processScene runs steps 5b-5f for one already-persisted scene, returning
// the work's updated known-entity set.
func (p *Pipeline) processScene(
	ctx context.Context,
	work models.Work,
	chapter models.Chapter,
	style models.StylePreset,
	s models.Scene,
	known []models.Entity,
	priorContext string,
) ([]models.Entity, error) {
	mentions := mention.Find(s.Text)
	links := resolver.Resolve(mentions, known, p.Config.ResolverOptions)

	unresolved := unresolvedMentions(links)
	if len(unresolved) > 0 {
		newEntities, err := entityextract.ExtractNew(ctx, p.TextModel, s.Text, unresolved, allMentionNames(known), p.NewID)
		if err != nil {
			return known, fmt.Errorf("extract new entities: %w", err)
		}
		if len(newEntities) > 0 {
			results := merger.Merge(newEntities, known, chapter.Ordinal, p.NewID)
			updated, err := p.persistMergeResults(ctx, chapter.Ordinal, known, results)
			if err != nil {
				return known, fmt.Errorf("persist merged entities: %w", err)
			}
			known = updated
			links = resolver.Resolve(mentions, known, p.Config.ResolverOptions)
		}
	}

	if err := p.persistLinks(ctx, s.ID, links); err != nil {
		return known, fmt.Errorf("persist entity links: %w", err)
	}

	resolvedEntities, err := p.ensureReferences(ctx, chapter.Ordinal, style, known, links)
	if err != nil {
		return known, err
	}

	if err := p.generateSceneImage(ctx, work, chapter, style, s, resolvedEntities, priorContext); err != nil {
		return known, fmt.Errorf("generate scene image: %w", err)
	}

	return known, nil
}

// persistMergeResults writes merger.Merge's outcome (new entities, merged
// descriptions and their evolution records) and returns the refreshed
// known-entity set.
func (p *Pipeline) persistMergeResults(ctx context.Context, atChapter int, known []models.Entity, results []merger.Result) ([]models.Entity, error) {
	byID := make(map[string]models.Entity, len(known))
	order := make([]string, 0, len(known))
	for _, e := range known {
		byID[e.ID] = e
		order = append(order, e.ID)
	}

	for _, res := range results {
		previous, existed := byID[res.Entity.ID]

		switch res.Action {
		case merger.ActionAdd, merger.ActionConflict:
			if res.Entity.FirstAppearanceChap == 0 {
				res.Entity.FirstAppearanceChap = atChapter
			}
			if _, err := p.Repo.CreateEntity(ctx, res.Entity, time.Now()); err != nil {
				return nil, fmt.Errorf("create entity %q: %w", res.Entity.Name, err)
			}
			order = append(order, res.Entity.ID)
		case merger.ActionMerge:
			if existed && previous.Description != res.Entity.Description {
				if err := p.Repo.UpdateEntityDescription(ctx, res.Entity.ID, res.Entity.Description); err != nil {
					return nil, fmt.Errorf("update entity description %q: %w", res.Entity.Name, err)
				}
				if rec := evolution.Track(previous, res.Entity.Description, atChapter, p.NewID); rec != nil {
					rec.CreatedAt = time.Now()
					if _, err := p.Repo.CreateEvolutionRecord(ctx, *rec); err != nil {
						return nil, fmt.Errorf("create evolution record %q: %w", res.Entity.Name, err)
					}
				}
			}
		}
		byID[res.Entity.ID] = res.Entity
	}

	merged := make([]models.Entity, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged, nil
}

func (p *Pipeline) persistLinks(ctx context.Context, sceneID string, links []models.EntityLink) error {
	for _, link := range links {
		if !link.Resolved() {
			continue
		}
		if _, err := p.Repo.CreateEntityLink(ctx, p.NewID(), sceneID, link, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// referenceSlot holds one linked entity's resolved state while
// ensureReferences fills in missing reference images.
type referenceSlot struct {
	entity models.Entity
	link   models.EntityLink
	refs   []models.EntityReference
}

// ensureReferences resolves each linked entity's reference images, calling
// the Reference Image Manager for any resolved entity that lacks an active
// reference in the chapter's style; a failure there is logged and skipped
// rather than failing the scene (§4.12 step 5e). Entities needing a fresh
// reference are generated concurrently, bounded by maxConcurrentReferenceGen,
// since each is an independent round trip to the image model.
func (p *Pipeline) ensureReferences(ctx context.Context, atChapter int, style models.StylePreset, known []models.Entity, links []models.EntityLink) ([]promptcompose.ResolvedEntity, error) {
	byID := make(map[string]models.Entity, len(known))
	for _, e := range known {
		byID[e.ID] = e
	}

	slots := make([]referenceSlot, 0, len(links))
	for _, link := range links {
		if !link.Resolved() {
			continue
		}
		entity, ok := byID[link.ResolvedEntityID]
		if !ok {
			continue
		}

		refs, err := p.Repo.ListActiveReferences(ctx, entity.ID, style.Name)
		if err != nil {
			return nil, fmt.Errorf("list active references for %q: %w", entity.Name, err)
		}
		slots = append(slots, referenceSlot{entity: entity, link: link, refs: refs})
	}

	if p.Reference != nil {
		if err := p.generateMissingReferences(ctx, atChapter, style, slots); err != nil {
			return nil, err
		}
	}

	resolved := make([]promptcompose.ResolvedEntity, len(slots))
	for i, slot := range slots {
		resolved[i] = promptcompose.ResolvedEntity{
			Entity:     slot.entity,
			Link:       slot.link,
			References: reference.Select(slot.refs, style.Name),
		}
	}
	return resolved, nil
}

// maxConcurrentReferenceGen bounds how many reference images this pipeline
// requests from the image model at once for a single chapter's scenes.
const maxConcurrentReferenceGen = 4

// generateMissingReferences fills in slot.refs for every slot that still
// lacks an active reference. Generation runs concurrently across an
// errgroup bounded by maxConcurrentReferenceGen, since each call is an
// independent round trip to the image model; each goroutine writes only
// its own slot index, and persistence happens after the group completes
// so Repo writes aren't interleaved across goroutines.
func (p *Pipeline) generateMissingReferences(ctx context.Context, atChapter int, style models.StylePreset, slots []referenceSlot) error {
	type genResult struct {
		ref models.EntityReference
		err error
	}

	var pending []int
	for i, slot := range slots {
		if len(slot.refs) == 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	generated := make([]genResult, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReferenceGen)

	for i, idx := range pending {
		i, idx := i, idx
		g.Go(func() error {
			ref, err := p.Reference.EnsureReference(gctx, slots[idx].entity, style, atChapter, "", 0)
			generated[i] = genResult{ref: ref, err: err}
			return nil
		})
	}
	// Generation failures are logged and skipped per-entity, not propagated:
	// every goroutine returns nil, so Wait returns nil, and a cancelled ctx
	// surfaces as a per-entity error in the loop below.
	if err := g.Wait(); err != nil {
		return fmt.Errorf("generate reference images: %w", err)
	}

	for i, idx := range pending {
		res := generated[i]
		entity := slots[idx].entity
		if res.err != nil {
			p.logger().Warn("reference image generation failed, scene continues without it",
				"entity_id", entity.ID, "entity_name", entity.Name, "error", res.err)
			continue
		}
		persisted, err := p.Repo.CreateEntityReference(ctx, res.ref)
		if err != nil {
			return fmt.Errorf("persist entity reference for %q: %w", entity.Name, err)
		}
		slots[idx].refs = []models.EntityReference{persisted}
	}
	return nil
}

func (p *Pipeline) generateSceneImage(ctx context.Context, work models.Work, chapter models.Chapter, style models.StylePreset, s models.Scene, resolved []promptcompose.ResolvedEntity, priorContext string) error {
	prompt, err := promptcompose.Compose(s, resolved, style, work.CustomStyle, "", priorContext, chapter.Ordinal, p.Config.PromptOptions, p.NewID)
	if err != nil {
		return fmt.Errorf("compose prompt: %w", err)
	}
	persistedPrompt, err := p.Repo.CreatePrompt(ctx, prompt)
	if err != nil {
		return fmt.Errorf("persist prompt: %w", err)
	}

	img, err := p.ImageGen.Generate(ctx, persistedPrompt, 0, s.ID, false)
	if err != nil {
		return fmt.Errorf("generate image: %w", err)
	}
	if img.Status != models.ImageStatusSuccess {
		p.logger().Warn("image generation did not succeed, scene has no image",
			"scene_id", s.ID, "error_detail", img.ErrorDetail)
		return nil
	}

	report, err := quality.Assess(ctx, p.TextModel, p.NewID, img.ID, img.ImagePointer, persistedPrompt.Text, s.Summary,
		quality.TechnicalMetrics{}, quality.AestheticMetrics{}, quality.SafetyVerdict{Safe: true, Score: 1})
	if err != nil {
		p.logger().Warn("quality assessment failed, image keeps no report", "image_id", img.ID, "error", err)
		return nil
	}
	report.CreatedAt = time.Now()
	if _, err := p.Repo.CreateQualityReport(ctx, report); err != nil {
		return fmt.Errorf("persist quality report: %w", err)
	}
	return nil
}

// priorChapterContext assembles the predecessor chapter's committed scene
// summaries into the style note the Prompt Composer folds in, if a
// predecessor chapter exists (§4.12 step 2).
func (p *Pipeline) priorChapterContext(ctx context.Context, work models.Work, chapter models.Chapter) (string, error) {
	if chapter.Ordinal <= 1 {
		return "", nil
	}

	chapters, err := p.Repo.ListChaptersByWork(ctx, work.ID)
	if err != nil {
		return "", err
	}
	var predecessor *models.Chapter
	for i := range chapters {
		if chapters[i].Ordinal == chapter.Ordinal-1 {
			predecessor = &chapters[i]
			break
		}
	}
	if predecessor == nil || predecessor.Status != models.ChapterStatusCompleted {
		return "", nil
	}

	scenes, err := p.Repo.ListScenesByChapter(ctx, predecessor.ID)
	if err != nil {
		return "", err
	}

	var notes string
	for _, s := range scenes {
		if s.Summary == "" {
			continue
		}
		if notes != "" {
			notes += "; "
		}
		notes += s.Summary
	}
	return notes, nil
}

func activeOnly(entities []models.Entity) []models.Entity {
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

func namesOfKind(entities []models.Entity, kind models.EntityKind) []string {
	var out []string
	for _, e := range entities {
		if e.Kind == kind {
			out = append(out, e.Name)
		}
	}
	return out
}

func allMentionNames(entities []models.Entity) []string {
	var out []string
	for _, e := range entities {
		out = append(out, e.Name)
		out = append(out, e.Aliases...)
	}
	return out
}

func unresolvedMentions(links []models.EntityLink) []models.Mention {
	var out []models.Mention
	for _, link := range links {
		if !link.Resolved() {
			out = append(out, link.Mention)
		}
	}
	return out
}
