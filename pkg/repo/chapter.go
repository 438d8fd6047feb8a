package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/chapter"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateChapter persists one immutable Chapter row under a Work.
func (r *Repo) CreateChapter(ctx context.Context, c models.Chapter) (models.Chapter, error) {
	row, err := r.Client.Chapter.Create().
		SetID(c.ID).
		SetWorkID(c.WorkID).
		SetOrdinal(c.Ordinal).
		SetNillableTitle(nonEmpty(c.Title)).
		SetText(c.Text).
		SetWordCount(c.WordCount).
		SetStatus(chapter.Status(c.Status)).
		SetCreatedAt(c.CreatedAt).
		Save(ctx)
	if err != nil {
		return models.Chapter{}, wrapf("create chapter", err)
	}
	return chapterFromEnt(row), nil
}

// GetChapter loads a Chapter by id.
func (r *Repo) GetChapter(ctx context.Context, id string) (models.Chapter, error) {
	row, err := r.Client.Chapter.Get(ctx, id)
	if err != nil {
		return models.Chapter{}, wrapf("get chapter", err)
	}
	return chapterFromEnt(row), nil
}

// ListChaptersByWork returns a Work's chapters ordered by ordinal.
func (r *Repo) ListChaptersByWork(ctx context.Context, workID string) ([]models.Chapter, error) {
	rows, err := r.Client.Chapter.Query().
		Where(chapter.WorkIDEQ(workID)).
		Order(ent.Asc(chapter.FieldOrdinal)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list chapters", err)
	}
	out := make([]models.Chapter, len(rows))
	for i, row := range rows {
		out[i] = chapterFromEnt(row)
	}
	return out, nil
}

// UpdateChapterStatus transitions a Chapter's processing status, optionally
// recording an error message on failure.
func (r *Repo) UpdateChapterStatus(ctx context.Context, id string, status models.ChapterStatus, errMsg string) error {
	update := r.Client.Chapter.UpdateOneID(id).SetStatus(chapter.Status(status))
	if errMsg != "" {
		update = update.SetErrorMessage(errMsg)
	}
	return wrapf("update chapter status", update.Exec(ctx))
}

func chapterFromEnt(row *ent.Chapter) models.Chapter {
	return models.Chapter{
		ID:        row.ID,
		WorkID:    row.WorkID,
		Ordinal:   row.Ordinal,
		Title:     row.Title,
		Text:      row.Text,
		WordCount: row.WordCount,
		Status:    models.ChapterStatus(row.Status),
		ErrorMsg:  row.ErrorMessage,
		CreatedAt: row.CreatedAt,
	}
}
