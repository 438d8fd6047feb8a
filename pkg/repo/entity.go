package repo

import (
	"context"
	"time"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/entity"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateEntity persists a newly-committed character or location.
func (r *Repo) CreateEntity(ctx context.Context, e models.Entity, createdAt time.Time) (models.Entity, error) {
	var row *ent.Entity
	err := r.withRetry(ctx, func(ctx context.Context) error {
		var err error
		row, err = r.Client.Entity.Create().
			SetID(e.ID).
			SetWorkID(e.WorkID).
			SetName(e.Name).
			SetKind(entity.Kind(e.Kind)).
			SetDescription(e.Description).
			SetAliases(e.Aliases).
			SetFirstAppearanceChapter(e.FirstAppearanceChap).
			SetActive(e.Active).
			SetCreatedAt(createdAt).
			Save(ctx)
		return err
	})
	if err != nil {
		return models.Entity{}, wrapf("create entity", err)
	}
	return entityFromEnt(row), nil
}

// GetEntity loads an Entity by id.
func (r *Repo) GetEntity(ctx context.Context, id string) (models.Entity, error) {
	row, err := r.Client.Entity.Get(ctx, id)
	if err != nil {
		return models.Entity{}, wrapf("get entity", err)
	}
	return entityFromEnt(row), nil
}

// ListEntitiesByWork returns every entity tracked for a work, active and
// inactive alike; callers filter by Active when they need only the live
// set.
func (r *Repo) ListEntitiesByWork(ctx context.Context, workID string) ([]models.Entity, error) {
	rows, err := r.Client.Entity.Query().
		Where(entity.WorkIDEQ(workID)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list entities", err)
	}
	out := make([]models.Entity, len(rows))
	for i, row := range rows {
		out[i] = entityFromEnt(row)
	}
	return out, nil
}

// UpdateEntityDescription rewrites an entity's current description, the
// one mutable field on an otherwise immutable record (§4.7).
func (r *Repo) UpdateEntityDescription(ctx context.Context, id, description string) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.Client.Entity.UpdateOneID(id).
			SetDescription(description).
			Exec(ctx)
	})
	return wrapf("update entity description", err)
}

// DeactivateEntity marks an entity inactive, typically after a merge
// folds it into a surviving entity.
func (r *Repo) DeactivateEntity(ctx context.Context, id string) error {
	err := r.Client.Entity.UpdateOneID(id).
		SetActive(false).
		Exec(ctx)
	return wrapf("deactivate entity", err)
}

// AddEntityAlias appends a name to an entity's alias list, typically the
// losing side's name after a merge.
func (r *Repo) AddEntityAlias(ctx context.Context, id, alias string) error {
	row, err := r.Client.Entity.Get(ctx, id)
	if err != nil {
		return wrapf("add entity alias: load", err)
	}
	aliases := append(append([]string{}, row.Aliases...), alias)
	err = r.Client.Entity.UpdateOneID(id).
		SetAliases(aliases).
		Exec(ctx)
	return wrapf("add entity alias", err)
}

func entityFromEnt(row *ent.Entity) models.Entity {
	return models.Entity{
		ID:                  row.ID,
		WorkID:              row.WorkID,
		Name:                row.Name,
		Kind:                models.EntityKind(row.Kind),
		Description:         row.Description,
		Aliases:             row.Aliases,
		FirstAppearanceChap: row.FirstAppearanceChapter,
		Active:              row.Active,
	}
}
