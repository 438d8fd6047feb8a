package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates full-text search GIN indexes for PostgreSQL.
// These indexes enable efficient full-text search on chapter and entity
// description text, not covered by ent's own schema indexes.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	// GIN index for chapter text full-text search
	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_chapters_text_gin
		ON chapters USING gin(to_tsvector('english', text))`)
	if err != nil {
		return fmt.Errorf("failed to create chapter text GIN index: %w", err)
	}

	// GIN index for entity description full-text search
	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_entities_description_gin
		ON entities USING gin(to_tsvector('english', COALESCE(description, '')))`)
	if err != nil {
		return fmt.Errorf("failed to create entity description GIN index: %w", err)
	}

	return nil
}
