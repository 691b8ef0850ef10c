package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// JoinTable binds a many-to-many field to the explicit model of its join rows.
type JoinTable struct {
	Model any
	Field string
	Join  any
}

// Schema is the set of models and join tables that make up the catalog.
// It is built once at start-up and handed to whatever needs to migrate or
// open a connection.
type Schema struct {
	Models     []any
	JoinTables []JoinTable
}

// NewSchema returns the catalog schema: users, taxonomy, books with their
// author/genre join tables, and reading-list entries.
func NewSchema() *Schema {
	return &Schema{
		Models: []any{
			&entities.User{},
			&entities.Author{},
			&entities.Genre{},
			&entities.Book{},
			&entities.ReadingListEntry{},
		},
		JoinTables: []JoinTable{
			{Model: &entities.Book{}, Field: "Authors", Join: &entities.BookAuthor{}},
			{Model: &entities.Book{}, Field: "Genres", Join: &entities.BookGenre{}},
		},
	}
}

// Register installs the custom join models on db. It must run before any
// query preloads the many-to-many fields.
func (s *Schema) Register(db *gorm.DB) error {
	for _, jt := range s.JoinTables {
		if err := db.SetupJoinTable(jt.Model, jt.Field, jt.Join); err != nil {
			return fmt.Errorf("failed to set up join table for %s: %w", jt.Field, err)
		}
	}
	return nil
}

// Migrate registers the join tables and creates or updates every table.
func (s *Schema) Migrate(db *gorm.DB) error {
	if err := s.Register(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(s.Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return backfillFoldedTitles(db)
}

// backfillFoldedTitles fills title_folded for rows written before the
// column existed.
func backfillFoldedTitles(db *gorm.DB) error {
	var stale []entities.Book
	err := db.Select("id", "title").
		Where("title_folded = '' AND title <> ''").
		FindInBatches(&stale, 500, func(tx *gorm.DB, _ int) error {
			for _, b := range stale {
				err := db.Model(&entities.Book{}).Where("id = ?", b.ID).
					UpdateColumn("title_folded", entities.FoldTitle(b.Title)).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("failed to backfill folded titles: %w", err)
	}
	return nil
}
