package repositories

import (
	"context"
	"errors"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
)

// PatternRepository handles lighting pattern data access.
type PatternRepository struct {
	db *gorm.DB
}

// NewPatternRepository creates a new PatternRepository.
func NewPatternRepository(db *gorm.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

// FindAll returns all patterns ordered by name.
func (r *PatternRepository) FindAll(ctx context.Context) ([]models.LightingPattern, error) {
	var patterns []models.LightingPattern
	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&patterns)
	return patterns, result.Error
}

// UpsertByName inserts or replaces patterns keyed by name in one transaction.
func (r *PatternRepository) UpsertByName(ctx context.Context, patterns []models.LightingPattern) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range patterns {
			p := &patterns[i]
			var existing models.LightingPattern
			err := tx.First(&existing, "name = ?", p.Name).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if p.ID == "" {
					p.ID = cuid.New()
				}
				if err := tx.Create(p).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				p.ID = existing.ID
				p.CreatedAt = existing.CreatedAt
				if err := tx.Save(p).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
