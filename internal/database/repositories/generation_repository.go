package repositories

import (
	"context"
	"time"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
)

// GenerationRepository handles generation record data access.
type GenerationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new GenerationRepository.
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a record, assigning an id when empty.
func (r *GenerationRepository) Create(ctx context.Context, record *models.GenerationRecord) error {
	if record.ID == "" {
		record.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindRecent returns the newest records, optionally restricted to one operation.
func (r *GenerationRepository) FindRecent(ctx context.Context, operation string, limit int) ([]models.GenerationRecord, error) {
	var records []models.GenerationRecord
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if operation != "" {
		query = query.Where("operation = ?", operation)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&records)
	return records, result.Error
}

// CountByOperation returns the number of records per operation.
func (r *GenerationRepository) CountByOperation(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Operation string
		Count     int64
	}
	result := r.db.WithContext(ctx).
		Model(&models.GenerationRecord{}).
		Select("operation, COUNT(*) AS count").
		Group("operation").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Operation] = row.Count
	}
	return counts, nil
}

// DeleteOlderThan removes records created before the cutoff.
func (r *GenerationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.GenerationRecord{})
	return result.RowsAffected, result.Error
}
