package repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
)

// Setting keys used by the server.
const (
	// SettingPatternSeedVersion records which built-in pattern set has been seeded.
	SettingPatternSeedVersion = "pattern_seed_version"
	// SettingEmbeddingModel records the embedder that produced stored vectors.
	SettingEmbeddingModel = "pattern_embedding_model"
)

// SettingRepository handles setting data access.
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// FindByKey returns a setting by key, or nil if it does not exist.
func (r *SettingRepository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	result := r.db.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &setting, nil
}

// GetString returns the value for key, or def when the setting is absent.
func (r *SettingRepository) GetString(ctx context.Context, key, def string) (string, error) {
	setting, err := r.FindByKey(ctx, key)
	if err != nil {
		return def, err
	}
	if setting == nil {
		return def, nil
	}
	return setting.Value, nil
}

// GetInt returns the integer value for key, or def when absent or not a number.
func (r *SettingRepository) GetInt(ctx context.Context, key string, def int) (int, error) {
	value, err := r.GetString(ctx, key, "")
	if err != nil || value == "" {
		return def, err
	}
	n, convErr := strconv.Atoi(value)
	if convErr != nil {
		return def, nil
	}
	return n, nil
}

// Upsert creates or updates a setting by key.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	var setting models.Setting

	result := r.db.WithContext(ctx).First(&setting, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = models.Setting{
			ID:    cuid.New(),
			Key:   key,
			Value: value,
		}
		if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	setting.Value = value
	if err := r.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}
