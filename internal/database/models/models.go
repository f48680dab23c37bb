// Package models contains the database model definitions for the pattern
// store, generation history and settings.
package models

import (
	"encoding/json"
	"time"
)

// LightingPattern is a prior lighting-design pattern with its embedding.
// Table: lighting_patterns
type LightingPattern struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;uniqueIndex"`
	Description  string    `gorm:"column:description"`
	Mood         string    `gorm:"column:mood;index"`
	FixtureTypes string    `gorm:"column:fixture_types;default:[]"` // JSON array of fixture types
	Colors       string    `gorm:"column:colors;default:[]"`        // JSON array of color names
	Intensities  string    `gorm:"column:intensities;default:{}"`   // JSON object band -> 0..100
	FocusAreas   string    `gorm:"column:focus_areas;default:[]"`   // JSON array
	Reasoning    string    `gorm:"column:reasoning"`
	Embedding    string    `gorm:"column:embedding;default:[]"` // JSON array of float64
	EmbeddingDim int       `gorm:"column:embedding_dim;default:0"`
	Source       string    `gorm:"column:source;default:seed"` // seed | user
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LightingPattern) TableName() string { return "lighting_patterns" }

// GetFixtureTypes decodes the fixture type list.
func (p *LightingPattern) GetFixtureTypes() []string { return decodeStrings(p.FixtureTypes) }

// GetColors decodes the color list.
func (p *LightingPattern) GetColors() []string { return decodeStrings(p.Colors) }

// GetFocusAreas decodes the focus area list.
func (p *LightingPattern) GetFocusAreas() []string { return decodeStrings(p.FocusAreas) }

// GetIntensities decodes the intensity bands.
func (p *LightingPattern) GetIntensities() map[string]int {
	out := map[string]int{}
	if p.Intensities == "" {
		return out
	}
	if err := json.Unmarshal([]byte(p.Intensities), &out); err != nil {
		return map[string]int{}
	}
	return out
}

// GetEmbedding decodes the embedding vector.
func (p *LightingPattern) GetEmbedding() []float64 {
	var v []float64
	if p.Embedding == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(p.Embedding), &v); err != nil {
		return nil
	}
	return v
}

// GenerationRecord captures one model-backed operation for later review.
// Table: generation_records
type GenerationRecord struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Operation    string    `gorm:"column:operation;index"`
	Provider     string    `gorm:"column:provider"`
	Model        string    `gorm:"column:model"`
	Prompt       string    `gorm:"column:prompt"`
	Output       string    `gorm:"column:output"`
	ParseOutcome string    `gorm:"column:parse_outcome"`
	DurationMs   int64     `gorm:"column:duration_ms"`
	Error        *string   `gorm:"column:error"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (GenerationRecord) TableName() string { return "generation_records" }

// Setting represents a system setting.
// Table: settings
type Setting struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string { return "settings" }

// All returns every model for auto-migration.
func All() []interface{} {
	return []interface{}{&LightingPattern{}, &GenerationRecord{}, &Setting{}}
}

func decodeStrings(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}

// EncodeJSON marshals v for storage in a JSON text column.
func EncodeJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
