package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
)

// testDB holds the test database.
type testDB struct {
	DB *gorm.DB
}

// setupTestDB creates an in-memory SQLite database for testing repositories.
func setupTestDB(t *testing.T) (*testDB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// Every new connection would get its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}

	return &testDB{DB: db}, cleanup
}

func TestSettingRepository_CRUD(t *testing.T) {
	testDB, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(testDB.DB)
	ctx := context.Background()

	testKey := "test_key_" + cuid.Slug()

	found, err := repo.FindByKey(ctx, testKey)
	if err != nil {
		t.Fatalf("FindByKey failed: %v", err)
	}
	if found != nil {
		t.Error("Expected nil for non-existent setting")
	}

	setting, err := repo.Upsert(ctx, testKey, "test_value")
	if err != nil {
		t.Fatalf("Upsert (create) failed: %v", err)
	}
	if setting.ID == "" {
		t.Error("Expected setting ID to be set")
	}
	if setting.Value != "test_value" {
		t.Errorf("Value mismatch: got %s, want test_value", setting.Value)
	}

	updated, err := repo.Upsert(ctx, testKey, "updated_value")
	if err != nil {
		t.Fatalf("Upsert (update) failed: %v", err)
	}
	if updated.ID != setting.ID {
		t.Error("Expected same ID after update")
	}

	value, err := repo.GetString(ctx, testKey, "default")
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if value != "updated_value" {
		t.Errorf("GetString = %q, want updated_value", value)
	}

	value, _ = repo.GetString(ctx, "missing_"+testKey, "default")
	if value != "default" {
		t.Errorf("GetString on missing key = %q, want default", value)
	}
}

func TestSettingRepository_GetInt(t *testing.T) {
	testDB, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(testDB.DB)
	ctx := context.Background()

	if v, err := repo.GetInt(ctx, SettingPatternSeedVersion, 0); err != nil || v != 0 {
		t.Errorf("GetInt on missing key = %d, %v; want 0, nil", v, err)
	}
	if _, err := repo.Upsert(ctx, SettingPatternSeedVersion, "3"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if v, _ := repo.GetInt(ctx, SettingPatternSeedVersion, 0); v != 3 {
		t.Errorf("GetInt = %d, want 3", v)
	}
	if _, err := repo.Upsert(ctx, SettingPatternSeedVersion, "three"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if v, _ := repo.GetInt(ctx, SettingPatternSeedVersion, 7); v != 7 {
		t.Errorf("GetInt on non-numeric = %d, want default 7", v)
	}
}

func TestPatternRepository_UpsertByName(t *testing.T) {
	testDB, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPatternRepository(testDB.DB)
	ctx := context.Background()

	patterns := []models.LightingPattern{
		{Name: "Sunrise", Mood: "hopeful", Colors: models.EncodeJSON([]string{"amber"})},
		{Name: "Storm", Mood: "tense"},
	}
	if err := repo.UpsertByName(ctx, patterns); err != nil {
		t.Fatalf("UpsertByName failed: %v", err)
	}
	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 patterns, got %d", len(all))
	}
	if all[0].Name != "Storm" || all[1].Name != "Sunrise" {
		t.Errorf("FindAll not ordered by name: %+v", all)
	}
	sunriseID := all[1].ID
	if sunriseID == "" {
		t.Fatal("Expected pattern ID to be assigned")
	}

	again := []models.LightingPattern{{Name: "Sunrise", Mood: "warm"}}
	if err := repo.UpsertByName(ctx, again); err != nil {
		t.Fatalf("second UpsertByName failed: %v", err)
	}
	all, _ = repo.FindAll(ctx)
	if len(all) != 2 {
		t.Fatalf("Expected upsert to keep 2 patterns, got %d", len(all))
	}
	updated := all[1]
	if updated.ID != sunriseID {
		t.Error("Expected upsert to keep the existing id")
	}
	if updated.Mood != "warm" {
		t.Errorf("Mood = %q, want warm", updated.Mood)
	}
}

func TestGenerationRepository(t *testing.T) {
	testDB, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewGenerationRepository(testDB.DB)
	ctx := context.Background()

	errText := "timeout"
	records := []*models.GenerationRecord{
		{Operation: "generate_look", Provider: "openai", ParseOutcome: "direct"},
		{Operation: "generate_look", Provider: "openai", ParseOutcome: "unparsed"},
		{Operation: "generate_cue_sequence", Provider: "gemini", Error: &errText},
	}
	for _, rec := range records {
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rec.ID == "" {
			t.Error("Expected record ID to be assigned")
		}
	}

	recent, err := repo.FindRecent(ctx, "generate_look", 10)
	if err != nil {
		t.Fatalf("FindRecent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("Expected 2 look records, got %d", len(recent))
	}

	limited, _ := repo.FindRecent(ctx, "", 1)
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(limited))
	}

	counts, err := repo.CountByOperation(ctx)
	if err != nil {
		t.Fatalf("CountByOperation failed: %v", err)
	}
	if counts["generate_look"] != 2 || counts["generate_cue_sequence"] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}
}

func TestNewSettingRepository(t *testing.T) {
	testDB, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(testDB.DB)
	if repo == nil {
		t.Fatal("Expected non-nil repository")
	}
	if repo.db != testDB.DB {
		t.Error("Expected db to be set")
	}
}
