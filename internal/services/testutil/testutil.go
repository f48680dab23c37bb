// Package testutil provides shared test utilities for service tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
	"github.com/bbernstein/lacylights-mcp/internal/database/repositories"
	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// TestDB holds the test database and repositories.
type TestDB struct {
	DB             *gorm.DB
	PatternRepo    *repositories.PatternRepository
	GenerationRepo *repositories.GenerationRepository
	SettingRepo    *repositories.SettingRepository
}

// SetupTestDB creates an in-memory SQLite database for testing.
// It returns a TestDB with all repositories initialized and a cleanup function.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
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
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	testDB := &TestDB{
		DB:             db,
		PatternRepo:    repositories.NewPatternRepository(db),
		GenerationRepo: repositories.NewGenerationRepository(db),
		SettingRepo:    repositories.NewSettingRepository(db),
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}

	return testDB, cleanup
}

// UniqueName generates a unique name for testing.
func UniqueName(prefix string) string {
	return prefix + "-" + cuid.New()[:8]
}

// RGBPar returns a three-channel RGB fixture with the given id and tags.
func RGBPar(id string, tags ...string) lighting.FixtureInstance {
	return lighting.FixtureInstance{
		ID:           id,
		Name:         "Par " + id,
		Manufacturer: "Chauvet",
		Model:        "SlimPAR 56",
		Type:         lighting.FixtureLEDPar,
		ModeName:     "3-channel",
		Channels: []lighting.Channel{
			{Offset: 0, Name: "Red", Type: lighting.ChannelRed, MaxValue: 255},
			{Offset: 1, Name: "Green", Type: lighting.ChannelGreen, MaxValue: 255},
			{Offset: 2, Name: "Blue", Type: lighting.ChannelBlue, MaxValue: 255},
		},
		Universe: 1,
		Tags:     tags,
	}
}

// MovingHead returns a moving head with intensity, pan, tilt and color wheel.
func MovingHead(id string, tags ...string) lighting.FixtureInstance {
	return lighting.FixtureInstance{
		ID:           id,
		Name:         "Mover " + id,
		Manufacturer: "Martin",
		Model:        "MAC 250",
		Type:         lighting.FixtureMovingHead,
		Channels: []lighting.Channel{
			{Offset: 0, Name: "Dimmer", Type: lighting.ChannelIntensity, MaxValue: 255},
			{Offset: 1, Name: "Pan", Type: lighting.ChannelPan, MaxValue: 255},
			{Offset: 2, Name: "Tilt", Type: lighting.ChannelTilt, MaxValue: 255},
			{Offset: 3, Name: "Color", Type: lighting.ChannelColorWheel, MaxValue: 255},
		},
		Universe: 1,
		Tags:     tags,
	}
}

// Dimmer returns a single-channel dimmer.
func Dimmer(id string, tags ...string) lighting.FixtureInstance {
	return lighting.FixtureInstance{
		ID:       id,
		Name:     "Dimmer " + id,
		Type:     lighting.FixtureDimmer,
		Channels: []lighting.Channel{{Offset: 0, Name: "Intensity", Type: lighting.ChannelIntensity, MaxValue: 255}},
		Universe: 1,
		Tags:     tags,
	}
}
