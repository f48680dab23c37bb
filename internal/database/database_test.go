package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConnect_InMemory(t *testing.T) {
	cfg := Config{
		URL:         ":memory:",
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer func() { _ = Close(db) }()

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		t.Errorf("Failed to query database: %v", err)
	}
	if result != 1 {
		t.Errorf("Expected 1, got %d", result)
	}
}

func TestConnect_CreatesDirectoryAndMigrates(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "mcp.db")

	db, err := Connect(Config{URL: "file:" + dbPath, MaxIdleConn: 1, MaxOpenConn: 1, Debug: true})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer func() { _ = Close(db) }()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Expected nested directory to be created")
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	for _, table := range []string{"lighting_patterns", "generation_records", "settings"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestIsPostgres(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"postgres://user@localhost/mcp", true},
		{"postgresql://user@localhost/mcp", true},
		{"file:./mcp.db", false},
		{":memory:", false},
	}
	for _, tt := range tests {
		if got := IsPostgres(tt.url); got != tt.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClose_NilDB(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close with nil DB should not error: %v", err)
	}
}
