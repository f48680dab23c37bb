// Package patterns provides the pattern store: prior lighting-design patterns
// with embeddings, persisted in the database and queried by similarity.
package patterns

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
	"github.com/bbernstein/lacylights-mcp/internal/database/repositories"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
)

// ErrNotReady is returned by Query before the store has been loaded.
var ErrNotReady = errors.New("pattern store not initialized")

// Pattern is a prior lighting design.
type Pattern struct {
	ID           string
	Name         string
	Description  string
	Mood         string
	FixtureTypes []string
	Colors       []string
	Intensities  map[string]int
	FocusAreas   []string
	Reasoning    string
}

// Document is the text that represents the pattern in embedding space.
func (p Pattern) Document() string {
	return strings.Join([]string{
		p.Name, p.Description, p.Mood,
		strings.Join(p.Colors, " "),
		strings.Join(p.FocusAreas, " "),
	}, ". ")
}

// Match is a query result.
type Match struct {
	Pattern Pattern
	Score   float64
}

type entry struct {
	pattern Pattern
	vector  []float64
}

// Store holds patterns in memory for similarity search, backed by the database.
type Store struct {
	repo     *repositories.PatternRepository
	settings *repositories.SettingRepository
	embedder Embedder
	cache    *lru.Cache[string, []float64]
	log      *logger.Logger

	mu      sync.RWMutex
	entries []entry
	ready   bool
}

// NewStore creates a Store. cacheSize bounds the query-embedding cache.
func NewStore(repo *repositories.PatternRepository, settings *repositories.SettingRepository, embedder Embedder, log *logger.Logger, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, []float64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		repo:     repo,
		settings: settings,
		embedder: embedder,
		cache:    cache,
		log:      log,
	}, nil
}

// Init seeds the built-in patterns when needed and loads everything into memory.
func (s *Store) Init(ctx context.Context) error {
	if err := s.Seed(ctx); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Seed embeds and stores the built-in patterns unless the current seed version
// was already stored with the current embedder.
func (s *Store) Seed(ctx context.Context) error {
	version, err := s.settings.GetInt(ctx, repositories.SettingPatternSeedVersion, 0)
	if err != nil {
		return fmt.Errorf("failed to read seed version: %w", err)
	}
	model, err := s.settings.GetString(ctx, repositories.SettingEmbeddingModel, "")
	if err != nil {
		return fmt.Errorf("failed to read embedding model: %w", err)
	}
	if version >= SeedVersion && model == s.embedder.Name() {
		return nil
	}

	seeds := SeedPatterns()
	docs := make([]string, len(seeds))
	for i, p := range seeds {
		docs[i] = p.Document()
	}
	vectors, err := s.embedder.Embed(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to embed seed patterns: %w", err)
	}

	rows := make([]models.LightingPattern, len(seeds))
	for i, p := range seeds {
		rows[i] = toModel(p, vectors[i], "seed")
	}
	if err := s.repo.UpsertByName(ctx, rows); err != nil {
		return fmt.Errorf("failed to store seed patterns: %w", err)
	}
	if _, err := s.settings.Upsert(ctx, repositories.SettingPatternSeedVersion, strconv.Itoa(SeedVersion)); err != nil {
		return fmt.Errorf("failed to record seed version: %w", err)
	}
	if _, err := s.settings.Upsert(ctx, repositories.SettingEmbeddingModel, s.embedder.Name()); err != nil {
		return fmt.Errorf("failed to record embedding model: %w", err)
	}

	s.log.Info("🌱 Seeded lighting patterns", logger.Fields{"count": len(rows), "embedder": s.embedder.Name()})
	return nil
}

// Load reads all patterns from the database into memory.
func (s *Store) Load(ctx context.Context) error {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load patterns: %w", err)
	}
	entries := make([]entry, 0, len(rows))
	for i := range rows {
		vec := rows[i].GetEmbedding()
		if len(vec) == 0 {
			continue
		}
		entries = append(entries, entry{pattern: fromModel(&rows[i]), vector: vec})
	}

	s.mu.Lock()
	s.entries = entries
	s.ready = true
	s.mu.Unlock()
	return nil
}

// Add embeds a pattern and stores it.
func (s *Store) Add(ctx context.Context, p Pattern) error {
	vectors, err := s.embedder.Embed(ctx, []string{p.Document()})
	if err != nil {
		return fmt.Errorf("failed to embed pattern: %w", err)
	}
	row := toModel(p, vectors[0], "user")
	if err := s.repo.UpsertByName(ctx, []models.LightingPattern{row}); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Len returns the number of searchable patterns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Query returns up to k patterns most similar to text, best first.
// Ties are broken by name. An empty store returns no matches.
func (s *Store) Query(ctx context.Context, text string, k int) ([]Match, error) {
	s.mu.RLock()
	ready, entries := s.ready, s.entries
	s.mu.RUnlock()

	if !ready {
		return nil, ErrNotReady
	}
	if len(entries) == 0 || k <= 0 {
		return nil, nil
	}

	query, err := s.embed(ctx, text)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		score := Cosine(query, e.vector)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Pattern: e.pattern, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Pattern.Name < matches[j].Pattern.Name
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *Store) embed(ctx context.Context, text string) ([]float64, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector")
	}
	s.cache.Add(key, vectors[0])
	return vectors[0], nil
}

func toModel(p Pattern, vector []float64, source string) models.LightingPattern {
	if p.Intensities == nil {
		p.Intensities = map[string]int{}
	}
	return models.LightingPattern{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Mood:         p.Mood,
		FixtureTypes: models.EncodeJSON(nonNil(p.FixtureTypes)),
		Colors:       models.EncodeJSON(nonNil(p.Colors)),
		Intensities:  models.EncodeJSON(p.Intensities),
		FocusAreas:   models.EncodeJSON(nonNil(p.FocusAreas)),
		Reasoning:    p.Reasoning,
		Embedding:    models.EncodeJSON(vector),
		EmbeddingDim: len(vector),
		Source:       source,
	}
}

func fromModel(m *models.LightingPattern) Pattern {
	return Pattern{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Mood:         m.Mood,
		FixtureTypes: m.GetFixtureTypes(),
		Colors:       m.GetColors(),
		Intensities:  m.GetIntensities(),
		FocusAreas:   m.GetFocusAreas(),
		Reasoning:    m.Reasoning,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
