package patterns

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-mcp/internal/database/repositories"
	"github.com/bbernstein/lacylights-mcp/internal/services/testutil"
)

// countingEmbedder wraps HashEmbedder and counts calls.
type countingEmbedder struct {
	*HashEmbedder
	calls atomic.Int32
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	c.calls.Add(1)
	return c.HashEmbedder.Embed(ctx, texts)
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	return nil, errors.New("embedding service down")
}
func (failingEmbedder) Name() string { return "failing" }

func newTestStore(t *testing.T, embedder Embedder) (*Store, *testutil.TestDB) {
	t.Helper()
	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	store, err := NewStore(db.PatternRepo, db.SettingRepo, embedder, nil, 8)
	require.NoError(t, err)
	return store, db
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	vecs, err := e.Embed(context.Background(), []string{"stormy night", "Stormy  NIGHT!", ""})
	require.NoError(t, err)

	assert.Len(t, vecs[0], 64)
	assert.Equal(t, vecs[0], vecs[1])
	assert.InDelta(t, 1.0, Cosine(vecs[0], vecs[1]), 1e-9)
	assert.Equal(t, 0.0, Cosine(vecs[0], vecs[2]))

	var norm float64
	for _, x := range vecs[0] {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestCosine_Incomparable(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{1, 0, 0}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-1, 0}), 1e-9)
}

func TestStore_QueryBeforeInit(t *testing.T) {
	store, _ := newTestStore(t, NewHashEmbedder(0))
	_, err := store.Query(context.Background(), "storm", 3)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestStore_InitAndQuery(t *testing.T) {
	store, db := newTestStore(t, NewHashEmbedder(0))
	ctx := context.Background()

	require.NoError(t, store.Init(ctx))
	assert.Equal(t, len(seedPatterns), store.Len())

	version, err := db.SettingRepo.GetInt(ctx, repositories.SettingPatternSeedVersion, 0)
	require.NoError(t, err)
	assert.Equal(t, SeedVersion, version)

	matches, err := store.Query(ctx, "violent thunderstorm with lightning flashes", 3)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Thunderstorm", matches[0].Pattern.Name)
	assert.LessOrEqual(t, len(matches), 3)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	assert.Contains(t, matches[0].Pattern.FixtureTypes, "STROBE")
	assert.NotEmpty(t, matches[0].Pattern.Intensities)
}

func TestStore_SeedIsIdempotent(t *testing.T) {
	embedder := &countingEmbedder{HashEmbedder: NewHashEmbedder(0)}
	store, db := newTestStore(t, embedder)
	ctx := context.Background()

	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Init(ctx))

	rows, err := db.PatternRepo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(seedPatterns))
	assert.Equal(t, int32(1), embedder.calls.Load(), "second Init must not re-embed")
}

func TestStore_QueryCachesEmbeddings(t *testing.T) {
	embedder := &countingEmbedder{HashEmbedder: NewHashEmbedder(0)}
	store, _ := newTestStore(t, embedder)
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))

	before := embedder.calls.Load()
	_, err := store.Query(ctx, "candle light", 2)
	require.NoError(t, err)
	_, err = store.Query(ctx, "  Candle Light ", 2)
	require.NoError(t, err)
	assert.Equal(t, before+1, embedder.calls.Load())
}

func TestStore_EmptyStore(t *testing.T) {
	store, _ := newTestStore(t, NewHashEmbedder(0))
	require.NoError(t, store.Load(context.Background()))

	matches, err := store.Query(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_Add(t *testing.T) {
	store, _ := newTestStore(t, NewHashEmbedder(0))
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	require.NoError(t, store.Add(ctx, Pattern{
		Name:        "Underwater",
		Description: "Rippling aqua water effect beneath the sea",
		Mood:        "mysterious",
		Colors:      []string{"aqua"},
	}))
	assert.Equal(t, 1, store.Len())

	matches, err := store.Query(ctx, "under the sea water", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Underwater", matches[0].Pattern.Name)
}

func TestStore_SeedFailure(t *testing.T) {
	store, _ := newTestStore(t, failingEmbedder{})
	err := store.Init(context.Background())
	assert.Error(t, err)
}
