package galaxy

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/rules"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/worldgen"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[uuid.UUID]*Record{}}
}

func (m *memoryStore) Create(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.CreatedBy == rec.CreatedBy && r.Digest == rec.Digest {
			return errors.Conflictf("duplicate digest %s", rec.Digest)
		}
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errors.NotFoundf("galaxy %s not found", id)
	}
	return rec, nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.CreatedBy != owner {
		return errors.NotFoundf("galaxy %s not found", id)
	}
	delete(m.records, id)
	return nil
}

func newTestService(store Store) *Service {
	defaults := config.GenerationConfig{StarCount: 8, ResourceMultiplier: 1, MaxRetries: 8}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, NewCache(nil, 0), worldgen.DefaultThemeCatalog(), defaults, logger)
}

func TestServiceGenerateUsesCache(t *testing.T) {
	svc := newTestService(newMemoryStore())
	ctx := context.Background()

	first, err := svc.Generate(ctx, GenerateRequest{Seed: 12})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.NotNil(t, first.Galaxy)
	assert.Equal(t, 8, first.Galaxy.StarCount())

	second, err := svc.Generate(ctx, GenerateRequest{Seed: 12, StarCount: 8})
	require.NoError(t, err)
	assert.True(t, second.Cached, "defaults should normalize to the same digest")
	assert.Nil(t, second.Galaxy)
	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, []byte(first.Body), []byte(second.Body))

	var decoded struct {
		Seed  int32             `json:"seed"`
		Stars []json.RawMessage `json:"stars"`
	}
	require.NoError(t, json.Unmarshal(second.Body, &decoded))
	assert.Equal(t, int32(12), decoded.Seed)
	assert.Len(t, decoded.Stars, 8)
}

func TestServiceGenerateValidation(t *testing.T) {
	svc := newTestService(newMemoryStore())
	ctx := context.Background()

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{"too many stars", GenerateRequest{StarCount: 5000}},
		{"negative multiplier", GenerateRequest{ResourceMultiplier: -1}},
		{"null rule", GenerateRequest{Rules: []*rules.Rule{nil}}},
		{"invalid rule", GenerateRequest{Rules: []*rules.Rule{{Kind: rules.KindThemeIDs}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(ctx, tt.req)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
		})
	}
}

func TestServiceGenerateNotConverged(t *testing.T) {
	svc := newTestService(newMemoryStore())
	req := GenerateRequest{
		Seed:  4,
		Rules: []*rules.Rule{{Kind: rules.KindPlanetCount, Condition: rules.Condition{Op: rules.OpGt, Value: 99}}},
	}

	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Equal(t, errors.ErrorTypeUnprocessable, errors.GetType(err))
}

func TestServicePersistLifecycle(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()
	req := GenerateRequest{
		Seed:  21,
		Rules: []*rules.Rule{{Kind: rules.KindPlanetCount, Condition: rules.Condition{Op: rules.OpGte, Value: 1}}},
	}

	rec, err := svc.Persist(ctx, req, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, int32(21), rec.Seed)
	assert.Equal(t, 8, rec.StarCount)
	assert.Equal(t, []string{"planet_count"}, rec.RuleKinds)
	assert.Positive(t, rec.PlanetCount)
	assert.Equal(t, "alice", rec.CreatedBy)

	_, err = svc.Persist(ctx, req, "alice")
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))

	got, err := svc.Get(ctx, rec.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	err = svc.Delete(ctx, rec.ID.String(), "mallory")
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	require.NoError(t, svc.Delete(ctx, rec.ID.String(), "alice"))
	_, err = svc.Get(ctx, rec.ID.String())
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestServiceRejectsMalformedID(t *testing.T) {
	svc := newTestService(newMemoryStore())

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	err = svc.Delete(context.Background(), "not-a-uuid", "alice")
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestServiceDeriveStar(t *testing.T) {
	svc := newTestService(newMemoryStore())

	star, err := svc.DeriveStar(StarRequest{Seed: 55, Index: 3, Spectr: worldgen.SpectrX})
	require.NoError(t, err)
	assert.Equal(t, 3, star.Index)

	again, err := svc.DeriveStar(StarRequest{Seed: 55, Index: 3, Spectr: worldgen.SpectrX})
	require.NoError(t, err)
	assert.Equal(t, star.Luminosity(), again.Luminosity())

	_, err = svc.DeriveStar(StarRequest{Seed: 55, Index: 8})
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}
