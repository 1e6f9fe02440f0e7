package galaxy

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"starmap-server/internal/metrics"
	"starmap-server/internal/rules"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/worldgen"
)

var validate = validator.New()

// GenerateRequest describes one galaxy. Zero fields take the configured
// defaults.
type GenerateRequest struct {
	Seed               int32         `json:"seed"`
	StarCount          int           `json:"star_count" validate:"omitempty,min=2,max=1024"`
	ResourceMultiplier float32       `json:"resource_multiplier" validate:"omitempty,gt=0"`
	Rules              []*rules.Rule `json:"rules" validate:"max=32"`
}

// Result is an encoded galaxy. Galaxy is nil when the body came from the
// cache.
type Result struct {
	Digest string
	Body   json.RawMessage
	Cached bool
	Galaxy *Galaxy
}

// Store persists generation records.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID, owner string) error
}

type Service struct {
	store    Store
	cache    *Cache
	catalog  *worldgen.ThemeCatalog
	defaults config.GenerationConfig
	logger   *slog.Logger
}

func NewService(store Store, cache *Cache, catalog *worldgen.ThemeCatalog, defaults config.GenerationConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing galaxy service")

	if catalog == nil {
		catalog = worldgen.DefaultThemeCatalog()
	}
	return &Service{
		store:    store,
		cache:    cache,
		catalog:  catalog,
		defaults: defaults,
		logger:   logger,
	}
}

func (s *Service) normalize(req GenerateRequest) (GenerateRequest, error) {
	if req.StarCount == 0 {
		req.StarCount = s.defaults.StarCount
	}
	if req.ResourceMultiplier == 0 {
		req.ResourceMultiplier = float32(s.defaults.ResourceMultiplier)
	}
	if req.Rules == nil {
		req.Rules = []*rules.Rule{}
	}
	if err := validate.Struct(req); err != nil {
		return req, errors.WrapValidation("invalid generation request", err)
	}
	for _, r := range req.Rules {
		if r == nil {
			return req, errors.Validation("rules must not contain null")
		}
		if err := r.Validate(); err != nil {
			return req, err
		}
	}
	return req, nil
}

// Generate returns the encoded galaxy for req, from the cache when possible.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	digest, err := requestDigest(req)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("component", "galaxy_service", "operation", "generate", "seed", req.Seed, "digest", digest)

	if body, ok := s.cache.Get(ctx, digest); ok {
		metrics.ObserveCache(true)
		logger.Debug("Galaxy served from cache")
		return &Result{Digest: digest, Body: body, Cached: true}, nil
	}
	metrics.ObserveCache(false)

	return s.generate(ctx, req, digest, logger)
}

func (s *Service) generate(ctx context.Context, req GenerateRequest, digest string, logger *slog.Logger) (*Result, error) {
	desc := worldgen.DefaultGameDesc(req.StarCount)
	desc.ResourceMultiplier = req.ResourceMultiplier

	start := time.Now()
	g, err := Generate(ctx, Params{
		Seed:       req.Seed,
		Desc:       desc,
		Catalog:    s.catalog,
		Rules:      req.Rules,
		MaxRetries: s.defaults.MaxRetries,
	})
	elapsed := time.Since(start)
	if err != nil {
		result := metrics.ResultError
		if stderrors.Is(err, ErrNotConverged) {
			result = metrics.ResultNotConverged
		}
		metrics.ObserveGeneration(result, elapsed, 0)
		return nil, err
	}
	metrics.ObserveGeneration(metrics.ResultOK, elapsed, g.Regenerations)

	body, err := json.Marshal(g)
	if err != nil {
		return nil, errors.WrapInternal("failed to encode galaxy", err)
	}
	s.cache.Set(ctx, digest, body)

	logger.Info("Galaxy generated",
		"stars", g.StarCount(),
		"planets", g.PlanetCount(),
		"regenerations", g.Regenerations,
		"duration", elapsed,
	)
	return &Result{Digest: digest, Body: body, Galaxy: g}, nil
}

// Persist generates the galaxy and records the run under owner.
func (s *Service) Persist(ctx context.Context, req GenerateRequest, owner string) (*Record, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	digest, err := requestDigest(req)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("component", "galaxy_service", "operation", "persist", "seed", req.Seed, "owner", owner)
	res, err := s.generate(ctx, req, digest, logger)
	if err != nil {
		return nil, err
	}

	kinds := make([]string, len(req.Rules))
	for i, r := range req.Rules {
		kinds[i] = string(r.Kind)
	}

	rec := &Record{
		ID:                 uuid.New(),
		Seed:               req.Seed,
		StarCount:          req.StarCount,
		ResourceMultiplier: req.ResourceMultiplier,
		PlanetCount:        res.Galaxy.PlanetCount(),
		Regenerations:      res.Galaxy.Regenerations,
		RuleKinds:          kinds,
		Digest:             digest,
		CreatedBy:          owner,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.WrapValidation("invalid galaxy id", err)
	}
	return s.store.Get(ctx, runID)
}

func (s *Service) Delete(ctx context.Context, id, owner string) error {
	runID, err := uuid.Parse(id)
	if err != nil {
		return errors.WrapValidation("invalid galaxy id", err)
	}
	return s.store.Delete(ctx, runID, owner)
}

// StarRequest derives a single star outside of any galaxy.
type StarRequest struct {
	Seed      int32
	Index     int
	StarCount int
	Type      worldgen.StarType
	Spectr    worldgen.SpectrType
}

func (s *Service) DeriveStar(req StarRequest) (*worldgen.Star, error) {
	if req.StarCount == 0 {
		req.StarCount = s.defaults.StarCount
	}
	desc := worldgen.DefaultGameDesc(req.StarCount)
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if req.Index < 0 || req.Index >= req.StarCount {
		return nil, errors.Validationf("star index %d outside [0, %d)", req.Index, req.StarCount)
	}

	star := worldgen.NewStar(desc, worldgen.StarSpec{
		Index:      req.Index,
		Seed:       req.Seed,
		Type:       req.Type,
		NeedSpectr: req.Spectr,
	})
	star.Warm()
	return star, nil
}

func requestDigest(req GenerateRequest) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", errors.WrapInternal("failed to encode request", err)
	}
	return Digest(canonical), nil
}
