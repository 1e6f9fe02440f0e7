package galaxy

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"starmap-server/internal/random"
	"starmap-server/internal/rules"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/worldgen"
)

// ErrNotConverged is returned when rules keep failing after the retry limit.
var ErrNotConverged = stderrors.New("galaxy generation did not converge")

const DefaultMaxRetries = 64

type Params struct {
	Seed    int32
	Desc    worldgen.GameDesc
	Catalog *worldgen.ThemeCatalog
	Rules   []*rules.Rule
	// MaxRetries bounds both the rebuilds of a single star and the number of
	// bulk evaluation rounds. Zero means DefaultMaxRetries.
	MaxRetries int
}

// session holds the mutable state of one generation run. The habitable counter
// is shared by every system, so systems are built one at a time.
type session struct {
	gen        *worldgen.Generator
	rules      []*rules.Rule
	maxRetries int
	galaxy     *Galaxy
	habitable  int
	logger     *slog.Logger
}

// Generate builds a galaxy and regenerates stars until every rule passes.
func Generate(ctx context.Context, p Params) (*Galaxy, error) {
	logger := slog.With("component", "galaxy_generator", "operation", "generate", "seed", p.Seed)

	if err := p.Desc.Validate(); err != nil {
		return nil, err
	}
	ruleSet := make([]*rules.Rule, len(p.Rules))
	for i, r := range p.Rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		c := *r
		c.Reset()
		ruleSet[i] = &c
	}
	rules.Sort(ruleSet)

	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	gen := worldgen.NewGenerator(p.Desc, p.Catalog)
	specs := assemble(p.Seed, p.Desc.StarCount)
	stars, err := warmStars(ctx, gen, specs)
	if err != nil {
		return nil, err
	}

	s := &session{
		gen:        gen,
		rules:      ruleSet,
		maxRetries: maxRetries,
		galaxy:     &Galaxy{Seed: p.Seed, Desc: p.Desc, Systems: make([]*StarSystem, 0, len(stars))},
		logger:     logger,
	}
	for i, star := range stars {
		sys := &StarSystem{Star: star, spec: specs[i]}
		s.galaxy.Systems = append(s.galaxy.Systems, sys)
		if err := s.build(sys); err != nil {
			return nil, err
		}
	}

	if err := s.settle(ctx); err != nil {
		return nil, err
	}

	logger.Debug("Galaxy generated",
		"stars", s.galaxy.StarCount(),
		"planets", s.galaxy.PlanetCount(),
		"regenerations", s.galaxy.Regenerations,
	)
	return s.galaxy, nil
}

// warmStars derives every star's attributes in parallel. Each star has its own
// stream, so the result does not depend on scheduling.
func warmStars(ctx context.Context, gen *worldgen.Generator, specs []worldgen.StarSpec) ([]*worldgen.Star, error) {
	stars := make([]*worldgen.Star, len(specs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, spec := range specs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			star := gen.NewStar(spec)
			star.Warm()
			stars[i] = star
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return stars, nil
}

// build creates the system's planets, veins and gases, rebuilding the star
// while an incremental rule fails.
func (s *session) build(sys *StarSystem) error {
	for {
		sys.themes = worldgen.ThemeSet{}
		sys.Planets = s.createPlanets(sys)
		if s.passesIncremental(sys) {
			return nil
		}
		if sys.attempt >= s.maxRetries {
			return s.notConverged([]int{sys.Star.Index})
		}
		s.reseed(sys)
	}
}

func (s *session) createPlanets(sys *StarSystem) []*worldgen.Planet {
	slots := layout(sys.Star)
	planets := make([]*worldgen.Planet, 0, len(slots))
	for i, sl := range slots {
		req := worldgen.PlanetRequest{
			Index:      int32(i),
			OrbitIndex: sl.orbitIndex,
			Number:     int32(i + 1),
			GasGiant:   sl.gasGiant,
			InfoSeed:   sl.infoSeed,
			GenSeed:    sl.genSeed,
		}
		if sl.parent >= 0 {
			req.Parent = planets[sl.parent]
			req.OrbitAround = req.Parent.Number
		}
		planets = append(planets, s.gen.CreatePlanet(sys.Star, req, &s.habitable, sys.themes))
	}

	for _, p := range planets {
		s.gen.GenerateVeins(p, sys.Star)
		s.gen.GenerateGases(p, sys.Star)
	}
	return planets
}

func (s *session) passesIncremental(sys *StarSystem) bool {
	for _, r := range s.rules {
		if !r.Incremental() {
			continue
		}
		r.Reset()
		if r.OnPlanetsCreated(sys.Star, sys.Planets) == rules.Fail {
			return false
		}
	}
	return true
}

// reseed replaces the star with one derived from the next seed of its stream.
// Its oceans no longer count against the habitable budget.
func (s *session) reseed(sys *StarSystem) {
	s.habitable -= sys.oceanCount()
	sys.attempt++
	s.galaxy.Regenerations++

	sys.spec.Seed = random.New(sys.spec.Seed).NextSeed()
	sys.Star = s.gen.NewStar(sys.spec)
	sys.Star.Warm()
	sys.Planets = nil
}

// settle runs bulk rules in priority order and rebuilds failing stars until
// a round comes back clean.
func (s *session) settle(ctx context.Context) error {
	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev := rules.NewEvaluation(s.galaxy.StarCount())
		for _, r := range s.rules {
			ev.Mark(r.Evaluate(s.galaxy, ev)...)
		}
		failed := ev.Known()
		if len(failed) == 0 {
			return nil
		}
		if round >= s.maxRetries {
			return s.notConverged(failed)
		}

		s.logger.Debug("Regenerating stars", "round", round, "stars", failed)
		for _, i := range failed {
			sys := s.galaxy.Systems[i]
			s.reseed(sys)
			if err := s.build(sys); err != nil {
				return err
			}
		}
	}
}

func (s *session) notConverged(failed []int) error {
	s.logger.Warn("Rules did not converge", "failing_stars", failed, "max_retries", s.maxRetries)
	return errors.WrapUnprocessable(
		fmt.Sprintf("rules still fail for stars %v after %d retries", failed, s.maxRetries),
		ErrNotConverged,
	)
}
