package rules

import (
	"encoding/json"
	"slices"
	"sort"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/worldgen"
)

// Galaxy is the read-only view rules are evaluated against.
type Galaxy interface {
	StarCount() int
	Star(index int) *worldgen.Star
	Planets(index int) []*worldgen.Planet
}

type Kind string

const (
	KindSpectr         Kind = "spectr"
	KindLuminosity     Kind = "luminosity"
	KindDysonRadius    Kind = "dyson_radius"
	KindPlanetCount    Kind = "planet_count"
	KindSatelliteCount Kind = "satellite_count"
	KindOceanCount     Kind = "ocean_count"
	KindThemeIDs       Kind = "theme_ids"
	KindVeinTypes      Kind = "vein_types"
)

// Outcome is the result of an incremental check.
type Outcome int

const (
	Undecided Outcome = iota
	Pass
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "undecided"
}

type kindSpec struct {
	priority    int
	incremental bool
	check       func(r *Rule, star *worldgen.Star, planets []*worldgen.Planet) bool
	validate    func(r *Rule) error
}

var kinds = map[Kind]kindSpec{
	KindSpectr:         {priority: 5, check: checkSpectr, validate: needSpectr},
	KindLuminosity:     {priority: 10, check: checkLuminosity, validate: needCondition},
	KindDysonRadius:    {priority: 10, check: checkDysonRadius, validate: needCondition},
	KindPlanetCount:    {priority: 30, check: checkPlanetCount, validate: needCondition},
	KindSatelliteCount: {priority: 30, incremental: true, check: checkSatelliteCount, validate: needCondition},
	KindOceanCount:     {priority: 35, incremental: true, check: checkOceanCount, validate: needCondition},
	KindThemeIDs:       {priority: 40, check: checkThemeIDs, validate: needThemeIDs},
	KindVeinTypes:      {priority: 50, check: checkVeinTypes, validate: needVeinTypes},
}

// Rule is a designer constraint on a generated star system. The fields used
// depend on Kind.
type Rule struct {
	Kind         Kind                  `json:"kind"`
	Condition    Condition             `json:"condition"`
	ExcludeGiant bool                  `json:"exclude_giant,omitempty"`
	Spectr       []worldgen.SpectrType `json:"spectr,omitempty"`
	ThemeIDs     []int32               `json:"theme_ids,omitempty"`
	VeinTypes    []worldgen.VeinType   `json:"vein_types,omitempty"`

	evaluated bool
}

func New(kind Kind) (*Rule, error) {
	if _, ok := kinds[kind]; !ok {
		return nil, errors.Validationf("unknown rule kind %q", kind)
	}
	return &Rule{Kind: kind}, nil
}

func (r *Rule) spec() kindSpec {
	s, ok := kinds[r.Kind]
	if !ok {
		panic("rules: unknown kind " + string(r.Kind))
	}
	return s
}

func (r *Rule) Priority() int {
	return r.spec().priority
}

// Incremental reports whether the rule is checked as each star's planets are
// created rather than over the finished galaxy.
func (r *Rule) Incremental() bool {
	return r.spec().incremental
}

func (r *Rule) Validate() error {
	s, ok := kinds[r.Kind]
	if !ok {
		return errors.Validationf("unknown rule kind %q", r.Kind)
	}
	return s.validate(r)
}

// Evaluate returns the indices of stars, among the first ev.Len() and not
// already known bad, that violate the rule. Incremental rules report nothing
// here.
func (r *Rule) Evaluate(g Galaxy, ev *Evaluation) []int {
	s := r.spec()
	if s.incremental {
		return nil
	}
	var failed []int
	n := min(ev.Len(), g.StarCount())
	for i := 0; i < n; i++ {
		if ev.IsKnown(i) {
			continue
		}
		if !s.check(r, g.Star(i), g.Planets(i)) {
			failed = append(failed, i)
		}
	}
	return failed
}

// OnPlanetsCreated checks a star as soon as its planets exist. Bulk rules
// return Undecided.
func (r *Rule) OnPlanetsCreated(star *worldgen.Star, planets []*worldgen.Planet) Outcome {
	s := r.spec()
	if !s.incremental {
		return Undecided
	}
	r.evaluated = true
	if s.check(r, star, planets) {
		return Pass
	}
	return Fail
}

func (r *Rule) IsEvaluated() bool {
	return r.evaluated
}

func (r *Rule) Reset() {
	r.evaluated = false
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	type plain Rule
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.WrapValidation("invalid rule", err)
	}
	*r = Rule(p)
	return r.Validate()
}

// Sort orders rules by ascending priority, keeping declaration order on ties.
func Sort(rs []*Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Priority() < rs[j].Priority()
	})
}

func needCondition(r *Rule) error {
	if r.Condition.Op == "" {
		return errors.Validationf("rule %s: condition is required", r.Kind)
	}
	return r.Condition.Validate()
}

func needSpectr(r *Rule) error {
	if len(r.Spectr) == 0 {
		return errors.Validation("rule spectr: at least one spectral type is required")
	}
	return nil
}

func needThemeIDs(r *Rule) error {
	if len(r.ThemeIDs) == 0 {
		return errors.Validation("rule theme_ids: at least one theme id is required")
	}
	return nil
}

func needVeinTypes(r *Rule) error {
	if len(r.VeinTypes) == 0 {
		return errors.Validation("rule vein_types: at least one vein type is required")
	}
	for _, v := range r.VeinTypes {
		if v == worldgen.VeinTypeNone {
			return errors.Validation("rule vein_types: None is not a vein type")
		}
	}
	return nil
}

func checkSpectr(r *Rule, star *worldgen.Star, _ []*worldgen.Planet) bool {
	return slices.Contains(r.Spectr, star.Spectr())
}

func checkLuminosity(r *Rule, star *worldgen.Star, _ []*worldgen.Planet) bool {
	return r.Condition.Satisfied(float64(star.Luminosity()))
}

func checkDysonRadius(r *Rule, star *worldgen.Star, _ []*worldgen.Planet) bool {
	return r.Condition.Satisfied(float64(star.DysonRadius()))
}

func checkPlanetCount(r *Rule, _ *worldgen.Star, planets []*worldgen.Planet) bool {
	n := 0
	for _, p := range planets {
		if r.ExcludeGiant && p.IsGasGiant() {
			continue
		}
		n++
	}
	return r.Condition.Satisfied(float64(n))
}

func checkSatelliteCount(r *Rule, _ *worldgen.Star, planets []*worldgen.Planet) bool {
	n := 0
	for _, p := range planets {
		if p.IsMoon() {
			n++
		}
	}
	return r.Condition.Satisfied(float64(n))
}

func checkOceanCount(r *Rule, _ *worldgen.Star, planets []*worldgen.Planet) bool {
	n := 0
	for _, p := range planets {
		if p.Type == worldgen.PlanetTypeOcean {
			n++
		}
	}
	return r.Condition.Satisfied(float64(n))
}

func checkThemeIDs(r *Rule, _ *worldgen.Star, planets []*worldgen.Planet) bool {
	for _, p := range planets {
		if slices.Contains(r.ThemeIDs, p.ThemeID) {
			return true
		}
	}
	return false
}

// checkVeinTypes needs veins, so it only makes sense once they have been
// generated.
func checkVeinTypes(r *Rule, _ *worldgen.Star, planets []*worldgen.Planet) bool {
	for _, want := range r.VeinTypes {
		found := false
		for _, p := range planets {
			if slices.ContainsFunc(p.Veins, func(v worldgen.Vein) bool { return v.Type == want }) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
