package galaxy

import (
	"time"

	"github.com/google/uuid"

	"starmap-server/internal/worldgen"
)

// Galaxy is a generated galaxy. It implements rules.Galaxy.
type Galaxy struct {
	Seed    int32             `json:"seed"`
	Desc    worldgen.GameDesc `json:"-"`
	Systems []*StarSystem     `json:"stars"`

	// Regenerations counts star rebuilds triggered by rules.
	Regenerations int `json:"regenerations"`
}

// StarSystem is one star and its planets, in generation order.
type StarSystem struct {
	Star    *worldgen.Star     `json:"star"`
	Planets []*worldgen.Planet `json:"planets"`

	spec    worldgen.StarSpec
	themes  worldgen.ThemeSet
	attempt int
}

func (g *Galaxy) StarCount() int {
	return len(g.Systems)
}

func (g *Galaxy) Star(index int) *worldgen.Star {
	return g.Systems[index].Star
}

func (g *Galaxy) Planets(index int) []*worldgen.Planet {
	return g.Systems[index].Planets
}

func (g *Galaxy) PlanetCount() int {
	n := 0
	for _, s := range g.Systems {
		n += len(s.Planets)
	}
	return n
}

func (s *StarSystem) oceanCount() int {
	n := 0
	for _, p := range s.Planets {
		if p.Type == worldgen.PlanetTypeOcean {
			n++
		}
	}
	return n
}

// Record is the persisted summary of a generation run.
type Record struct {
	ID                 uuid.UUID `json:"id"`
	Seed               int32     `json:"seed"`
	StarCount          int       `json:"star_count"`
	ResourceMultiplier float32   `json:"resource_multiplier"`
	PlanetCount        int       `json:"planet_count"`
	Regenerations      int       `json:"regenerations"`
	RuleKinds          []string  `json:"rule_kinds"`
	Digest             string    `json:"digest"`
	CreatedBy          string    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
}
