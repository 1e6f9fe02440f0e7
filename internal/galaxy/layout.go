package galaxy

import (
	"starmap-server/internal/random"
	"starmap-server/internal/worldgen"
)

// slot is one body in a system layout before it is generated. parent is the
// layout position of the planet a moon circles, or -1.
type slot struct {
	parent     int
	orbitIndex int32
	gasGiant   bool
	infoSeed   int32
	genSeed    int32
}

type layoutStream struct {
	rand  *random.Stream
	slots []slot
}

func (l *layoutStream) add(parent int, orbitIndex int32, gasGiant bool) int {
	l.slots = append(l.slots, slot{
		parent:     parent,
		orbitIndex: orbitIndex,
		gasGiant:   gasGiant,
		infoSeed:   l.rand.Next(),
		genSeed:    l.rand.Next(),
	})
	return len(l.slots) - 1
}

// layout decides the orbit slots of a star's planets from its planets seed.
// Moons follow their parent, so visiting slots in order always creates a
// parent before its moons.
func layout(star *worldgen.Star) []slot {
	l := &layoutStream{rand: random.New(star.PlanetsSeed)}

	if star.IsBirth() {
		giant := l.add(-1, 2, true)
		l.add(giant, 1, false)
		l.add(-1, 1, false)
		l.add(-1, 4, l.rand.NextF64() < 0.5)
		return l.slots
	}

	count, gasChance, maxMoons := planetBudget(star.Type, l.rand.NextF64())
	orbit := int32(0)
	for i := 0; i < count; i++ {
		orbit += 1 + int32(l.rand.NextF64()*2)
		if orbit > int32(worldgen.MaxOrbitIndex) {
			break
		}
		gas := orbit >= 3 && l.rand.NextF64() < gasChance
		p := l.add(-1, orbit, gas)
		if !gas {
			continue
		}
		moons := int(l.rand.NextF64() * float64(maxMoons+1))
		for m := 0; m < moons; m++ {
			l.add(p, int32(m+1), false)
		}
	}
	return l.slots
}

// planetBudget returns how many planets a star gets, how likely an outer
// planet is a gas giant and the most moons a giant may carry.
func planetBudget(t worldgen.StarType, u float64) (count int, gasChance float64, maxMoons int) {
	switch t {
	case worldgen.StarTypeGiant:
		return 1 + int(u*3), 0.45, 2
	case worldgen.StarTypeWhiteDwarf, worldgen.StarTypeNeutron:
		return 1 + int(u*2), 0.2, 1
	case worldgen.StarTypeBlackHole:
		return 1, 0, 0
	}
	return 1 + int(u*5), 0.3, 3
}
