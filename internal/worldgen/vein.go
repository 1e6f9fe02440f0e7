package worldgen

import (
	"math"

	"starmap-server/internal/random"
)

// Vein describes one resource deposit type on a planet.
type Vein struct {
	Type      VeinType `json:"veinType"`
	MinGroup  int32    `json:"minGroup"`
	MaxGroup  int32    `json:"maxGroup"`
	MinPatch  int32    `json:"minPatch"`
	MaxPatch  int32    `json:"maxPatch"`
	MinAmount int32    `json:"minAmount"`
	MaxAmount int32    `json:"maxAmount"`
}

// veinTables are the per-type working tables, indexed by VeinType.
type veinTables struct {
	spots   [veinTypeMax]int32
	counts  [veinTypeMax]float32
	opacity [veinTypeMax]float32
}

func newVeinTables(t *ThemeProto) *veinTables {
	v := &veinTables{}
	for i := 1; i < int(veinTypeMax); i++ {
		if i-1 < len(t.VeinSpot) {
			v.spots[i] = t.VeinSpot[i-1]
		}
		if i-1 < len(t.VeinCount) {
			v.counts[i] = t.VeinCount[i-1]
		}
		if i-1 < len(t.VeinOpacity) {
			v.opacity[i] = t.VeinOpacity[i-1]
		}
	}
	return v
}

// GenerateVeins derives the planet's deposits from its theme and star. The
// draw order on the planet's seed stream is fixed: six skipped draws, the
// star-type guarantees, then one trial per rare vein.
func (g *Generator) GenerateVeins(p *Planet, star *Star) {
	rand := random.New(p.Seed)
	for range 6 {
		rand.NextF64()
	}

	theme := p.Theme
	tables := newVeinTables(theme)

	addUntil := func(n *int32, threshold float64) {
		for range 11 {
			if rand.NextF64() >= threshold {
				break
			}
			*n++
		}
	}
	guarantee := func(v VeinType, base int32, threshold float64, count, opacity float32) {
		tables.spots[v] += base
		addUntil(&tables.spots[v], threshold)
		tables.counts[v] = count
		tables.opacity[v] = opacity
	}

	var potential float32
	switch star.Type {
	case StarTypeGiant:
		potential = 2.5
	case StarTypeWhiteDwarf:
		guarantee(VeinTypeDiamond, 2, 0.449999988079071, 0.7, 1.0)
		guarantee(VeinTypeFractal, 2, 0.449999988079071, 0.7, 1.0)
		guarantee(VeinTypeGrat, 1, 0.5, 0.7, 0.3)
		potential = 3.5
	case StarTypeNeutron:
		guarantee(VeinTypeMag, 1, 0.649999976158142, 0.7, 0.3)
		potential = 4.5
	case StarTypeBlackHole:
		guarantee(VeinTypeMag, 1, 0.649999976158142, 0.7, 0.3)
		potential = 5.0
	default:
		potential = spectrPotential(star.Spectr())
	}

	f := star.ResourceCoef()
	if p.IsBirth {
		f *= 0.6666667
	} else if g.Desc.IsRareResource() {
		if f > 1 {
			f = pow32(f, 0.8)
		}
		f *= 0.7
	}

	chanceSlot := 1
	if star.IsBirth() {
		chanceSlot = 0
	}
	for i, rare := range theme.RareVeins {
		settings := theme.RareSettings[i*4 : i*4+4]
		chance := 1 - pow32(1-settings[chanceSlot], potential)
		richness := 1 - pow32(1-settings[3], potential)
		if rand.NextF64() < float64(chance) {
			tables.spots[rare]++
			tables.counts[rare] = richness
			tables.opacity[rare] = richness
			addUntil(&tables.spots[rare], float64(settings[2]))
		}
	}

	veins := make([]Vein, 0, veinTypeMax)
	for i := 1; i < int(veinTypeMax); i++ {
		spots := tables.spots[i]
		if spots <= 0 {
			continue
		}
		vt := MustVeinType(i)
		v := Vein{
			Type:     vt,
			MinGroup: spots - 1,
			MaxGroup: spots + 1,
		}

		density := f
		if vt == VeinTypeOil {
			v.MinPatch, v.MaxPatch = 1, 1
			density = pow32(f, 0.5)
		} else {
			v.MinPatch = int32(math.Round(float64(tables.counts[i] * 20)))
			v.MaxPatch = int32(math.Round(float64(tables.counts[i] * 24)))
		}

		amount := max(int32(math.Round(float64(tables.opacity[i]*100000*density))), 20)
		var spread int32 = 15000
		if amount < 16000 {
			spread = int32(math.Floor(float64(float32(amount) * (15.0 / 16.0))))
		}
		v.MinAmount = g.resourceAmount(vt, amount-spread)
		v.MaxAmount = g.resourceAmount(vt, amount+spread)
		veins = append(veins, v)
	}
	p.Veins = veins
}

func spectrPotential(s SpectrType) float32 {
	switch s {
	case SpectrM:
		return 2.5
	case SpectrG:
		return 0.7
	case SpectrF:
		return 0.6
	case SpectrB:
		return 0.4
	case SpectrO:
		return 1.6
	default:
		return 1.0
	}
}

// resourceAmount applies the game's resource settings to a raw amount. The
// result is never below 1.
func (g *Generator) resourceAmount(vt VeinType, amount int32) int32 {
	x := float32(math.Round(float64(float32(amount) * 1.1)))
	switch {
	case vt == VeinTypeOil:
		x *= g.Desc.OilAmountMultiplier()
	case g.Desc.IsInfiniteResource():
		x = 1000000000
	default:
		x *= g.Desc.ResourceMultiplier
	}
	return max(int32(math.Round(float64(x))), 1)
}
