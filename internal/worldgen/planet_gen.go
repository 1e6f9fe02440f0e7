package worldgen

import (
	"fmt"
	"math"

	"starmap-server/internal/random"
)

// orbitRadius is the base orbit radius per slot for planets circling the star.
var orbitRadius = [...]float32{
	0.0, 0.4, 0.7, 1.0, 1.4, 1.9, 2.5, 3.3, 4.3, 5.5, 6.9, 8.4, 10.0, 11.7, 13.5, 15.4, 17.5,
}

// MaxOrbitIndex is the highest orbit slot a planet can be placed in.
const MaxOrbitIndex = len(orbitRadius) - 1

// Generator derives stars, planets, gases and veins for one galaxy
// configuration. It holds no per-galaxy mutable state.
type Generator struct {
	Desc    GameDesc
	Catalog *ThemeCatalog
}

func NewGenerator(desc GameDesc, catalog *ThemeCatalog) *Generator {
	if catalog == nil {
		catalog = DefaultThemeCatalog()
	}
	return &Generator{Desc: desc, Catalog: catalog}
}

func (g *Generator) NewStar(spec StarSpec) *Star {
	return NewStar(g.Desc, spec)
}

// ThemeSet holds the theme ids already assigned within one star system.
type ThemeSet map[int32]struct{}

func (s ThemeSet) Has(id int32) bool {
	_, ok := s[id]
	return ok
}

func (s ThemeSet) Add(id int32) {
	s[id] = struct{}{}
}

// PlanetRequest places one planet or moon in a star system.
type PlanetRequest struct {
	Index int32
	// Parent is the planet a moon circles; nil for planets orbiting the star.
	Parent      *Planet
	OrbitAround int32
	OrbitIndex  int32
	Number      int32
	GasGiant    bool
	InfoSeed    int32
	GenSeed     int32
}

// CreatePlanet derives orbit, rotation, classification and theme for one body.
// habitableCount is the galaxy-wide ocean counter and used the system's theme
// set; both are updated in place, so calls for one galaxy must be sequential.
func (g *Generator) CreatePlanet(star *Star, req PlanetRequest, habitableCount *int, used ThemeSet) *Planet {
	if req.OrbitIndex < 0 || int(req.OrbitIndex) > MaxOrbitIndex {
		panic(fmt.Sprintf("worldgen: orbit index %d outside [0, %d]", req.OrbitIndex, MaxOrbitIndex))
	}

	p := newPlanet()
	p.Index = req.Index
	p.Seed = req.GenSeed
	p.InfoSeed = req.InfoSeed
	p.OrbitAround = req.OrbitAround
	p.OrbitIndex = req.OrbitIndex
	p.Number = req.Number
	p.ID = star.AstroID() + req.Index + 1
	p.IsBirth = star.IsBirth() && req.OrbitAround > 0 && req.OrbitIndex == 1

	rand := random.New(req.InfoSeed)
	num3 := rand.NextF64()
	num4 := rand.NextF64()
	num5 := rand.NextF64()
	num6 := rand.NextF64()
	num7 := rand.NextF64()
	num8 := rand.NextF64()
	num9 := rand.NextF64()
	num10 := rand.NextF64()
	num11 := rand.NextF64()
	num12 := rand.NextF64()
	num13 := rand.NextF64()
	num14 := rand.NextF64()
	themeRand := rand.NextF64()
	num15 := rand.NextF64()
	rand.NextF64()
	rand.NextF64()
	rand.NextF64()
	p.ThemeSeed = rand.Next()

	parent := req.Parent
	moon := req.OrbitAround > 0

	a := pow32(1.2, float32(num3*(num4-0.5)*0.5))
	var f1 float32
	if parent != nil {
		spread := float64(a + (1-a)*0.5)
		f1 = float32(((1600.0*float64(req.OrbitIndex)+200.0)*float64(pow32(star.OrbitScaler(), 0.3))*spread +
			float64(parent.RealRadius())) / 40000.0)
	} else {
		b := orbitRadius[req.OrbitIndex] * star.OrbitScaler()
		num16 := float32(float64(a-1)/float64(max(b, 1)) + 1.0)
		f1 = b * num16
	}
	p.OrbitRadius = f1

	p.OrbitInclination = float32(num5*16.0 - 8.0)
	if moon {
		p.OrbitInclination *= 2.2
	}
	p.OrbitLongitude = float32(num6 * 360.0)
	if star.Type == StarTypeNeutron {
		if p.OrbitInclination > 0 {
			p.OrbitInclination += 3
		} else {
			p.OrbitInclination -= 3
		}
	}

	reducedMass := 1.08308421068537e-08
	if !moon {
		reducedMass = 1.35385519905204e-06 * float64(star.Mass())
	}
	r := float64(f1)
	p.OrbitalPeriod = math.Sqrt(39.4784176043574 * r * r * r / reducedMass)
	p.OrbitPhase = float32(num7 * 360.0)

	switch {
	case num15 < 0.0399999991059303:
		p.Obliquity = float32(num8 * (num9 - 0.5) * 39.9)
		if p.Obliquity < 0 {
			p.Obliquity -= 70
		} else {
			p.Obliquity += 70
		}
	case num15 < 0.100000001490116:
		p.Obliquity = float32(num8 * (num9 - 0.5) * 80.0)
		if p.Obliquity < 0 {
			p.Obliquity -= 30
		} else {
			p.Obliquity += 30
		}
	default:
		p.Obliquity = float32(num8 * (num9 - 0.5) * 60.0)
	}

	p.RotationPeriod = num10*num11*1000.0 + 400.0
	if !moon {
		p.RotationPeriod *= float64(pow32(f1, 0.25))
	}
	if req.GasGiant {
		p.RotationPeriod *= 0.200000002980232
	} else {
		switch star.Type {
		case StarTypeWhiteDwarf:
			p.RotationPeriod *= 0.5
		case StarTypeNeutron:
			p.RotationPeriod *= 0.200000002980232
		case StarTypeBlackHole:
			p.RotationPeriod *= 0.150000005960464
		}
	}
	p.RotationPhase = float32(num12 * 360.0)

	p.SunDistance = p.OrbitRadius
	hostPeriod := p.OrbitalPeriod
	if parent != nil {
		p.SunDistance = parent.OrbitRadius
		hostPeriod = parent.OrbitalPeriod
	}

	p.RotationPeriod = 1.0 / (1.0/hostPeriod + 1.0/p.RotationPeriod)
	if !moon && req.OrbitIndex <= 4 && !req.GasGiant {
		switch {
		case num15 > 0.959999978542328:
			p.Obliquity *= 0.01
			p.RotationPeriod = p.OrbitalPeriod
		case num15 > 0.930000007152557:
			p.Obliquity *= 0.1
			p.RotationPeriod = p.OrbitalPeriod * 0.5
		case num15 > 0.899999976158142:
			p.Obliquity *= 0.2
			p.RotationPeriod = p.OrbitalPeriod * 0.25
		}
	}
	if num15 > 0.85 && num15 <= 0.9 {
		p.RotationPeriod = -p.RotationPeriod
	}

	if req.GasGiant {
		p.Type = PlanetTypeGas
		p.Radius = 80
		p.Scale = 10
		p.HabitableBias = 100
	} else {
		g.classify(p, star, req, num13, num14, habitableCount)
	}

	g.setTheme(p, star, used, themeRand)
	return p
}

// classify picks a provisional type from the distance to the habitable zone and
// the remaining habitable budget.
func (g *Generator) classify(p *Planet, star *Star, req PlanetRequest, num13, num14 float64, habitableCount *int) {
	habitableRadius := star.HabitableRadius()

	budget := max(float32(math.Ceil(float64(float32(g.Desc.StarCount)*0.29))), 11)
	remaining := float64(budget) - float64(*habitableCount)
	starsLeft := float32(g.Desc.StarCount - star.Index)

	var num21, f2 float32 = 1000, 1000
	if habitableRadius > 0 && p.SunDistance > 0 {
		f2 = p.SunDistance / habitableRadius
		num21 = float32(math.Abs(float64(ln32(f2))))
	}
	num22 := clamp32(float32(math.Sqrt(float64(habitableRadius))), 1, 2) - 0.04
	a := float32(remaining / float64(starsLeft))
	num24 := clamp32(a+(0.35-a)*0.5, 0.08, 0.8)

	p.HabitableBias = num21 * num22
	p.TemperatureBias = float32(1.20000004768372/float64(f2+0.200000002980232) - 1.0)
	num25 := pow32(clamp32(p.HabitableBias/num24, 0, 1.1), num24*10)

	birthOcean := req.OrbitAround > 0 && req.OrbitIndex == 1 && star.IsBirth()
	switch {
	case (num13 > float64(num25) && !star.IsBirth()) || birthOcean:
		p.Type = PlanetTypeOcean
		*habitableCount++
	case f2 < 0.833333015441895:
		num26 := max(float64(f2)*2.5-0.850000023841858, 0.15)
		if num14 >= num26 {
			p.Type = PlanetTypeVolcano
		} else {
			p.Type = PlanetTypeDesert
		}
	case f2 < 1.20000004768372:
		p.Type = PlanetTypeDesert
	default:
		num27 := 0.899999976158142/float64(f2) - 0.100000001490116
		if num14 >= num27 {
			p.Type = PlanetTypeIce
		} else {
			p.Type = PlanetTypeDesert
		}
	}
}

// setTheme chooses an unused theme matching the planet's type and temperature.
// It falls back to any unused Desert theme and then to any Desert theme, so it
// always assigns one. The chosen theme's type replaces the provisional type.
func (g *Generator) setTheme(p *Planet, star *Star, used ThemeSet, themeRand float64) {
	var unused, candidates []*ThemeProto
	for _, t := range g.Catalog.Themes() {
		if !used.Has(t.ID) {
			unused = append(unused, t)
		}
	}

	for _, t := range unused {
		if themeMatches(t, p, star) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		candidates = desertThemes(unused)
	}
	if len(candidates) == 0 {
		candidates = desertThemes(g.Catalog.Themes())
	}

	n := len(candidates)
	theme := candidates[int(themeRand*float64(n))%n]
	p.Theme = theme
	p.ThemeID = theme.ID
	p.Type = theme.PlanetType
	used.Add(theme.ID)
}

func themeMatches(t *ThemeProto, p *Planet, star *Star) bool {
	if star.IsBirth() && p.Type == PlanetTypeOcean {
		return t.Distribute == DistributeBirth
	}

	var temperatureOK bool
	if math.Abs(float64(t.Temperature)) < 0.5 && t.PlanetType == PlanetTypeDesert {
		temperatureOK = math.Abs(float64(p.TemperatureBias)) < math.Abs(float64(t.Temperature))+0.100000001490116
	} else {
		temperatureOK = float64(t.Temperature)*float64(p.TemperatureBias) >= -0.100000001490116
	}
	if t.PlanetType != p.Type || !temperatureOK {
		return false
	}

	if star.IsBirth() {
		return t.Distribute == DistributeDefault
	}
	return t.Distribute == DistributeDefault || t.Distribute == DistributeInterstellar
}

func desertThemes(themes []*ThemeProto) []*ThemeProto {
	var out []*ThemeProto
	for _, t := range themes {
		if t.PlanetType == PlanetTypeDesert {
			out = append(out, t)
		}
	}
	return out
}

// GenerateGases fills the planet's gas list from its theme, drawing from the
// theme seed stream.
func (g *Generator) GenerateGases(p *Planet, star *Star) {
	coef := g.Desc.GasCoef()
	rand := random.New(p.ThemeSeed)

	p.Gases = make([]Gas, 0, len(p.Theme.GasItems))
	for i, item := range p.Theme.GasItems {
		rate := p.Theme.GasSpeeds[i] * (rand.NextF32()*0.190909147262573 + 0.909090876579285) * coef
		p.Gases = append(p.Gases, Gas{Item: item, Rate: rate * pow32(star.ResourceCoef(), 0.3)})
	}
}
