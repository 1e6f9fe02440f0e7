package worldgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/random"
)

func newTestGenerator() *Generator {
	return NewGenerator(DefaultGameDesc(64), nil)
}

func TestCreatePlanetIsDeterministic(t *testing.T) {
	g := newTestGenerator()
	star := testStar(4, 2024, StarTypeMainSeq)
	req := PlanetRequest{Index: 0, OrbitIndex: 3, Number: 1, InfoSeed: 11, GenSeed: 12}

	habA, habB := 0, 0
	a := g.CreatePlanet(star, req, &habA, ThemeSet{})
	b := g.CreatePlanet(star, req, &habB, ThemeSet{})

	assert.Equal(t, a, b)
	assert.Equal(t, habA, habB)
}

func TestCreatePlanetDrawOrder(t *testing.T) {
	g := newTestGenerator()
	star := testStar(4, 2024, StarTypeMainSeq)
	const infoSeed = 31337
	p := g.CreatePlanet(star, PlanetRequest{OrbitIndex: 2, Number: 1, InfoSeed: infoSeed}, new(int), ThemeSet{})

	rand := random.New(infoSeed)
	draws := make([]float64, 17)
	for i := range draws {
		draws[i] = rand.NextF64()
	}

	assert.Equal(t, float32(draws[3]*360.0), p.OrbitLongitude, "longitude is the fourth draw")
	assert.Equal(t, float32(draws[4]*360.0), p.OrbitPhase, "phase is the fifth draw")
	assert.Equal(t, float32(draws[9]*360.0), p.RotationPhase, "rotation phase is the tenth draw")
	assert.Equal(t, rand.Next(), p.ThemeSeed, "theme seed is the eighteenth draw")

	swapped := float32(draws[4] * 360.0)
	assert.NotEqual(t, swapped, p.OrbitLongitude)
}

func TestMoonOrbitScalesWithParent(t *testing.T) {
	g := newTestGenerator()
	star := testStar(6, 55, StarTypeMainSeq)
	hab := 0
	used := ThemeSet{}

	parent := g.CreatePlanet(star, PlanetRequest{Index: 0, OrbitIndex: 5, Number: 1, GasGiant: true, InfoSeed: 1, GenSeed: 2}, &hab, used)
	moon := g.CreatePlanet(star, PlanetRequest{Index: 1, Parent: parent, OrbitAround: parent.Number, OrbitIndex: 1, Number: 1, InfoSeed: 3, GenSeed: 4}, &hab, used)

	assert.Equal(t, PlanetTypeGas, parent.Type)
	assert.Equal(t, float32(800), parent.RealRadius())
	assert.True(t, moon.IsMoon())
	assert.Equal(t, parent.OrbitRadius, moon.SunDistance)
	assert.Less(t, moon.OrbitRadius, float32(1))
	assert.Equal(t, star.AstroID()+2, moon.ID)
	assert.NotEqual(t, parent.ThemeID, moon.ThemeID)
}

func TestBirthMoonIsOcean(t *testing.T) {
	g := newTestGenerator()
	star := NewStar(g.Desc, StarSpec{Index: 0, Seed: 1, Type: StarTypeMainSeq, NeedSpectr: SpectrG})
	hab := 0
	used := ThemeSet{}

	giant := g.CreatePlanet(star, PlanetRequest{Index: 0, OrbitIndex: 2, Number: 1, GasGiant: true, InfoSeed: 100, GenSeed: 101}, &hab, used)
	birth := g.CreatePlanet(star, PlanetRequest{Index: 1, Parent: giant, OrbitAround: 1, OrbitIndex: 1, Number: 1, InfoSeed: 102, GenSeed: 103}, &hab, used)

	assert.True(t, birth.IsBirth)
	assert.Equal(t, PlanetTypeOcean, birth.Type)
	assert.Equal(t, DistributeBirth, birth.Theme.Distribute)
	assert.Equal(t, 1, hab)
}

func TestPlanetBiasesAreFinite(t *testing.T) {
	g := newTestGenerator()
	for _, st := range allStarTypes {
		star := testStar(10, 8080, st)
		hab := 0
		used := ThemeSet{}
		for i := int32(0); i < 12; i++ {
			p := g.CreatePlanet(star, PlanetRequest{Index: i, OrbitIndex: i + 1, Number: i + 1, InfoSeed: 500 + i, GenSeed: 900 + i}, &hab, used)
			require.False(t, math.IsNaN(float64(p.HabitableBias)) || math.IsInf(float64(p.HabitableBias), 0))
			require.False(t, math.IsNaN(float64(p.TemperatureBias)) || math.IsInf(float64(p.TemperatureBias), 0))
			require.NotNil(t, p.Theme)
			require.Equal(t, p.Theme.PlanetType, p.Type)
			require.NotZero(t, p.RotationPeriod)
		}
	}
}

func TestThemeFallbackIsTotal(t *testing.T) {
	g := newTestGenerator()
	star := testStar(12, 4242, StarTypeMainSeq)

	allUsed := ThemeSet{}
	for _, theme := range g.Catalog.Themes() {
		allUsed.Add(theme.ID)
	}

	for _, pt := range []PlanetType{PlanetTypeOcean, PlanetTypeVolcano, PlanetTypeIce, PlanetTypeDesert} {
		for _, bias := range []float32{-5, -0.5, 0, 0.3, 5} {
			for _, r := range []float64{0, 0.37, 0.999} {
				p := newPlanet()
				p.Type = pt
				p.TemperatureBias = bias
				g.setTheme(p, star, allUsed, r)
				require.NotNil(t, p.Theme)
				assert.Equal(t, PlanetTypeDesert, p.Type)
			}
		}
	}
}

func TestThemeFallbackPrefersUnusedDesert(t *testing.T) {
	g := newTestGenerator()
	star := testStar(12, 4242, StarTypeMainSeq)

	used := ThemeSet{}
	for _, theme := range g.Catalog.Themes() {
		if theme.PlanetType == PlanetTypeIce {
			used.Add(theme.ID)
		}
	}
	p := newPlanet()
	p.Type = PlanetTypeIce
	p.TemperatureBias = -2
	g.setTheme(p, star, used, 0.5)

	assert.Equal(t, PlanetTypeDesert, p.Type)
	assert.True(t, used.Has(p.ThemeID))
}

func TestGenerateGases(t *testing.T) {
	g := newTestGenerator()
	star := testStar(8, 17, StarTypeMainSeq)
	giant := g.CreatePlanet(star, PlanetRequest{OrbitIndex: 6, Number: 1, GasGiant: true, InfoSeed: 70, GenSeed: 71}, new(int), ThemeSet{})

	g.GenerateGases(giant, star)
	require.Len(t, giant.Gases, len(giant.Theme.GasItems))
	for i, gas := range giant.Gases {
		assert.Equal(t, giant.Theme.GasItems[i], gas.Item)
		assert.Positive(t, gas.Rate)
	}

	again := *giant
	g.GenerateGases(&again, star)
	assert.Equal(t, giant.Gases, again.Gases)
}

func TestOrbitIndexOutOfRangePanics(t *testing.T) {
	g := newTestGenerator()
	star := testStar(1, 1, StarTypeMainSeq)
	assert.Panics(t, func() {
		g.CreatePlanet(star, PlanetRequest{OrbitIndex: int32(MaxOrbitIndex) + 1}, new(int), ThemeSet{})
	})
}
