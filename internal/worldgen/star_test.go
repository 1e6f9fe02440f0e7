package worldgen

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStarTypes = []StarType{StarTypeMainSeq, StarTypeGiant, StarTypeWhiteDwarf, StarTypeNeutron, StarTypeBlackHole}

func testStar(index int, seed int32, t StarType) *Star {
	return NewStar(DefaultGameDesc(64), StarSpec{
		Index:      index,
		Seed:       seed,
		Position:   Vector3{X: float64(index) * 3, Y: 1, Z: float64(index) * -2},
		Type:       t,
		NeedSpectr: SpectrX,
	})
}

func TestBirthStar(t *testing.T) {
	s := NewStar(DefaultGameDesc(64), StarSpec{Index: 0, Seed: 1, Type: StarTypeMainSeq, NeedSpectr: SpectrG})

	assert.True(t, s.IsBirth())
	assert.Equal(t, float32(0.6), s.ResourceCoef())
	assert.Equal(t, float32(s.ageFactor*0.4+0.3), s.Age())
	assert.Equal(t, 0.0, s.mass.massFactor)
	assert.Equal(t, int32(100), s.AstroID())
}

func TestAttributesAreComputedOnce(t *testing.T) {
	s := testStar(5, 424242, StarTypeMainSeq)

	first := s.DysonRadius()
	evaluated := s.cache.evaluations
	require.Positive(t, evaluated)

	assert.Equal(t, first, s.DysonRadius())
	assert.Equal(t, s.Mass(), s.Mass())
	assert.Equal(t, evaluated+1, s.cache.evaluations, "only Mass was new")

	s.Warm()
	assert.Equal(t, int(attrCount), s.cache.evaluations)
	s.Warm()
	assert.Equal(t, int(attrCount), s.cache.evaluations)
}

func TestStarDeterminism(t *testing.T) {
	for _, st := range allStarTypes {
		a, err := json.Marshal(testStar(7, 99, st))
		require.NoError(t, err)
		b, err := json.Marshal(testStar(7, 99, st))
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b), st.String())
	}
}

func TestStarRanges(t *testing.T) {
	for seed := int32(1); seed < 300; seed++ {
		for _, st := range allStarTypes {
			s := testStar(int(seed%63)+1, seed*7919, st)
			s.Warm()

			cf := s.ClassFactor()
			require.GreaterOrEqual(t, cf, -4.0)
			require.LessOrEqual(t, cf, 2.0)

			for name, v := range map[string]float32{
				"mass":        s.Mass(),
				"lifetime":    s.Lifetime(),
				"age":         s.Age(),
				"temperature": s.Temperature(),
				"luminosity":  s.Luminosity(),
				"radius":      s.Radius(),
				"orbit":       s.OrbitScaler(),
				"habitable":   s.HabitableRadius(),
			} {
				require.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "%s %s seed %d", st, name, seed)
			}
			require.Zero(t, s.DysonRadius()%100)
		}
	}
}

func TestRemnantsUseExoticSpectrum(t *testing.T) {
	for _, st := range []StarType{StarTypeWhiteDwarf, StarTypeNeutron, StarTypeBlackHole} {
		s := testStar(3, 1234, st)
		assert.Equal(t, SpectrX, s.Spectr())
		assert.NotZero(t, s.cache.known&(1<<attrClassFactor), "class factor stays cached for %s", st)
	}
	assert.Zero(t, testStar(3, 1234, StarTypeBlackHole).Temperature())
	assert.Zero(t, testStar(3, 1234, StarTypeNeutron).HabitableRadius())
}

func TestNeedSpectrPinsMass(t *testing.T) {
	desc := DefaultGameDesc(64)
	m := NewStar(desc, StarSpec{Index: 9, Seed: 77, Type: StarTypeMainSeq, NeedSpectr: SpectrM})
	o := NewStar(desc, StarSpec{Index: 9, Seed: 77, Type: StarTypeMainSeq, NeedSpectr: SpectrO})

	assert.Less(t, m.UnmodifiedMass(), o.UnmodifiedMass())
	assert.Equal(t, SpectrM, m.Spectr())
}

func TestStarJSONOmitsSeeds(t *testing.T) {
	data, err := json.Marshal(testStar(2, 5, StarTypeGiant))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "dysonRadius")
	assert.Equal(t, "GiantStar", fields["type"])
	assert.NotContains(t, fields, "seed")
	assert.NotContains(t, fields, "nameSeed")
}

func TestSpectrTypeFromIndex(t *testing.T) {
	s, err := SpectrTypeFromIndex(-2)
	require.NoError(t, err)
	assert.Equal(t, SpectrG, s)

	_, err = SpectrTypeFromIndex(4)
	assert.Error(t, err)
	assert.Panics(t, func() { MustSpectrType(-5) })
	assert.Panics(t, func() { MustVeinType(15) })
}
