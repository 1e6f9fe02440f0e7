package worldgen

import (
	"encoding/json"
	"math"

	"starmap-server/internal/random"
)

type attr uint8

const (
	attrUnmodifiedMass attr = iota
	attrResourceCoef
	attrLifetime
	attrAge
	attrTemperatureFactor
	attrUnmodifiedTemperature
	attrTemperature
	attrClassFactor
	attrSpectr
	attrLuminosity
	attrRadius
	attrLightBalanceRadius
	attrHabitableRadius
	attrMass
	attrOrbitScaler
	attrDysonRadius
	attrCount
)

// attrCache holds each derived attribute once it has been computed. Every value
// fits losslessly in a float64 (float32, float64, int32 and enum results).
type attrCache struct {
	values      [attrCount]float64
	known       uint32
	evaluations int
}

func (c *attrCache) get(a attr, compute func() float64) float64 {
	bit := uint32(1) << a
	if c.known&bit != 0 {
		return c.values[a]
	}
	v := compute()
	c.values[a] = v
	c.known |= bit
	c.evaluations++
	return v
}

// StarSpec is what galaxy assembly decides about a star before any of its
// attributes are derived.
type StarSpec struct {
	Index    int
	Seed     int32
	Position Vector3
	Type     StarType
	// NeedSpectr pins the mass sample for M and O; any other value leaves it free.
	NeedSpectr SpectrType
}

type massParams struct {
	r1, r2       float64
	y            float64
	massFactor   float64
	spectrFactor float32
}

// Star is a generated star. Derived attributes are computed on first access and
// never change afterwards. A Star is not safe for concurrent use until Warm has
// been called.
type Star struct {
	Index       int
	Seed        int32
	NameSeed    int32
	PlanetsSeed int32
	Position    Vector3
	Type        StarType
	Level       float32

	ageFactor      float64
	ageNum1        float32
	ageNum2        float32
	ageNum3        float32
	lifetimeFactor float64
	radiusFactor   float64
	mass           massParams

	cache attrCache
}

// NewStar consumes the star's seed stream in reference order and captures every
// input the derived attributes need.
func NewStar(desc GameDesc, spec StarSpec) *Star {
	rand1 := random.New(spec.Seed)
	nameSeed := rand1.NextSeed()
	rand2 := random.New(rand1.NextSeed())
	rand1.NextF64()
	planetsSeed := rand1.NextSeed()

	r1 := rand2.NextF64()
	r2 := rand2.NextF64()
	ageFactor := rand2.NextF64()
	rn := rand2.NextF64()
	rt := rand2.NextF64()

	massFactor := 0.0
	if spec.Index != 0 {
		massFactor = rand2.NextF64()
	}
	lifetimeFactor := rand2.NextF64()
	y := rand2.NextF64()*0.4 - 0.2

	var spectrFactor float32
	switch spec.NeedSpectr {
	case SpectrM:
		spectrFactor = -3
	case SpectrO:
		spectrFactor = 4.65
	}

	return &Star{
		Index:          spec.Index,
		Seed:           spec.Seed,
		NameSeed:       nameSeed,
		PlanetsSeed:    planetsSeed,
		Position:       spec.Position,
		Type:           spec.Type,
		Level:          float32(spec.Index) / float32(desc.StarCount-1),
		ageFactor:      ageFactor,
		ageNum1:        float32(rn*0.1 + 0.95),
		ageNum2:        float32(rt*0.4 + 0.8),
		ageNum3:        float32(rt*9.0 + 1.0),
		lifetimeFactor: lifetimeFactor,
		radiusFactor:   math.Pow(2, y),
		mass: massParams{
			r1:           r1,
			r2:           r2,
			y:            y,
			massFactor:   massFactor,
			spectrFactor: spectrFactor,
		},
	}
}

func (s *Star) IsBirth() bool {
	return s.Index == 0
}

func (s *Star) ID() int32 {
	return int32(s.Index) + 1
}

func (s *Star) AstroID() int32 {
	return s.ID() * 100
}

// Warm computes every derived attribute in dependency order. After Warm the
// Star is read-only and may be shared between goroutines.
func (s *Star) Warm() {
	s.UnmodifiedMass()
	s.Age()
	s.Lifetime()
	s.ResourceCoef()
	s.TemperatureFactor()
	s.UnmodifiedTemperature()
	s.Temperature()
	s.ClassFactor()
	s.Spectr()
	s.Luminosity()
	s.Radius()
	s.HabitableRadius()
	s.LightBalanceRadius()
	s.Mass()
	s.OrbitScaler()
	s.DysonRadius()
}

func (s *Star) f32(a attr, compute func() float32) float32 {
	return float32(s.cache.get(a, func() float64 { return float64(compute()) }))
}

func (s *Star) UnmodifiedMass() float32 {
	return s.f32(attrUnmodifiedMass, func() float32 {
		p := s.mass
		if s.IsBirth() {
			p1 := clamp32(randNormal(0, 0.08, p.r1, p.r2), -0.2, 0.2)
			return pow32(2, p1)
		}

		switch s.Type {
		case StarTypeWhiteDwarf:
			return float32(1.0 + p.r2*5.0)
		case StarTypeNeutron:
			return float32(7.0 + p.r1*11.0)
		case StarTypeBlackHole:
			return float32(18.0 + p.r1*p.r2*30.0)
		}

		num8 := p.spectrFactor
		if num8 == 0 {
			num7 := -0.98 + (0.88+0.98)*clamp32(s.Level, 0, 1)
			var average, deviation float32
			if s.Type == StarTypeGiant {
				deviation = 0.3
				if p.y > -0.08 {
					average = -1.5
				} else {
					average = 1.6
				}
			} else {
				deviation = 0.33
				if num7 >= 0 {
					average = num7 + 0.65
				} else {
					average = num7 - 0.65
				}
			}
			num := randNormal(average, deviation, p.r1, p.r2)
			if num > 0 {
				num *= 2
			}
			num8 = clamp32(num, -2.4, 4.65)
		}
		return pow32(2, float32(float64(num8)+(p.massFactor-0.5)*0.2+1.0))
	})
}

// ResourceCoef grows with distance from the galaxy centre, compressed by nested
// logarithms past 32 units.
func (s *Star) ResourceCoef() float32 {
	return s.f32(attrResourceCoef, func() float32 {
		if s.IsBirth() {
			return 0.6
		}
		num1 := float32(s.Position.Magnitude()) / 32
		if float64(num1) > 1.0 {
			num1 = ln32(ln32(ln32(ln32(ln32(num1)+1)+1)+1)+1) + 1
		}
		return pow32(7, num1) * 0.6
	})
}

func (s *Star) Lifetime() float32 {
	return s.f32(attrLifetime, func() float32 {
		mass := s.UnmodifiedMass()
		d := 5.0
		if mass < 2.0 {
			d = 2.0 + 0.4*(1.0-float64(mass))
		}
		multiplier := 0.5
		if s.Type == StarTypeGiant {
			multiplier = 0.58
		}
		var delta float64
		switch s.Type {
		case StarTypeWhiteDwarf:
			delta = 10000
		case StarTypeNeutron:
			delta = 1000
		}

		lifetime := 10000.0*math.Pow(0.1, logBase(float64(mass)*multiplier, d)+1.0)*(s.lifetimeFactor*0.2+0.9) + delta
		if s.IsBirth() {
			return float32(lifetime)
		}

		age := s.Age()
		num9 := float32(lifetime) * age
		if num9 > 5000 {
			num9 = float32((float64(ln32(num9/5000)) + 1.0) * 5000.0)
		}
		if num9 > 8000 {
			num9 = float32((float64(ln32(ln32(ln32(num9/8000)+1)+1)) + 1.0) * 8000.0)
		}
		return num9 / age
	})
}

func (s *Star) Age() float32 {
	return s.f32(attrAge, func() float32 {
		f := s.ageFactor
		if s.IsBirth() {
			return float32(f*0.4 + 0.3)
		}
		switch s.Type {
		case StarTypeGiant:
			return float32(f*0.04 + 0.96)
		case StarTypeWhiteDwarf, StarTypeNeutron, StarTypeBlackHole:
			return float32(f*0.4 + 1.0)
		}
		mass := s.UnmodifiedMass()
		switch {
		case mass >= 0.8:
			return float32(f*0.7 + 0.2)
		case mass >= 0.5:
			return float32(f*0.4 + 0.1)
		default:
			return float32(f*0.12 + 0.02)
		}
	})
}

func (s *Star) TemperatureFactor() float32 {
	return s.f32(attrTemperatureFactor, func() float32 {
		aged := float64(pow32(clamp32(s.Age(), 0, 1), 20))
		return float32(1.0-aged*0.5) * s.UnmodifiedMass()
	})
}

func (s *Star) UnmodifiedTemperature() float32 {
	return s.f32(attrUnmodifiedTemperature, func() float32 {
		f1 := float64(s.TemperatureFactor())
		return float32(math.Pow(f1, 0.56+0.14/logBase(f1+4.0, 5.0))*4450.0 + 1300.0)
	})
}

func (s *Star) Temperature() float32 {
	return s.f32(attrTemperature, func() float32 {
		switch s.Type {
		case StarTypeBlackHole:
			return 0
		case StarTypeNeutron:
			return s.ageNum3 * 1e+7
		case StarTypeWhiteDwarf:
			return s.ageNum2 * 150000
		}
		t := s.UnmodifiedTemperature()
		if s.Type == StarTypeGiant {
			t *= 1 - pow32(s.Age(), 30)*0.5
		}
		return t
	})
}

// ClassFactor is the continuous spectral position in [-4, 2]. Remnants still
// compute it even though their spectral type ignores it.
func (s *Star) ClassFactor() float64 {
	return s.cache.get(attrClassFactor, func() float64 {
		t := float64(s.UnmodifiedTemperature())
		f := logBase((t-1300.0)/4500.0, 2.6) - 0.5
		if f < 0 {
			f *= 4
		}
		return clamp64(f, -4, 2)
	})
}

func (s *Star) Spectr() SpectrType {
	return SpectrType(s.cache.get(attrSpectr, func() float64 {
		cf := s.ClassFactor()
		if s.Type.IsRemnant() {
			return float64(SpectrX)
		}
		return float64(MustSpectrType(int32(math.Round(cf))))
	}))
}

// Luminosity is the displayed value, rounded to three decimals.
func (s *Star) Luminosity() float32 {
	return s.f32(attrLuminosity, func() float32 {
		base := pow32(s.TemperatureFactor(), 0.7)
		var factor float32 = 1
		switch s.Type {
		case StarTypeBlackHole:
			factor = 1.0 / 1000.0 * s.ageNum1
		case StarTypeNeutron:
			factor = 0.1 * s.ageNum1
		case StarTypeWhiteDwarf:
			factor = 0.04 * s.ageNum1
		case StarTypeGiant:
			factor = 1.6
		}
		lum := base * factor
		return float32(math.Round(float64(pow32(lum, 0.33)*1000))) / 1000
	})
}

func (s *Star) Radius() float32 {
	return s.f32(attrRadius, func() float32 {
		mass := float64(s.UnmodifiedMass())
		if s.Type == StarTypeGiant {
			num4 := float32(math.Pow(5, math.Abs(math.Log10(mass)-0.7)) * 5.0)
			if num4 > 10 {
				num4 = (ln32(num4*0.1) + 1) * 10
			}
			return num4 * s.ageNum2
		}
		var factor float32 = 1
		switch s.Type {
		case StarTypeNeutron:
			factor = 0.15
		case StarTypeWhiteDwarf:
			factor = 0.2
		}
		return float32(math.Pow(mass, 0.4)*s.radiusFactor) * factor
	})
}

func (s *Star) LightBalanceRadius() float32 {
	return s.f32(attrLightBalanceRadius, func() float32 {
		if s.Type == StarTypeGiant {
			return 3 * s.HabitableRadius()
		}
		r := pow32(1.7, float32(s.ClassFactor())+2)
		var factor float32 = 1
		switch s.Type {
		case StarTypeBlackHole:
			factor = 0.4 * s.ageNum1
		case StarTypeNeutron:
			factor = 3 * s.ageNum1
		case StarTypeWhiteDwarf:
			factor = 0.2 * s.ageNum1
		}
		return r * factor
	})
}

func (s *Star) HabitableRadius() float32 {
	return s.f32(attrHabitableRadius, func() float32 {
		var factor float32
		switch s.Type {
		case StarTypeBlackHole, StarTypeNeutron:
			return 0
		case StarTypeWhiteDwarf:
			factor = 0.15 * s.ageNum2
		case StarTypeGiant:
			factor = 9
		default:
			factor = 1
		}
		var offset float32 = 0.25
		if s.IsBirth() {
			offset = 0.2
		}
		return (pow32(1.7, float32(s.ClassFactor())+2) + offset) * factor
	})
}

func (s *Star) Mass() float32 {
	return s.f32(attrMass, func() float32 {
		mass := s.UnmodifiedMass()
		switch s.Type {
		case StarTypeBlackHole:
			return mass * 2.5 * s.ageNum2
		case StarTypeNeutron, StarTypeWhiteDwarf:
			return mass * 0.2 * s.ageNum1
		case StarTypeGiant:
			return mass * (1 - pow32(s.Age(), 30)*0.5)
		}
		return mass
	})
}

func (s *Star) OrbitScaler() float32 {
	return s.f32(attrOrbitScaler, func() float32 {
		scaler := pow32(1.35, float32(s.ClassFactor())+2)
		if scaler < 1 {
			scaler += (1 - scaler) * 0.6
		}
		switch s.Type {
		case StarTypeNeutron:
			scaler *= 1.5 * s.ageNum1
		case StarTypeGiant:
			scaler *= 3.3
		}
		return scaler
	})
}

// DysonRadius is rounded to the nearest 100 units.
func (s *Star) DysonRadius() int32 {
	return int32(s.cache.get(attrDysonRadius, func() float64 {
		r := max(s.OrbitScaler()*0.28, s.Radius()*0.045) * 800
		return float64(int32(math.Round(float64(r))) * 100)
	}))
}

type starJSON struct {
	Index       int        `json:"index"`
	Position    Vector3    `json:"position"`
	Mass        float32    `json:"mass"`
	Lifetime    float32    `json:"lifetime"`
	Age         float32    `json:"age"`
	Temperature float32    `json:"temperature"`
	Type        StarType   `json:"type"`
	Spectr      SpectrType `json:"spectr"`
	Luminosity  float32    `json:"luminosity"`
	Radius      float32    `json:"radius"`
	DysonRadius int32      `json:"dysonRadius"`
}

// MarshalJSON emits the externally visible star fields. Raw seeds and
// intermediate attributes stay internal.
func (s *Star) MarshalJSON() ([]byte, error) {
	return json.Marshal(starJSON{
		Index:       s.Index,
		Position:    s.Position,
		Mass:        s.Mass(),
		Lifetime:    s.Lifetime(),
		Age:         s.Age(),
		Temperature: s.Temperature(),
		Type:        s.Type,
		Spectr:      s.Spectr(),
		Luminosity:  s.Luminosity(),
		Radius:      s.Radius(),
		DysonRadius: s.DysonRadius(),
	})
}

func randNormal(average, deviation float32, r1, r2 float64) float32 {
	return average + deviation*float32(math.Sqrt(-2.0*math.Log(1.0-r1))*math.Sin(2.0*math.Pi*r2))
}
