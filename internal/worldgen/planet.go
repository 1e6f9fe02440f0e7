package worldgen

// Planet is created once by CreatePlanet. Only Veins and Gases are filled in
// afterwards, by GenerateVeins and GenerateGases.
type Planet struct {
	Index       int32 `json:"index"`
	Seed        int32 `json:"-"`
	InfoSeed    int32 `json:"-"`
	ThemeSeed   int32 `json:"-"`
	OrbitAround int32 `json:"orbitAround"`
	OrbitIndex  int32 `json:"orbitIndex"`
	Number      int32 `json:"-"`
	ID          int32 `json:"id"`
	IsBirth     bool  `json:"isBirth,omitempty"`

	Radius float32 `json:"-"`
	Scale  float32 `json:"-"`

	OrbitRadius      float32 `json:"orbitRadius"`
	OrbitInclination float32 `json:"orbitInclination"`
	OrbitLongitude   float32 `json:"orbitLongitude"`
	OrbitalPeriod    float64 `json:"orbitalPeriod"`
	OrbitPhase       float32 `json:"orbitPhase"`
	Obliquity        float32 `json:"obliquity"`
	RotationPeriod   float64 `json:"rotationPeriod"`
	RotationPhase    float32 `json:"rotationPhase"`
	SunDistance      float32 `json:"sunDistance"`

	Type            PlanetType  `json:"type"`
	HabitableBias   float32     `json:"habitableBias"`
	TemperatureBias float32     `json:"temperatureBias"`
	Luminosity      float32     `json:"luminosity"`
	ThemeID         int32       `json:"theme"`
	Theme           *ThemeProto `json:"-"`

	Veins []Vein `json:"veins"`
	Gases []Gas  `json:"gases"`
}

// Gas is one atmospheric or gas-giant resource and its collection rate.
type Gas struct {
	Item int32   `json:"item"`
	Rate float32 `json:"rate"`
}

func newPlanet() *Planet {
	return &Planet{
		Radius: 200,
		Scale:  1,
		Veins:  []Vein{},
		Gases:  []Gas{},
	}
}

func (p *Planet) RealRadius() float32 {
	return p.Radius * p.Scale
}

func (p *Planet) IsGasGiant() bool {
	return p.Type == PlanetTypeGas
}

func (p *Planet) IsMoon() bool {
	return p.OrbitAround != 0
}
