package worldgen

import (
	"encoding/json"
	"fmt"
)

type StarType int32

const (
	StarTypeMainSeq StarType = iota
	StarTypeGiant
	StarTypeWhiteDwarf
	StarTypeNeutron
	StarTypeBlackHole
)

var starTypeNames = []string{"MainSeqStar", "GiantStar", "WhiteDwarf", "NeutronStar", "BlackHole"}

// IsRemnant reports whether the star is a post-main-sequence remnant.
func (t StarType) IsRemnant() bool {
	return t == StarTypeWhiteDwarf || t == StarTypeNeutron || t == StarTypeBlackHole
}

func (t StarType) String() string {
	if t < 0 || int(t) >= len(starTypeNames) {
		return fmt.Sprintf("StarType(%d)", int32(t))
	}
	return starTypeNames[t]
}

func (t StarType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *StarType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalName(data, "star type", starTypeNames)
	if err != nil {
		return err
	}
	*t = StarType(v)
	return nil
}

// ParseStarType resolves a star type by name.
func ParseStarType(name string) (StarType, error) {
	i, err := indexOfName(name, "star type", starTypeNames)
	return StarType(i), err
}

// SpectrType is the spectral class. Values follow the rounded class factor,
// so M is -4 and O is 2; X marks remnants.
type SpectrType int32

const (
	SpectrM SpectrType = iota - 4
	SpectrK
	SpectrG
	SpectrF
	SpectrA
	SpectrB
	SpectrO
	SpectrX
)

var spectrNames = []string{"M", "K", "G", "F", "A", "B", "O", "X"}

func (s SpectrType) String() string {
	i := int(s) + 4
	if i < 0 || i >= len(spectrNames) {
		return fmt.Sprintf("SpectrType(%d)", int32(s))
	}
	return spectrNames[i]
}

func (s SpectrType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SpectrType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalName(data, "spectral type", spectrNames)
	if err != nil {
		return err
	}
	*s = SpectrType(v - 4)
	return nil
}

// ParseSpectrType resolves a spectral type by name.
func ParseSpectrType(name string) (SpectrType, error) {
	i, err := indexOfName(name, "spectral type", spectrNames)
	if err != nil {
		return 0, err
	}
	return SpectrType(i - 4), nil
}

// SpectrTypeFromIndex maps a rounded class factor onto a spectral type.
func SpectrTypeFromIndex(i int32) (SpectrType, error) {
	if i < int32(SpectrM) || i > int32(SpectrX) {
		return 0, fmt.Errorf("class factor index %d outside spectral range [%d, %d]", i, SpectrM, SpectrX)
	}
	return SpectrType(i), nil
}

// MustSpectrType is SpectrTypeFromIndex for values the generator itself produced.
// An out-of-range index means the formulas or constants are wrong, so it panics.
func MustSpectrType(i int32) SpectrType {
	s, err := SpectrTypeFromIndex(i)
	if err != nil {
		panic("worldgen: " + err.Error())
	}
	return s
}

type PlanetType int32

const (
	PlanetTypeNone PlanetType = iota
	PlanetTypeVolcano
	PlanetTypeOcean
	PlanetTypeDesert
	PlanetTypeIce
	PlanetTypeGas
)

var planetTypeNames = []string{"None", "Vocano", "Ocean", "Desert", "Ice", "Gas"}

func (t PlanetType) String() string {
	if t < 0 || int(t) >= len(planetTypeNames) {
		return fmt.Sprintf("PlanetType(%d)", int32(t))
	}
	return planetTypeNames[t]
}

func (t PlanetType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PlanetType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalName(data, "planet type", planetTypeNames)
	if err != nil {
		return err
	}
	*t = PlanetType(v)
	return nil
}

// UnmarshalYAML lets catalog files spell planet types by name.
func (t *PlanetType) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	i, err := indexOfName(name, "planet type", planetTypeNames)
	if err != nil {
		return err
	}
	*t = PlanetType(i)
	return nil
}

type VeinType int32

const (
	VeinTypeNone VeinType = iota
	VeinTypeIron
	VeinTypeCopper
	VeinTypeSilicium
	VeinTypeTitanium
	VeinTypeStone
	VeinTypeCoal
	VeinTypeOil
	VeinTypeFireice
	VeinTypeDiamond
	VeinTypeFractal
	VeinTypeCrysrub
	VeinTypeGrat
	VeinTypeBamboo
	VeinTypeMag
	veinTypeMax
)

var veinTypeNames = []string{
	"None", "Iron", "Copper", "Silicium", "Titanium", "Stone", "Coal", "Oil",
	"Fireice", "Diamond", "Fractal", "Crysrub", "Grat", "Bamboo", "Mag",
}

func (t VeinType) String() string {
	if t < 0 || t >= veinTypeMax {
		return fmt.Sprintf("VeinType(%d)", int32(t))
	}
	return veinTypeNames[t]
}

func (t VeinType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *VeinType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalName(data, "vein type", veinTypeNames)
	if err != nil {
		return err
	}
	*t = VeinType(v)
	return nil
}

func (t *VeinType) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	i, err := indexOfName(name, "vein type", veinTypeNames)
	if err != nil {
		return err
	}
	*t = VeinType(i)
	return nil
}

// ParseVeinType resolves a vein type by name.
func ParseVeinType(name string) (VeinType, error) {
	i, err := indexOfName(name, "vein type", veinTypeNames)
	return VeinType(i), err
}

// VeinTypeFromIndex maps a slot index of the per-type vein tables onto a vein type.
func VeinTypeFromIndex(i int) (VeinType, error) {
	if i < 0 || i >= int(veinTypeMax) {
		return 0, fmt.Errorf("vein index %d outside range [0, %d)", i, veinTypeMax)
	}
	return VeinType(i), nil
}

// MustVeinType panics on an out-of-range index; see MustSpectrType.
func MustVeinType(i int) VeinType {
	v, err := VeinTypeFromIndex(i)
	if err != nil {
		panic("worldgen: " + err.Error())
	}
	return v
}

type ThemeDistribute int32

const (
	DistributeDefault ThemeDistribute = iota
	DistributeBirth
	DistributeInterstellar
	DistributeRare
)

var distributeNames = []string{"Default", "Birth", "Interstellar", "Rare"}

func (d ThemeDistribute) String() string {
	if d < 0 || int(d) >= len(distributeNames) {
		return fmt.Sprintf("ThemeDistribute(%d)", int32(d))
	}
	return distributeNames[d]
}

func (d ThemeDistribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *ThemeDistribute) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	i, err := indexOfName(name, "theme distribution", distributeNames)
	if err != nil {
		return err
	}
	*d = ThemeDistribute(i)
	return nil
}

func unmarshalName(data []byte, kind string, names []string) (int, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return 0, fmt.Errorf("%s must be a string: %w", kind, err)
	}
	return indexOfName(name, kind, names)
}

func indexOfName(name, kind string, names []string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, name)
}
