package worldgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"starmap-server/internal/shared/errors"
)

//go:embed themes.yaml
var defaultThemesYAML []byte

// maxVeinSlots is the number of vein types a theme can describe (Iron..Mag).
const maxVeinSlots = int(veinTypeMax) - 1

// ThemeProto is one static catalog entry describing a planet archetype.
type ThemeProto struct {
	ID           int32           `yaml:"id" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	PlanetType   PlanetType      `yaml:"planet_type" json:"planetType"`
	Temperature  float32         `yaml:"temperature" json:"temperature"`
	Distribute   ThemeDistribute `yaml:"distribute" json:"distribute"`
	VeinSpot     []int32         `yaml:"vein_spot" json:"-"`
	VeinCount    []float32       `yaml:"vein_count" json:"-"`
	VeinOpacity  []float32       `yaml:"vein_opacity" json:"-"`
	RareVeins    []VeinType      `yaml:"rare_veins" json:"-"`
	RareSettings []float32       `yaml:"rare_settings" json:"-"`
	GasItems     []int32         `yaml:"gas_items" json:"-"`
	GasSpeeds    []float32       `yaml:"gas_speeds" json:"-"`
}

// ThemeCatalog is the read-only theme table. Iteration order is the file order
// and is part of theme selection.
type ThemeCatalog struct {
	themes []*ThemeProto
	byID   map[int32]*ThemeProto
}

type catalogFile struct {
	Themes []*ThemeProto `yaml:"themes"`
}

var defaultCatalog *ThemeCatalog

func init() {
	c, err := LoadThemeCatalog(bytes.NewReader(defaultThemesYAML))
	if err != nil {
		panic(fmt.Sprintf("worldgen: embedded theme catalog: %v", err))
	}
	defaultCatalog = c
}

// DefaultThemeCatalog returns the embedded catalog.
func DefaultThemeCatalog() *ThemeCatalog {
	return defaultCatalog
}

func LoadThemeCatalogFile(path string) (*ThemeCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open theme catalog: %w", err)
	}
	defer f.Close()
	return LoadThemeCatalog(f)
}

func LoadThemeCatalog(r io.Reader) (*ThemeCatalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.WrapValidation("failed to decode theme catalog", err)
	}
	return NewThemeCatalog(file.Themes)
}

// NewThemeCatalog validates themes and builds a catalog. At least one Desert
// theme is required so that theme selection can always fall back.
func NewThemeCatalog(themes []*ThemeProto) (*ThemeCatalog, error) {
	c := &ThemeCatalog{
		themes: themes,
		byID:   make(map[int32]*ThemeProto, len(themes)),
	}

	hasDesert := false
	for _, t := range themes {
		if _, dup := c.byID[t.ID]; dup {
			return nil, errors.Validationf("duplicate theme id %d", t.ID)
		}
		if err := t.validate(); err != nil {
			return nil, err
		}
		c.byID[t.ID] = t
		if t.PlanetType == PlanetTypeDesert {
			hasDesert = true
		}
	}
	if !hasDesert {
		return nil, errors.Validation("theme catalog needs at least one Desert theme")
	}
	return c, nil
}

func (t *ThemeProto) validate() error {
	if t.ID <= 0 {
		return errors.Validationf("theme %q: id must be positive", t.Name)
	}
	if len(t.VeinSpot) > maxVeinSlots || len(t.VeinCount) > maxVeinSlots || len(t.VeinOpacity) > maxVeinSlots {
		return errors.Validationf("theme %d: vein tables hold at most %d entries", t.ID, maxVeinSlots)
	}
	if len(t.RareSettings) != 4*len(t.RareVeins) {
		return errors.Validationf("theme %d: rare_settings needs 4 values per rare vein, got %d for %d",
			t.ID, len(t.RareSettings), len(t.RareVeins))
	}
	for _, v := range t.RareVeins {
		if v <= VeinTypeNone || v >= veinTypeMax {
			return errors.Validationf("theme %d: rare vein %s out of range", t.ID, v)
		}
	}
	if len(t.GasItems) != len(t.GasSpeeds) {
		return errors.Validationf("theme %d: gas_items and gas_speeds differ in length", t.ID)
	}
	return nil
}

func (c *ThemeCatalog) Themes() []*ThemeProto {
	return c.themes
}

func (c *ThemeCatalog) Get(id int32) (*ThemeProto, bool) {
	t, ok := c.byID[id]
	return t, ok
}

func (c *ThemeCatalog) Len() int {
	return len(c.themes)
}
