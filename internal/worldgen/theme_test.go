package worldgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/shared/errors"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := DefaultThemeCatalog()
	require.NotNil(t, c)
	assert.Positive(t, c.Len())

	birth, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, PlanetTypeOcean, birth.PlanetType)
	assert.Equal(t, DistributeBirth, birth.Distribute)
	assert.NotEmpty(t, desertThemes(c.Themes()))
}

func TestCatalogRequiresDesertTheme(t *testing.T) {
	src := `
themes:
  - id: 1
    name: Only Ocean
    planet_type: Ocean
    temperature: 0
    distribute: Default
`
	_, err := LoadThemeCatalog(strings.NewReader(src))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestCatalogRejectsMalformedThemes(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
themes:
  - {id: 1, name: A, planet_type: Desert, temperature: 0, distribute: Default}
  - {id: 1, name: B, planet_type: Desert, temperature: 0, distribute: Default}
`,
		"rare settings length": `
themes:
  - {id: 1, name: A, planet_type: Desert, temperature: 0, distribute: Default, rare_veins: [Grat], rare_settings: [0.1]}
`,
		"unknown planet type": `
themes:
  - {id: 1, name: A, planet_type: Lava, temperature: 0, distribute: Default}
`,
		"unknown field": `
themes:
  - {id: 1, name: A, planet_type: Desert, temperature: 0, distribute: Default, colour: red}
`,
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadThemeCatalog(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}
