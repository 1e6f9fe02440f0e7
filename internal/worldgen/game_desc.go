package worldgen

import (
	"fmt"

	"starmap-server/internal/shared/errors"
)

// GameDesc is the per-galaxy configuration the generators read. It is never
// mutated during generation.
type GameDesc struct {
	StarCount          int     `json:"star_count"`
	ResourceMultiplier float32 `json:"resource_multiplier"`
	// GasCoefOverride replaces the default gas coefficient when non-zero.
	GasCoefOverride float32 `json:"gas_coef,omitempty"`
}

func DefaultGameDesc(starCount int) GameDesc {
	return GameDesc{StarCount: starCount, ResourceMultiplier: 1.0}
}

func (d GameDesc) Validate() error {
	if d.StarCount < 2 {
		return errors.Validationf("star_count must be at least 2, got %d", d.StarCount)
	}
	if d.StarCount > 1024 {
		return errors.Validationf("star_count must be at most 1024, got %d", d.StarCount)
	}
	if d.ResourceMultiplier <= 0 {
		return errors.Validation("resource_multiplier must be positive")
	}
	return nil
}

func (d GameDesc) IsRareResource() bool {
	return d.ResourceMultiplier <= 0.1001
}

func (d GameDesc) IsInfiniteResource() bool {
	return d.ResourceMultiplier >= 99.5
}

func (d GameDesc) GasCoef() float32 {
	if d.GasCoefOverride != 0 {
		return d.GasCoefOverride
	}
	return 1.0
}

func (d GameDesc) OilAmountMultiplier() float32 {
	switch m := d.ResourceMultiplier; {
	case m <= 0.1001:
		return 1.0
	case m <= 0.5001:
		return 0.5
	case m <= 0.8001:
		return 0.8
	case m <= 1.5001:
		return 1.0
	case m <= 2.0001:
		return 1.5
	case m <= 3.0001:
		return 2.0
	default:
		return 3.0
	}
}

func (d GameDesc) String() string {
	return fmt.Sprintf("stars=%d resources=%g", d.StarCount, d.ResourceMultiplier)
}
