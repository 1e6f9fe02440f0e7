package galaxy

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"starmap-server/internal/random"
	"starmap-server/internal/worldgen"
)

const (
	// Stars past this fraction of the index range may be giants or white dwarfs.
	remnantZone = 0.7
	// Mean spacing between neighbouring stars on the disc.
	starSpacing = 4.0
)

// assemble derives every star's seed, type and position from the galaxy seed.
// All seeds are drawn first, then types, then positions.
func assemble(seed int32, starCount int) []worldgen.StarSpec {
	rand := random.New(seed)

	specs := make([]worldgen.StarSpec, starCount)
	for i := range specs {
		specs[i] = worldgen.StarSpec{
			Index:      i,
			Seed:       rand.NextSeed(),
			Type:       worldgen.StarTypeMainSeq,
			NeedSpectr: worldgen.SpectrX,
		}
	}

	for i := 1; i < starCount; i++ {
		specs[i].Type, specs[i].NeedSpectr = pickStarType(i, starCount, rand.NextF64(), rand.NextF64())
	}

	noise := opensimplex.NewNormalized(int64(seed))
	for i := 1; i < starCount; i++ {
		specs[i].Position = place(i, rand.NextF64(), noise)
	}
	return specs
}

func pickStarType(i, n int, u, v float64) (worldgen.StarType, worldgen.SpectrType) {
	switch {
	case i == n-1 && n >= 8:
		return worldgen.StarTypeBlackHole, worldgen.SpectrX
	case i == n-2 && n >= 16:
		return worldgen.StarTypeNeutron, worldgen.SpectrX
	}

	if float64(i)/float64(n) >= remnantZone {
		switch {
		case u < 0.15:
			return worldgen.StarTypeWhiteDwarf, worldgen.SpectrX
		case u < 0.35:
			return worldgen.StarTypeGiant, worldgen.SpectrX
		}
	}

	switch {
	case v < 0.02:
		return worldgen.StarTypeMainSeq, worldgen.SpectrO
	case v > 0.9:
		return worldgen.StarTypeMainSeq, worldgen.SpectrM
	}
	return worldgen.StarTypeMainSeq, worldgen.SpectrX
}

// place puts star i on a golden-angle spiral around the birth star, jittered
// by simplex noise so that the disc does not look regular.
func place(i int, u float64, noise opensimplex.Noise) worldgen.Vector3 {
	const golden = 2.399963229728653
	angle := float64(i)*golden + (u-0.5)*0.6
	r := starSpacing * math.Sqrt(float64(i))

	x, z := r*math.Cos(angle), r*math.Sin(angle)
	jitter := noise.Eval2(x*0.1, z*0.1)
	r *= 0.8 + 0.4*jitter

	return worldgen.Vector3{
		X: r * math.Cos(angle),
		Y: (noise.Eval3(x*0.2, z*0.2, float64(i)) - 0.5) * 1.5,
		Z: r * math.Sin(angle),
	}
}
