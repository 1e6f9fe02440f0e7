package worldgen

import "math"

// float32 helpers mirror single-precision library calls: compute in float64 and
// round once.

func pow32(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func ln32(x float32) float32 {
	return float32(math.Log(float64(x)))
}

func logBase(x, base float64) float64 {
	return math.Log(x) / math.Log(base)
}

func clamp32(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

func clamp64(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
