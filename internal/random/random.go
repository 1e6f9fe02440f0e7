// Package random implements the subtractive pseudo-random generator used by the
// reference game's galaxy generator. Every value the worldgen package derives is
// positional in one of these streams, so the output must stay bit-identical to the
// .NET 3.5 System.Random algorithm it was taken from.
package random

import "math"

const (
	mseed       int32 = 161803398
	mbig        int32 = math.MaxInt32
	seedSize          = 56
	sampleScale       = 4.6566128752457969e-10
)

// Stream is a deterministic sequence of draws. It is not safe for concurrent use.
type Stream struct {
	inext     int
	inextp    int
	seedArray [seedSize]int32
}

// New seeds a stream. Identical seeds always produce identical sequences.
func New(seed int32) *Stream {
	s := &Stream{}

	abs := seed
	if seed == math.MinInt32 {
		abs = math.MaxInt32
	} else if seed < 0 {
		abs = -seed
	}

	num1 := mseed - abs
	s.seedArray[55] = num1
	num2 := int32(1)
	for i := 1; i < 55; i++ {
		idx := (21 * i) % 55
		s.seedArray[idx] = num2
		num2 = num1 - num2
		if num2 < 0 {
			num2 += mbig
		}
		num1 = s.seedArray[idx]
	}

	for round := 1; round < 5; round++ {
		for k := 1; k < seedSize; k++ {
			s.seedArray[k] -= s.seedArray[1+(k+30)%55]
			if s.seedArray[k] < 0 {
				s.seedArray[k] += mbig
			}
		}
	}

	s.inext = 0
	s.inextp = 21
	return s
}

func (s *Stream) sample() float64 {
	s.inext++
	if s.inext >= seedSize {
		s.inext = 1
	}
	s.inextp++
	if s.inextp >= seedSize {
		s.inextp = 1
	}

	num := s.seedArray[s.inext] - s.seedArray[s.inextp]
	if num < 0 {
		num += mbig
	}
	s.seedArray[s.inext] = num
	return float64(num) * sampleScale
}

// NextF64 returns a draw in [0,1).
func (s *Stream) NextF64() float64 {
	return s.sample()
}

// NextF32 returns a draw in [0,1) narrowed to float32.
func (s *Stream) NextF32() float32 {
	return float32(s.sample())
}

// Next returns a raw non-negative integer draw.
func (s *Stream) Next() int32 {
	return int32(s.sample() * float64(mbig))
}

// NextN returns an integer draw in [0, max).
func (s *Stream) NextN(max int32) int32 {
	return int32(s.sample() * float64(max))
}

// NextSeed advances the stream and returns a value suitable for seeding an
// independent child stream.
func (s *Stream) NextSeed() int32 {
	return s.Next()
}
