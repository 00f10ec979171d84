// Package noise implements seeded improved Perlin noise.
package noise

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Field samples coherent noise in [0, 1].
type Field interface {
	Noise(x, y, z float64) float64
}

// Perlin is a 3D improved Perlin noise field. It is immutable after New and
// safe for concurrent reads.
type Perlin struct {
	p [512]uint8
}

// New builds a noise field whose permutation table is shuffled from seed.
// Equal seeds produce bit-identical fields.
func New(seed int64) *Perlin {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	var perm [256]uint8
	for i := range perm {
		perm[i] = uint8(i)
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	n := &Perlin{}
	copy(n.p[:256], perm[:])
	copy(n.p[256:], perm[:])
	return n
}

// Noise returns the noise value at (x, y, z) normalized to [0, 1].
func (n *Perlin) Noise(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	p := &n.p
	A := int(p[X]) + Y
	AA := int(p[A]) + Z
	AB := int(p[A+1]) + Z
	B := int(p[X+1]) + Y
	BA := int(p[B]) + Z
	BB := int(p[B+1]) + Z

	res := lerp(w,
		lerp(v,
			lerp(u, grad(p[AA], x, y, z), grad(p[BA], x-1, y, z)),
			lerp(u, grad(p[AB], x, y-1, z), grad(p[BB], x-1, y-1, z)),
		),
		lerp(v,
			lerp(u, grad(p[AA+1], x, y, z-1), grad(p[BA+1], x-1, y, z-1)),
			lerp(u, grad(p[AB+1], x, y-1, z-1), grad(p[BB+1], x-1, y-1, z-1)),
		),
	)

	return clamp01((res + 1) / 2)
}

// Noise2 samples the plane z = 0.
func (n *Perlin) Noise2(x, y float64) float64 {
	return n.Noise(x, y, 0)
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad picks one of the 12 cube edge directions from the low four hash bits.
func grad(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DeriveSeed returns an independent seed for a named layer of a world seed,
// so layers built from one world seed stay uncorrelated.
func DeriveSeed(worldSeed int64, layer string) int64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(worldSeed))
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(layer)
	return int64(d.Sum64())
}

var _ Field = (*Perlin)(nil)
