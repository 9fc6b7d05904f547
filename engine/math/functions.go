package math

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

var rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f]", v.X, v.Y, v.Z)
}

// NewColor clamps every component into [0, 1].
func NewColor(r, g, b, a float32) Color {
	return Color{
		R: Clamp(r, 0, 1),
		G: Clamp(g, 0, 1),
		B: Clamp(b, 0, 1),
		A: Clamp(a, 0, 1),
	}
}

// NewColorHex builds an opaque colour from 0xRRGGBB.
func NewColorHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255.0,
		G: float32((hex>>8)&0xff) / 255.0,
		B: float32(hex&0xff) / 255.0,
		A: 1,
	}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(c.R*255+0.5), uint8(c.G*255+0.5), uint8(c.B*255+0.5))
}

// RandomColor returns an opaque colour with every channel in [0.2, 1) so the
// result never disappears against a dark background.
func RandomColor() Color {
	return Color{
		R: 0.2 + 0.8*rng.Float32(),
		G: 0.2 + 0.8*rng.Float32(),
		B: 0.2 + 0.8*rng.Float32(),
		A: 1,
	}
}

// SeedRandom makes RandomColor deterministic.
func SeedRandom(seed uint64) {
	rng.Seed(seed)
}

func NewBox3(min, max Vec3) Box3 {
	return Box3{Min: min, Max: max, valid: true}
}

func (b Box3) IsEmpty() bool {
	return !b.valid
}

// ExpandByPoint grows the box to contain p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	if !b.valid {
		return NewBox3(p, p)
	}
	b.Min = Vec3{X: min32(b.Min.X, p.X), Y: min32(b.Min.Y, p.Y), Z: min32(b.Min.Z, p.Z)}
	b.Max = Vec3{X: max32(b.Max.X, p.X), Y: max32(b.Max.Y, p.Y), Z: max32(b.Max.Z, p.Z)}
	return b
}

func (b Box3) Union(other Box3) Box3 {
	if !other.valid {
		return b
	}
	return b.ExpandByPoint(other.Min).ExpandByPoint(other.Max)
}

// Translate moves the box by offset. Empty boxes stay empty.
func (b Box3) Translate(offset Vec3) Box3 {
	if !b.valid {
		return b
	}
	return NewBox3(b.Min.Add(offset), b.Max.Add(offset))
}

func (b Box3) Center() Vec3 {
	if !b.valid {
		return Vec3{}
	}
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b Box3) Size() Vec3 {
	if !b.valid {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
