package engine

import (
	gomath "math"

	"github.com/spaghettifunk/modelview/engine/math"
)

const (
	minPolar = 0.01
	maxPolar = gomath.Pi - 0.01
)

// OrbitControls moves the camera on a sphere around its target.
type OrbitControls struct {
	MinDistance float32
	MaxDistance float32
	AutoRotate  bool
	// Radians per second.
	AutoRotateSpeed float32
}

func NewOrbitControls(autoRotate bool) *OrbitControls {
	return &OrbitControls{
		MinDistance:     1,
		MaxDistance:     100,
		AutoRotate:      autoRotate,
		AutoRotateSpeed: 0.5,
	}
}

func (o *OrbitControls) Update(cam *Camera, deltaTime float32) {
	if o.AutoRotate {
		o.Rotate(cam, o.AutoRotateSpeed*deltaTime, 0)
	}
}

// Rotate adds azimuth (around Y) and polar angles to the camera position.
func (o *OrbitControls) Rotate(cam *Camera, azimuth, polar float32) {
	radius, theta, phi := spherical(cam.Position.Sub(cam.Target))
	theta += float64(azimuth)
	phi = float64(math.Clamp(float32(phi)+polar, minPolar, maxPolar))
	cam.Position = cam.Target.Add(cartesian(radius, theta, phi))
}

// Zoom scales the camera distance, clamped to [MinDistance, MaxDistance].
func (o *OrbitControls) Zoom(cam *Camera, factor float32) {
	radius, theta, phi := spherical(cam.Position.Sub(cam.Target))
	radius = float64(math.Clamp(float32(radius)*factor, o.MinDistance, o.MaxDistance))
	cam.Position = cam.Target.Add(cartesian(radius, theta, phi))
}

func spherical(v math.Vec3) (radius, theta, phi float64) {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	radius = gomath.Sqrt(x*x + y*y + z*z)
	if radius == 0 {
		return 0, 0, gomath.Pi / 2
	}
	theta = gomath.Atan2(x, z)
	phi = gomath.Acos(gomath.Max(-1, gomath.Min(1, y/radius)))
	return radius, theta, phi
}

func cartesian(radius, theta, phi float64) math.Vec3 {
	sinPhi := gomath.Sin(phi)
	return math.NewVec3(
		float32(radius*sinPhi*gomath.Sin(theta)),
		float32(radius*gomath.Cos(phi)),
		float32(radius*sinPhi*gomath.Cos(theta)),
	)
}
