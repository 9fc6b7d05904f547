package math

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Color is a linear RGBA colour, components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Box3 is an axis aligned bounding box. The zero value is empty.
type Box3 struct {
	Min, Max Vec3
	valid    bool
}
