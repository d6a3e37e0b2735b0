// Package collision provides axis-aligned bounding boxes and overlap tests
// in world space.
package collision

// Vec3 is a point or extent in world space. X runs along grid columns,
// Z along grid rows, Y is height.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// Object is anything with a centre position and a size.
type Object struct {
	Position Vec3
	Size     Vec3
}

// FromObject builds the box centred on o.Position with extents o.Size.
func FromObject(o Object) Box {
	half := o.Size.Scale(0.5)
	return Box{Min: o.Position.Sub(half), Max: o.Position.Add(half)}
}

// Intersects reports whether b and other overlap. Touching faces count.
func (b Box) Intersects(other Box) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// CollidesWithAny reports whether obj overlaps any of obstacles.
func CollidesWithAny(obj Object, obstacles []Object) bool {
	box := FromObject(obj)
	for _, o := range obstacles {
		if box.Intersects(FromObject(o)) {
			return true
		}
	}
	return false
}
