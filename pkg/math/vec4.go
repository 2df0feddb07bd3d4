package math

// Vec4 is a 4-component vector. Colors use it as RGBA.
type Vec4 [4]float32

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Clamp limits every component to [lo, hi] independently. NaN becomes lo.
func (v Vec4) Clamp(lo, hi float32) Vec4 {
	for i := range v {
		if !(v[i] >= lo) {
			v[i] = lo
		} else if v[i] > hi {
			v[i] = hi
		}
	}
	return v
}
