package xmath

import "math"

// Radians is a newtype wrapper that prevents degree/radian mixups at
// construction sites such as camera field-of-view settings.
type Radians float64

func FromDegrees(deg float64) Radians { return Radians(deg * math.Pi / 180) }

func (r Radians) Float64() float64 { return float64(r) }
