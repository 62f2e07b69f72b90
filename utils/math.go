package utils

// Float64sToFloat32s narrows src into dst element by element. Each value is converted, not
// rounded to a coarser grid, so the result is the nearest float32. dst must be at least as long
// as src.
func Float64sToFloat32s(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}

// Float32sToFloat64s widens src into dst element by element.
func Float32sToFloat64s(dst []float64, src []float32) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}
