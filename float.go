package mandelbrot

// FloatEscape returns the escape time of c computed in floating point,
// starting from z = 0 and stopping once |z|^2 exceeds 4. It is only a rough
// cross-check of the fixed point datapath; the two agree on points where no
// precision is lost.
func FloatEscape(cReal, cImag float64, maxIterations int) int {
	var zReal, zImag float64
	i := 0
	for zReal*zReal+zImag*zImag <= 4 && i < maxIterations {
		zReal, zImag = zReal*zReal-zImag*zImag+cReal, 2*zReal*zImag+cImag
		i++
	}
	return i
}
