package imaging

import "math"

// Canny hysteresis thresholds used by the outline strategy, on the 0-255
// gradient scale.
const (
	CannyLow  = 80
	CannyHigh = 200
)

// Canny performs Canny edge detection on an already denoised raster.
//
// Parameters:
//   - r: Source intensities. Callers blur first; Canny itself does not smooth.
//   - low: Gradient magnitude at or below which a pixel is never an edge.
//   - high: Gradient magnitude above which a pixel is a strong edge.
//
// Returns a mask where edge pixels are foreground.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators on 0-255 intensities,
//     magnitude = |Gx| + |Gy|, direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: keep only local maxima along the gradient
//     direction (quantized to 0°, 45°, 90°, 135°)
//
//  3. Hysteresis: pixels > high seed the edge set; pixels > low join it
//     when 8-connected to a pixel already in the set
func Canny(r *Raster, low, high float64) *Mask {
	width, height := r.W, r.H
	out := NewMask(width, height)
	if width < 3 || height < 3 {
		return out
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					v := float64(r.Pix[py*width+px])
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Abs(gx) + math.Abs(gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]
			if mag <= low {
				continue
			}

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			} else {
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis: grow strong edges through weak ones
	stack := make([]int, 0, 64)
	for i, v := range suppressed {
		if v > high {
			out.Pix[i] = Foreground
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if out.Pix[j] == Foreground || suppressed[j] <= low {
					continue
				}
				out.Pix[j] = Foreground
				stack = append(stack, j)
			}
		}
	}

	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
