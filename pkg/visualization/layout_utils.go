package visualization

import "math"

// normalizePositions scales positions into the padded canvas with a single
// scale factor so relative distances survive, and centres the result.
func normalizePositions(xs, ys []float64, width, height, padding float64) ([]float64, []float64) {
	if len(xs) == 0 {
		return xs, ys
	}

	// Find bounds
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for i := range xs {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	scale := 1.0
	switch {
	case rangeX < 0.01 && rangeY < 0.01:
		scale = 0
	case rangeX < 0.01:
		scale = targetHeight / rangeY
	case rangeY < 0.01:
		scale = targetWidth / rangeX
	default:
		scale = math.Min(targetWidth/rangeX, targetHeight/rangeY)
	}

	offsetX := padding + (targetWidth-rangeX*scale)/2
	offsetY := padding + (targetHeight-rangeY*scale)/2

	outX := make([]float64, len(xs))
	outY := make([]float64, len(ys))
	for i := range xs {
		outX[i] = offsetX + (xs[i]-minX)*scale
		outY[i] = offsetY + (ys[i]-minY)*scale
	}
	return outX, outY
}

func toPositions(names []string, xs, ys []float64) Positions {
	positions := make(Positions, len(names))
	for i, name := range names {
		positions[name] = Position{X: xs[i], Y: ys[i]}
	}
	return positions
}

func applyDefaults(config *LayoutConfig) {
	if config.Width == 0 {
		config.Width = 1000
	}
	if config.Height == 0 {
		config.Height = 1000
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
}
