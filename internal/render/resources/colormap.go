package resources

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// batlow is a ten-stop sampling of Crameri's perceptually uniform batlow map.
var batlow = []drawing.Color{
	drawing.ColorFromHex("011959"),
	drawing.ColorFromHex("103f60"),
	drawing.ColorFromHex("1c5a62"),
	drawing.ColorFromHex("3c6d56"),
	drawing.ColorFromHex("687b3e"),
	drawing.ColorFromHex("9d892b"),
	drawing.ColorFromHex("d29343"),
	drawing.ColorFromHex("f8a17b"),
	drawing.ColorFromHex("fdb7bc"),
	drawing.ColorFromHex("faccfa"),
}

// Batlow returns the colour at t in [0, 1], interpolating between stops.
// Values outside the range are clamped; NaN maps to the first stop.
func Batlow(t float64) drawing.Color {
	if math.IsNaN(t) || t <= 0 {
		return batlow[0]
	}
	if t >= 1 {
		return batlow[len(batlow)-1]
	}
	pos := t * float64(len(batlow)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := batlow[i], batlow[i+1]
	return drawing.Color{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
