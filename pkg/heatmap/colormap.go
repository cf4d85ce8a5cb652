package heatmap

import "image/color"

// jetLUT is a 256-entry blue-to-red diverging colormap. It follows the
// conventional "jet" ramp: blue at low activation through green and yellow
// to red at high activation.
var jetLUT [256]color.RGBA

func init() {
	for i := 0; i < 256; i++ {
		t := float64(i) / 255.0
		jetLUT[i] = color.RGBA{
			R: jetChannel(1.5 - abs4(t, 0.75)),
			G: jetChannel(1.5 - abs4(t, 0.50)),
			B: jetChannel(1.5 - abs4(t, 0.25)),
			A: 255,
		}
	}
}

func abs4(t, center float64) float64 {
	d := 4 * (t - center)
	if d < 0 {
		return -d
	}
	return d
}

func jetChannel(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

// JetColor maps an activation value in the 0-1 range to its jet color.
// Out-of-range values are clamped.
func JetColor(v float64) color.RGBA {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return jetLUT[int(v*255+0.5)]
}
