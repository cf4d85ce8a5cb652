// Package annotate renders detected regions onto the original image as
// bounding boxes with attached labels. Both image variants draw from the
// same final region list, so a box and its label can never disagree about
// coordinates.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mammocad/pkg/findings"
)

// Box line width in pixels.
const lineWidth = 4

// Label layout constants: inner padding around the text and the vertical
// offset between an above-box label and the box edge.
const (
	labelPadding = 8
	labelOffset  = 6
)

// Severity palette for the typed variant.
var (
	colorHigh    = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	colorMedium  = color.RGBA{R: 245, G: 158, B: 11, A: 255}
	colorLow     = color.RGBA{R: 16, G: 185, B: 129, A: 255}
	colorDefault = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// DrawNumberedRegions renders the plain variant: red boxes with
// "Region N: confidence%" labels.
func DrawNumberedRegions(img image.Image, regions []findings.Region) *image.RGBA {
	out := copyImage(img)
	for _, r := range regions {
		label := fmt.Sprintf("Region %d: %.1f%%", r.ID, r.Confidence)
		drawBox(out, r.BBox, colorDefault)
		drawLabel(out, r.BBox, label, colorDefault)
	}
	return out
}

// DrawTypedRegions renders the classified variant: boxes colored by
// severity with "{lesion type} - {confidence}%" labels.
func DrawTypedRegions(img image.Image, regions []findings.Region) *image.RGBA {
	out := copyImage(img)
	for _, r := range regions {
		c := severityColor(r.Severity)
		label := fmt.Sprintf("%s - %.0f%%", r.LesionType, r.Confidence)
		drawBox(out, r.BBox, c)
		drawLabel(out, r.BBox, label, c)
	}
	return out
}

func severityColor(severity string) color.RGBA {
	switch severity {
	case "high":
		return colorHigh
	case "medium", "moderate":
		return colorMedium
	case "low":
		return colorLow
	default:
		return colorDefault
	}
}

func copyImage(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}

// drawBox draws a hollow rectangle with the configured line width,
// thickening inward so the outer extent matches the box coordinates.
func drawBox(img *image.RGBA, b findings.BBox, c color.RGBA) {
	for t := 0; t < lineWidth; t++ {
		drawHLine(img, b.X1, b.X2, b.Y1+t, c)
		drawHLine(img, b.X1, b.X2, b.Y2-t, c)
		drawVLine(img, b.X1+t, b.Y1, b.Y2, c)
		drawVLine(img, b.X2-t, b.Y1, b.Y2, c)
	}
}

func drawHLine(img *image.RGBA, x1, x2, y int, c color.RGBA) {
	if y < img.Bounds().Min.Y || y >= img.Bounds().Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= img.Bounds().Min.X && x < img.Bounds().Max.X {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawVLine(img *image.RGBA, x, y1, y2 int, c color.RGBA) {
	if x < img.Bounds().Min.X || x >= img.Bounds().Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= img.Bounds().Min.Y && y < img.Bounds().Max.Y {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawLabel places the label block above the box when there is enough
// vertical space for the text plus padding, otherwise inside the box at
// its top-left corner. The background takes the box color; the text is
// white.
func drawLabel(img *image.RGBA, b findings.BBox, label string, c color.RGBA) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, label).Ceil()
	textHeight := face.Height

	spaceNeeded := textHeight + 2*labelPadding + labelOffset

	var labelX, bgY1, bgY2 int
	if b.Y1 >= spaceNeeded {
		// Above the box
		labelX = b.X1 + 5
		bgY1 = b.Y1 - spaceNeeded
		bgY2 = b.Y1 - labelOffset
	} else {
		// Inside the box at the top-left
		labelX = b.X1 + labelPadding
		bgY1 = b.Y1 + 5
		bgY2 = b.Y1 + 5 + textHeight + 2*labelPadding
	}

	bgRect := image.Rect(labelX-labelPadding, bgY1, labelX+textWidth+labelPadding, bgY2)
	draw.Draw(img, bgRect.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: colorText},
		Face: face,
		Dot:  fixed.P(labelX, bgY1+labelPadding+face.Ascent),
	}
	drawer.DrawString(label)
}
