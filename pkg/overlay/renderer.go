// Package overlay paints the AR coaching layer: the tracked skeleton tinted
// by the current form assessment, a feedback callout anchored to the body
// region under discussion, and static framing brackets. The renderer is
// strictly a reader of the shared overlay state; it never blocks and never
// mutates it.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/formsense/formsense/pkg/coach"
	"github.com/formsense/formsense/pkg/pose"
)

// Status tints. Scanning doubles as the default when no assessment exists.
var (
	colorScanning  = color.RGBA{R: 34, G: 211, B: 238, A: 255} // cyan
	colorCorrect   = color.RGBA{R: 34, G: 197, B: 94, A: 255}  // green
	colorWarning   = color.RGBA{R: 245, G: 158, B: 11, A: 255} // amber
	colorIncorrect = color.RGBA{R: 239, G: 68, B: 68, A: 255}  // red
	colorLabelBG   = color.RGBA{R: 15, G: 23, B: 42, A: 230}
	colorLabelText = color.RGBA{R: 241, G: 245, B: 249, A: 255}
)

// StatusColor maps a form status to its skeleton tint.
func StatusColor(status coach.FormStatus) color.RGBA {
	switch status {
	case coach.StatusCorrect:
		return colorCorrect
	case coach.StatusWarning:
		return colorWarning
	case coach.StatusIncorrect:
		return colorIncorrect
	default:
		return colorScanning
	}
}

// AnchorLandmark maps a focus area to the landmark its callout attaches to.
// Unmapped areas draw no callout.
func AnchorLandmark(area coach.FocusArea) (int, bool) {
	switch area {
	case coach.FocusHead:
		return pose.Nose, true
	case coach.FocusShoulders:
		return pose.LeftShoulder, true
	case coach.FocusHips:
		return pose.LeftHip, true
	default:
		return 0, false
	}
}

// Renderer repaints the transparent overlay layer once per display tick.
type Renderer struct {
	state *coach.StateStore
	layer *image.RGBA
}

// NewRenderer creates a renderer reading from the shared state store.
func NewRenderer(state *coach.StateStore) *Renderer {
	return &Renderer{state: state}
}

// Render produces the overlay for one tick. The layer is resized to the
// current video dimensions, which can change with orientation or layout.
// The landmark set may be nil before tracking warms up.
func (r *Renderer) Render(landmarks []pose.Landmark, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return nil
	}
	if r.layer == nil || r.layer.Bounds().Dx() != width || r.layer.Bounds().Dy() != height {
		r.layer = image.NewRGBA(image.Rect(0, 0, width, height))
	} else {
		draw.Draw(r.layer, r.layer.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}

	state := r.state.Load()
	tint := StatusColor(state.Status)

	if len(landmarks) >= pose.LandmarkCount {
		r.drawSkeleton(landmarks, tint, width, height)
		if state.Status == coach.StatusWarning || state.Status == coach.StatusIncorrect {
			if idx, ok := AnchorLandmark(state.FocusArea); ok {
				anchor := toPixel(landmarks[idx], width, height)
				r.drawCallout(anchor, state.Feedback, tint)
			}
		}
	}

	r.drawCornerBrackets(width, height)
	return r.layer
}

func toPixel(l pose.Landmark, width, height int) image.Point {
	return image.Point{
		X: int(l.X * float64(width)),
		Y: int(l.Y * float64(height)),
	}
}

func (r *Renderer) drawSkeleton(landmarks []pose.Landmark, tint color.RGBA, width, height int) {
	for _, conn := range pose.Connections {
		a := toPixel(landmarks[conn[0]], width, height)
		b := toPixel(landmarks[conn[1]], width, height)
		drawLine(r.layer, a, b, tint)
	}
	for _, l := range landmarks {
		drawDot(r.layer, toPixel(l, width, height), 3, tint)
	}
}

// drawCallout paints the feedback label in a floating box above the anchor,
// connected by a leader line.
func (r *Renderer) drawCallout(anchor image.Point, text string, tint color.RGBA) {
	const (
		liftY   = 48
		padding = 6
	)
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()

	boxW := textWidth + 2*padding
	boxH := face.Metrics().Height.Ceil() + 2*padding
	boxX := clamp(anchor.X-boxW/2, 0, r.layer.Bounds().Dx()-boxW)
	boxY := clamp(anchor.Y-liftY-boxH, 0, r.layer.Bounds().Dy()-boxH)

	drawLine(r.layer, anchor, image.Point{X: boxX + boxW/2, Y: boxY + boxH}, tint)
	fillRect(r.layer, image.Rect(boxX, boxY, boxX+boxW, boxY+boxH), colorLabelBG)
	strokeRect(r.layer, image.Rect(boxX, boxY, boxX+boxW, boxY+boxH), tint)

	drawer := font.Drawer{
		Dst:  r.layer,
		Src:  image.NewUniform(colorLabelText),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(boxX + padding),
			Y: fixed.I(boxY + padding + face.Metrics().Ascent.Ceil()),
		},
	}
	drawer.DrawString(text)
}

// drawCornerBrackets paints the static framing decoration, independent of
// coaching state.
func (r *Renderer) drawCornerBrackets(width, height int) {
	const (
		margin = 16
		arm    = 28
	)
	corners := []struct {
		x, y   int
		dx, dy int
	}{
		{margin, margin, 1, 1},
		{width - margin - 1, margin, -1, 1},
		{margin, height - margin - 1, 1, -1},
		{width - margin - 1, height - margin - 1, -1, -1},
	}
	for _, c := range corners {
		drawLine(r.layer, image.Point{X: c.x, Y: c.y}, image.Point{X: c.x + c.dx*arm, Y: c.y}, colorScanning)
		drawLine(r.layer, image.Point{X: c.x, Y: c.y}, image.Point{X: c.x, Y: c.y + c.dy*arm}, colorScanning)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
