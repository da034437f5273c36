package overlay

import (
	"image"
	"image/color"
)

// drawLine rasterizes a line segment with Bresenham's algorithm, clipping to
// the image bounds.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		setPixel(img, x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// drawDot fills a small disc centered on p.
func drawDot(img *image.RGBA, p image.Point, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setPixel(img, p.X+dx, p.Y+dy, c)
			}
		}
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	drawLine(img, r.Min, image.Point{X: r.Max.X - 1, Y: r.Min.Y}, c)
	drawLine(img, image.Point{X: r.Max.X - 1, Y: r.Min.Y}, image.Point{X: r.Max.X - 1, Y: r.Max.Y - 1}, c)
	drawLine(img, image.Point{X: r.Max.X - 1, Y: r.Max.Y - 1}, image.Point{X: r.Min.X, Y: r.Max.Y - 1}, c)
	drawLine(img, image.Point{X: r.Min.X, Y: r.Max.Y - 1}, r.Min, c)
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
