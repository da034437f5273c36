package pose

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solidFrame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// frameWithSubject paints a bright rectangle on a dark background at
// normalized coordinates.
func frameWithSubject(x0, y0, x1, y1 float64) *image.RGBA {
	img := solidFrame(color.RGBA{R: 10, G: 10, B: 10, A: 255})
	b := img.Bounds()
	rect := image.Rect(
		int(x0*float64(b.Dx())), int(y0*float64(b.Dy())),
		int(x1*float64(b.Dx())), int(y1*float64(b.Dy())),
	)
	draw.Draw(img, rect, &image.Uniform{C: color.RGBA{R: 230, G: 230, B: 230, A: 255}}, image.Point{}, draw.Src)
	return img
}

func TestEstimateFirstFrameSeedsBackground(t *testing.T) {
	e := NewMotionEstimator()
	landmarks, err := e.Estimate(context.Background(), solidFrame(color.RGBA{R: 10, G: 10, B: 10, A: 255}))
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if landmarks != nil {
		t.Errorf("first frame should yield no landmarks, got %d", len(landmarks))
	}
}

func TestEstimateLocatesSubject(t *testing.T) {
	e := NewMotionEstimator()
	if _, err := e.Estimate(context.Background(), solidFrame(color.RGBA{R: 10, G: 10, B: 10, A: 255})); err != nil {
		t.Fatal(err)
	}

	landmarks, err := e.Estimate(context.Background(), frameWithSubject(0.25, 0.1, 0.75, 0.9))
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if len(landmarks) != LandmarkCount {
		t.Fatalf("got %d landmarks, want %d", len(landmarks), LandmarkCount)
	}

	// The layout must land inside the subject box with grid-cell tolerance.
	const tol = 2.0 / motionGrid
	for i, l := range landmarks {
		if l.X < 0.25-tol || l.X > 0.75+tol || l.Y < 0.1-tol || l.Y > 0.9+tol {
			t.Errorf("landmark %d at (%.2f, %.2f) outside subject box", i, l.X, l.Y)
		}
	}
	nose, ankle := landmarks[Nose], landmarks[LeftAnkle]
	if nose.Y >= ankle.Y {
		t.Errorf("nose (%.2f) must be above ankle (%.2f)", nose.Y, ankle.Y)
	}
}

func TestEstimateStaticSceneYieldsNothing(t *testing.T) {
	e := NewMotionEstimator()
	frame := solidFrame(color.RGBA{R: 80, G: 80, B: 80, A: 255})
	if _, err := e.Estimate(context.Background(), frame); err != nil {
		t.Fatal(err)
	}
	landmarks, err := e.Estimate(context.Background(), frame)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if landmarks != nil {
		t.Errorf("unchanged scene should yield no landmarks, got %d", len(landmarks))
	}
}
