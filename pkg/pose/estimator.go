package pose

import (
	"context"
	"image"
	"sync"
)

// canonicalLayout places each landmark inside a unit body box. The motion
// estimator scales this layout into the detected subject region.
var canonicalLayout = [LandmarkCount]Landmark{
	Nose:          {X: 0.50, Y: 0.06},
	LeftEye:       {X: 0.44, Y: 0.04},
	RightEye:      {X: 0.56, Y: 0.04},
	LeftEar:       {X: 0.40, Y: 0.06},
	RightEar:      {X: 0.60, Y: 0.06},
	LeftShoulder:  {X: 0.30, Y: 0.20},
	RightShoulder: {X: 0.70, Y: 0.20},
	LeftElbow:     {X: 0.22, Y: 0.36},
	RightElbow:    {X: 0.78, Y: 0.36},
	LeftWrist:     {X: 0.18, Y: 0.52},
	RightWrist:    {X: 0.82, Y: 0.52},
	LeftHip:       {X: 0.38, Y: 0.52},
	RightHip:      {X: 0.62, Y: 0.52},
	LeftKnee:      {X: 0.37, Y: 0.74},
	RightKnee:     {X: 0.63, Y: 0.74},
	LeftAnkle:     {X: 0.36, Y: 0.96},
	RightAnkle:    {X: 0.64, Y: 0.96},
}

const (
	// motionGrid is the downsampled analysis resolution. Coarse on purpose:
	// the estimator locates the subject, it does not resolve joints.
	motionGrid = 32

	// motionThreshold is the minimum per-cell luminance delta (0-255) that
	// counts as subject movement against the background frame.
	motionThreshold = 24

	// minMotionCells is the minimum number of moving cells before a frame is
	// considered to contain a subject at all.
	minMotionCells = 4
)

// MotionEstimator is a dependency-free local estimator: it learns the first
// frame as background, finds the bounding box of cells that have changed
// since, and projects a canonical body layout into that box. Good enough to
// anchor the overlay; a real landmark model can replace it behind the same
// interface.
type MotionEstimator struct {
	mu         sync.Mutex
	background []uint8
}

// NewMotionEstimator creates an estimator with no background learned yet.
func NewMotionEstimator() *MotionEstimator {
	return &MotionEstimator{}
}

// Estimate returns the landmark set for the frame, or nil when no subject is
// detected. The first frame seeds the background and yields no landmarks.
func (e *MotionEstimator) Estimate(_ context.Context, frame image.Image) ([]Landmark, error) {
	grid := luminanceGrid(frame)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.background == nil {
		e.background = grid
		return nil, nil
	}

	minX, minY, maxX, maxY := motionGrid, motionGrid, -1, -1
	moving := 0
	for y := 0; y < motionGrid; y++ {
		for x := 0; x < motionGrid; x++ {
			d := int(grid[y*motionGrid+x]) - int(e.background[y*motionGrid+x])
			if d < 0 {
				d = -d
			}
			if d < motionThreshold {
				continue
			}
			moving++
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if moving < minMotionCells {
		return nil, nil
	}

	// Normalized subject box, cell centers inclusive.
	bx := float64(minX) / motionGrid
	by := float64(minY) / motionGrid
	bw := float64(maxX-minX+1) / motionGrid
	bh := float64(maxY-minY+1) / motionGrid

	landmarks := make([]Landmark, LandmarkCount)
	for i, l := range canonicalLayout {
		landmarks[i] = Landmark{X: bx + l.X*bw, Y: by + l.Y*bh}
	}
	return landmarks, nil
}

// luminanceGrid downsamples a frame to a motionGrid² brightness map.
func luminanceGrid(frame image.Image) []uint8 {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	grid := make([]uint8, motionGrid*motionGrid)
	if w == 0 || h == 0 {
		return grid
	}
	for gy := 0; gy < motionGrid; gy++ {
		for gx := 0; gx < motionGrid; gx++ {
			px := b.Min.X + gx*w/motionGrid + w/(2*motionGrid)
			py := b.Min.Y + gy*h/motionGrid + h/(2*motionGrid)
			r, g, bl, _ := frame.At(px, py).RGBA()
			// Rec. 601 luma on 16-bit channels.
			grid[gy*motionGrid+gx] = uint8((299*r + 587*g + 114*bl) / 1000 >> 8)
		}
	}
	return grid
}
