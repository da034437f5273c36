// Package pose runs the local skeletal tracking loop. Tracking is driven by
// the display refresh cadence and is independent of network state: it starts
// as soon as the estimation model is available and keeps running whether or
// not the coaching channel is connected.
package pose

import (
	"context"
	"image"
)

// Landmark is a normalized 2D skeletal keypoint: positions in [0,1] relative
// to the frame dimensions.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark indices of the estimated skeleton topology.
const (
	Nose = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	LandmarkCount
)

// Connections lists the skeleton edges the overlay draws between landmarks.
var Connections = [][2]int{
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
}

// Estimator produces a landmark set for one video frame. The concrete
// estimation backend is injected at construction; the tracker does not care
// how the model is loaded.
type Estimator interface {
	Estimate(ctx context.Context, frame image.Image) ([]Landmark, error)
}

// FrameSource yields the most recent captured video frame, or nil when no
// frame is available yet.
type FrameSource interface {
	Frame() image.Image
}
