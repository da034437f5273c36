package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestHalfScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	dst := HalfScale(src)
	if dst.Bounds().Dx() != 320 || dst.Bounds().Dy() != 240 {
		t.Errorf("expected 320x240, got %v", dst.Bounds())
	}
}

func TestEncodeFrameJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	data, err := EncodeFrameJPEG(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("produced invalid jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != 32 || decoded.Bounds().Dy() != 24 {
		t.Errorf("expected half-scaled 32x24 frame, got %v", decoded.Bounds())
	}
}

func TestCameraArgsPerPlatform(t *testing.T) {
	if _, err := cameraFFmpegArgs("linux", 640, 480, 30); err != nil {
		t.Errorf("linux args: %v", err)
	}
	if _, err := cameraFFmpegArgs("darwin", 640, 480, 30); err != nil {
		t.Errorf("darwin args: %v", err)
	}
	if _, err := cameraFFmpegArgs("plan9", 640, 480, 30); err == nil {
		t.Error("expected unsupported-platform error")
	}
}
