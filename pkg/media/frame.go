package media

import (
	"bytes"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"
)

// jpegQuality trades upstream bandwidth against frame legibility for the
// remote coach. Frames are advisory context, not archival media.
const jpegQuality = 70

// HalfScale downscales a frame by half in each dimension.
func HalfScale(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/2, b.Dy()/2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// EncodeFrameJPEG downscales a captured frame by half and compresses it for
// the outbound video sampler.
func EncodeFrameJPEG(frame image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, HalfScale(frame), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
