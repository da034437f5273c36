package media

import (
	"fmt"
	"image"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/formsense/formsense/pkg/coach"
)

// Camera captures raw RGBA frames through an ffmpeg subprocess and keeps the
// most recent one available for the pose tracker and the outbound video
// sampler. It implements pose.FrameSource.
type Camera struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int

	mu     sync.RWMutex
	latest *image.RGBA
	closed bool
	done   chan struct{}
}

// OpenCamera starts frame capture at the given resolution. A missing ffmpeg
// binary or an unopenable device maps to a permission error.
func OpenCamera(width, height, fps int) (*Camera, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, coach.NewPermissionError("ffmpeg is required for camera capture", err)
	}
	args, err := cameraFFmpegArgs(runtime.GOOS, width, height, fps)
	if err != nil {
		return nil, coach.NewPermissionError("camera capture unsupported on this platform", err)
	}

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open ffmpeg stdout: %w", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, coach.NewPermissionError("camera access denied", err)
	}

	c := &Camera{
		cmd:    cmd,
		stdout: stdout,
		width:  width,
		height: height,
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func cameraFFmpegArgs(goos string, width, height, fps int) ([]string, error) {
	size := fmt.Sprintf("%dx%d", width, height)
	switch goos {
	case "darwin":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-framerate", fmt.Sprintf("%d", fps), "-i", "0",
			"-vf", "scale=" + fmt.Sprintf("%d:%d", width, height),
			"-pix_fmt", "rgba", "-f", "rawvideo", "-",
		}, nil
	case "linux":
		return []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "v4l2", "-framerate", fmt.Sprintf("%d", fps), "-video_size", size, "-i", "/dev/video0",
			"-pix_fmt", "rgba", "-f", "rawvideo", "-",
		}, nil
	default:
		return nil, fmt.Errorf("camera capture is not implemented for %s; supported platforms: darwin, linux", goos)
	}
}

func (c *Camera) readLoop() {
	defer close(c.done)
	frameBytes := c.width * c.height * 4
	buf := make([]byte, frameBytes)
	for {
		if _, err := io.ReadFull(c.stdout, buf); err != nil {
			return
		}
		frame := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
		copy(frame.Pix, buf)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.latest = frame
		c.mu.Unlock()
	}
}

// Frame returns the most recent captured frame, or nil before the first one.
func (c *Camera) Frame() image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.latest == nil {
		return nil
	}
	return c.latest
}

// Size returns the capture resolution.
func (c *Camera) Size() (int, int) {
	return c.width, c.height
}

// Close terminates the capture subprocess. Idempotent.
func (c *Camera) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
	}
	<-c.done
}
