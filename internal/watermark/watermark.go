// Package watermark inspects the still image laid over the video.
//
// Only the image header is decoded, so a missing or corrupt watermark is
// reported before the overlay stage starts the encoder.
package watermark

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for an image with a zero dimension.
var ErrEmptyImage = errors.New("image has no pixels")

// Info describes a decoded watermark header.
type Info struct {
	Width  int
	Height int
	Format string // png, jpeg, gif, webp, bmp, tiff
}

// Inspect opens path and decodes its image header.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("decode %s: %w", path, ErrEmptyImage)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ScaledHeight is the height the image gets when stretched to width with
// its aspect ratio kept, matching ffmpeg's scale=<width>:-1.
func (i Info) ScaledHeight(width int) int {
	if i.Width <= 0 {
		return 0
	}
	return int(math.Round(float64(i.Height) * float64(width) / float64(i.Width)))
}

// Offset returns the overlay position for a frame of the given size: flush
// left and vertically centered. y is negative when the stretched image is
// taller than the frame.
func (i Info) Offset(frameWidth, frameHeight int) (x, y int) {
	return 0, (frameHeight - i.ScaledHeight(frameWidth)) / 2
}
