package prebuilt

import (
	"errors"
	"fmt"
)

// Image is a single-channel float image with values in [0, 255]. Row-major
// pixel layout.
type Image struct {
	Width  int       `json:"width" msgpack:"width"`
	Height int       `json:"height" msgpack:"height"`
	Pix    []float64 `json:"pix" msgpack:"pix"`
}

// ErrNotImage is returned when an input payload is not an *Image.
var ErrNotImage = errors.New("input payload is not an image")

// NewImage allocates a zeroed image.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// At returns the pixel value with edge clamping, so window operations need
// no special border handling.
func (im *Image) At(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= im.Width {
		x = im.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= im.Height {
		y = im.Height - 1
	}
	return im.Pix[y*im.Width+x]
}

// Set assigns a pixel, clamping the value into [0, 255]. Out-of-bounds
// coordinates are ignored.
func (im *Image) Set(x, y int, v float64) {
	if x < 0 || x >= im.Width || y < 0 || y >= im.Height {
		return
	}
	im.Pix[y*im.Width+x] = clamp(v)
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := NewImage(im.Width, im.Height)
	copy(out.Pix, im.Pix)
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// imageArg extracts a declared image input from resolved port values.
func imageArg(inputs map[string]any, port string) (*Image, error) {
	v, ok := inputs[port]
	if !ok {
		return nil, fmt.Errorf("%w: port %q missing", ErrNotImage, port)
	}
	im, ok := v.(*Image)
	if !ok || im == nil {
		return nil, fmt.Errorf("%w: port %q carries %T", ErrNotImage, port, v)
	}
	return im, nil
}

// oddKernel forces a kernel size to the next odd value, matching the usual
// convolution convention.
func oddKernel(k int) int {
	if k < 1 {
		return 1
	}
	if k%2 == 0 {
		return k + 1
	}
	return k
}
