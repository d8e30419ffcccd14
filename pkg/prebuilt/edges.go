package prebuilt

import (
	"context"
	"math"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// Sobel computes gradient magnitude with 3x3 Sobel kernels.
func Sobel() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "sobel",
		Name:   "Sobel",
		Parameters: []operator.ParameterSpec{
			{Name: "scale", Kind: operator.ParamFloat, Default: 1.0, Min: operator.Bound(0.1), Max: operator.Bound(10.0), Description: "magnitude scale factor"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			scale := inst.FloatParam("scale")
			out := NewImage(im.Width, im.Height)
			for y := 0; y < im.Height; y++ {
				for x := 0; x < im.Width; x++ {
					gx, gy := sobelAt(im, x, y)
					out.Set(x, y, scale*math.Hypot(gx, gy))
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}

// Laplacian applies the 4-neighbor Laplacian and reports its magnitude.
func Laplacian() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "laplacian",
		Name:   "Laplacian",
		Parameters: []operator.ParameterSpec{
			{Name: "scale", Kind: operator.ParamFloat, Default: 1.0, Min: operator.Bound(0.1), Max: operator.Bound(10.0), Description: "magnitude scale factor"},
			{Name: "delta", Kind: operator.ParamFloat, Default: 0.0, Min: operator.Bound(-100), Max: operator.Bound(100), Description: "offset added to the result"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			scale := inst.FloatParam("scale")
			delta := inst.FloatParam("delta")
			out := NewImage(im.Width, im.Height)
			for y := 0; y < im.Height; y++ {
				for x := 0; x < im.Width; x++ {
					lap := im.At(x-1, y) + im.At(x+1, y) + im.At(x, y-1) + im.At(x, y+1) - 4*im.At(x, y)
					out.Set(x, y, math.Abs(lap)*scale+delta)
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}

// Canny is a simplified Canny-style detector: Sobel magnitude followed by
// double thresholding with one-pass hysteresis against strong neighbors.
func Canny() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "canny",
		Name:   "Canny Edge Detection",
		Parameters: []operator.ParameterSpec{
			{Name: "low_threshold", Kind: operator.ParamFloat, Default: 50.0, Min: operator.Bound(0), Max: operator.Bound(255), Description: "weak edge threshold"},
			{Name: "high_threshold", Kind: operator.ParamFloat, Default: 150.0, Min: operator.Bound(0), Max: operator.Bound(255), Description: "strong edge threshold"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			low := inst.FloatParam("low_threshold")
			high := inst.FloatParam("high_threshold")

			mag := NewImage(im.Width, im.Height)
			for y := 0; y < im.Height; y++ {
				for x := 0; x < im.Width; x++ {
					gx, gy := sobelAt(im, x, y)
					mag.Pix[y*im.Width+x] = math.Hypot(gx, gy)
				}
			}

			out := NewImage(im.Width, im.Height)
			for y := 0; y < im.Height; y++ {
				for x := 0; x < im.Width; x++ {
					m := mag.Pix[y*im.Width+x]
					switch {
					case m >= high:
						out.Set(x, y, 255)
					case m >= low && hasStrongNeighbor(mag, x, y, high):
						out.Set(x, y, 255)
					}
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}

func sobelAt(im *Image, x, y int) (gx, gy float64) {
	gx = -im.At(x-1, y-1) - 2*im.At(x-1, y) - im.At(x-1, y+1) +
		im.At(x+1, y-1) + 2*im.At(x+1, y) + im.At(x+1, y+1)
	gy = -im.At(x-1, y-1) - 2*im.At(x, y-1) - im.At(x+1, y-1) +
		im.At(x-1, y+1) + 2*im.At(x, y+1) + im.At(x+1, y+1)
	return gx, gy
}

func hasStrongNeighbor(mag *Image, x, y int, high float64) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if mag.At(x+dx, y+dy) >= high {
				return true
			}
		}
	}
	return false
}
