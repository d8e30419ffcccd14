package prebuilt

import (
	"context"
	"math"
	"sort"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// GaussianBlur smooths with a separable Gaussian kernel.
func GaussianBlur() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "gaussian_blur",
		Name:   "Gaussian Blur",
		Parameters: []operator.ParameterSpec{
			{Name: "kernel_size", Kind: operator.ParamInteger, Default: 5, Min: operator.Bound(1), Max: operator.Bound(99), Description: "kernel size, forced odd"},
			{Name: "sigma_x", Kind: operator.ParamFloat, Default: 1.0, Min: operator.Bound(0.1), Max: operator.Bound(10.0), Description: "horizontal standard deviation"},
			{Name: "sigma_y", Kind: operator.ParamFloat, Default: 1.0, Min: operator.Bound(0.1), Max: operator.Bound(10.0), Description: "vertical standard deviation"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			k := oddKernel(inst.IntParam("kernel_size"))
			horizontal := convolve1D(im, gaussianKernel(k, inst.FloatParam("sigma_x")), true)
			out := convolve1D(horizontal, gaussianKernel(k, inst.FloatParam("sigma_y")), false)
			return map[string]any{"image": out}, nil
		},
	}
}

// MedianBlur replaces each pixel with its window median.
func MedianBlur() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "median_blur",
		Name:   "Median Blur",
		Parameters: []operator.ParameterSpec{
			{Name: "kernel_size", Kind: operator.ParamInteger, Default: 5, Min: operator.Bound(1), Max: operator.Bound(99), Description: "kernel size, forced odd"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			k := oddKernel(inst.IntParam("kernel_size"))
			r := k / 2
			out := NewImage(im.Width, im.Height)
			window := make([]float64, 0, k*k)
			for y := 0; y < im.Height; y++ {
				for x := 0; x < im.Width; x++ {
					window = window[:0]
					for dy := -r; dy <= r; dy++ {
						for dx := -r; dx <= r; dx++ {
							window = append(window, im.At(x+dx, y+dy))
						}
					}
					sort.Float64s(window)
					out.Set(x, y, window[len(window)/2])
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}

// BoxFilter averages (or sums when normalize is off) a square window.
func BoxFilter() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "box_filter",
		Name:   "Box Filter",
		Parameters: []operator.ParameterSpec{
			{Name: "kernel_size", Kind: operator.ParamInteger, Default: 5, Min: operator.Bound(1), Max: operator.Bound(99), Description: "window size"},
			{Name: "normalize", Kind: operator.ParamBoolean, Default: true, Description: "divide by window area"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			k := oddKernel(inst.IntParam("kernel_size"))
			r := k / 2
			norm := inst.BoolParam("normalize")
			out := NewImage(im.Width, im.Height)
			for y := 0; y < im.Height; y++ {
				for x := 0; x < im.Width; x++ {
					var sum float64
					for dy := -r; dy <= r; dy++ {
						for dx := -r; dx <= r; dx++ {
							sum += im.At(x+dx, y+dy)
						}
					}
					if norm {
						sum /= float64(k * k)
					}
					out.Set(x, y, sum)
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}

// BrightnessContrast applies out = in*contrast + brightness.
func BrightnessContrast() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "brightness_contrast",
		Name:   "Brightness/Contrast",
		Parameters: []operator.ParameterSpec{
			{Name: "brightness", Kind: operator.ParamFloat, Default: 0.0, Min: operator.Bound(-100), Max: operator.Bound(100), Description: "additive offset"},
			{Name: "contrast", Kind: operator.ParamFloat, Default: 1.0, Min: operator.Bound(0.1), Max: operator.Bound(3.0), Description: "multiplicative gain"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			b := inst.FloatParam("brightness")
			c := inst.FloatParam("contrast")
			out := NewImage(im.Width, im.Height)
			for i, v := range im.Pix {
				out.Pix[i] = clamp(v*c + b)
			}
			return map[string]any{"image": out}, nil
		},
	}
}

// Threshold binarizes against a fixed level.
func Threshold() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "threshold",
		Name:   "Threshold",
		Parameters: []operator.ParameterSpec{
			{Name: "thresh", Kind: operator.ParamFloat, Default: 127.0, Min: operator.Bound(0), Max: operator.Bound(255), Description: "threshold level"},
			{Name: "max_value", Kind: operator.ParamFloat, Default: 255.0, Min: operator.Bound(0), Max: operator.Bound(255), Description: "value assigned above threshold"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			t := inst.FloatParam("thresh")
			maxV := inst.FloatParam("max_value")
			out := NewImage(im.Width, im.Height)
			for i, v := range im.Pix {
				if v > t {
					out.Pix[i] = maxV
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}

func gaussianKernel(size int, sigma float64) []float64 {
	r := size / 2
	k := make([]float64, size)
	var sum float64
	for i := -r; i <= r; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+r] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

func convolve1D(im *Image, kernel []float64, horizontal bool) *Image {
	r := len(kernel) / 2
	out := NewImage(im.Width, im.Height)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			var sum float64
			for i := -r; i <= r; i++ {
				if horizontal {
					sum += kernel[i+r] * im.At(x+i, y)
				} else {
					sum += kernel[i+r] * im.At(x, y+i)
				}
			}
			out.Set(x, y, sum)
		}
	}
	return out
}
