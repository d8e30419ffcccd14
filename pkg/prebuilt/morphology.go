package prebuilt

import (
	"context"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

var kernelShapes = []string{"rect", "ellipse", "cross"}

// Erosion takes the window minimum under a structuring element.
func Erosion() *operator.Descriptor {
	return morphDescriptor("erosion", "Erosion", func(a, b float64) bool { return a < b })
}

// Dilation takes the window maximum under a structuring element.
func Dilation() *operator.Descriptor {
	return morphDescriptor("dilation", "Dilation", func(a, b float64) bool { return a > b })
}

func morphDescriptor(kindID, name string, better func(a, b float64) bool) *operator.Descriptor {
	return &operator.Descriptor{
		KindID: kindID,
		Name:   name,
		Parameters: []operator.ParameterSpec{
			{Name: "kernel_size", Kind: operator.ParamInteger, Default: 5, Min: operator.Bound(1), Max: operator.Bound(25), Description: "structuring element size"},
			{Name: "kernel_shape", Kind: operator.ParamText, Default: "rect", Choices: kernelShapes, Description: "structuring element shape"},
			{Name: "iterations", Kind: operator.ParamInteger, Default: 1, Min: operator.Bound(1), Max: operator.Bound(10), Description: "number of passes"},
		},
		Inputs:  operator.InputPorts("image"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			im, err := imageArg(inputs, "image")
			if err != nil {
				return nil, err
			}
			k := oddKernel(inst.IntParam("kernel_size"))
			element := structuringElement(inst.TextParam("kernel_shape"), k)
			out := im
			for i := 0; i < inst.IntParam("iterations"); i++ {
				out = morphPass(out, element, k, better)
			}
			if out == im {
				out = im.Clone()
			}
			return map[string]any{"image": out}, nil
		},
	}
}

func morphPass(im *Image, element []bool, k int, better func(a, b float64) bool) *Image {
	r := k / 2
	out := NewImage(im.Width, im.Height)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			best := im.At(x, y)
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if !element[(dy+r)*k+(dx+r)] {
						continue
					}
					if v := im.At(x+dx, y+dy); better(v, best) {
						best = v
					}
				}
			}
			out.Pix[y*im.Width+x] = best
		}
	}
	return out
}

// structuringElement builds the boolean mask for a kernel shape.
func structuringElement(shape string, k int) []bool {
	r := k / 2
	mask := make([]bool, k*k)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			idx := (dy+r)*k + (dx + r)
			switch shape {
			case "ellipse":
				if r == 0 {
					mask[idx] = true
					continue
				}
				fx, fy := float64(dx)/float64(r), float64(dy)/float64(r)
				mask[idx] = fx*fx+fy*fy <= 1
			case "cross":
				mask[idx] = dx == 0 || dy == 0
			default: // rect
				mask[idx] = true
			}
		}
	}
	return mask
}
