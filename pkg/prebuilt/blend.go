package prebuilt

import (
	"context"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// Blend computes alpha*image1 + beta*image2 + gamma. The second image is
// sampled with edge clamping when sizes differ; output dimensions follow
// the first input.
func Blend() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "blend",
		Name:   "Image Blender",
		Parameters: []operator.ParameterSpec{
			{Name: "alpha", Kind: operator.ParamFloat, Default: 0.5, Min: operator.Bound(0), Max: operator.Bound(1), Description: "weight of the first image"},
			{Name: "beta", Kind: operator.ParamFloat, Default: 0.5, Min: operator.Bound(0), Max: operator.Bound(1), Description: "weight of the second image"},
			{Name: "gamma", Kind: operator.ParamFloat, Default: 0.0, Min: operator.Bound(-100), Max: operator.Bound(100), Description: "brightness offset"},
		},
		Inputs:  operator.InputPorts("image1", "image2"),
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			a, err := imageArg(inputs, "image1")
			if err != nil {
				return nil, err
			}
			b, err := imageArg(inputs, "image2")
			if err != nil {
				return nil, err
			}
			alpha := inst.FloatParam("alpha")
			beta := inst.FloatParam("beta")
			gamma := inst.FloatParam("gamma")
			out := NewImage(a.Width, a.Height)
			for y := 0; y < a.Height; y++ {
				for x := 0; x < a.Width; x++ {
					out.Set(x, y, alpha*a.At(x, y)+beta*b.At(x, y)+gamma)
				}
			}
			return map[string]any{"image": out}, nil
		},
	}
}
