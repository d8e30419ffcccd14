package prebuilt

import (
	"context"
	"fmt"
	"math"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// ImageInput is the source operator: it synthesizes a deterministic test
// pattern instead of reading from disk, which keeps the engine free of file
// I/O. Callers that load real images register their own source kind.
func ImageInput() *operator.Descriptor {
	return &operator.Descriptor{
		KindID: "image_input",
		Name:   "Image Input",
		Parameters: []operator.ParameterSpec{
			{Name: "width", Kind: operator.ParamInteger, Default: 64, Min: operator.Bound(1), Max: operator.Bound(4096), Description: "image width in pixels"},
			{Name: "height", Kind: operator.ParamInteger, Default: 64, Min: operator.Bound(1), Max: operator.Bound(4096), Description: "image height in pixels"},
			{Name: "pattern", Kind: operator.ParamText, Default: "gradient", Choices: []string{"gradient", "checker", "constant"}, Description: "synthesized test pattern"},
			{Name: "value", Kind: operator.ParamFloat, Default: 128.0, Min: operator.Bound(0), Max: operator.Bound(255), Description: "constant pattern level"},
		},
		Outputs: operator.OutputPorts("image"),
		Process: func(ctx context.Context, inst *operator.Instance, inputs map[string]any) (map[string]any, error) {
			w := inst.IntParam("width")
			h := inst.IntParam("height")
			out := NewImage(w, h)
			switch pattern := inst.TextParam("pattern"); pattern {
			case "gradient":
				span := math.Max(1, float64(w+h-2))
				for y := 0; y < h; y++ {
					for x := 0; x < w; x++ {
						out.Set(x, y, 255*float64(x+y)/span)
					}
				}
			case "checker":
				for y := 0; y < h; y++ {
					for x := 0; x < w; x++ {
						if (x/8+y/8)%2 == 0 {
							out.Set(x, y, 255)
						}
					}
				}
			case "constant":
				v := inst.FloatParam("value")
				for i := range out.Pix {
					out.Pix[i] = clamp(v)
				}
			default:
				return nil, fmt.Errorf("unsupported pattern %q", pattern)
			}
			return map[string]any{"image": out}, nil
		},
	}
}
