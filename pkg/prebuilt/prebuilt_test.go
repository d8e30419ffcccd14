package prebuilt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

func TestRegisterAll(t *testing.T) {
	reg := operator.NewRegistry()
	require.NoError(t, RegisterAll(reg))
	assert.Equal(t, []string{
		"blend", "box_filter", "brightness_contrast", "canny",
		"dilation", "erosion", "gaussian_blur", "image_input",
		"laplacian", "median_blur", "sobel", "threshold",
	}, reg.Kinds())
}

func TestCatalog_DescriptorsValid(t *testing.T) {
	for _, d := range Catalog() {
		assert.NoError(t, d.Validate(), d.KindID)
	}
}

func TestImage(t *testing.T) {
	im := NewImage(4, 3)
	im.Set(1, 1, 300) // clamped
	assert.Equal(t, 255.0, im.At(1, 1))
	im.Set(2, 2, -5)
	assert.Equal(t, 0.0, im.At(2, 2))

	t.Run("edge clamped reads", func(t *testing.T) {
		im.Set(0, 0, 42)
		assert.Equal(t, 42.0, im.At(-3, -3))
		im.Set(3, 2, 7)
		assert.Equal(t, 7.0, im.At(10, 10))
	})

	t.Run("out of bounds writes ignored", func(t *testing.T) {
		im.Set(-1, 0, 99)
		im.Set(4, 0, 99)
		assert.Equal(t, 42.0, im.At(0, 0))
	})

	t.Run("clone is deep", func(t *testing.T) {
		cp := im.Clone()
		cp.Set(0, 0, 1)
		assert.Equal(t, 42.0, im.At(0, 0))
	})
}

func TestOddKernel(t *testing.T) {
	assert.Equal(t, 1, oddKernel(0))
	assert.Equal(t, 3, oddKernel(3))
	assert.Equal(t, 5, oddKernel(4))
}

// runOp instantiates a descriptor, applies parameter overrides, and runs it.
func runOp(t *testing.T, d *operator.Descriptor, params map[string]any, inputs map[string]any) *Image {
	t.Helper()
	inst := operator.NewInstance("n000001", d)
	for name, v := range params {
		require.NoError(t, inst.SetParameter(name, v))
	}
	out, err := d.Process(context.Background(), inst, inputs)
	require.NoError(t, err)
	im, ok := out["image"].(*Image)
	require.True(t, ok)
	return im
}

func constantImage(w, h int, v float64) *Image {
	im := NewImage(w, h)
	for i := range im.Pix {
		im.Pix[i] = v
	}
	return im
}

func TestImageInput(t *testing.T) {
	t.Run("gradient spans levels", func(t *testing.T) {
		im := runOp(t, ImageInput(), map[string]any{"width": 16, "height": 16}, nil)
		assert.Equal(t, 16, im.Width)
		assert.Equal(t, 0.0, im.At(0, 0))
		assert.Equal(t, 255.0, im.At(15, 15))
	})

	t.Run("constant pattern", func(t *testing.T) {
		im := runOp(t, ImageInput(), map[string]any{"pattern": "constant", "value": 200.0, "width": 8, "height": 8}, nil)
		for _, v := range im.Pix {
			assert.Equal(t, 200.0, v)
		}
	})

	t.Run("checker alternates", func(t *testing.T) {
		im := runOp(t, ImageInput(), map[string]any{"pattern": "checker", "width": 32, "height": 32}, nil)
		assert.Equal(t, 255.0, im.At(0, 0))
		assert.Equal(t, 0.0, im.At(8, 0))
	})

	t.Run("rejects unknown pattern", func(t *testing.T) {
		inst := operator.NewInstance("n000001", ImageInput())
		err := inst.SetParameter("pattern", "noise")
		assert.ErrorIs(t, err, operator.ErrOutOfRange)
	})
}

func TestGaussianBlur_PreservesConstant(t *testing.T) {
	in := constantImage(16, 16, 100)
	out := runOp(t, GaussianBlur(), nil, map[string]any{"image": in})
	for _, v := range out.Pix {
		assert.InDelta(t, 100.0, v, 1e-9)
	}
}

func TestGaussianBlur_SmoothsStep(t *testing.T) {
	in := NewImage(16, 16)
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			in.Set(x, y, 255)
		}
	}
	out := runOp(t, GaussianBlur(), map[string]any{"kernel_size": 5, "sigma_x": 2.0, "sigma_y": 2.0}, map[string]any{"image": in})
	// the step edge gets intermediate values
	assert.Greater(t, out.At(7, 8), 0.0)
	assert.Less(t, out.At(8, 8), 255.0)
}

func TestMedianBlur_RemovesImpulseNoise(t *testing.T) {
	in := constantImage(16, 16, 50)
	in.Set(8, 8, 255) // lone impulse
	out := runOp(t, MedianBlur(), map[string]any{"kernel_size": 3}, map[string]any{"image": in})
	assert.Equal(t, 50.0, out.At(8, 8))
}

func TestBoxFilter(t *testing.T) {
	in := constantImage(8, 8, 10)

	t.Run("normalized keeps level", func(t *testing.T) {
		out := runOp(t, BoxFilter(), map[string]any{"kernel_size": 3}, map[string]any{"image": in})
		assert.InDelta(t, 10.0, out.At(4, 4), 1e-9)
	})

	t.Run("unnormalized sums then clamps", func(t *testing.T) {
		out := runOp(t, BoxFilter(), map[string]any{"kernel_size": 3, "normalize": false}, map[string]any{"image": in})
		assert.Equal(t, 90.0, out.At(4, 4))
	})
}

func TestBrightnessContrast(t *testing.T) {
	in := constantImage(4, 4, 100)
	out := runOp(t, BrightnessContrast(), map[string]any{"brightness": 20.0, "contrast": 2.0}, map[string]any{"image": in})
	assert.Equal(t, 220.0, out.At(0, 0))

	t.Run("clamps to range", func(t *testing.T) {
		out := runOp(t, BrightnessContrast(), map[string]any{"brightness": 100.0, "contrast": 3.0}, map[string]any{"image": in})
		assert.Equal(t, 255.0, out.At(0, 0))
	})
}

func TestThreshold(t *testing.T) {
	in := NewImage(2, 1)
	in.Set(0, 0, 100)
	in.Set(1, 0, 200)
	out := runOp(t, Threshold(), map[string]any{"thresh": 127.0, "max_value": 255.0}, map[string]any{"image": in})
	assert.Equal(t, 0.0, out.At(0, 0))
	assert.Equal(t, 255.0, out.At(1, 0))
}

func TestSobel(t *testing.T) {
	t.Run("flat image yields zero response", func(t *testing.T) {
		out := runOp(t, Sobel(), nil, map[string]any{"image": constantImage(8, 8, 77)})
		for _, v := range out.Pix {
			assert.Equal(t, 0.0, v)
		}
	})

	t.Run("vertical edge responds", func(t *testing.T) {
		in := NewImage(8, 8)
		for y := 0; y < 8; y++ {
			for x := 4; x < 8; x++ {
				in.Set(x, y, 255)
			}
		}
		out := runOp(t, Sobel(), nil, map[string]any{"image": in})
		assert.Greater(t, out.At(4, 4), 0.0)
		assert.Equal(t, 0.0, out.At(1, 4))
	})
}

func TestCanny_EdgeOnStep(t *testing.T) {
	in := NewImage(16, 16)
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			in.Set(x, y, 255)
		}
	}
	out := runOp(t, Canny(), nil, map[string]any{"image": in})

	var hits int
	for _, v := range out.Pix {
		if v == 255 {
			hits++
		}
	}
	assert.Greater(t, hits, 0)
	// interior stays dark
	assert.Equal(t, 0.0, out.At(2, 8))
	assert.Equal(t, 0.0, out.At(13, 8))
}

func TestMorphology(t *testing.T) {
	in := constantImage(8, 8, 0)
	in.Set(4, 4, 255) // single bright pixel

	t.Run("erosion removes isolated pixel", func(t *testing.T) {
		out := runOp(t, Erosion(), map[string]any{"kernel_size": 3}, map[string]any{"image": in})
		assert.Equal(t, 0.0, out.At(4, 4))
	})

	t.Run("dilation grows isolated pixel", func(t *testing.T) {
		out := runOp(t, Dilation(), map[string]any{"kernel_size": 3}, map[string]any{"image": in})
		assert.Equal(t, 255.0, out.At(3, 4))
		assert.Equal(t, 255.0, out.At(5, 5))
		assert.Equal(t, 0.0, out.At(6, 4))
	})

	t.Run("iterations compound", func(t *testing.T) {
		out := runOp(t, Dilation(), map[string]any{"kernel_size": 3, "iterations": 2}, map[string]any{"image": in})
		assert.Equal(t, 255.0, out.At(6, 4))
	})

	t.Run("rejects unknown shape", func(t *testing.T) {
		inst := operator.NewInstance("n000001", Erosion())
		err := inst.SetParameter("kernel_shape", "diamond")
		assert.ErrorIs(t, err, operator.ErrOutOfRange)
	})
}

func TestBlend(t *testing.T) {
	a := constantImage(4, 4, 100)
	b := constantImage(4, 4, 200)

	out := runOp(t, Blend(), map[string]any{"alpha": 0.25, "beta": 0.75, "gamma": 10.0},
		map[string]any{"image1": a, "image2": b})
	assert.InDelta(t, 185.0, out.At(0, 0), 1e-9)

	t.Run("output follows first input size", func(t *testing.T) {
		small := constantImage(2, 2, 50)
		out := runOp(t, Blend(), nil, map[string]any{"image1": a, "image2": small})
		assert.Equal(t, 4, out.Width)
		assert.Equal(t, 4, out.Height)
	})
}

func TestFilters_RejectNonImage(t *testing.T) {
	for _, d := range Catalog() {
		if len(d.Inputs) == 0 {
			continue
		}
		inputs := make(map[string]any, len(d.Inputs))
		for _, p := range d.Inputs {
			inputs[p.Name] = "not an image"
		}
		inst := operator.NewInstance("n000001", d)
		_, err := d.Process(context.Background(), inst, inputs)
		assert.ErrorIs(t, err, ErrNotImage, d.KindID)
	}
}
