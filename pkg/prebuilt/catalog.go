package prebuilt

import (
	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// Catalog returns one descriptor per built-in operator kind.
func Catalog() []*operator.Descriptor {
	return []*operator.Descriptor{
		ImageInput(),
		GaussianBlur(),
		MedianBlur(),
		BoxFilter(),
		BrightnessContrast(),
		Threshold(),
		Sobel(),
		Laplacian(),
		Canny(),
		Erosion(),
		Dilation(),
		Blend(),
	}
}

// RegisterAll registers the full catalog into a registry.
func RegisterAll(reg *operator.Registry) error {
	for _, d := range Catalog() {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}
