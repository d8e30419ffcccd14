package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ParameterSpec
		wantErr error
	}{
		{
			name: "valid integer spec",
			spec: ParameterSpec{Name: "kernel_size", Kind: ParamInteger, Default: 5, Min: Bound(1), Max: Bound(99)},
		},
		{
			name: "valid text spec with choices",
			spec: ParameterSpec{Name: "shape", Kind: ParamText, Default: "rect", Choices: []string{"rect", "cross"}},
		},
		{
			name:    "missing name",
			spec:    ParameterSpec{Kind: ParamFloat},
			wantErr: ErrInvalidParameterName,
		},
		{
			name:    "unknown kind",
			spec:    ParameterSpec{Name: "x", Kind: ParamKind("matrix")},
			wantErr: ErrInvalidParameterKind,
		},
		{
			name:    "inverted bounds",
			spec:    ParameterSpec{Name: "x", Kind: ParamFloat, Default: 0.0, Min: Bound(10), Max: Bound(1)},
			wantErr: ErrInvalidBounds,
		},
		{
			name:    "choices on non-text kind",
			spec:    ParameterSpec{Name: "x", Kind: ParamInteger, Default: 1, Choices: []string{"a"}},
			wantErr: ErrInvalidParameterKind,
		},
		{
			name:    "default out of bounds",
			spec:    ParameterSpec{Name: "x", Kind: ParamInteger, Default: 100, Min: Bound(1), Max: Bound(99)},
			wantErr: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParameterSpec_CheckValue(t *testing.T) {
	intSpec := ParameterSpec{Name: "size", Kind: ParamInteger, Default: 5, Min: Bound(1), Max: Bound(99)}
	floatSpec := ParameterSpec{Name: "sigma", Kind: ParamFloat, Default: 1.0, Min: Bound(0.1), Max: Bound(10)}
	boolSpec := ParameterSpec{Name: "normalize", Kind: ParamBoolean, Default: true}
	textSpec := ParameterSpec{Name: "shape", Kind: ParamText, Default: "rect", Choices: []string{"rect", "ellipse"}}

	t.Run("integer accepts whole floats", func(t *testing.T) {
		v, err := intSpec.CheckValue(float64(7))
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("integer rejects fractional floats", func(t *testing.T) {
		_, err := intSpec.CheckValue(7.5)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("integer rejects strings", func(t *testing.T) {
		_, err := intSpec.CheckValue("7")
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("integer enforces bounds", func(t *testing.T) {
		_, err := intSpec.CheckValue(100)
		assert.ErrorIs(t, err, ErrOutOfRange)
		_, err = intSpec.CheckValue(0)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("float widens ints", func(t *testing.T) {
		v, err := floatSpec.CheckValue(2)
		require.NoError(t, err)
		assert.Equal(t, 2.0, v)
	})

	t.Run("float enforces bounds", func(t *testing.T) {
		_, err := floatSpec.CheckValue(11.0)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("boolean rejects non-bool", func(t *testing.T) {
		_, err := boolSpec.CheckValue(1)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("text enforces choices", func(t *testing.T) {
		v, err := textSpec.CheckValue("ellipse")
		require.NoError(t, err)
		assert.Equal(t, "ellipse", v)

		_, err = textSpec.CheckValue("triangle")
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}
