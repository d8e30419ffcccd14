package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleNode struct {
	ID     string `json:"id" validate:"required,node_id"`
	KindID string `json:"kind_id" validate:"required,kind_id"`
	Port   string `json:"port" validate:"omitempty,port_name"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&sampleNode{ID: "n000001", KindID: "gaussian_blur"}))
	assert.NoError(t, Struct(&sampleNode{ID: "node-1", KindID: "cv.blur_v2", Port: "image_out"}))
}

func TestStruct_FieldErrors(t *testing.T) {
	err := Struct(&sampleNode{ID: "", KindID: "Bad Kind!"})
	require.Error(t, err)

	verrs, ok := err.(Errors)
	require.True(t, ok)
	require.Len(t, verrs, 2)

	// JSON names, not Go field names
	assert.Equal(t, "id", verrs[0].Field)
	assert.Equal(t, "kind_id", verrs[1].Field)
	assert.Contains(t, verrs[0].Message, "required")
	assert.Contains(t, err.Error(), "kind_id")
}

func TestStruct_CustomValidations(t *testing.T) {
	tests := []struct {
		name string
		node sampleNode
		ok   bool
	}{
		{"node id with space", sampleNode{ID: "n 1", KindID: "blur"}, false},
		{"kind id uppercase", sampleNode{ID: "n1", KindID: "Blur"}, false},
		{"port with hyphen", sampleNode{ID: "n1", KindID: "blur", Port: "image-out"}, false},
		{"port with underscore", sampleNode{ID: "n1", KindID: "blur", Port: "image_out"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.node)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
