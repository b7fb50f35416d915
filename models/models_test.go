package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
	}{
		{"yolov5", TypeYOLOv5},
		{"YOLOv8", TypeYOLOv8},
		{" yolov11 ", TypeYOLOv11},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseType("rfdetr")
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestType_Layout(t *testing.T) {
	assert.Equal(t, 8400, TypeYOLOv8.NumAnchors(640, 640))
	assert.Equal(t, 8400, TypeYOLOv11.NumAnchors(640, 640))
	assert.Equal(t, 25200, TypeYOLOv5.NumAnchors(640, 640))
	assert.Equal(t, 3549, TypeYOLOv8.NumAnchors(416, 416))

	assert.Equal(t, 85, TypeYOLOv5.Attributes(80))
	assert.Equal(t, 84, TypeYOLOv8.Attributes(80))

	assert.True(t, TypeYOLOv5.HasObjectness())
	assert.False(t, TypeYOLOv5.Transposed())
	assert.True(t, TypeYOLOv11.Transposed())
}

func TestClassNames(t *testing.T) {
	assert.Len(t, COCOClasses, 80)
	assert.Equal(t, "person", COCOClasses.Name(0))
	assert.Equal(t, "toothbrush", COCOClasses.Name(79))
	assert.Equal(t, "class_80", COCOClasses.Name(80))
	assert.Equal(t, "class_-1", COCOClasses.Name(-1))

	idx, err := COCOClasses.Index("dog")
	require.NoError(t, err)
	assert.Equal(t, 16, idx)

	_, err = COCOClasses.Index("unicorn")
	assert.Error(t, err)

	indices, err := COCOClasses.Indices("person", "car")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, indices)
}
