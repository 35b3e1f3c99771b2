package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformURL(t *testing.T) {
	const transform = "c_pad,w_800,h_800,b_white,f_auto,q_auto,dpr_auto"

	tests := []struct {
		name      string
		url       string
		transform string
		expected  string
	}{
		{
			name:      "inserts after upload segment",
			url:       "https://res.cloudinary.com/demo/image/upload/v1700000000/husq_parts/Red_Widget.png",
			transform: transform,
			expected:  "https://res.cloudinary.com/demo/image/upload/" + transform + "/v1700000000/husq_parts/Red_Widget.png",
		},
		{
			name:      "only first marker is used",
			url:       "https://res.cloudinary.com/demo/image/upload/v1/upload/x.png",
			transform: "w_10",
			expected:  "https://res.cloudinary.com/demo/image/upload/w_10/v1/upload/x.png",
		},
		{
			name:      "transform containing marker is not rescanned",
			url:       "https://h/image/upload/v1/x.png",
			transform: "a/upload/b",
			expected:  "https://h/image/upload/a/upload/b/v1/x.png",
		},
		{
			name:      "missing marker is a no-op",
			url:       "https://h/image/fetch/x.png",
			transform: transform,
			expected:  "https://h/image/fetch/x.png",
		},
		{
			name:      "empty url",
			url:       "",
			transform: transform,
			expected:  "",
		},
		{
			name:      "empty transform",
			url:       "https://h/image/upload/x.png",
			transform: "",
			expected:  "https://h/image/upload/x.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TransformURL(tt.url, tt.transform))
		})
	}
}
