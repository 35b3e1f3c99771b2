package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignKnownDigest(t *testing.T) {
	params := UploadParams("husq_parts", "Red_Widget", 1700000000)
	assert.Equal(t, "4b71e15cbee546478eab7bdb255fbefd09b66598", Sign(params, "shh"))

	withoutID := UploadParams("husq_parts", "", 1700000000)
	assert.Equal(t, "2d3d170b149ef41e90096a85ef4121459b9f6599", Sign(withoutID, "shh"))
}

func TestSignIgnoresInsertionOrder(t *testing.T) {
	a := map[string]any{}
	a["timestamp"] = "1"
	a["folder"] = "f"
	a["public_id"] = "x"

	b := map[string]any{}
	b["public_id"] = "x"
	b["folder"] = "f"
	b["timestamp"] = "1"

	assert.Equal(t, Sign(a, "secret"), Sign(b, "secret"))
}

func TestSignChangesWithValues(t *testing.T) {
	base := UploadParams("f", "x", 1)
	baseSig := Sign(base, "secret")

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "folder", key: "folder", value: "g"},
		{name: "public id", key: "public_id", value: "y"},
		{name: "timestamp", key: "timestamp", value: "2"},
		{name: "overwrite", key: "overwrite", value: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := UploadParams("f", "x", 1)
			changed[tt.key] = tt.value
			assert.NotEqual(t, baseSig, Sign(changed, "secret"))
		})
	}

	assert.NotEqual(t, baseSig, Sign(base, "other"))
}

func TestSignDropsEmptyValues(t *testing.T) {
	base := map[string]any{"folder": "f", "timestamp": "1"}
	expected := Sign(base, "secret")

	for name, v := range map[string]any{"nil": nil, "empty string": "", "false": false} {
		t.Run(name, func(t *testing.T) {
			params := map[string]any{"folder": "f", "timestamp": "1", "public_id": v}
			assert.Equal(t, expected, Sign(params, "secret"))
		})
	}

	t.Run("string false is signed", func(t *testing.T) {
		params := map[string]any{"folder": "f", "timestamp": "1", "unique_filename": "false"}
		assert.NotEqual(t, expected, Sign(params, "secret"))
	})
}

func TestUploadParams(t *testing.T) {
	params := UploadParams("husq_parts", "", 42)
	assert.Equal(t, map[string]any{
		"folder":          "husq_parts",
		"overwrite":       "true",
		"unique_filename": "false",
		"timestamp":       "42",
	}, params)

	assert.Equal(t, "abc", UploadParams("husq_parts", "abc", 42)["public_id"])
}
