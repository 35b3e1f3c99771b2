package cloudinary

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sign computes the request signature for a set of upload parameters.
//
// Parameters whose value is nil, the empty string, or boolean false are left
// out. The rest are sorted by name, joined as k=v pairs with '&', and the raw
// secret is appended before taking the SHA-1 hex digest. The host recomputes
// the same string, so any change to this canonical form gets the request
// rejected.
func Sign(params map[string]any, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if omitFromSignature(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+formatValue(params[k]))
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// UploadParams returns the signed parameter set for one upload. publicID is
// only included when non-empty so the host assigns its own ID otherwise.
func UploadParams(folder, publicID string, timestamp int64) map[string]any {
	params := map[string]any{
		"folder":          folder,
		"overwrite":       "true",
		"unique_filename": "false",
		"timestamp":       strconv.FormatInt(timestamp, 10),
	}
	if publicID != "" {
		params["public_id"] = publicID
	}
	return params
}

func omitFromSignature(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	}
	return false
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		// Only true reaches here; false is dropped before formatting.
		return "true"
	default:
		return fmt.Sprint(val)
	}
}
