package cloudinary

import "strings"

const uploadMarker = "/upload/"

// TransformURL inserts a delivery transformation as a path segment right after
// the first "/upload/" in secureURL. URLs without the marker come back as-is.
func TransformURL(secureURL, transform string) string {
	if transform == "" {
		return secureURL
	}
	return strings.Replace(secureURL, uploadMarker, uploadMarker+transform+"/", 1)
}
