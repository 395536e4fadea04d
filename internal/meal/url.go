package meal

import "strings"

// objectPath recovers the object-store path from a stored image URL. Meal
// images always live under a "meals/" prefix regardless of which store
// produced the URL.
func objectPath(imageURL string) (string, bool) {
	idx := strings.Index(imageURL, "meals/")
	if idx < 0 {
		return "", false
	}
	path := imageURL[idx:]
	// Signed URLs append query parameters; the path ends before them.
	if q := strings.IndexByte(path, '?'); q >= 0 {
		path = path[:q]
	}
	return path, true
}
