// Package column computes and maintains the cursor column marker.
//
// The pure functions (IsVisible, ComputeVisualOffset, SelectStrategy) decide
// where the marker goes. Throttle bounds how often it is recomputed, and
// Controller owns the single live decoration handle for a host.
package column

import "github.com/dshills/cursorcolumn/internal/host"

// IsVisible reports whether pos lies between the first visible line and the
// last visible line, inclusive. Gaps between ranges (folded regions) are not
// consulted, so a cursor hidden inside a fold still counts as visible.
func IsVisible(pos host.Position, ranges []host.LineRange) bool {
	if len(ranges) == 0 {
		return false
	}
	return pos.Line >= ranges[0].Start && pos.Line <= ranges[len(ranges)-1].End
}

// viewportHeight is the number of document lines between the first and last
// visible lines, folded lines included.
func viewportHeight(ranges []host.LineRange) int {
	if len(ranges) == 0 {
		return 1
	}
	h := ranges[len(ranges)-1].End - ranges[0].Start + 1
	if h < 1 {
		return 1
	}
	return h
}
