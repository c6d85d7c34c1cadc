package router

import (
	"strings"

	"github.com/rustyjsonserver/rjs/rjsconfig"
)

// toMuxPattern renders a resolved Route pattern as a gorilla/mux path
// template, turning each Param segment into a `{name}` capture.
func toMuxPattern(pattern []rjsconfig.Segment) string {
	if len(pattern) == 0 {
		return "/"
	}
	parts := make([]string, len(pattern))
	for i, seg := range pattern {
		if seg.Kind == rjsconfig.SegParam {
			parts[i] = "{" + seg.Text + "}"
		} else {
			parts[i] = seg.Text
		}
	}
	return "/" + strings.Join(parts, "/")
}
