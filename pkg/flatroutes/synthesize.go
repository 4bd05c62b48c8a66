package flatroutes

import "strings"

// SynthesizePath renders tokenized segments into the route's URL pattern
// and index flag. Transforms, applied left to right:
//
//	dynamic  $name  → :name
//	splat    $      → *
//	terminal _index → no path text, index=true
//	pathless _name  → no path text
//	literal         → verbatim (escapes already resolved)
//
// An optional-wrapped segment gets a trailing "?" on whatever it
// contributed; a segment that contributes nothing gets no "?". A literal
// or dynamic segment whose raw text ends in "_" has that underscore
// stripped from the rendered text: the trailing underscore is the layout
// opt-out marker consumed by the builder, not path content.
//
// Contributions are joined with "/". The result never has a leading,
// trailing, or doubled slash; a route whose every segment contributes
// nothing yields "".
func SynthesizePath(segments []RouteSegment) (path string, index bool) {
	if n := len(segments); n > 0 && segments[n-1].Kind == KindIndex {
		index = true
		segments = segments[:n-1]
	}

	var parts []string
	for _, seg := range segments {
		var rendered string
		switch seg.Kind {
		case KindSplat:
			rendered = "*"
		case KindDynamic:
			rendered = ":" + seg.Value
		case KindIndex, KindPathless:
			// A non-terminal _index behaves like any other
			// leading-underscore segment.
			continue
		default:
			rendered = seg.Value
		}

		if strings.HasSuffix(rendered, "_") && strings.HasSuffix(seg.Raw, "_") {
			rendered = rendered[:len(rendered)-1]
		}
		if rendered == "" {
			continue
		}
		if seg.Optional {
			rendered += "?"
		}
		parts = append(parts, rendered)
	}

	return strings.Join(parts, "/"), index
}
