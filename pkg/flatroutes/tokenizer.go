package flatroutes

import "strings"

// scanState tracks where the scanner is relative to escape brackets and
// optional parentheses. Separators are only meaningful in stateNormal.
type scanState int

const (
	stateNormal scanState = iota
	stateEscape
	stateOptional
	stateOptionalEscape
)

// TokenizeRouteID splits a route ID into its ordered segments. Both "/"
// and "." separate segments at the top level; separators inside [...]
// escapes or (...) optional wrappers are literal text.
//
// The call is total and never touches the file system. It fails with a
// *GrammarError when a segment's resolved content contains a slash, when
// an escape or optional wrapper is left open at the end of the ID, or
// when a splat segment is not in the final position.
func TokenizeRouteID(routeID string) ([]RouteSegment, error) {
	segments, _, err := scanRouteID(routeID)
	return segments, err
}

// scanRouteID walks the route ID once, producing the tokenized segments
// and the byte offsets of the top-level separators that closed them. The
// offsets drive the parent-prefix search in the builder, which must
// honor the same escape and optional nesting the tokenizer does.
func scanRouteID(routeID string) ([]RouteSegment, []int, error) {
	var (
		segments []RouteSegment
		seps     []int
		cooked   strings.Builder
		raw      strings.Builder
		state    = stateNormal
		optional bool
		sigil    byte
	)

	push := func() (bool, error) {
		if raw.Len() == 0 {
			return false, nil
		}
		seg, err := classifySegment(raw.String(), cooked.String(), optional, sigil, routeID)
		if err != nil {
			return false, err
		}
		segments = append(segments, seg)
		cooked.Reset()
		raw.Reset()
		optional = false
		sigil = 0
		return true, nil
	}

	for i := 0; i < len(routeID); i++ {
		c := routeID[i]

		switch state {
		case stateNormal:
			switch {
			case c == '/' || c == '.':
				pushed, err := push()
				if err != nil {
					return nil, nil, err
				}
				if pushed {
					seps = append(seps, i)
				}
			case c == '[':
				state = stateEscape
				raw.WriteByte(c)
			case c == '(' && raw.Len() == 0:
				optional = true
				state = stateOptional
				raw.WriteByte(c)
			default:
				// Unmatched "]" or ")" and mid-segment "(" are
				// literal text, not grammar errors.
				if cooked.Len() == 0 {
					sigil = c
				}
				cooked.WriteByte(c)
				raw.WriteByte(c)
			}

		case stateEscape:
			raw.WriteByte(c)
			if c == ']' {
				state = stateNormal
			} else {
				cooked.WriteByte(c)
			}

		case stateOptional:
			switch c {
			case ')':
				state = stateNormal
				raw.WriteByte(c)
			case '[':
				state = stateOptionalEscape
				raw.WriteByte(c)
			default:
				if cooked.Len() == 0 {
					sigil = c
				}
				cooked.WriteByte(c)
				raw.WriteByte(c)
			}

		case stateOptionalEscape:
			raw.WriteByte(c)
			if c == ']' {
				state = stateOptional
			} else {
				cooked.WriteByte(c)
			}
		}
	}

	switch state {
	case stateEscape, stateOptionalEscape:
		return nil, nil, &GrammarError{RouteID: routeID, Fragment: raw.String(), Detail: "has an unterminated escape bracket"}
	case stateOptional:
		return nil, nil, &GrammarError{RouteID: routeID, Fragment: raw.String(), Detail: "has an unterminated optional parenthesis"}
	}

	if _, err := push(); err != nil {
		return nil, nil, err
	}

	for i, seg := range segments {
		if seg.Kind == KindSplat && i != len(segments)-1 {
			return nil, nil, &GrammarError{RouteID: routeID, Fragment: seg.Raw, Detail: "is a splat and must be the final segment"}
		}
	}

	return segments, seps, nil
}

// classifySegment assigns the variant tag to one scanned segment. The
// sigil byte is the first content character when it was appended outside
// an escape; escaped sigils therefore never classify.
func classifySegment(raw, cooked string, optional bool, sigil byte, routeID string) (RouteSegment, error) {
	if strings.ContainsRune(cooked, '/') {
		return RouteSegment{}, &GrammarError{RouteID: routeID, Fragment: cooked, Detail: `cannot contain "/"`}
	}

	seg := RouteSegment{Kind: KindLiteral, Value: cooked, Raw: raw, Optional: optional}
	switch {
	case sigil == '$' && cooked == "$":
		seg.Kind = KindSplat
		seg.Value = ""
	case sigil == '$':
		seg.Kind = KindDynamic
		seg.Value = cooked[1:]
	case sigil == '_' && !optional && cooked == "_index":
		seg.Kind = KindIndex
	case sigil == '_' && !optional:
		seg.Kind = KindPathless
	}
	return seg, nil
}
