package flatroutes

import (
	"fmt"
	"strings"
)

// RootRouteID is the sentinel parent assigned when no other route ID is a
// valid ancestor prefix. It never appears as a key in the manifest.
const RootRouteID = "root"

// SegmentKind identifies what a tokenized route segment contributes to
// the URL pattern.
type SegmentKind int

const (
	// KindLiteral is plain text, emitted verbatim.
	KindLiteral SegmentKind = iota

	// KindDynamic is a $name segment, emitted as :name.
	KindDynamic

	// KindSplat is a lone $, emitted as *. Final segment only.
	KindSplat

	// KindIndex is a terminal _index segment. It contributes no path
	// text and sets the index flag on the route.
	KindIndex

	// KindPathless is a leading-underscore layout segment. It
	// contributes no path text but still participates in the hierarchy.
	KindPathless
)

// String returns the kind name for diagnostics.
func (k SegmentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindDynamic:
		return "dynamic"
	case KindSplat:
		return "splat"
	case KindIndex:
		return "index"
	case KindPathless:
		return "pathless"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// RouteSegment is one tokenized unit of a route ID between top-level
// separators, after escape and optional resolution.
type RouteSegment struct {
	// Kind tags the segment variant.
	Kind SegmentKind

	// Value is the resolved content: escape brackets stripped, the $
	// sigil removed for dynamic segments. Empty for splats.
	Value string

	// Raw is the original segment text, brackets, parens and sigils
	// included. Classification and the layout opt-out rule key off Raw
	// so escaped sigils never trigger.
	Raw string

	// Optional reports that the segment was wrapped in a top-level
	// parenthesis pair.
	Optional bool
}

// ConfigRoute is one resolved route record in the manifest.
type ConfigRoute struct {
	// ID is the normalized route ID: the file path relative to the
	// routes root, slash separators, extension stripped.
	ID string `json:"id"`

	// ParentID is the ID of the nearest ancestor route inferred from
	// the naming convention, or RootRouteID when none matches.
	ParentID string `json:"parentId"`

	// Path is the synthesized URL pattern relative to the parent, never
	// with a leading slash. Empty when the route contributes no path
	// segment (pure layouts, bare index routes).
	Path string `json:"path,omitempty"`

	// Index is true only for terminal _index routes.
	Index bool `json:"index,omitempty"`

	// File is the source file the route was compiled from.
	File string `json:"file"`
}

// RouteManifest maps route IDs to their resolved records.
type RouteManifest map[string]ConfigRoute

// GrammarError reports a malformed route file name. The compile that
// encountered it is aborted as a whole: a bad name is an authoring error
// and must not silently produce a broken route tree.
type GrammarError struct {
	// RouteID is the normalized ID of the offending file.
	RouteID string

	// Fragment is the reconstructed segment text that violated the
	// grammar.
	Fragment string

	// Detail describes the violation.
	Detail string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("route segment %q in route %q %s", e.Fragment, e.RouteID, e.Detail)
}

// ValidationErrorType categorizes manifest validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateRouteID indicates two files normalize to the same
	// route ID, e.g. about.tsx and about.jsx.
	ErrorDuplicateRouteID ValidationErrorType = "DUPLICATE_ROUTE_ID"

	// ErrorPathCollision indicates two sibling routes resolve to the
	// same URL pattern.
	ErrorPathCollision ValidationErrorType = "PATH_COLLISION"

	// ErrorIndexCollision indicates a parent has more than one index
	// route.
	ErrorIndexCollision ValidationErrorType = "INDEX_COLLISION"
)

// ValidationError reports a conflict between otherwise well-formed
// routes.
type ValidationError struct {
	// Type is the error category.
	Type ValidationErrorType

	// Message is the human-readable description.
	Message string

	// Files are the source files involved, sorted.
	Files []string

	// Path is the conflicting URL pattern, when applicable.
	Path string
}

func (e *ValidationError) Error() string {
	if len(e.Files) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, strings.Join(e.Files, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}
