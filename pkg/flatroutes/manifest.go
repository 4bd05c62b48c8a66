package flatroutes

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// CompileOptions configures manifest compilation.
type CompileOptions struct {
	// Validate enables URL collision detection after compilation
	// (duplicate index routes, sibling routes claiming the same
	// pattern). Route ID duplicates and grammar violations are always
	// fatal regardless of this flag.
	Validate bool
}

// Compile builds the route manifest for the given file list. Input order
// is irrelevant: the result is a set keyed by route ID, one entry per
// input file.
//
// The call is a pure transform. Any grammar violation in any file name
// aborts the whole build: a malformed name is an authoring error that
// must not silently produce a broken route tree.
func Compile(rootDir string, filePaths []string) (RouteManifest, error) {
	return CompileWithOptions(rootDir, filePaths, CompileOptions{})
}

// CompileWithOptions builds the route manifest with configurable
// validation.
func CompileWithOptions(rootDir string, filePaths []string, opts CompileOptions) (RouteManifest, error) {
	files := make(map[string]string, len(filePaths)) // route ID -> source file
	ids := make([]string, 0, len(filePaths))
	for _, file := range filePaths {
		id := routeIDFromFile(rootDir, file)
		if prev, ok := files[id]; ok {
			involved := []string{prev, file}
			sort.Strings(involved)
			return nil, &ValidationError{
				Type:    ErrorDuplicateRouteID,
				Message: fmt.Sprintf("route ID %q is claimed by more than one file", id),
				Files:   involved,
			}
		}
		files[id] = file
		ids = append(ids, id)
	}
	sort.Strings(ids)

	manifest := make(RouteManifest, len(ids))
	for _, id := range ids {
		segments, seps, err := scanRouteID(id)
		if err != nil {
			return nil, err
		}
		urlPath, index := SynthesizePath(segments)
		manifest[id] = ConfigRoute{
			ID:       id,
			ParentID: parentRouteID(id, seps, files),
			Path:     urlPath,
			Index:    index,
			File:     files[id],
		}
	}

	if opts.Validate {
		if err := NewValidator(manifest).Validate(); err != nil {
			return nil, err
		}
	}
	return manifest, nil
}

// routeIDFromFile normalizes a source file path into its route ID: the
// path relative to the routes root, slash separators, extension
// stripped. Paths already relative to the root pass through unchanged.
func routeIDFromFile(rootDir, file string) string {
	rel := file
	if rootDir != "" {
		if r, err := filepath.Rel(rootDir, file); err == nil && r != "." && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// parentRouteID finds the nearest ancestor by testing progressively
// shorter prefixes of the raw ID, cut at top-level separator positions,
// against the known route IDs. Matching is verbatim: "app_.projects" can
// only attach to a literal "app_" route, never to "app", which is
// exactly how the trailing-underscore layout opt-out detaches a route
// from its nominal parent.
func parentRouteID(id string, seps []int, known map[string]string) string {
	for i := len(seps) - 1; i >= 0; i-- {
		candidate := id[:seps[i]]
		if candidate == "" || candidate == id {
			continue
		}
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return RootRouteID
}
