package flatroutes

import (
	"fmt"
	"sort"
)

// Validator checks a compiled manifest for route conflicts that are
// well-formed individually but ambiguous together.
type Validator struct {
	manifest RouteManifest
	errors   []ValidationError
}

// NewValidator creates a validator over a compiled manifest.
func NewValidator(manifest RouteManifest) *Validator {
	return &Validator{manifest: manifest}
}

// Validate runs all checks and returns the first conflict, with
// deterministic ordering across runs. All conflicts remain available
// through Errors.
func (v *Validator) Validate() error {
	v.errors = nil
	v.checkIndexCollisions()
	v.checkPathCollisions()

	sort.Slice(v.errors, func(i, j int) bool {
		if v.errors[i].Type != v.errors[j].Type {
			return v.errors[i].Type < v.errors[j].Type
		}
		return v.errors[i].Message < v.errors[j].Message
	})

	if len(v.errors) > 0 {
		return &v.errors[0]
	}
	return nil
}

// Errors returns all conflicts found by the last Validate call.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// checkIndexCollisions flags parents with more than one index route.
func (v *Validator) checkIndexCollisions() {
	byParent := make(map[string][]ConfigRoute)
	for _, route := range v.manifest {
		if route.Index {
			byParent[route.ParentID] = append(byParent[route.ParentID], route)
		}
	}

	for parent, routes := range byParent {
		if len(routes) < 2 {
			continue
		}
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorIndexCollision,
			Message: fmt.Sprintf("parent route %q has multiple index routes", parent),
			Files:   sortedFiles(routes),
		})
	}
}

// checkPathCollisions flags sibling non-index routes that resolve to the
// same URL pattern. Pathless layouts are exempt: an empty path claims no
// URL.
func (v *Validator) checkPathCollisions() {
	type slot struct {
		parent string
		path   string
	}
	byPattern := make(map[slot][]ConfigRoute)
	for _, route := range v.manifest {
		if route.Index || route.Path == "" {
			continue
		}
		key := slot{parent: route.ParentID, path: route.Path}
		byPattern[key] = append(byPattern[key], route)
	}

	for key, routes := range byPattern {
		if len(routes) < 2 {
			continue
		}
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorPathCollision,
			Message: fmt.Sprintf("routes under %q resolve to the same URL pattern %q", key.parent, key.path),
			Files:   sortedFiles(routes),
			Path:    key.path,
		})
	}
}

func sortedFiles(routes []ConfigRoute) []string {
	files := make([]string, 0, len(routes))
	for _, r := range routes {
		files = append(files, r.File)
	}
	sort.Strings(files)
	return files
}
