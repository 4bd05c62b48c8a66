// Package flatroutes compiles a flat list of route file names into a
// route manifest with parent/child links, URL path patterns, and route
// metadata.
//
// The compiler is pure: it never touches the file system. Callers hand it
// a routes root and a list of file paths (the Walker in this package is
// one such caller) and receive a manifest keyed by route ID.
//
// # Naming Convention
//
// Route files encode their URL through the file name. Dots nest the same
// way directories do:
//
//	app/routes/
//	├── _index.tsx              → index route at the layout root
//	├── about.tsx               → about
//	├── concerts.$city.tsx      → concerts/:city
//	├── concerts._index.tsx     → concerts (index)
//	├── concerts_.mine.tsx      → concerts/mine, detached from the concerts layout
//	├── _auth.tsx               → pathless layout, no URL segment
//	├── _auth.login.tsx         → login, child of the _auth layout
//	├── ($lang).about.tsx       → :lang?/about
//	├── files.$.tsx             → files/* (splat)
//	└── [sitemap.xml].tsx       → sitemap.xml (brackets escape the dot)
//
// # Segment Grammar
//
// Within one file name (extension already stripped):
//
//	"/" and "."   segment separators at the top level
//	"(" ... ")"   optional segment, rendered with a trailing "?"
//	"[" ... "]"   escape: inner text is literal, sigils included
//	"$name"       dynamic segment, rendered as ":name"
//	"$"           splat, rendered as "*", final segment only
//	"_index"      index route, contributes no path segment
//	"_name"       pathless layout, contributes no path segment
//	"name_"       trailing underscore opts out of the parent layout
//
// A segment whose resolved content contains a literal slash (only
// possible through an escape such as "[/]") is a grammar error and fails
// the whole compile.
//
// # Usage
//
//	manifest, err := flatroutes.Scan("app/routes")
//	if err != nil {
//	    // a *GrammarError names the offending segment and route ID
//	}
//	for id, route := range manifest {
//	    // route.ParentID links to the nearest ancestor, or "root"
//	}
package flatroutes
