package flatroutes

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultExtensions lists the route file extensions the walker accepts.
var DefaultExtensions = []string{".js", ".jsx", ".md", ".mdx", ".ts", ".tsx"}

// DefaultIgnore contains file name patterns the walker skips.
var DefaultIgnore = []string{
	"*.d.ts",
	"*.test.*",
	"*.spec.*",
}

// Walker enumerates candidate route files under a routes root. It is the
// only part of this package that touches the file system; the compiler
// itself works on the list the walker (or any other caller) produces.
type Walker struct {
	// RootDir is the routes root directory.
	RootDir string

	// Extensions are the accepted file extensions. Defaults to
	// DefaultExtensions.
	Extensions []string

	// Ignore are file name glob patterns to skip. Defaults to
	// DefaultIgnore.
	Ignore []string
}

// NewWalker creates a walker with the default extension and ignore
// lists.
func NewWalker(rootDir string) *Walker {
	return &Walker{
		RootDir:    rootDir,
		Extensions: DefaultExtensions,
		Ignore:     DefaultIgnore,
	}
}

// Walk returns every candidate route file under the root, in directory
// walk order. Dot-prefixed files and directories are always skipped.
func (w *Walker) Walk() ([]string, error) {
	extensions := w.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	ignore := w.Ignore
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}

	var files []string
	err := filepath.WalkDir(w.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != w.RootDir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !hasExtension(name, extensions) {
			return nil
		}
		for _, pattern := range ignore {
			if matched, _ := filepath.Match(pattern, name); matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Scan walks rootDir with the default walker and compiles the manifest
// from what it finds.
func Scan(rootDir string) (RouteManifest, error) {
	files, err := NewWalker(rootDir).Walk()
	if err != nil {
		return nil, err
	}
	return Compile(rootDir, files)
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
