package flatroutes

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRouteFile(t *testing.T, root, name string) {
	t.Helper()
	full := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("export default null\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkerWalk(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "_index.tsx")
	writeRouteFile(t, root, "about.tsx")
	writeRouteFile(t, root, "concerts/$city.tsx")
	writeRouteFile(t, root, ".hidden.tsx")
	writeRouteFile(t, root, "notes.txt")
	writeRouteFile(t, root, "types.d.ts")
	writeRouteFile(t, root, ".cache/stale.tsx")

	files, err := NewWalker(root).Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Walk returned %d files, want 3: %v", len(files), files)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "_index.tsx")
	writeRouteFile(t, root, "concerts.tsx")
	writeRouteFile(t, root, "concerts.$city.tsx")

	manifest, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(manifest) != 3 {
		t.Fatalf("manifest size = %d, want 3", len(manifest))
	}
	if route := manifest["concerts.$city"]; route.ParentID != "concerts" {
		t.Errorf("concerts.$city parent = %q, want concerts", route.ParentID)
	}
}

func TestWalkerCustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "index.go")
	writeRouteFile(t, root, "about.tsx")

	w := &Walker{RootDir: root, Extensions: []string{".go"}}
	files, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "index.go" {
		t.Errorf("Walk = %v, want only index.go", files)
	}
}
