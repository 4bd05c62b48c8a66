package dev

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flatroutes-dev/flatroutes/internal/config"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

func writeFile(t *testing.T, root, name string) string {
	t.Helper()
	full := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("export default null\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Routes.Dir = t.TempDir()
	return cfg
}

func TestWatcherDetectsChanges(t *testing.T) {
	root := t.TempDir()
	existing := writeFile(t, root, "about.tsx")

	var changes []Change
	w := NewWatcher(WatcherConfig{Dir: root})
	w.OnChange(func(c Change) { changes = append(changes, c) })
	w.scanInitial()

	// Added
	writeFile(t, root, "contact.tsx")
	w.checkForChanges()
	if len(changes) != 1 || changes[0].Op != OpAdded {
		t.Fatalf("after add: changes = %+v", changes)
	}

	// Modified
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(existing, future, future); err != nil {
		t.Fatal(err)
	}
	changes = nil
	w.checkForChanges()
	if len(changes) != 1 || changes[0].Op != OpModified {
		t.Fatalf("after modify: changes = %+v", changes)
	}

	// Removed
	if err := os.Remove(existing); err != nil {
		t.Fatal(err)
	}
	changes = nil
	w.checkForChanges()
	if len(changes) != 1 || changes[0].Op != OpRemoved {
		t.Fatalf("after remove: changes = %+v", changes)
	}
}

func TestWatcherIgnore(t *testing.T) {
	root := t.TempDir()

	w := NewWatcher(WatcherConfig{Dir: root, Ignore: []string{"*.swp", "node_modules"}})

	if !w.shouldIgnore(filepath.Join(root, "about.tsx.swp")) {
		t.Error("*.swp should be ignored")
	}
	if !w.shouldIgnore(filepath.Join(root, "node_modules", "pkg", "index.js")) {
		t.Error("node_modules should be ignored")
	}
	if w.shouldIgnore(filepath.Join(root, "about.tsx")) {
		t.Error("about.tsx should not be ignored")
	}
}

func TestWatcherStartStop(t *testing.T) {
	w := NewWatcher(WatcherConfig{Dir: t.TempDir(), Debounce: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	deadline := time.After(time.Second)
	for !w.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("watcher never started")
		case <-time.After(time.Millisecond):
		}
	}

	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestServerRecompileAndManifest(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Routes.Dir, "_index.tsx")
	writeFile(t, cfg.Routes.Dir, "concerts.$city.tsx")

	s := NewServer(ServerOptions{Config: cfg})
	s.Recompile(context.Background())

	if err := s.LastError(); err != nil {
		t.Fatalf("LastError = %v", err)
	}
	manifest := s.Manifest()
	if len(manifest) != 2 {
		t.Fatalf("manifest size = %d, want 2", len(manifest))
	}

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /manifest = %d", resp.StatusCode)
	}

	var got flatroutes.RouteManifest
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	route, ok := got["concerts.$city"]
	if !ok {
		t.Fatal("concerts.$city missing from served manifest")
	}
	if route.Path != "concerts/:city" {
		t.Errorf("Path = %q, want concerts/:city", route.Path)
	}
}

func TestServerManifestError(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Routes.Dir, "sub.[.tsx")

	s := NewServer(ServerOptions{Config: cfg})
	s.Recompile(context.Background())

	if s.LastError() == nil {
		t.Fatal("expected compile error for unterminated escape")
	}

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("GET /manifest = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestServerHealthAndRoutes(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Routes.Dir, "about.tsx")

	s := NewServer(ServerOptions{Config: cfg})
	s.Recompile(context.Background())

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var health map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "ok" {
		t.Errorf("status = %v", health["status"])
	}

	resp2, err := http.Get(srv.URL + "/routes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	buf := make([]byte, 4096)
	n, _ := resp2.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "about") {
		t.Errorf("route tree missing about:\n%s", buf[:n])
	}
}

func TestServerManifestStream(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.Routes.Dir, "_index.tsx")

	s := NewServer(ServerOptions{Config: cfg})
	s.Recompile(context.Background())

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/manifest/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	buf := make([]byte, 8192)
	var body strings.Builder
	for {
		n, err := resp.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}
	out := body.String()
	if !strings.Contains(out, `"stats":"__deferred_promise:stats"`) {
		t.Errorf("stream missing stats placeholder:\n%s", out)
	}
	if !strings.Contains(out, `data:{"stats":`) {
		t.Errorf("stream missing stats record:\n%s", out)
	}
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(
		WithRegistry(prometheus.NewRegistry()),
		WithNamespace("test"),
	)

	m.RecordCompile(10*time.Millisecond, 5, nil)
	m.RecordCompile(time.Millisecond, 0, os.ErrNotExist)
	m.RecordWatchEvent()
	m.SetClientCount(2)

	// Nil metrics are a no-op everywhere.
	var nilMetrics *Metrics
	nilMetrics.RecordCompile(0, 0, nil)
	nilMetrics.RecordWatchEvent()
	nilMetrics.SetClientCount(0)
}

func TestManifestStats(t *testing.T) {
	manifest := flatroutes.RouteManifest{
		"_index":   {ID: "_index", Index: true},
		"_auth":    {ID: "_auth"},
		"about":    {ID: "about", Path: "about"},
		"about2":   {ID: "about2", Path: "about2"},
		"projects": {ID: "projects", Path: "projects"},
	}

	stats := manifestStats(manifest)
	if stats["routes"] != 5 {
		t.Errorf("routes = %d", stats["routes"])
	}
	if stats["index"] != 1 {
		t.Errorf("index = %d", stats["index"])
	}
	if stats["layouts"] != 1 {
		t.Errorf("layouts = %d", stats["layouts"])
	}
}
