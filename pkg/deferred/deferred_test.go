package deferred

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEncodeImmediateOnly(t *testing.T) {
	d := New()
	d.Set("user", "ada")

	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, want := buf.String(), `{"user":"ada"}`+"\n"; got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeAsyncValue(t *testing.T) {
	d := New()
	d.Set("msg", "hi")
	d.SetAsync("count", func(ctx context.Context) (any, error) {
		return 42, nil
	})

	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := `{"count":"__deferred_promise:count","msg":"hi"}` + "\n" +
		`data:{"count":42}` + "\n\n"
	if buf.String() != want {
		t.Errorf("Encode = %q, want %q", buf.String(), want)
	}
}

func TestEncodeAsyncError(t *testing.T) {
	d := New()
	d.SetAsync("boom", func(ctx context.Context) (any, error) {
		return nil, errors.New("kaput")
	})

	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := `{"boom":"__deferred_promise:boom"}` + "\n" +
		`error:{"boom":{"message":"kaput"}}` + "\n\n"
	if buf.String() != want {
		t.Errorf("Encode = %q, want %q", buf.String(), want)
	}
}

func TestEncodeSettlementOrder(t *testing.T) {
	fastSettled := make(chan struct{})

	d := New()
	d.Subscribe(func(key string, value any, err error) {
		if key == "fast" {
			close(fastSettled)
		}
	})
	// slow only finishes after fast has fully settled, so the record
	// order is fixed regardless of goroutine scheduling.
	d.SetAsync("slow", func(ctx context.Context) (any, error) {
		<-fastSettled
		return "second", nil
	})
	d.SetAsync("fast", func(ctx context.Context) (any, error) {
		return "first", nil
	})

	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := buf.String()
	fast := strings.Index(out, `data:{"fast"`)
	slow := strings.Index(out, `data:{"slow"`)
	if fast == -1 || slow == -1 || fast > slow {
		t.Errorf("records out of settlement order:\n%s", out)
	}
}

func TestSubscribeOrderDuringSettlements(t *testing.T) {
	keys := []string{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7"}

	d := New()
	settled := make(map[string]chan struct{}, len(keys))
	for _, k := range keys {
		settled[k] = make(chan struct{})
	}
	d.Subscribe(func(key string, value any, err error) {
		close(settled[key])
	})

	// Each computation waits for its predecessor's settlement, fixing
	// the settlement order to k0..k7.
	for i, k := range keys {
		var prev chan struct{}
		if i > 0 {
			prev = settled[keys[i-1]]
		}
		d.SetAsync(k, func(ctx context.Context) (any, error) {
			if prev != nil {
				<-prev
			}
			return nil, nil
		})
	}

	// Join mid-stream: the replayed settlements and the live ones that
	// follow must form one ordered run, with no live delivery jumping
	// ahead of the replay.
	<-settled["k3"]
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	d.Subscribe(func(key string, value any, err error) {
		mu.Lock()
		got = append(got, key)
		mu.Unlock()
		if key == keys[len(keys)-1] {
			close(done)
		}
	})

	if err := d.ResolveData(context.Background()); err != nil {
		t.Fatalf("ResolveData: %v", err)
	}
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(keys) {
		t.Fatalf("observed %d settlements, want %d: %v", len(got), len(keys), got)
	}
	for i, k := range keys {
		if got[i] != k {
			t.Fatalf("settlement %d = %q, want %q (full order: %v)", i, got[i], k, got)
		}
	}
}

func TestEncodeReplaysEarlySettlements(t *testing.T) {
	d := New()
	d.SetAsync("early", func(ctx context.Context) (any, error) {
		return "done", nil
	})
	if err := d.ResolveData(context.Background()); err != nil {
		t.Fatalf("ResolveData: %v", err)
	}

	// The key settled before the encode started; the stream must still
	// carry its placeholder and record.
	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"early":"__deferred_promise:early"}` + "\n" +
		`data:{"early":"done"}` + "\n\n"
	if buf.String() != want {
		t.Errorf("Encode = %q, want %q", buf.String(), want)
	}
}

func TestResolveDataCancel(t *testing.T) {
	d := New()
	d.SetAsync("stuck", func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		d.Cancel()
	}()

	// Cancel settles the computation with its context error, so
	// ResolveData either observes the settlement or the cancellation.
	err := d.ResolveData(context.Background())
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("ResolveData = %v, want nil or context.Canceled", err)
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	release := make(chan struct{})
	d := New()
	d.SetAsync("a", func(ctx context.Context) (any, error) {
		<-release
		return 1, nil
	})

	var calls int
	unsubscribe := d.Subscribe(func(key string, value any, err error) {
		calls++
	})
	unsubscribe()
	close(release)

	if err := d.ResolveData(context.Background()); err != nil {
		t.Fatalf("ResolveData: %v", err)
	}
	if calls != 0 {
		t.Errorf("unsubscribed observer called %d times", calls)
	}
}

func TestDataSnapshot(t *testing.T) {
	release := make(chan struct{})
	d := New()
	d.Set("now", "x")
	d.SetAsync("later", func(ctx context.Context) (any, error) {
		<-release
		return "y", nil
	})

	data := d.Data()
	if data["now"] != "x" {
		t.Errorf("now = %v, want x", data["now"])
	}
	if data["later"] != Pending {
		t.Errorf("later = %v, want Pending", data["later"])
	}

	close(release)
	if err := d.ResolveData(context.Background()); err != nil {
		t.Fatalf("ResolveData: %v", err)
	}
	if got := d.Data()["later"]; got != "y" {
		t.Errorf("later after settle = %v, want y", got)
	}
}

func TestHandler(t *testing.T) {
	h := Handler(func(r *http.Request) *Deferred {
		d := New()
		d.Set("route", r.URL.Path)
		d.SetAsync("n", func(ctx context.Context) (any, error) {
			return 7, nil
		})
		return d
	})

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/demo")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != ContentType {
		t.Errorf("Content-Type = %q, want %q", ct, ContentType)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := string(body)
	if !strings.Contains(out, `"n":"__deferred_promise:n"`) || !strings.Contains(out, `data:{"n":7}`) {
		t.Errorf("unexpected stream:\n%s", out)
	}
}
