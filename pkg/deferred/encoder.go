package deferred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// PlaceholderPrefix marks a pending entry in the initial object. The
// full placeholder is the prefix followed by the entry's own key.
const PlaceholderPrefix = "__deferred_promise:"

// ContentType is the media type of the encoded stream.
const ContentType = "text/deferred+json; charset=utf-8"

type flusher interface {
	Flush()
}

// Encode writes the deferred stream to w: first a JSON object holding
// every immediate value and a placeholder per pending key, then one
// framed record per settlement, in settlement order. Keys that settled
// before Encode was called are emitted immediately. Encode returns once
// every pending key has been written, or when ctx ends.
func Encode(ctx context.Context, w io.Writer, d *Deferred) error {
	asyncKeys := d.AsyncKeys()

	records := make(chan settlement, len(asyncKeys))
	unsubscribe := d.Subscribe(func(key string, value any, err error) {
		records <- settlement{key: key, value: value, err: err}
	})
	defer unsubscribe()

	// Every async key gets a placeholder, settled or not: each one owes
	// the consumer exactly one record, and keys that settled before the
	// encode started are replayed by the subscription above.
	init := make(map[string]any)
	for key, value := range d.Data() {
		if value == Pending {
			value = PlaceholderPrefix + key
		}
		init[key] = value
	}
	for _, key := range asyncKeys {
		init[key] = PlaceholderPrefix + key
	}

	head, err := json.Marshal(init)
	if err != nil {
		return fmt.Errorf("encoding initial object: %w", err)
	}
	if _, err := w.Write(append(head, '\n')); err != nil {
		return err
	}
	flush(w)

	for range asyncKeys {
		select {
		case rec := <-records:
			if err := writeRecord(w, rec); err != nil {
				return err
			}
			flush(w)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// writeRecord frames one settlement as data:{...}\n\n or
// error:{...}\n\n.
func writeRecord(w io.Writer, rec settlement) error {
	var (
		prefix  string
		payload []byte
		err     error
	)
	if rec.err != nil {
		prefix = "error:"
		payload, err = json.Marshal(map[string]map[string]string{
			rec.key: {"message": rec.err.Error()},
		})
	} else {
		prefix = "data:"
		payload, err = json.Marshal(map[string]any{rec.key: rec.value})
		if err != nil {
			// An unserializable value degrades to an error record
			// so the consumer still sees the key settle.
			prefix = "error:"
			payload, err = json.Marshal(map[string]map[string]string{
				rec.key: {"message": err.Error()},
			})
		}
	}
	if err != nil {
		return fmt.Errorf("encoding record for %q: %w", rec.key, err)
	}

	if _, err := io.WriteString(w, prefix); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n\n")
	return err
}

func flush(w io.Writer) {
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
}

// Handler adapts a Deferred-producing function to an http.HandlerFunc
// that streams the encoded result, flushing after every record.
func Handler(build func(r *http.Request) *Deferred) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := build(r)
		defer d.Cancel()

		w.Header().Set("Content-Type", ContentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		_ = Encode(r.Context(), w, d)
	}
}
