// Package deferred streams keyed data whose entries may settle at
// different times.
//
// A Deferred holds immediate values next to pending computations. The
// encoder writes one JSON object up front, replacing each pending entry
// with a "__deferred_promise:<key>" placeholder, then appends one framed
// record per settlement:
//
//	{"user":{"name":"ada"},"stats":"__deferred_promise:stats"}
//	data:{"stats":{"visits":42}}
//
//	error:{"slow":{"message":"upstream timed out"}}
//
// Records are newline-delimited; the stream ends when every pending key
// has settled. Consumers treat it as textual event framing.
//
//	d := deferred.New()
//	d.Set("user", user)
//	d.SetAsync("stats", loadStats)
//	err := deferred.Encode(ctx, w, d)
package deferred
