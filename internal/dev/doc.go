// Package dev implements the flatroutes development server.
//
// The server watches the routes directory, recompiles the route
// manifest whenever a file changes, and serves the result:
//
//   - GET /manifest          current manifest as JSON
//   - GET /manifest/stream   manifest plus deferred statistics
//   - GET /routes            human-readable route tree
//   - GET /healthz           compile status
//   - GET /metrics           Prometheus metrics
//   - GET /ws                WebSocket feed of manifest updates
//
// File watching uses modification-time polling, so it works on every
// platform without native watch APIs. Compile errors are broadcast to
// WebSocket clients and cleared when a compile succeeds again.
package dev
