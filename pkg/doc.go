// Package pkg provides the libraries behind dn-house, a small couple website
// with a letter form, a guestbook, a photo upload page and a photo menu of
// scattered postcards and polaroids.
//
// # Overview
//
// The photo menu is the one piece with real logic: photos are dropped on a
// large canvas at random, tilted spots without overlapping, and visitors pan
// and zoom around it. Everything else is thin page state over a JSON backend.
//
// # Architecture
//
// The menu data flow:
//
//	Backend photo list / embedded demo data
//	         ↓
//	    [pipeline] Load
//	         ↓
//	    [canvas/placement] (random non-overlapping layout)
//	         ↓
//	    [canvas/sink] (SVG, JSON, PNG, PDF)
//	         ↓
//	    [canvas/viewport] (pan/zoom in the site and the terminal viewer)
//
// # Quick Start
//
// Place twelve demo cards and render them:
//
//	import (
//	    "github.com/denoseu/dn-house/pkg/canvas/placement"
//	    "github.com/denoseu/dn-house/pkg/canvas/samples"
//	    "github.com/denoseu/dn-house/pkg/canvas/sink"
//	)
//
//	items, _ := samples.DemoItems(12, placement.NewRand(42))
//	c := placement.Generate(items, placement.DefaultOptions())
//	svg := sink.RenderSVG(c)
//
// # Main Packages
//
// ## Canvas
//
// [canvas] - Cards, boxes and the separation test.
//
// [canvas/placement] - Rejection-sampling generator with an attempt cap and
// an optional grid fallback. Deterministic for a seed.
//
// [canvas/viewport] - Pan/zoom controller with zoom and translate clamping,
// plus drag, wheel and pinch gestures.
//
// [canvas/sink] - SVG and JSON output; PNG and PDF through rsvg-convert.
//
// [canvas/samples] - Embedded demo captions and images.
//
// ## Site
//
// [pages] - Per-page models: letter, upload, guestbook and menu.
//
// [backend] - HTTP client for the guestbook and photo API.
//
// ## Infrastructure
//
// [pipeline] - Load → place → render, shared by the CLI, the server and the
// terminal viewer.
//
// [cache] - File, Redis and null caches for photo lists and placed canvases.
//
// [httputil] - Retry policy for idempotent backend calls.
//
// [errors] - Coded errors carrying a user-facing message.
//
// [observability] - Hooks for load, placement, render and cache events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/canvas/...             # Canvas packages only
//
// [canvas]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/canvas
// [canvas/placement]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/canvas/placement
// [canvas/viewport]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/canvas/viewport
// [canvas/sink]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/canvas/sink
// [canvas/samples]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/canvas/samples
// [pages]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/pages
// [backend]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/backend
// [pipeline]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/errors
// [observability]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/denoseu/dn-house/pkg/buildinfo
package pkg
