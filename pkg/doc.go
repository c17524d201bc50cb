// Package pkg provides the core libraries for stipple, a weighted Voronoi
// stippling engine.
//
// # Overview
//
// Stipple turns an image into a set of points whose local density follows
// the image's darkness. Points are seeded at random with a bias towards
// dense areas, then relaxed for a fixed number of rounds: every pixel is
// assigned to its nearest point, and each point moves past the weighted
// centroid of its pixels with a decaying random jitter.
//
// # Architecture
//
// The typical data flow:
//
//	Image (png, jpeg, gif, bmp, tiff, webp)
//	         ↓
//	    [density] package (scale to working size, convert pixels to [0,1])
//	         ↓
//	    [relax] package (seed, then assign → update → snapshot per round)
//	         ↓
//	    [render] package (dots, Delaunay mesh or Voronoi cells)
//	         ↓
//	    PNG/SVG/JSON output
//
// # Quick Start
//
//	img, _ := density.Load("portrait.jpg")
//	b := img.Bounds()
//	w, h := density.WorkingSize(b.Dx(), b.Dy(), density.DefaultMinWidth, density.DefaultMaxWidth)
//	field := density.FromImage(density.Scale(img, w, h), density.NegRed)
//
//	engine, _ := relax.New(field, relax.Params{Points: 4000, Iterations: 80})
//	positions, _ := engine.Run(ctx, nil)
//
//	png, _ := render.PNG(positions, w, h, render.WithMode(render.ModeVoronoi))
//
// # Main Packages
//
// [density] - Immutable density fields, image decoding and the pixel to
// density models (negred, negavg, negluma, red, avg, luma, alpha).
//
// [relax] - The relaxation engine. [relax.Start] runs an engine on its own
// goroutine and delivers per-round snapshots over a channel.
//
// [spatial] - Nearest-seed indexes: a uniform grid used by default and a
// brute-force reference.
//
// [render] - PNG (gogpu/gg) and SVG (svgo) drawing, Voronoi and Delaunay
// edges (pzsz/voronoi), and the JSON points document.
//
// [pipeline] - Load → relax → render with caching, shared by the CLI and
// the HTTP API. Options and their defaults live here.
//
// [cache] - File, Redis and no-op caches for seeded runs and rendered
// artifacts.
//
// [api] - chi-based HTTP server streaming rounds as NDJSON.
//
// [errors] - Structured error codes shared by every layer.
//
// [observability] - Hooks for metrics and tracing on the engine, the
// pipeline, the cache and the HTTP server.
package pkg
