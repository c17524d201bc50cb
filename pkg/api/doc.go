// Package api serves the stippling pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz       build info and status
//	POST /v1/stipple    relax points over the uploaded image (NDJSON stream)
//	POST /v1/render     draw a points document as png, svg or json
//
// # Streaming
//
// /v1/stipple takes the raw image as the request body and relaxation
// options as query parameters (points, iterations, seed, model, workers,
// gain, min_width, max_width, every, positions, formats, mode, radius,
// line_width, scale). The response is a stream of newline-delimited JSON
// events:
//
//	{"type":"start","run_id":"…","width":400,"height":300,"points":4000,"total_rounds":80}
//	{"type":"round","run_id":"…","round":1,"total_rounds":80,"positions":[…]}
//	…
//	{"type":"result","run_id":"…","positions":[…],"artifacts":{"png":"…"}}
//
// Errors detected before the stream starts are returned as a JSON body with
// a matching HTTP status. Later errors end the stream with an "error" event.
// Closing the connection cancels the run after the current round.
package api
