// Package server serves the recipe index and loop table over HTTP.
//
// The autocrafter fetches the manifest once, then individual recipe groups
// on demand, and consults the loop table before expanding a sub-recipe:
//
//	GET  /healthz
//	GET  /v1/manifest
//	GET  /v1/recipes/{namespace}/{name}
//	GET  /v1/loops            (?format=pairs for the pair list)
//	GET  /v1/loops/{stub}
//	POST /v1/rebuild
//	GET  /metrics
//
// Recipe groups are read from the store on each request. The manifest and
// loop table are held in an in-memory snapshot that is replaced atomically
// after every successful rebuild, and only groups the snapshot's manifest
// lists are served. Concurrent rebuild requests share a single pipeline run.
//
// A rebuild writes groups into the same store it serves from. If the store
// fails part way through, groups already rewritten keep their new contents
// until the next successful rebuild; groups new to that run stay hidden.
package server
