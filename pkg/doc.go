// Package pkg holds the colgrid libraries.
//
// # Overview
//
// colgrid computes the column layout of a data grid. The libraries are
// layered:
//
//  1. [grid] - the layout engine (columns, star sizing, resize, virtualization)
//  2. [scenario] - TOML scenario files and the step script
//  3. [pipeline] - scenario runs with caching and batch execution
//  4. [export] - JSON and text encodings of results
//  5. [cache], [observability], [errors], [buildinfo] - supporting infrastructure
//
// # Data flow
//
//	scenario.toml
//	     ↓
//	[scenario] package (parse columns, viewport and steps)
//	     ↓
//	[grid] package (distribute, resize, realize)
//	     ↓
//	[pipeline] package (snapshot after every step, cache by content hash)
//	     ↓
//	[export] package (text tables or JSON)
//
// Hosts embedding the engine use [grid] directly: build a [grid.Set], wrap it
// in a [grid.Engine], mutate columns, and call Flush before reading widths.
package pkg
