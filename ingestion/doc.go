// Package ingestion turns an input stream into items for the item pool.
//
// A Pipeline runs two stages under one errgroup:
//   - a reader stage splitting the stream into lines (newline or NUL terminated)
//   - a builder stage turning lines into items and appending them in batches
//
// Lines are plain core.TextItem values unless field options are set. With
// WithNth the item shows and matches only the selected fields while still
// outputting the original line. With Nth matching is restricted to the
// selected fields.
//
// Field ranges follow the usual finder syntax: N, N.., ..N, N..M and ..,
// 1-based, with negative indexes counting from the last field. Each field
// keeps its trailing delimiter.
package ingestion
