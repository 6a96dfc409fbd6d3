// Package models defines the data model shared across the CLI, the Spotify
// client, the sort engine, and the persistence layer.
//
// Track and Playlist are plain value types populated from API responses and
// never mutated after fetch. SortRun is the only persisted entity and records
// run facts, not track metadata.
package models
