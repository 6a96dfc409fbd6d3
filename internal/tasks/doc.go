// Package tasks orchestrates the fetch → sort → create → publish flow with
// real-time progress reporting.
//
// # Core Operations
//
// The [SortEngine] interface defines two operations:
//
//  1. [SortEngine.SortPlaylist] : Sort one playlist by release date
//     - Fetches the source playlist and its full track listing
//     - Stable-sorts tracks by normalized release date
//     - Creates a private destination playlist and appends tracks in order,
//       or clears and refills the source when sorting in place
//
//  2. [SortEngine.SortLibrary] : Sort the user's saved tracks
//     - Fetches the complete library
//     - Publishes the sorted order as a new playlist, or rewrites the
//       library itself (optionally backing it up to a playlist first)
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values over a channel using select with
// default, so a slow or absent consumer never blocks the run.
//
// # Failure Semantics
//
// Errors surface immediately with no retries. A write failure after the
// destination playlist exists wraps [shared.ErrPartialWrite] and reports how
// many tracks were published; the incomplete playlist is left in place for
// the user to inspect or delete.
//
// # Run History
//
// The optional [RunRecorder] persists run facts after a successful operation.
// Recording is best effort and never fails the run.
package tasks
