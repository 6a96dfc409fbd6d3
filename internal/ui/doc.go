// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a workflow for sorting a playlist by release date:
//  1. [PlaylistListView] : Browse and select Spotify playlists
//  2. [ConfirmView] : Confirm the sort operation
//  3. [SortView] : Monitor real-time progress updates
//  4. [ResultView] : Display the destination playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the sort engine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
