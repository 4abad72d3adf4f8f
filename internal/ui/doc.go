// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for catalog search and playlist management:
//  1. [SearchView] : Enter a search term, tab toggles artist/track mode
//  2. [ResultListView] : Browse results, 'a' adds the selected track to a playlist
//  3. [PickPlaylistView] : Choose the destination playlist for the pending track
//  4. [PlaylistListView] : Browse your playlists
//  5. [TrackListView] : Browse a playlist's tracks, 'd' removes the selected one
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via typed message structs.
// Catalog calls run as tea.Cmd goroutines so the interface never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, d, p, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
