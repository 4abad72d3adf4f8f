// Package store implements the playlist store, the single source of truth for
// all playlists across all users of the local installation.
//
// Every mutation runs to completion under the store's lock and is followed by
// a synchronous full-snapshot write through the injected [Port]. Reads return
// point-in-time copies; callers never observe a partially applied mutation.
//
// Missing playlist IDs surface as [shared.ErrPlaylistNotFound] wrapped errors
// rather than silently succeeding, so misuse is detectable. Two exceptions are
// deliberate no-ops rather than errors: adding a track whose ID the playlist
// already holds, and removing a track ID the playlist does not hold.
package store
