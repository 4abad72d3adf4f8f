// Package models defines the domain entities for the MyPlaylist application.
//
//   - [Track] : song metadata obtained from the music catalog; immutable,
//     compared by ID only
//   - [Playlist] : a named, owned, ordered collection of distinct tracks
//   - [User] : the authenticated identity playlists belong to
//
// Tracks are value objects: once a search result is turned into a Track it is
// never mutated, only appended to or removed from playlists by ID.
package models
