// Package server provides the HTTP JSON API mirroring the application's views.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method patterns.
//
// # Routes
//
//	POST   /api/login                              → authenticate with the static credential pair
//	POST   /api/logout                             → clear the session
//	GET    /api/popular                            → curated popular tracks
//	GET    /api/search?mode=artist|track&q=...     → catalog search
//	GET    /api/playlists                          → current user's playlists
//	POST   /api/playlists                          → create a playlist
//	PATCH  /api/playlists/{id}                     → rename
//	DELETE /api/playlists/{id}                     → delete
//	POST   /api/playlists/{id}/tracks              → add a track
//	DELETE /api/playlists/{id}/tracks/{trackID}    → remove a track
//
// Everything except /api/login requires an authenticated session: a cookie
// carrying the opaque token minted at login. Unknown paths return a JSON 404.
//
// # Validation
//
// Empty search terms, unknown search modes, and blank playlist names are
// rejected at this boundary with 400s; they never reach the playlist store.
package server
