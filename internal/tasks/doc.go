// package tasks implements long-running playlist operations.
//
// The core abstraction is ExportEngine, which walks a user's playlists and
// writes them to disk in bulk. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks
