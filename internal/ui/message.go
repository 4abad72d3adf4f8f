package ui

import (
	"github.com/GustavoTessaro/myplaylist/internal/models"
)

// searchDoneMsg carries catalog results back into the update loop.
type searchDoneMsg struct {
	tracks []models.Track
	err    error
}

// trackAddedMsg reports the outcome of adding the pending track to a playlist.
type trackAddedMsg struct {
	playlist  models.Playlist
	track     models.Track
	duplicate bool
	err       error
}

// trackRemovedMsg reports the outcome of removing a track from a playlist.
type trackRemovedMsg struct {
	playlist models.Playlist
	err      error
}
