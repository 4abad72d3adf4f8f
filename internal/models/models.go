package models

import (
	"fmt"
	"strings"
	"time"
)

// UnknownField is substituted for catalog fields the API left empty.
const UnknownField = "Unknown"

// Track represents a single song's metadata record.
//
// Identity (and deduplication within a playlist) is by ID alone; two tracks
// with the same ID are the same track regardless of the other fields.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
	Year   string `json:"year"`
	Thumb  string `json:"thumb,omitempty"`
}

// Validate checks that the track carries the fields required for identity and display.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track id is required")
	}
	if t.Title == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}

// Playlist represents a named, owned, ordered collection of distinct tracks.
//
// ID and CreatedAt are generated by the store at creation. OwnerID never
// changes afterwards. Name is editable and carries no uniqueness constraint.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Tracks    []Track   `json:"tracks"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks playlist integrity: non-blank name, an owner, and no
// duplicate track IDs.
func (p Playlist) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist name is required")
	}
	if p.OwnerID == "" {
		return fmt.Errorf("playlist owner is required")
	}
	seen := make(map[string]struct{}, len(p.Tracks))
	for _, track := range p.Tracks {
		if _, ok := seen[track.ID]; ok {
			return fmt.Errorf("duplicate track id %q", track.ID)
		}
		seen[track.ID] = struct{}{}
	}
	return nil
}

// HasTrack reports whether the playlist already contains a track with the given ID.
func (p Playlist) HasTrack(trackID string) bool {
	for _, track := range p.Tracks {
		if track.ID == trackID {
			return true
		}
	}
	return false
}

// User represents the authenticated identity in the current session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Validate checks that the user has an identity.
func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	return nil
}
