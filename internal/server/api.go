package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/services"
	"github.com/GustavoTessaro/myplaylist/internal/session"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/GustavoTessaro/myplaylist/internal/store"
	"github.com/charmbracelet/log"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "myplaylist_session"

const requestTimeout = 15 * time.Second

// API wires the playlist store, session store and catalog client into HTTP
// handlers under /api.
type API struct {
	store    *store.PlaylistStore
	sessions *session.Store
	catalog  services.Catalog
	logger   *log.Logger

	mu     sync.Mutex
	tokens map[string]string
}

// NewAPI creates the HTTP API around the given collaborators.
func NewAPI(playlists *store.PlaylistStore, sessions *session.Store, catalog services.Catalog, logger *log.Logger) *API {
	return &API{
		store:    playlists,
		sessions: sessions,
		catalog:  catalog,
		logger:   logger,
		tokens:   map[string]string{},
	}
}

// Router builds the route table. Everything except POST /api/login requires a
// session cookie minted by a prior login.
func (a *API) Router() *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestLogger(a.logger))

	router.Handle(http.MethodPost, "/api/login", http.HandlerFunc(a.handleLogin))
	router.Handle(http.MethodPost, "/api/logout", a.requireAuth(a.handleLogout))
	router.Handle(http.MethodGet, "/api/popular", a.requireAuth(a.handlePopular))
	router.Handle(http.MethodGet, "/api/search", a.requireAuth(a.handleSearch))
	router.Handle(http.MethodGet, "/api/playlists", a.requireAuth(a.handleListPlaylists))
	router.Handle(http.MethodPost, "/api/playlists", a.requireAuth(a.handleCreatePlaylist))
	router.Handle(http.MethodPatch, "/api/playlists/{id}", a.requireAuth(a.handleRenamePlaylist))
	router.Handle(http.MethodDelete, "/api/playlists/{id}", a.requireAuth(a.handleDeletePlaylist))
	router.Handle(http.MethodPost, "/api/playlists/{id}/tracks", a.requireAuth(a.handleAddTrack))
	router.Handle(http.MethodDelete, "/api/playlists/{id}/tracks/{trackID}", a.requireAuth(a.handleRemoveTrack))
	router.Handle("", "/", http.HandlerFunc(handleNotFound))

	return router
}

// RequestLogger logs method, path, status and duration for every request.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *API) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		a.mu.Lock()
		userID, ok := a.tokens[cookie.Value]
		a.mu.Unlock()

		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}

		user, ok := a.sessions.Current()
		if !ok || user.ID != userID {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}

		next(w, r.WithContext(withUser(r.Context(), user)))
	})
}

type contextKey string

const userKey contextKey = "user"

func withUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func userFrom(ctx context.Context) models.User {
	user, _ := ctx.Value(userKey).(models.User)
	return user
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := a.sessions.Login(creds.Email, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			a.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	token := shared.GenerateID()
	a.mu.Lock()
	a.tokens[token] = user.ID
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		a.mu.Lock()
		delete(a.tokens, cookie.Value)
		a.mu.Unlock()
	}

	if err := a.sessions.Logout(); err != nil {
		a.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handlePopular(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tracks, err := a.catalog.Popular(ctx)
	if err != nil {
		a.logger.Error("popular lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = services.ModeArtist
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		tracks []models.Track
		err    error
	)

	switch mode {
	case services.ModeArtist:
		tracks, err = a.catalog.SearchByArtist(ctx, term)
	case services.ModeTrack:
		tracks, err = a.catalog.SearchByTrack(ctx, term)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown search mode %q", mode))
		return
	}

	if err != nil {
		a.logger.Error("search failed", "mode", mode, "term", term, "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

func (a *API) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"playlists": a.store.ListByOwner(user.ID)})
}

type playlistBody struct {
	Name string `json:"name"`
}

func (a *API) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body playlistBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "playlist name is required")
		return
	}

	user := userFrom(r.Context())

	playlist, err := a.store.Create(user.ID, name)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

func (a *API) handleRenamePlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, ok := a.ownedPlaylist(w, r)
	if !ok {
		return
	}

	var body playlistBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "playlist name is required")
		return
	}

	if err := a.store.Rename(playlist.ID, name); err != nil {
		a.writeStoreError(w, err)
		return
	}

	updated, err := a.store.Get(playlist.ID)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, ok := a.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := a.store.Delete(playlist.ID); err != nil {
		a.writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	playlist, ok := a.ownedPlaylist(w, r)
	if !ok {
		return
	}

	var track models.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := track.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.store.AddTrack(playlist.ID, track); err != nil {
		a.writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	playlist, ok := a.ownedPlaylist(w, r)
	if !ok {
		return
	}

	trackID := r.PathValue("trackID")
	if !playlist.HasTrack(trackID) {
		a.writeStoreError(w, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID))
		return
	}

	if err := a.store.RemoveTrack(playlist.ID, trackID); err != nil {
		a.writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedPlaylist resolves the {id} path segment and checks the playlist belongs
// to the authenticated user. Playlists of other owners are reported as not
// found rather than forbidden.
func (a *API) ownedPlaylist(w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	playlist, err := a.store.Get(r.PathValue("id"))
	if err != nil {
		a.writeStoreError(w, err)
		return models.Playlist{}, false
	}

	user := userFrom(r.Context())
	if playlist.OwnerID != user.ID {
		writeError(w, http.StatusNotFound, "playlist not found")
		return models.Playlist{}, false
	}

	return playlist, true
}

func (a *API) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound):
		writeError(w, http.StatusNotFound, "playlist not found")
	case errors.Is(err, shared.ErrTrackNotFound):
		writeError(w, http.StatusNotFound, "track not found")
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
