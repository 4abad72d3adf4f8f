package ui

import (
	"context"
	"fmt"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/services"
	"github.com/GustavoTessaro/myplaylist/internal/store"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultListView
	PickPlaylistView
	PlaylistListView
	TrackListView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	catalog services.Catalog
	store   *store.PlaylistStore
	ownerID string

	width  int
	height int

	searchInput  textinput.Model
	mode         string
	resultList   list.Model
	playlistList list.Model
	trackList    list.Model

	// pendingTrack is the search result awaiting a destination playlist.
	pendingTrack *models.Track
	openPlaylist *models.Playlist

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.Catalog, playlists *store.PlaylistStore, ownerID string) *Model {
	input := textinput.New()
	input.Placeholder = "Search the catalog..."
	input.Focus()

	return &Model{
		ctx:         ctx,
		view:        SearchView,
		catalog:     catalog,
		store:       playlists,
		ownerID:     ownerID,
		searchInput: input,
		mode:        services.ModeArtist,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init returns the initial command. The search prompt needs cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.resultList, &m.playlistList, &m.trackList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultListView:
			return m.handleResultKeys(msg)
		case PickPlaylistView:
			return m.handlePickKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		}

	case searchDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SearchView
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", m.searchInput.Value())
		m.resultList.SetSize(m.width-4, m.height-8)
		m.view = ResultListView
		return m, nil

	case trackAddedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else if msg.duplicate {
			m.status = fmt.Sprintf("'%s' is already in '%s'", msg.track.Title, msg.playlist.Name)
		} else {
			m.status = fmt.Sprintf("Added '%s' to '%s'", msg.track.Title, msg.playlist.Name)
		}
		m.pendingTrack = nil
		m.view = ResultListView
		return m, nil

	case trackRemovedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.openTracks(msg.playlist.ID)
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultListView:
		return m.renderResults()
	case PickPlaylistView:
		return m.renderPick()
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.mode == services.ModeArtist {
			m.mode = services.ModeTrack
		} else {
			m.mode = services.ModeArtist
		}
		return m, nil
	case "ctrl+p":
		return m, m.openPlaylists()
	case "enter":
		if m.searchInput.Value() != "" {
			return m, m.search()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		m.status = ""
		return m, nil
	case "p":
		return m, m.openPlaylists()
	case "a":
		if selected, ok := m.resultList.SelectedItem().(trackItem); ok {
			m.pendingTrack = &selected.track
			return m, m.openPicker()
		}
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handlePickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.pendingTrack = nil
		m.view = ResultListView
		return m, nil
	case "enter":
		if selected, ok := m.playlistList.SelectedItem().(playlistItem); ok && m.pendingTrack != nil {
			return m, m.addTrack(selected.playlist, *m.pendingTrack)
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		return m, nil
	case "enter":
		if selected, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.openTracks(selected.playlist.ID)
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, m.openPlaylists()
	case "d":
		if selected, ok := m.trackList.SelectedItem().(trackItem); ok && m.openPlaylist != nil {
			return m, m.removeTrack(*m.openPlaylist, selected.track.ID)
		}
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case ResultListView:
		m.resultList, cmd = m.resultList.Update(msg)
	case PickPlaylistView, PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) search() tea.Cmd {
	term := m.searchInput.Value()
	mode := m.mode

	return func() tea.Msg {
		var (
			tracks []models.Track
			err    error
		)

		if mode == services.ModeArtist {
			tracks, err = m.catalog.SearchByArtist(m.ctx, term)
		} else {
			tracks, err = m.catalog.SearchByTrack(m.ctx, term)
		}

		return searchDoneMsg{tracks: tracks, err: err}
	}
}

func (m *Model) openPlaylists() tea.Cmd {
	return m.loadPlaylists(PlaylistListView, "Your Playlists")
}

func (m *Model) openPicker() tea.Cmd {
	return m.loadPlaylists(PickPlaylistView, "Add to which playlist?")
}

// loadPlaylists is synchronous; the store is in memory so there is nothing to
// wait on.
func (m *Model) loadPlaylists(view ViewState, title string) tea.Cmd {
	playlists := m.store.ListByOwner(m.ownerID)
	items := make([]list.Item, len(playlists))
	for i, playlist := range playlists {
		items[i] = playlistItem{playlist: playlist}
	}

	m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.playlistList.Title = title
	m.playlistList.SetSize(m.width-4, m.height-8)
	m.view = view
	return nil
}

func (m *Model) openTracks(playlistID string) tea.Cmd {
	playlist, err := m.store.Get(playlistID)
	if err != nil {
		m.err = err
		m.view = PlaylistListView
		return nil
	}

	m.openPlaylist = &playlist
	items := make([]list.Item, len(playlist.Tracks))
	for i, track := range playlist.Tracks {
		items[i] = trackItem{track: track}
	}

	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = fmt.Sprintf("Tracks in '%s'", playlist.Name)
	m.trackList.SetSize(m.width-4, m.height-8)
	m.view = TrackListView
	return nil
}

func (m *Model) addTrack(playlist models.Playlist, track models.Track) tea.Cmd {
	return func() tea.Msg {
		if playlist.HasTrack(track.ID) {
			return trackAddedMsg{playlist: playlist, track: track, duplicate: true}
		}

		err := m.store.AddTrack(playlist.ID, track)
		return trackAddedMsg{playlist: playlist, track: track, err: err}
	}
}

func (m *Model) removeTrack(playlist models.Playlist, trackID string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.RemoveTrack(playlist.ID, trackID)
		return trackRemovedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Catalog Search")
	modeLine := fmt.Sprintf("Mode: %s (tab to toggle)", m.mode)

	var footer string
	if m.err != nil {
		footer = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	} else if m.status != "" {
		footer = styles.ok.Render(m.status)
	}

	helpView := styles.help.Render("enter search • ctrl+p playlists • ctrl+c quit")

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s", title, modeLine, m.searchInput.View(), footer, helpView)
}

func (m *Model) renderResults() string {
	helpKeys := []key.Binding{m.keys.add, m.keys.playlists, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var status string
	if m.status != "" {
		status = styles.ok.Render(m.status) + "\n"
	}

	return fmt.Sprintf("%s\n%s\n%s", m.resultList.View(), status, helpView)
}

func (m *Model) renderPick() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}
