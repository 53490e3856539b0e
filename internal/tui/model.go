// Package tui provides the BubbleTea-based terminal user interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/config"
	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
	"github.com/archanaprabhat/CineMania/internal/store"
	"github.com/archanaprabhat/CineMania/internal/watchlist"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// Tab selects which collection the list shows.
type Tab int

const (
	TabCatalog Tab = iota
	TabWatchlist
)

func (t Tab) String() string {
	if t == TabWatchlist {
		return "Watchlist"
	}
	return "Catalog"
}

// mutationTimeout bounds a single toggle or reload.
const mutationTimeout = 10 * time.Second

// Model is the main TUI model.
type Model struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	container *watchlist.Container

	mode Mode
	tab  Tab

	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	entries     []model.Entry // catalog listing, popularity order
	selected    *rowItem
	searchQuery string
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool
	statusSeq int

	toggles *toggleSet

	refreshCh <-chan watchlist.ChangeEvent
}

// toggleSet keeps one Toggle per entry id so repeated presses share the
// busy flag. It is shared by every copy of the Model.
type toggleSet struct {
	mu sync.Mutex
	m  map[int64]*watchlist.Toggle
}

func (s *toggleSet) get(c *watchlist.Container, e model.Entry) *watchlist.Toggle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.m[e.ID()]
	if !ok {
		t = watchlist.NewToggle(c, e)
		s.m[e.ID()] = t
	}
	return t
}

func (s *toggleSet) busy(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.m[id]
	return ok && t.Busy()
}

// rowItem wraps an entry for the list component.
type rowItem struct {
	row    output.Row
	entry  model.Entry
	record *model.WatchlistRecord
	busy   bool
}

func (i rowItem) Title() string {
	title := i.row.DisplayTitle
	if y := i.row.Year(); y != "" {
		title += " (" + y + ")"
	}
	return title
}

func (i rowItem) Description() string {
	parts := []string{i.row.MediaKind.Label(), ratingLabel(i.row.Rating)}
	if i.record != nil {
		parts = append(parts, "added "+i.record.RelativeAdded())
	}
	return strings.Join(parts, " · ")
}

func (i rowItem) FilterValue() string {
	return i.row.DisplayTitle
}

// rowDelegate renders watchlisted entries with a marker.
type rowDelegate struct {
	list.DefaultDelegate
}

func newRowDelegate() rowDelegate {
	return rowDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item, marking watchlisted and busy entries.
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(rowItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	var titleStyle, descStyle lipgloss.Style
	if isSelected {
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle
		descStyle = d.DefaultDelegate.Styles.SelectedDesc
	} else {
		titleStyle = d.DefaultDelegate.Styles.NormalTitle
		descStyle = d.DefaultDelegate.Styles.NormalDesc
	}
	if ri.row.InWatchlist {
		titleStyle = titleStyle.Foreground(lipgloss.Color("10"))
	}

	prefix := "  "
	switch {
	case ri.busy:
		prefix = "… "
	case ri.row.InWatchlist:
		prefix = "★ "
	}

	title := truncateRunes(prefix+ri.Title(), itemWidth)
	desc := truncateRunes(ri.Description(), itemWidth)

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a new TUI model. cat and c may be nil.
func New(cfg *config.Config, cat *catalog.Catalog, c *watchlist.Container) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	l := list.New(nil, newRowDelegate(), 0, 0)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search titles or filter (rating>=8,kind=show)..."
	searchInput.CharLimit = 100

	m := Model{
		cfg:         cfg,
		catalog:     cat,
		container:   c,
		mode:        ModeList,
		tab:         TabCatalog,
		list:        l,
		searchInput: searchInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
		toggles:     &toggleSet{m: make(map[int64]*watchlist.Toggle)},
	}

	if cat != nil {
		m.entries = cat.Browse(catalog.BrowseOptions{
			Sort: core.SortOptions{Field: core.SortByPopularity, Order: core.SortDesc},
		})
	}
	if c != nil {
		m.refreshCh = c.Subscribe()
	}
	m.list.Title = m.title()
	m.list.SetItems(m.buildListItems())

	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadItems,
		m.watchForChanges,
	)
}

type loadItemsMsg struct{}

func (m Model) loadItems() tea.Msg {
	return loadItemsMsg{}
}

// watchForChanges waits for the next container event.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	ev, ok := <-m.refreshCh
	if !ok {
		return nil
	}
	return changeMsg{event: ev}
}

type changeMsg struct {
	event watchlist.ChangeEvent
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct {
	seq int
}

type copyResultMsg struct {
	err error
}

type toggleResultMsg struct {
	title  string
	result watchlist.ToggleResult
	err    error
}

type reloadResultMsg struct {
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case loadItemsMsg:
		m.rebuild()
		return m, nil

	case changeMsg:
		m.rebuild()
		if m.selected != nil {
			m.refreshSelected()
		}
		return m, m.watchForChanges

	case toggleResultMsg:
		m.rebuild()
		if m.selected != nil {
			m.refreshSelected()
		}
		if msg.err != nil {
			return m, status(watchlist.FailureMessage, true)
		}
		if text := msg.result.Message(); text != "" {
			return m, status(text+": "+msg.title, false)
		}
		return m, nil

	case reloadResultMsg:
		if msg.err != nil {
			return m, status("Reload failed: "+msg.err.Error(), true)
		}
		m.rebuild()
		return m, status("Watchlist reloaded", false)

	case statusMsg:
		m.statusSeq++
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		seq := m.statusSeq
		return m, tea.Tick(m.toastDuration(), func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

func (m Model) toastDuration() time.Duration {
	if d := m.cfg.TUI.Toast.Duration(); d > 0 {
		return d
	}
	return config.DefaultToast
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeSearch {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			if m.mode == ModeHelp {
				m.mode = ModeList
			} else {
				m.mode = ModeHelp
			}
			return m, nil
		}
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.list.SelectedItem().(rowItem); ok {
			m.openDetail(item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.tab == TabCatalog {
			m.tab = TabWatchlist
		} else {
			m.tab = TabCatalog
		}
		m.rebuild()
		m.list.ResetSelected()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if item, ok := m.list.SelectedItem().(rowItem); ok {
			return m.toggle(item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.list.SelectedItem().(rowItem); ok {
			return m, m.copyToClipboard(item.row.DisplayTitle)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyPoster):
		if item, ok := m.list.SelectedItem().(rowItem); ok {
			return m, m.copyToClipboard(catalog.PosterURL(item.row.PosterPath, m.cfg.TUI.PosterSize))
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		return m, m.copyVisible(output.FormatJSON)

	case key.Matches(msg, m.keys.CopyAllYAML):
		return m, m.copyVisible(output.FormatYAML)

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.rebuild()
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reload()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.selected != nil {
			return m.toggle(*m.selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.row.DisplayTitle)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyPoster):
		if m.selected != nil {
			return m, m.copyToClipboard(catalog.PosterURL(m.selected.row.PosterPath, m.cfg.TUI.PosterSize))
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.selected = nil
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.rebuild()
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.rebuild()
		return m, nil

	case tea.KeyEnter:
		if item, ok := m.list.SelectedItem().(rowItem); ok {
			m.searchInput.Blur()
			m.openDetail(item)
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering on each keystroke
	m.searchQuery = m.searchInput.Value()
	m.rebuild()

	return m, cmd
}

func (m *Model) openDetail(item rowItem) {
	m.selected = &item
	m.mode = ModeDetail
	m.viewport.SetContent(m.renderDetail(item))
	m.viewport.GotoTop()
}

// refreshSelected re-reads watchlist membership for the open detail view.
func (m *Model) refreshSelected() {
	item := *m.selected
	item.row.InWatchlist = m.inWatchlist(item.row.ID)
	item.record = m.recordFor(item.row.ID)
	item.busy = m.toggles.busy(item.row.ID)
	m.selected = &item
	if m.mode == ModeDetail {
		m.viewport.SetContent(m.renderDetail(item))
	}
}

// toggle starts a watchlist toggle for item. Presses while the entry's
// toggle is in flight are dropped by the Toggle itself.
func (m Model) toggle(item rowItem) (tea.Model, tea.Cmd) {
	if m.container == nil {
		return m, status("Watchlist unavailable", true)
	}

	t := m.toggles.get(m.container, item.entry)
	title := item.row.DisplayTitle
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		res, err := t.Run(ctx)
		return toggleResultMsg{title: title, result: res, err: err}
	}
}

func (m Model) reload() tea.Cmd {
	c := m.container
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		return reloadResultMsg{err: c.Refresh(ctx)}
	}
}

func (m Model) copyVisible(format output.FormatType) tea.Cmd {
	items := m.list.Items()
	rows := make([]output.Row, 0, len(items))
	for _, it := range items {
		if ri, ok := it.(rowItem); ok {
			rows = append(rows, ri.row)
		}
	}
	text, err := encodeRows(rows, format)
	if err != nil {
		return status("Failed to encode "+string(format)+": "+err.Error(), true)
	}
	return m.copyToClipboard(text)
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, cfg)}
	}
}

func (m *Model) rebuild() {
	m.list.Title = m.title()
	m.list.SetItems(m.buildListItems())
}

func (m Model) title() string {
	return fmt.Sprintf("CineMania · %s · Watchlist (%d)", m.tab, m.watchlistCount())
}

func (m Model) watchlistCount() int {
	if m.container == nil {
		return 0
	}
	return m.container.Count()
}

func (m Model) inWatchlist(id int64) bool {
	return m.container != nil && m.container.Contains(id)
}

func (m Model) recordFor(id int64) *model.WatchlistRecord {
	if m.container == nil {
		return nil
	}
	for _, r := range m.container.Items() {
		if r.ID == id {
			return &r
		}
	}
	return nil
}

// buildListItems creates list items for the current tab and search query.
func (m Model) buildListItems() []list.Item {
	if m.tab == TabWatchlist {
		return m.watchlistItems()
	}
	return m.catalogItems()
}

func (m Model) catalogItems() []list.Item {
	entries := m.entries
	if m.searchQuery != "" && m.catalog != nil {
		if expr, ok := parseFilterExpression(m.searchQuery); ok {
			entries = core.FilterWithExpr(entries, m.catalog.Fields, expr)
		} else {
			entries = core.Search(entries, m.catalog.Fields, m.searchQuery)
		}
	}

	rows := output.EntryRows(entries, m.inWatchlist)
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{row: r, entry: entries[i], busy: m.toggles.busy(r.ID)}
	}
	return items
}

func (m Model) watchlistItems() []list.Item {
	if m.container == nil {
		return nil
	}

	records := m.container.Items()
	if m.searchQuery != "" {
		if expr, ok := parseFilterExpression(m.searchQuery); ok {
			records = core.FilterWithExpr(records, core.RecordFields, expr)
		} else {
			records = core.Search(records, core.RecordFields, m.searchQuery)
		}
	}

	rows := output.RecordRows(records)
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		rec := records[i]
		items[i] = rowItem{
			row:    r,
			entry:  m.entryFor(rec),
			record: &rec,
			busy:   m.toggles.busy(r.ID),
		}
	}
	return items
}

// entryFor resolves a record to its catalog entry, or rebuilds a minimal
// entry from the record when the catalog does not have it.
func (m Model) entryFor(r model.WatchlistRecord) model.Entry {
	if m.catalog != nil {
		if e, err := m.catalog.Entry(r.MediaKind, r.ID); err == nil {
			return e
		}
	}
	if r.MediaKind == model.KindShow {
		return model.ShowEntry(model.Show{
			ID:           r.ID,
			Name:         r.DisplayTitle,
			PosterPath:   r.PosterPath,
			FirstAirDate: r.PrimaryDate,
			VoteAverage:  r.Rating,
		})
	}
	return model.MovieEntry(model.Movie{
		ID:          r.ID,
		Title:       r.DisplayTitle,
		PosterPath:  r.PosterPath,
		ReleaseDate: r.PrimaryDate,
		VoteAverage: r.Rating,
	})
}

// parseFilterExpression reports whether query is a filter expression such as
// "rating>=8,kind=show" rather than plain search text.
func parseFilterExpression(query string) (*core.FilterExpr, bool) {
	if !strings.ContainsAny(query, "=<>~") {
		return nil, false
	}
	expr, err := core.ParseFilter(query)
	if err != nil || len(expr.Conditions) == 0 {
		return nil, false
	}
	return expr, true
}

func isFilterExpression(query string) bool {
	_, ok := parseFilterExpression(query)
	return ok
}

// renderDetail renders the detail view for an entry.
func (m Model) renderDetail(item rowItem) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	e := item.entry

	sb.WriteString(headerStyle.Render(item.Title()) + "\n\n")

	sb.WriteString(labelStyle.Render("Kind: ") + e.Kind.Label() + "\n")
	if d := e.Date(); d != "" {
		label := "Released: "
		if e.Kind == model.KindShow {
			label = "First aired: "
		}
		sb.WriteString(labelStyle.Render(label) + d + "\n")
	}
	sb.WriteString(labelStyle.Render("Rating: ") + ratingLabel(e.Rating()) + "\n")

	if m.catalog != nil {
		if genres := m.catalog.Fields(e).Genres; len(genres) > 0 {
			sb.WriteString(labelStyle.Render("Genres: ") + strings.Join(genres, ", ") + "\n")
		}
	}

	switch {
	case e.Movie != nil && e.Movie.Runtime > 0:
		sb.WriteString(labelStyle.Render("Runtime: ") + fmt.Sprintf("%dh %dm", e.Movie.Runtime/60, e.Movie.Runtime%60) + "\n")
	case e.Show != nil && e.Show.NumberOfSeasons > 0:
		sb.WriteString(labelStyle.Render("Seasons: ") + fmt.Sprintf("%d (%d episodes)", e.Show.NumberOfSeasons, e.Show.NumberOfEpisodes) + "\n")
	}

	sb.WriteString(labelStyle.Render("Poster: ") + catalog.PosterURL(e.PosterPath(), m.cfg.TUI.PosterSize) + "\n")

	switch {
	case item.busy:
		sb.WriteString(labelStyle.Render("Watchlist: ") + "updating…\n")
	case item.record != nil:
		sb.WriteString(labelStyle.Render("Watchlist: ") + "added " + item.record.RelativeAdded() + "\n")
	case item.row.InWatchlist:
		sb.WriteString(labelStyle.Render("Watchlist: ") + "yes\n")
	default:
		sb.WriteString(labelStyle.Render("Watchlist: ") + "no (press w to add)\n")
	}

	tagline := ""
	if e.Movie != nil {
		tagline = e.Movie.Tagline
	} else if e.Show != nil {
		tagline = e.Show.Tagline
	}
	if tagline != "" {
		sb.WriteString("\n" + lipgloss.NewStyle().Italic(true).Render(tagline) + "\n")
	}

	if overview := e.Overview(); overview != "" {
		wrap := lipgloss.NewStyle()
		if m.width > 4 {
			wrap = wrap.Width(m.width - 2)
		}
		sb.WriteString("\n" + labelStyle.Render("Overview:") + "\n")
		sb.WriteString(wrap.Render(overview) + "\n")
	}

	if cast := topCast(e, 5); len(cast) > 0 {
		sb.WriteString("\n" + labelStyle.Render("Cast:") + "\n")
		for _, c := range cast {
			line := "  " + c.Name
			if c.Character != "" {
				line += " as " + c.Character
			}
			sb.WriteString(line + "\n")
		}
	}

	return sb.String()
}

func topCast(e model.Entry, n int) []model.CastMember {
	var credits *model.Credits
	if e.Movie != nil {
		credits = e.Movie.Credits
	} else if e.Show != nil {
		credits = e.Show.Credits
	}
	if credits == nil {
		return nil
	}
	if len(credits.Cast) > n {
		return credits.Cast[:n]
	}
	return credits.Cast
}

func ratingLabel(v float64) string {
	if v <= 0 {
		return "not rated"
	}
	return fmt.Sprintf("★ %.1f", v)
}

func truncateRunes(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) statusLine(mode string) string {
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return statusStyle.Render(m.statusMsg)
	}
	return m.buildKeybindBar(m.width, mode)
}

func (m Model) viewList() string {
	return m.list.View() + "\n" + m.statusLine("list")
}

func (m Model) viewDetail() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render(m.tab.String() + " Detail")

	return header + "\n" + m.viewport.View() + "\n" + m.statusLine("detail")
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))
	if isFilterExpression(m.searchQuery) {
		countStr = fmt.Sprintf("(filter, %d matches)", len(m.list.Items()))
	}

	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.statusLine("search")
}

// helpSections names the groups returned by KeyMap.FullHelp.
var helpSections = []string{"Navigation", "Watchlist & Details", "Search & Copy", "General"}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Width(14)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for i, group := range m.keys.FullHelp() {
		if i < len(helpSections) {
			b.WriteString(sectionStyle.Render(helpSections[i]))
			b.WriteString("\n")
		}
		for _, kb := range group {
			h := kb.Help()
			b.WriteString("  " + keyStyle.Render(h.Key) + h.Desc + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Search accepts text or a filter like rating>=8,kind=show."))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list", "detail", "search"
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case "list":
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "view", 2},
			{"w", "watchlist", 3},
			{"tab", "switch", 4},
			{"?", "help", 5},
			{"/", "search", 6},
			{"c", "copy", 7},
			{"r", "reload", 8},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"w", "watchlist", 3},
			{"/", "search", 4},
			{"c", "copy title", 5},
			{"j/k", "scroll", 6},
		}
	case "search":
		binds = []keybind{
			{"enter", "view", 1},
			{"esc", "close", 2},
			{"↑/↓", "navigate", 3},
		}
	}

	const separator = "  "
	result := ""
	plainLen := 0
	for _, b := range binds {
		plainItem := b.key + " " + b.desc
		testLen := plainLen + len(plainItem)
		if result != "" {
			testLen += len(separator)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += keyStyle.Render(b.key) + " " + b.desc
		plainLen = testLen
	}

	return style.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config    *config.Config
	Catalog   *catalog.Catalog
	Container *watchlist.Container
	WatchPath string // Store file to watch for writes by other processes (empty = no watching)
	Logger    *slog.Logger
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var watcher *store.FileWatcher
	if opts.WatchPath != "" && opts.Container != nil {
		c := opts.Container
		w, err := store.NewFileWatcher(opts.WatchPath, func() {
			ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
			defer cancel()
			if err := c.Refresh(ctx); err != nil {
				logger.Warn("watchlist refresh after external change failed", "error", err)
			}
		}, store.WithWatcherLogger(logger))
		if err != nil {
			logger.Warn("failed to create file watcher", "path", opts.WatchPath, "error", err)
		} else if err := w.Start(); err != nil {
			logger.Warn("failed to start file watcher", "path", opts.WatchPath, "error", err)
		} else {
			watcher = w
		}
	}

	m := New(opts.Config, opts.Catalog, opts.Container)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()

	if watcher != nil {
		_ = watcher.Stop()
	}
	if opts.Container != nil && m.refreshCh != nil {
		opts.Container.Unsubscribe(m.refreshCh)
	}

	return err
}
