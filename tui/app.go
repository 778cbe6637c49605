package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moviedeck-cli/model"
	"moviedeck-cli/state"
	"moviedeck-cli/store"
)

type appState int

const (
	stateBooting appState = iota
	stateLogin
	stateRegister
	stateBrowse
	stateSearch
	stateDetails
	stateFavorites
	stateError
)

var browseTabs = []state.ListKind{state.ListTrending, state.ListPopular, state.ListTopRated, state.ListSearch}

// Deps are the process-wide containers the UI renders and dispatches to.
// Theme must be loaded before the program starts: platform detection queries the
// terminal, which the running program owns.
type Deps struct {
	Auth      *state.Auth
	Movies    *state.Movies
	Favorites *state.Favorites
	Theme     *state.Theme
	Store     store.Store
	Logger    *slog.Logger
}

type appModel struct {
	deps   Deps
	styles styles

	state     appState
	lastState appState
	err       error

	width  int
	height int

	form   authForm
	banner string
	notice string

	tab         state.ListKind
	lists       map[state.ListKind]*list.Model
	favorites   list.Model
	history     list.Model
	searchInput textinput.Model

	selectedID    int64
	detailsReturn appState

	spinner spinner.Model
}

func New(deps Deps) tea.Model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	m := appModel{
		deps:   deps,
		styles: newStyles(model.ThemeLight),
		state:  stateBooting,
		tab:    state.ListTrending,
		form:   newLoginForm(),
		lists:  map[state.ListKind]*list.Model{},
	}

	for _, kind := range browseTabs {
		l := newList(listTitle(kind))
		m.lists[kind] = &l
	}
	m.favorites = newList("Favorites")
	m.history = newList("Recent Searches")
	m.history.SetFilteringEnabled(false)

	input := textinput.New()
	input.Placeholder = "Search movies"
	input.CharLimit = 100
	input.Prompt = "🔍 "
	m.searchInput = input

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m.spinner = sp

	mode := model.ThemeLight
	if deps.Theme != nil {
		mode = deps.Theme.Mode()
	}
	m.applyTheme(mode)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.bootCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.isFormState() {
			return m.handleFormKey(msg)
		}
		if m.state == stateSearch {
			return m.handleSearchKey(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoading() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if m.state != stateError {
			m.lastState = m.state
		}
		m.state = stateError
		return m, nil

	case bootMsg:
		m.applyTheme(msg.theme)
		m.refreshFavorites()
		if msg.auth.IsAuthenticated() {
			return m.enterBrowse()
		}
		m.state = stateLogin
		m.form = newLoginForm()
		return m, textinput.Blink

	case authMsg:
		if errors.Is(msg.err, state.ErrAuthInFlight) {
			return m, nil
		}
		if msg.err != nil {
			m.banner = m.authError(msg.err)
			return m, nil
		}
		m.banner = ""
		return m.enterBrowse()

	case logoutMsg:
		m.state = stateLogin
		m.form = newLoginForm()
		m.banner = ""
		m.notice = ""
		for _, kind := range browseTabs {
			m.lists[kind].SetItems(nil)
		}
		return m, textinput.Blink

	case listMsg:
		m.refreshList(msg.kind)
		if msg.kind == state.ListSearch && msg.err == nil {
			m.tab = state.ListSearch
			m.state = stateBrowse
			return m, m.loadHistoryCmd()
		}
		return m, nil

	case detailsMsg:
		return m, nil

	case favoriteMsg:
		m.refreshFavorites()
		for _, kind := range browseTabs {
			m.refreshList(kind)
		}
		if msg.added {
			m.notice = fmt.Sprintf("Added %q to favorites", msg.movie.Title)
		} else {
			m.notice = fmt.Sprintf("Removed %q from favorites", msg.movie.Title)
		}
		return m, nil

	case themeMsg:
		m.applyTheme(msg.mode)
		m.notice = fmt.Sprintf("Theme: %s", msg.mode)
		return m, nil

	case historyMsg:
		m.history.SetItems(buildHistoryItems(msg.queries))
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateBrowse:
		l := m.lists[m.tab]
		*l, cmd = l.Update(msg)
	case stateFavorites:
		m.favorites, cmd = m.favorites.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateBooting:
		return header + "\n\n" + m.loadingView("Restoring session")
	case stateLogin, stateRegister:
		body := m.form.view(m.styles, m.banner)
		if m.authLoading() {
			body += "\n\n" + m.loadingView("Signing in")
		}
		return header + "\n\n" + body
	case stateBrowse:
		return header + "\n\n" + m.browseView()
	case stateSearch:
		return header + "\n\n" + m.searchInput.View() + "\n\n" + m.history.View()
	case stateDetails:
		return header + "\n\n" + m.detailsView()
	case stateFavorites:
		if len(m.favorites.Items()) == 0 {
			return header + "\n\n" + m.styles.subtle.Render("No favorites yet. Press ctrl+f on a movie to add it.")
		}
		return header + "\n\n" + m.favorites.View()
	case stateError:
		return header + "\n\n" + m.styles.errorText.Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := m.styles.title.Render("MovieDeck")
	sub := []string{}
	if user := m.currentUser(); user != "" {
		sub = append(sub, "Signed in as "+user)
	}
	sub = append(sub, "Theme: "+m.styles.mode.String())
	if m.deps.Favorites != nil {
		sub = append(sub, fmt.Sprintf("Favorites: %d", len(m.favorites.Items())))
	}
	meta := "\n" + m.styles.subtle.Render(strings.Join(sub, " • "))

	hints := "ctrl+c quit"
	switch m.state {
	case stateLogin:
		hints = "ctrl+c quit • tab next field • enter sign in • ctrl+r create account"
	case stateRegister:
		hints = "ctrl+c quit • tab next field • enter register • ctrl+r back to sign in"
	case stateBrowse:
		hints = "ctrl+c quit • tab switch list • type to filter • enter details • ctrl+f favorite • ctrl+l favorites • ctrl+s search • ctrl+r refresh • ctrl+t theme • ctrl+x logout"
	case stateSearch:
		hints = "ctrl+c quit • esc back • enter search • ↑/↓ recent searches"
	case stateDetails:
		hints = "ctrl+c quit • esc back • f favorite • o open homepage • r reload • t theme"
	case stateFavorites:
		hints = "ctrl+c quit • esc back • type to filter • enter details • ctrl+f remove"
	}

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	noticeLine := ""
	if m.notice != "" {
		noticeLine = "\n" + m.styles.success.Render(m.notice)
	}
	return title + meta + filterLine + noticeLine + "\n" + hint(hints)
}

func (m appModel) browseView() string {
	tabs := make([]string, 0, len(browseTabs))
	for _, kind := range browseTabs {
		if kind == state.ListSearch && !m.hasSearch() {
			continue
		}
		label := listTitle(kind)
		if kind == m.tab {
			tabs = append(tabs, m.styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.tab.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	body := ""
	snap := m.moviesSnapshot()
	current := snap.List(m.tab)
	switch {
	case current.Loading && len(current.Movies) == 0:
		body = m.loadingView("Loading " + m.tab.String() + " movies")
	case current.Err != "" && len(current.Movies) == 0:
		body = m.styles.errorText.Render(current.Err) + "\n\n" + hint("Press ctrl+r to try again.")
	default:
		if current.Err != "" {
			body = m.styles.errorText.Render(current.Err) + "\n"
		}
		if current.Loading {
			body += m.spinner.View() + " " + hint("Refreshing...") + "\n"
		}
		body += m.lists[m.tab].View()
	}
	return row + "\n\n" + body
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	case "tab":
		if m.state == stateBrowse {
			m.tab = m.nextTab(1)
			return m, nil, true
		}
	case "shift+tab":
		if m.state == stateBrowse {
			m.tab = m.nextTab(-1)
			return m, nil, true
		}
	case "ctrl+f", "f":
		if movie, ok := m.focusedMovie(); ok && (msg.String() == "ctrl+f" || m.state == stateDetails) {
			return m, m.toggleFavoriteCmd(movie), true
		}
	case "ctrl+t", "t":
		if msg.String() == "ctrl+t" || m.state == stateDetails {
			return m, m.toggleThemeCmd(), true
		}
	case "ctrl+l":
		if m.state == stateBrowse {
			m.refreshFavorites()
			m.state = stateFavorites
			return m, nil, true
		}
	case "ctrl+s":
		if m.state == stateBrowse || m.state == stateFavorites {
			m.state = stateSearch
			m.searchInput.SetValue("")
			return m, tea.Batch(m.searchInput.Focus(), m.loadHistoryCmd()), true
		}
	case "ctrl+r":
		if m.state == stateBrowse {
			return m, tea.Batch(m.fetchListCmd(m.tab), m.spinner.Tick), true
		}
	case "r":
		if m.state == stateDetails && m.selectedID > 0 {
			return m, tea.Batch(m.fetchDetailsCmd(m.selectedID), m.spinner.Tick), true
		}
	case "o":
		if m.state == stateDetails {
			if details := m.moviesSnapshot().Details.Movie; details != nil {
				return m, openURLCmd(details.Homepage), true
			}
			return m, nil, true
		}
	case "ctrl+x":
		if m.state == stateBrowse || m.state == stateFavorites {
			return m, m.logoutCmd(), true
		}
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateBrowse, stateFavorites:
			item, ok := m.activeList().SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.selectedID = item.movie.ID
			m.detailsReturn = m.state
			m.state = stateDetails
			m.notice = ""
			return m, tea.Batch(m.fetchDetailsCmd(item.movie.ID), m.spinner.Tick), true
		}
	}
	return m, nil, false
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m, m.form.moveFocus(1)
	case "shift+tab", "up":
		return m, m.form.moveFocus(-1)
	case "esc":
		m.banner = ""
		m.form.errors = nil
		if m.deps.Auth != nil {
			m.deps.Auth.ClearError()
		}
		return m, nil
	case "ctrl+r":
		username := m.form.value("username")
		if m.state == stateLogin {
			m.state = stateRegister
			m.form = newRegisterForm()
		} else {
			m.state = stateLogin
			m.form = newLoginForm()
		}
		m.form.setValue("username", username)
		m.banner = ""
		return m, textinput.Blink
	case "enter":
		if !m.form.onLastField() {
			return m, m.form.moveFocus(1)
		}
		return m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	if !m.form.validate() {
		return m, nil
	}
	if m.deps.Auth == nil {
		return m, nil
	}
	m.banner = ""
	if m.form.kind == formRegister {
		return m, tea.Batch(m.registerCmd(m.form.registerCredentials()), m.spinner.Tick)
	}
	return m, tea.Batch(m.loginCmd(m.form.loginCredentials()), m.spinner.Tick)
}

func (m appModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		m.state = stateBrowse
		return m, nil
	case "up", "down":
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		if item, ok := m.history.SelectedItem().(historyItem); ok {
			m.searchInput.SetValue(item.query)
			m.searchInput.CursorEnd()
		}
		return m, cmd
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		m.tab = state.ListSearch
		m.state = stateBrowse
		return m, tea.Batch(m.searchCmd(query), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	switch m.state {
	case stateDetails:
		if m.deps.Movies != nil {
			m.deps.Movies.ClearSelected()
		}
		m.selectedID = 0
		m.state = m.detailsReturn
		if m.state != stateFavorites {
			m.state = stateBrowse
		}
	case stateFavorites:
		m.state = stateBrowse
	case stateBrowse:
		if m.tab == state.ListSearch {
			m.tab = state.ListTrending
		}
		m.notice = ""
	case stateError:
		m.state = m.lastState
		if m.deps.Movies != nil {
			m.deps.Movies.ClearError()
		}
	}
	return m, nil
}

func (m appModel) enterBrowse() (tea.Model, tea.Cmd) {
	m.state = stateBrowse
	m.tab = state.ListTrending
	return m, tea.Batch(
		m.fetchListCmd(state.ListTrending),
		m.fetchListCmd(state.ListPopular),
		m.fetchListCmd(state.ListTopRated),
		m.spinner.Tick,
	)
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateBrowse:
		return m.lists[m.tab]
	case stateFavorites:
		return &m.favorites
	default:
		return nil
	}
}

func (m appModel) focusedMovie() (model.Movie, bool) {
	switch m.state {
	case stateBrowse, stateFavorites:
		listPtr := m.activeList()
		if item, ok := listPtr.SelectedItem().(movieItem); ok {
			return item.movie, true
		}
	case stateDetails:
		if details := m.moviesSnapshot().Details.Movie; details != nil {
			return details.Summary(), true
		}
	}
	return model.Movie{}, false
}

func (m appModel) nextTab(delta int) state.ListKind {
	visible := make([]state.ListKind, 0, len(browseTabs))
	for _, kind := range browseTabs {
		if kind == state.ListSearch && !m.hasSearch() {
			continue
		}
		visible = append(visible, kind)
	}
	for i, kind := range visible {
		if kind == m.tab {
			return visible[(i+delta+len(visible))%len(visible)]
		}
	}
	return visible[0]
}

func (m appModel) hasSearch() bool {
	search := m.moviesSnapshot().List(state.ListSearch)
	return search.Loaded || search.Loading
}

func (m *appModel) refreshList(kind state.ListKind) {
	listPtr, ok := m.lists[kind]
	if !ok {
		return
	}
	current := m.moviesSnapshot().List(kind)
	listPtr.SetItems(buildMovieItems(current.Movies, m.isFavorite))
	if kind == state.ListSearch && current.Query != "" {
		listPtr.Title = fmt.Sprintf("Search • %s", current.Query)
	}
}

func (m *appModel) refreshFavorites() {
	if m.deps.Favorites == nil {
		return
	}
	m.favorites.SetItems(buildMovieItems(m.deps.Favorites.Items(), func(int64) bool { return true }))
}

func (m appModel) isFavorite(movieID int64) bool {
	return m.deps.Favorites != nil && m.deps.Favorites.Contains(movieID)
}

func (m *appModel) applyTheme(mode model.ThemeMode) {
	m.styles = newStyles(mode)
	for _, kind := range browseTabs {
		m.styles.applyList(m.lists[kind])
	}
	m.styles.applyList(&m.favorites)
	m.styles.applyList(&m.history)
	m.spinner.Style = m.styles.accent
}

func (m appModel) moviesSnapshot() state.MoviesSnapshot {
	if m.deps.Movies == nil {
		return state.MoviesSnapshot{}
	}
	return m.deps.Movies.Snapshot()
}

func (m appModel) currentUser() string {
	if m.deps.Auth == nil {
		return ""
	}
	snap := m.deps.Auth.Snapshot()
	if !snap.IsAuthenticated() {
		return ""
	}
	return snap.Session.DisplayName()
}

func (m appModel) authLoading() bool {
	return m.deps.Auth != nil && m.deps.Auth.Snapshot().Loading
}

func (m appModel) authError(err error) string {
	if m.deps.Auth != nil {
		if message := m.deps.Auth.Snapshot().Err; message != "" {
			return message
		}
	}
	return err.Error()
}

func (m appModel) isFormState() bool {
	return m.state == stateLogin || m.state == stateRegister
}

func (m appModel) isLoading() bool {
	if m.state == stateBooting || m.authLoading() {
		return true
	}
	return m.moviesSnapshot().Loading()
}

func (m appModel) loadingView(title string) string {
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	for _, kind := range browseTabs {
		m.lists[kind].SetSize(m.width, h)
	}
	m.favorites.SetSize(m.width, h)
	m.history.SetSize(m.width, h-2)
	m.searchInput.Width = m.width - 6
}

func listTitle(kind state.ListKind) string {
	switch kind {
	case state.ListTrending:
		return "Trending"
	case state.ListPopular:
		return "Popular"
	case state.ListTopRated:
		return "Top Rated"
	case state.ListSearch:
		return "Search"
	default:
		return kind.String()
	}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
