package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cineadmin-tui/core"
	"cineadmin-tui/model"
)

type appView int

const (
	viewBrowse appView = iota
	viewLogin
	viewRegister
	viewMovieForm
	viewScreeningForm
	viewMoviePicker
)

type browsePane int

const (
	paneMovies browsePane = iota
	paneScreenings
)

type pickerPurpose int

const (
	pickScreeningFilter pickerPurpose = iota
	pickScreeningMovie
)

type appModel struct {
	coord *core.Coordinator

	view    appView
	pane    browsePane
	width   int
	height  int
	loading bool

	status      string
	statusIsErr bool

	movieList     list.Model
	screeningList list.Model
	pickerList    list.Model
	pickerFor     pickerPurpose

	filterMode  bool
	filterInput textinput.Model

	loginForm     form
	registerForm  form
	movieForm     form
	screeningForm form

	// movie picked for the screening under creation
	screeningMovie core.MovieOption

	spinner spinner.Model
}

type refreshMsg struct {
	result core.RefreshResult
}

type loginResultMsg struct {
	resp model.LoginResponse
	err  error
}

type registerResultMsg struct {
	report string
	err    error
}

type movieSavedMsg struct {
	err error
}

type screeningSavedMsg struct {
	err error
}

type movieDeletedMsg struct {
	err error
}

type detailMsg struct {
	movie model.Movie
	err   error
}

func New(coord *core.Coordinator) tea.Model {
	m := appModel{
		coord:   coord,
		view:    viewBrowse,
		loading: true,
	}

	m.movieList = newList("Movies")
	m.screeningList = newList("Screenings")
	m.pickerList = newList("Select Movie")

	m.filterInput = textinput.New()
	m.filterInput.Placeholder = "title, description or year"
	m.filterInput.CharLimit = 128

	m.loginForm = newForm("Log in",
		fieldSpec{label: "Email", placeholder: "admin@example.com"},
		fieldSpec{label: "Password", secret: true},
	)
	m.registerForm = newForm("Register",
		fieldSpec{label: "Username"},
		fieldSpec{label: "Email"},
		fieldSpec{label: "Password", secret: true},
	)
	m.movieForm = newForm("Movie",
		fieldSpec{label: "Title"},
		fieldSpec{label: "Description"},
		fieldSpec{label: "Year", placeholder: "1998"},
		fieldSpec{label: "Image URL", placeholder: "https://..."},
	)
	m.screeningForm = newForm("Screening",
		fieldSpec{label: "Room", placeholder: "Nagy"},
		fieldSpec{label: "Time", placeholder: core.ScreeningTimeLayout},
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			return m, cmd
		}
		return m, nil

	case refreshMsg:
		m.loading = false
		if err := m.coord.ApplyRefresh(msg.result); err != nil {
			m.setError(err)
		}
		m.syncLists()
		m.syncEditView()
		return m, nil

	case loginResultMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if err := m.coord.ApplyLogin(msg.resp); err != nil {
			m.setError(err)
			return m, nil
		}
		snapshot := m.coord.Snapshot()
		m.setStatus(fmt.Sprintf("logged in as %s", snapshot.Username))
		m.view = viewBrowse
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)

	case registerResultMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		report := msg.report
		if report == "" {
			report = "registration successful, you can log in now"
		}
		m.setStatus(report)
		email := m.registerForm.Values()[1]
		m.loginForm.Reset()
		m.loginForm.SetValues(email)
		m.view = viewLogin
		return m, nil

	case movieSavedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.coord.CompleteEdit()
		m.setStatus("movie saved")
		m.view = viewBrowse
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)

	case screeningSavedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.coord.CompleteEdit()
		m.setStatus("screening saved")
		m.view = viewBrowse
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)

	case movieDeletedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("movie deleted")
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)

	case detailMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.coord.ApplyDetail(msg.movie)
		return m, nil
	}

	return m.updateActiveComponent(msg)
}

func (m appModel) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewBrowse:
		if m.filterMode {
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.coord.SetMovieFilter(m.filterInput.Value())
			m.syncLists()
			return m, cmd
		}
		if m.pane == paneMovies {
			m.movieList, cmd = m.movieList.Update(msg)
		} else {
			m.screeningList, cmd = m.screeningList.Update(msg)
		}
	case viewMoviePicker:
		m.pickerList, cmd = m.pickerList.Update(msg)
	case viewLogin:
		cmd = m.loginForm.Update(msg)
	case viewRegister:
		cmd = m.registerForm.Update(msg)
	case viewMovieForm:
		cmd = m.movieForm.Update(msg)
	case viewScreeningForm:
		cmd = m.screeningForm.Update(msg)
	}
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case viewBrowse:
		return m.handleBrowseKey(msg)
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewRegister:
		return m.handleRegisterKey(msg)
	case viewMovieForm:
		return m.handleMovieFormKey(msg)
	case viewScreeningForm:
		return m.handleScreeningFormKey(msg)
	case viewMoviePicker:
		return m.handlePickerKey(msg)
	}
	return m, nil
}

func (m appModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterMode {
		switch msg.Type {
		case tea.KeyEsc:
			m.filterMode = false
			m.filterInput.SetValue("")
			m.filterInput.Blur()
			m.coord.SetMovieFilter("")
			m.syncLists()
			return m, nil
		case tea.KeyEnter:
			m.filterMode = false
			m.filterInput.Blur()
			return m, nil
		}
		return m.updateActiveComponent(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.pane == paneMovies {
			m.pane = paneScreenings
		} else {
			m.pane = paneMovies
		}
		return m, nil
	case "r":
		m.loading = true
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
	case "/":
		if m.pane == paneMovies {
			m.filterMode = true
			m.filterInput.Focus()
			return m, textinput.Blink
		}
	case "f":
		if m.pane == paneScreenings {
			m.pickerFor = pickScreeningFilter
			m.pickerList.Title = "Filter by movie"
			m.pickerList.SetItems(buildOptionItems(m.coord.Snapshot().FilterOptions))
			m.pickerList.Select(0)
			m.view = viewMoviePicker
			return m, nil
		}
	case "l":
		if !m.coord.Snapshot().LoggedIn {
			m.loginForm.Reset()
			m.view = viewLogin
			return m, textinput.Blink
		}
	case "ctrl+l":
		if m.coord.Snapshot().LoggedIn {
			m.coord.Logout()
			m.setStatus("logged out")
			m.syncLists()
		}
		return m, nil
	case "n":
		return m.openCreatePanel()
	case "e":
		return m.openEditPanel()
	case "d":
		return m.deleteSelected()
	case "esc":
		if m.coord.Snapshot().Detail != nil {
			m.coord.ClearDetail()
			return m, nil
		}
		if m.coord.Snapshot().MovieFilter != "" {
			m.coord.SetMovieFilter("")
			m.filterInput.SetValue("")
			m.syncLists()
			return m, nil
		}
		return m, nil
	}

	if msg.Type == tea.KeyEnter && m.pane == paneMovies {
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			return m, m.detailCmd(item.row.ID)
		}
		return m, nil
	}

	return m.updateActiveComponent(msg)
}

func (m appModel) openCreatePanel() (tea.Model, tea.Cmd) {
	if m.pane == paneMovies {
		if err := m.coord.OpenCreateMovie(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.movieForm.Reset()
		m.view = viewMovieForm
		return m, textinput.Blink
	}

	if err := m.coord.OpenCreateScreening(); err != nil {
		m.setError(err)
		return m, nil
	}
	m.screeningForm.Reset()
	m.screeningMovie = core.MovieOption{}
	m.pickerFor = pickScreeningMovie
	m.pickerList.Title = "Movie for the screening"
	m.pickerList.SetItems(buildOptionItems(m.coord.Snapshot().SelectorOptions))
	m.pickerList.Select(0)
	m.view = viewMoviePicker
	return m, nil
}

func (m appModel) openEditPanel() (tea.Model, tea.Cmd) {
	if m.pane != paneMovies {
		return m, nil
	}
	item, ok := m.movieList.SelectedItem().(movieItem)
	if !ok {
		return m, nil
	}
	if err := m.coord.OpenEditMovie(item.row.ID); err != nil {
		m.setError(err)
		return m, nil
	}
	buffer := m.coord.Snapshot().Edit.MovieForm
	m.movieForm.Reset()
	m.movieForm.SetValues(buffer.Title, buffer.Description, buffer.Year, buffer.ImageURL)
	m.view = viewMovieForm
	return m, textinput.Blink
}

func (m appModel) deleteSelected() (tea.Model, tea.Cmd) {
	if m.pane != paneMovies {
		return m, nil
	}
	item, ok := m.movieList.SelectedItem().(movieItem)
	if !ok {
		return m, nil
	}
	plan, err := m.coord.PrepareDelete(item.row.ID)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.deleteCmd(plan), m.spinner.Tick)
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewBrowse
		return m, nil
	case "ctrl+n":
		m.registerForm.Reset()
		m.view = viewRegister
		return m, textinput.Blink
	case "tab", "down":
		m.loginForm.Next()
		return m, nil
	case "shift+tab", "up":
		m.loginForm.Prev()
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		if !m.loginForm.OnLastField() {
			m.loginForm.Next()
			return m, nil
		}
		values := m.loginForm.Values()
		m.loading = true
		return m, tea.Batch(m.loginCmd(values[0], values[1]), m.spinner.Tick)
	}
	return m.updateActiveComponent(msg)
}

func (m appModel) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewLogin
		return m, nil
	case "tab", "down":
		m.registerForm.Next()
		return m, nil
	case "shift+tab", "up":
		m.registerForm.Prev()
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		if !m.registerForm.OnLastField() {
			m.registerForm.Next()
			return m, nil
		}
		values := m.registerForm.Values()
		m.loading = true
		return m, tea.Batch(m.registerCmd(values[0], values[1], values[2]), m.spinner.Tick)
	}
	return m.updateActiveComponent(msg)
}

func (m appModel) handleMovieFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.coord.CancelEdit()
		m.view = viewBrowse
		return m, nil
	case "tab", "down":
		m.movieForm.Next()
		return m, nil
	case "shift+tab", "up":
		m.movieForm.Prev()
		return m, nil
	case "ctrl+s":
		return m.submitMovieForm()
	}
	if msg.Type == tea.KeyEnter {
		if !m.movieForm.OnLastField() {
			m.movieForm.Next()
			return m, nil
		}
		return m.submitMovieForm()
	}
	return m.updateActiveComponent(msg)
}

func (m appModel) submitMovieForm() (tea.Model, tea.Cmd) {
	values := m.movieForm.Values()
	form := model.MovieForm{
		Title:       values[0],
		Description: values[1],
		Year:        values[2],
		ImageURL:    values[3],
	}
	submit, err := m.coord.PrepareMovieSubmit(form)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.saveMovieCmd(submit), m.spinner.Tick)
}

func (m appModel) handleScreeningFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.coord.CancelEdit()
		m.view = viewBrowse
		return m, nil
	case "tab", "down":
		m.screeningForm.Next()
		return m, nil
	case "shift+tab", "up":
		m.screeningForm.Prev()
		return m, nil
	case "ctrl+s":
		return m.submitScreeningForm()
	}
	if msg.Type == tea.KeyEnter {
		if !m.screeningForm.OnLastField() {
			m.screeningForm.Next()
			return m, nil
		}
		return m.submitScreeningForm()
	}
	return m.updateActiveComponent(msg)
}

func (m appModel) submitScreeningForm() (tea.Model, tea.Cmd) {
	values := m.screeningForm.Values()
	form := model.ScreeningForm{
		MovieID: m.screeningMovie.ID,
		Room:    values[0],
		Time:    values[1],
	}
	submit, err := m.coord.PrepareScreeningSubmit(form)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.saveScreeningCmd(submit), m.spinner.Tick)
}

func (m appModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.pickerFor == pickScreeningMovie {
			m.coord.CancelEdit()
		}
		m.view = viewBrowse
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		item, ok := m.pickerList.SelectedItem().(optionItem)
		if !ok {
			return m, nil
		}
		switch m.pickerFor {
		case pickScreeningFilter:
			m.coord.SetScreeningFilter(item.option.ID)
			m.syncLists()
			m.view = viewBrowse
		case pickScreeningMovie:
			m.screeningMovie = item.option
			m.view = viewScreeningForm
			return m, textinput.Blink
		}
		return m, nil
	}
	return m.updateActiveComponent(msg)
}

// refreshCmd runs both list fetches off the update loop; the caches are
// only swapped when the result message is applied.
func (m appModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{result: m.coord.FetchAll(context.Background())}
	}
}

func (m appModel) loginCmd(email string, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.coord.ExecuteLogin(context.Background(), email, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (m appModel) registerCmd(username string, email string, password string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.coord.Register(context.Background(), username, email, password)
		return registerResultMsg{report: report, err: err}
	}
}

func (m appModel) saveMovieCmd(submit core.MovieSubmit) tea.Cmd {
	return func() tea.Msg {
		return movieSavedMsg{err: m.coord.ExecuteMovieSubmit(context.Background(), submit)}
	}
}

func (m appModel) saveScreeningCmd(submit core.ScreeningSubmit) tea.Cmd {
	return func() tea.Msg {
		return screeningSavedMsg{err: m.coord.ExecuteScreeningSubmit(context.Background(), submit)}
	}
}

func (m appModel) deleteCmd(plan core.DeletePlan) tea.Cmd {
	return func() tea.Msg {
		return movieDeletedMsg{err: m.coord.ExecuteDelete(context.Background(), plan)}
	}
}

func (m appModel) detailCmd(movieID int) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.coord.FetchMovieDetail(context.Background(), movieID)
		return detailMsg{movie: movie, err: err}
	}
}

func (m *appModel) syncLists() {
	snapshot := m.coord.Snapshot()
	m.movieList.SetItems(buildMovieItems(snapshot.Movies))
	m.screeningList.SetItems(buildScreeningItems(snapshot.Screenings))
}

// syncEditView closes the form views when a refresh force-cancelled the
// edit session underneath them.
func (m *appModel) syncEditView() {
	if m.view != viewMovieForm && m.view != viewScreeningForm {
		return
	}
	if m.coord.Snapshot().Edit.Kind == core.EditIdle {
		m.view = viewBrowse
	}
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	m.movieList.SetSize(m.width, h)
	m.screeningList.SetSize(m.width, h)
	m.pickerList.SetSize(m.width, h)
}

func (m *appModel) setStatus(text string) {
	m.status = text
	m.statusIsErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusIsErr = true
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	detailStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

func (m appModel) View() string {
	header := m.headerView()
	body := ""
	switch m.view {
	case viewBrowse:
		if m.pane == paneMovies {
			body = m.movieList.View()
			if detail := m.coord.Snapshot().Detail; detail != nil {
				body += "\n" + m.renderDetail(*detail)
			}
		} else {
			body = m.screeningList.View()
		}
		if m.filterMode {
			body = "Filter: " + m.filterInput.View() + "\n" + body
		}
	case viewLogin:
		body = m.loginForm.View()
	case viewRegister:
		body = m.registerForm.View()
	case viewMovieForm:
		body = m.movieForm.View()
	case viewScreeningForm:
		body = m.screeningForm.View() + "\n" + hint("Movie: "+m.screeningMovie.Title)
	case viewMoviePicker:
		body = m.pickerList.View()
	}

	if m.loading {
		body = fmt.Sprintf("%s Loading...\n\n%s", m.spinner.View(), body)
	}

	statusLine := ""
	if m.status != "" {
		if m.statusIsErr {
			statusLine = "\n" + errorStyle.Render(m.status)
		} else {
			statusLine = "\n" + hint(m.status)
		}
	}

	return header + "\n\n" + body + statusLine
}

func (m appModel) renderDetail(movie model.Movie) string {
	lines := []string{
		fmt.Sprintf("%s (%d)", movie.Title, movie.Year),
		movie.Description,
	}
	if movie.ImageURL != "" {
		lines = append(lines, hint(movie.ImageURL))
	}
	if movie.CreatedByName != "" {
		lines = append(lines, hint("added by "+movie.CreatedByName))
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m appModel) headerView() string {
	snapshot := m.coord.Snapshot()
	title := lipgloss.NewStyle().Bold(true).Render("Cinema Catalog")

	sub := []string{}
	if snapshot.LoggedIn {
		who := snapshot.Username
		if snapshot.Admin {
			who += " (admin)"
		}
		sub = append(sub, "User: "+who)
	} else {
		sub = append(sub, "Anonymous")
	}
	if snapshot.MovieFilter != "" {
		sub = append(sub, "Search: "+snapshot.MovieFilter)
	}
	if snapshot.ScreeningFilter != 0 {
		for _, option := range snapshot.FilterOptions {
			if option.ID == snapshot.ScreeningFilter {
				sub = append(sub, "Screenings: "+option.Title)
			}
		}
	}
	if snapshot.Edit.Kind != core.EditIdle {
		sub = append(sub, "Panel: "+snapshot.Edit.Kind.String())
	}

	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + hint(meta)
	}

	return title + meta + "\n" + hint(m.hints(snapshot))
}

func (m appModel) hints(snapshot core.Snapshot) string {
	switch m.view {
	case viewLogin:
		return "enter log in • ctrl+n register • esc back • ctrl+c quit"
	case viewRegister:
		return "enter register • esc back • ctrl+c quit"
	case viewMovieForm, viewScreeningForm:
		return "ctrl+s save • tab next field • esc cancel • ctrl+c quit"
	case viewMoviePicker:
		return "enter select • esc back • ctrl+c quit"
	}

	hints := "tab switch pane • r refresh • ctrl+c quit"
	if m.pane == paneMovies {
		hints = "enter details • / search • " + hints
	} else {
		hints = "f filter by movie • " + hints
	}
	if snapshot.Admin {
		hints = "n new • e edit • d delete • " + hints
	}
	if snapshot.LoggedIn {
		hints += " • ctrl+l log out"
	} else {
		hints += " • l log in"
	}
	return hints
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}
