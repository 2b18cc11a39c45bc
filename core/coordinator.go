package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"cineadmin-tui/logger"
	"cineadmin-tui/model"
	"cineadmin-tui/service"
	"cineadmin-tui/store"
)

// Coordinator owns the entity cache, the session and the edit-session
// state machine, and translates user intents into API calls. All state
// mutation happens on a single logical flow: the presentation layer runs
// the network phases (Fetch*/Execute*) off-loop and feeds results back into
// the Apply*/Complete* methods. Concurrent refreshes are not fenced; the
// last response to land wins.
type Coordinator struct {
	client  *service.Client
	cache   *store.Cache
	session *Session
	edit    *EditSession

	movieFilter     string
	screeningFilter int
	detail          *model.Movie

	log *logrus.Entry
}

// New builds a coordinator against the given API base URL. A nil
// httpClient selects the default.
func New(baseURL string, httpClient *http.Client) *Coordinator {
	c := &Coordinator{
		cache:   store.NewCache(),
		session: &Session{},
		edit:    NewEditSession(),
		log:     logger.WithComponent("coordinator"),
	}
	c.client = service.NewClient(httpClient, baseURL, c.session.Token)
	return c
}

// Session exposes the session for read-only gating decisions.
func (c *Coordinator) Session() *Session {
	return c.session
}

// RefreshResult carries the outcome of one refresh cycle. The two fetches
// settle independently.
type RefreshResult struct {
	Movies        []model.Movie
	MoviesErr     error
	Screenings    []model.Screening
	ScreeningsErr error
}

// Err folds the per-list failures into one displayable error, or nil.
func (r RefreshResult) Err() error {
	switch {
	case r.MoviesErr != nil && r.ScreeningsErr != nil:
		return fmt.Errorf("loading movies: %v\nloading screenings: %v", r.MoviesErr, r.ScreeningsErr)
	case r.MoviesErr != nil:
		return fmt.Errorf("loading movies: %w", r.MoviesErr)
	case r.ScreeningsErr != nil:
		return fmt.Errorf("loading screenings: %w", r.ScreeningsErr)
	default:
		return nil
	}
}

// FetchAll issues the movie and screening fetches concurrently and waits
// for both to settle. A failure in one never blocks the other. It touches
// no coordinator state.
func (c *Coordinator) FetchAll(ctx context.Context) RefreshResult {
	var result RefreshResult
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Movies, result.MoviesErr = c.client.Movies(ctx)
	}()
	go func() {
		defer wg.Done()
		result.Screenings, result.ScreeningsErr = c.client.Screenings(ctx)
	}()
	wg.Wait()

	return result
}

// ApplyRefresh swaps the caches with the fetched lists (empty on failure),
// force-closes an edit whose referent vanished, and clears dangling
// selections. Returns the folded fetch error for display.
func (c *Coordinator) ApplyRefresh(result RefreshResult) error {
	if result.MoviesErr != nil {
		c.log.Warnf("movie fetch failed: %v", result.MoviesErr)
		c.cache.ReplaceMovies(nil)
	} else {
		c.cache.ReplaceMovies(result.Movies)
	}
	if result.ScreeningsErr != nil {
		c.log.Warnf("screening fetch failed: %v", result.ScreeningsErr)
		c.cache.ReplaceScreenings(nil)
	} else {
		c.cache.ReplaceScreenings(result.Screenings)
	}

	c.closeEditIfStale()

	if c.screeningFilter != 0 {
		if _, ok := c.cache.MovieByID(c.screeningFilter); !ok {
			c.screeningFilter = 0
		}
	}
	if c.detail != nil {
		if _, ok := c.cache.MovieByID(c.detail.ID); !ok {
			c.detail = nil
		}
	}

	return result.Err()
}

// RefreshAll runs a full refresh cycle sequentially.
func (c *Coordinator) RefreshAll(ctx context.Context) error {
	return c.ApplyRefresh(c.FetchAll(ctx))
}

// closeEditIfStale force-cancels the edit session when the session lost
// its admin rights or the movie under edit no longer exists.
func (c *Coordinator) closeEditIfStale() {
	if c.edit.Kind() == EditIdle {
		return
	}
	if !c.session.IsAdmin() {
		c.log.Info("closing edit panel: session is no longer admin")
		c.edit.Cancel()
		return
	}
	if id, ok := c.edit.EditingMovieID(); ok {
		if _, found := c.cache.MovieByID(id); !found {
			c.log.Infof("closing edit panel: movie %d disappeared", id)
			c.edit.Cancel()
		}
	}
}

// ExecuteLogin checks credentials. Network only.
func (c *Coordinator) ExecuteLogin(ctx context.Context, emailAddress string, password string) (model.LoginResponse, error) {
	return c.client.Login(ctx, emailAddress, password)
}

// ApplyLogin interprets a login response and installs the session. A
// success flag without user identity or token is a malformed response, not
// a crash.
func (c *Coordinator) ApplyLogin(resp model.LoginResponse) error {
	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = "login failed"
		}
		return errors.New(message)
	}
	if resp.User == nil || resp.Token == "" {
		return validationErrorf("login succeeded but the response is missing user identity")
	}
	c.session.Login(resp.Token, *resp.User)
	c.log.Infof("logged in as %s (admin=%t)", resp.User.Username, resp.User.IsAdmin)
	return nil
}

// Login is the sequential convenience: check credentials, install the
// session, then refresh.
func (c *Coordinator) Login(ctx context.Context, emailAddress string, password string) error {
	resp, err := c.ExecuteLogin(ctx, emailAddress, password)
	if err != nil {
		return err
	}
	if err := c.ApplyLogin(resp); err != nil {
		return err
	}
	return c.RefreshAll(ctx)
}

// Logout clears the session and force-closes any open edit panel before
// view state is republished.
func (c *Coordinator) Logout() {
	c.session.Logout()
	c.closeEditIfStale()
	c.log.Info("logged out")
}

// Register creates an account and returns the server's report. No session
// is installed; the API returns no token on register.
func (c *Coordinator) Register(ctx context.Context, username string, emailAddress string, password string) (string, error) {
	resp, err := c.client.Register(ctx, username, emailAddress, password)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		report := resp.Report()
		if report == "" {
			report = "registration failed"
		}
		return "", errors.New(report)
	}
	return resp.Report(), nil
}

// OpenCreateMovie opens the movie panel in create mode.
func (c *Coordinator) OpenCreateMovie() error {
	return c.edit.OpenCreateMovie(c.session.IsAdmin())
}

// OpenEditMovie opens the movie panel in edit mode. The movie must exist
// in the last successful fetch.
func (c *Coordinator) OpenEditMovie(movieID int) error {
	movie, ok := c.cache.MovieByID(movieID)
	if !ok {
		return fmt.Errorf("movie %d is not in the catalog", movieID)
	}
	return c.edit.OpenEditMovie(c.session.IsAdmin(), movie)
}

// OpenCreateScreening opens the screening panel.
func (c *Coordinator) OpenCreateScreening() error {
	return c.edit.OpenCreateScreening(c.session.IsAdmin())
}

// CancelEdit closes any open panel and clears its buffer.
func (c *Coordinator) CancelEdit() {
	c.edit.Cancel()
}

// MovieSubmit is a validated movie save, ready for the network.
type MovieSubmit struct {
	Update  bool
	MovieID int
	Body    model.MovieUpsert
}

// PrepareMovieSubmit validates the buffer and decides POST vs PUT. On
// validation failure the panel stays open with the buffer kept and no
// network call is made.
func (c *Coordinator) PrepareMovieSubmit(form model.MovieForm) (MovieSubmit, error) {
	kind := c.edit.Kind()
	if kind != EditCreatingMovie && kind != EditEditingMovie {
		return MovieSubmit{}, errors.New("no movie panel is open")
	}
	c.edit.SetMovieForm(form)

	year, err := c.edit.ValidateMovieForm(form)
	if err != nil {
		return MovieSubmit{}, err
	}

	submit := MovieSubmit{
		Body: model.MovieUpsert{
			Title:       form.Title,
			Description: form.Description,
			Year:        year,
			ImageURL:    form.ImageURL,
			AccountID:   c.session.AccountID(),
		},
	}
	if id, ok := c.edit.EditingMovieID(); ok {
		submit.Update = true
		submit.MovieID = id
	}
	return submit, nil
}

// ExecuteMovieSubmit performs the POST or PUT. Network only; on failure
// the edit state is untouched.
func (c *Coordinator) ExecuteMovieSubmit(ctx context.Context, submit MovieSubmit) error {
	var err error
	if submit.Update {
		_, err = c.client.UpdateMovie(ctx, submit.MovieID, submit.Body)
	} else {
		_, err = c.client.CreateMovie(ctx, submit.Body)
	}
	return err
}

// CompleteEdit closes the panel after a successful save.
func (c *Coordinator) CompleteEdit() {
	c.edit.Cancel()
}

// SubmitMovie is the sequential convenience: validate, save, close the
// panel, refresh.
func (c *Coordinator) SubmitMovie(ctx context.Context, form model.MovieForm) error {
	submit, err := c.PrepareMovieSubmit(form)
	if err != nil {
		return err
	}
	if err := c.ExecuteMovieSubmit(ctx, submit); err != nil {
		return err
	}
	c.CompleteEdit()
	return c.RefreshAll(ctx)
}

// ScreeningSubmit is a validated screening save.
type ScreeningSubmit struct {
	Body model.ScreeningCreate
}

// PrepareScreeningSubmit validates the screening buffer.
func (c *Coordinator) PrepareScreeningSubmit(form model.ScreeningForm) (ScreeningSubmit, error) {
	if c.edit.Kind() != EditCreatingScreening {
		return ScreeningSubmit{}, errors.New("no screening panel is open")
	}
	c.edit.SetScreeningForm(form)

	when, err := c.edit.ValidateScreeningForm(form)
	if err != nil {
		return ScreeningSubmit{}, err
	}

	return ScreeningSubmit{
		Body: model.ScreeningCreate{
			MovieID:   form.MovieID,
			Room:      form.Room,
			Time:      when,
			AccountID: c.session.AccountID(),
		},
	}, nil
}

// ExecuteScreeningSubmit performs the POST. Network only.
func (c *Coordinator) ExecuteScreeningSubmit(ctx context.Context, submit ScreeningSubmit) error {
	_, err := c.client.CreateScreening(ctx, submit.Body)
	return err
}

// SubmitScreening is the sequential convenience.
func (c *Coordinator) SubmitScreening(ctx context.Context, form model.ScreeningForm) error {
	submit, err := c.PrepareScreeningSubmit(form)
	if err != nil {
		return err
	}
	if err := c.ExecuteScreeningSubmit(ctx, submit); err != nil {
		return err
	}
	c.CompleteEdit()
	return c.RefreshAll(ctx)
}

// DeletePlan is an authorized movie deletion, ready for the network.
type DeletePlan struct {
	MovieID   int
	AccountID int
}

// PrepareDelete gates the deletion on the session.
func (c *Coordinator) PrepareDelete(movieID int) (DeletePlan, error) {
	if !c.session.IsAdmin() {
		return DeletePlan{}, errors.New("only admins can delete movies")
	}
	if movieID <= 0 {
		return DeletePlan{}, errors.New("no movie selected")
	}
	return DeletePlan{MovieID: movieID, AccountID: c.session.AccountID()}, nil
}

// ExecuteDelete performs the DELETE. Network only.
func (c *Coordinator) ExecuteDelete(ctx context.Context, plan DeletePlan) error {
	return c.client.DeleteMovie(ctx, plan.MovieID, plan.AccountID)
}

// DeleteMovie is the sequential convenience: on success the caches are
// refreshed, on failure state is left unchanged.
func (c *Coordinator) DeleteMovie(ctx context.Context, movieID int) error {
	plan, err := c.PrepareDelete(movieID)
	if err != nil {
		return err
	}
	if err := c.ExecuteDelete(ctx, plan); err != nil {
		return err
	}
	return c.RefreshAll(ctx)
}

// FetchMovieDetail loads a single movie. Network only.
func (c *Coordinator) FetchMovieDetail(ctx context.Context, movieID int) (model.Movie, error) {
	return c.client.MovieByID(ctx, movieID)
}

// ApplyDetail installs the fetched detail record.
func (c *Coordinator) ApplyDetail(movie model.Movie) {
	c.detail = &movie
}

// ClearDetail drops the detail view.
func (c *Coordinator) ClearDetail() {
	c.detail = nil
}

// SelectMovie fetches the detail for a movie, or clears the detail view
// when the 0 sentinel is selected.
func (c *Coordinator) SelectMovie(ctx context.Context, movieID int) error {
	if movieID == 0 {
		c.ClearDetail()
		return nil
	}
	movie, err := c.FetchMovieDetail(ctx, movieID)
	if err != nil {
		return err
	}
	c.ApplyDetail(movie)
	return nil
}

// SetMovieFilter updates the movie text filter.
func (c *Coordinator) SetMovieFilter(term string) {
	c.movieFilter = term
}

// SetScreeningFilter updates the by-movie screening filter; 0 means all.
func (c *Coordinator) SetScreeningFilter(movieID int) {
	c.screeningFilter = movieID
}

// Snapshot republishes the derived view models from the current caches and
// state. Projections are recomputed from scratch; nothing is memoized.
func (c *Coordinator) Snapshot() Snapshot {
	movies := c.cache.FilterMoviesByText(c.movieFilter)
	movieRows := make([]MovieRow, len(movies))
	for i, movie := range movies {
		movieRows[i] = MovieRow{
			ID:        movie.ID,
			Title:     movie.Title,
			Year:      movie.Year,
			CreatedBy: movie.CreatedByName,
		}
	}

	screenings := c.cache.FilterScreeningsByMovie(c.screeningFilter)
	screeningRows := make([]ScreeningRow, len(screenings))
	for i, screening := range screenings {
		screeningRows[i] = ScreeningRow{
			ID:         screening.ID,
			MovieID:    screening.MovieID,
			MovieTitle: screening.MovieTitle,
			Room:       screening.Room,
			Time:       screening.Time,
			CreatedBy:  screening.CreatedByName,
		}
	}

	all := c.cache.Movies()
	selector := make([]MovieOption, len(all))
	for i, movie := range all {
		selector[i] = MovieOption{ID: movie.ID, Title: movie.Title}
	}
	filterOptions := make([]MovieOption, 0, len(all)+1)
	filterOptions = append(filterOptions, MovieOption{ID: 0, Title: AllMoviesOption})
	filterOptions = append(filterOptions, selector...)

	snapshot := Snapshot{
		Movies:          movieRows,
		Screenings:      screeningRows,
		FilterOptions:   filterOptions,
		SelectorOptions: selector,
		LoggedIn:        c.session.LoggedIn(),
		Admin:           c.session.IsAdmin(),
		Edit: EditPanel{
			Kind:          c.edit.Kind(),
			MovieForm:     c.edit.MovieForm(),
			ScreeningForm: c.edit.ScreeningForm(),
		},
		MovieFilter:     c.movieFilter,
		ScreeningFilter: c.screeningFilter,
	}
	if user, ok := c.session.User(); ok {
		snapshot.Username = user.Username
	}
	if id, ok := c.edit.EditingMovieID(); ok {
		snapshot.Edit.MovieID = id
	}
	if c.detail != nil {
		detail := *c.detail
		snapshot.Detail = &detail
	}
	return snapshot
}
