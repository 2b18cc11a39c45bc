package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineadmin-tui/model"
	"cineadmin-tui/store"
)

// fakeAPI is a minimal in-memory rendition of the catalog service.
type fakeAPI struct {
	mu         sync.Mutex
	movies     []model.Movie
	screenings []model.Screening
	users      map[string]model.User // email -> user; password is always "pw"
	requests   []string
	failMovies bool
	failBoth   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		movies: []model.Movie{
			{ID: 1, Title: "Alien", Description: "Space horror", Year: 1979, ImageURL: "http://img/1"},
			{ID: 5, Title: "X", Description: "d", Year: 2000, ImageURL: "http://img/5"},
		},
		screenings: []model.Screening{
			{ID: 10, MovieID: 1, Room: "Nagy", Time: time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)},
			{ID: 11, MovieID: 5, Room: "Kis", Time: time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)},
		},
		users: map[string]model.User{
			"admin@x.hu": {ID: 7, Username: "boss", EmailAddress: "admin@x.hu", IsAdmin: true},
			"user@x.hu":  {ID: 8, Username: "pleb", EmailAddress: "user@x.hu", IsAdmin: false},
		},
	}
}

func (f *fakeAPI) record(r *http.Request) {
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) sawRequest(line string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req == line {
			return true
		}
	}
	return false
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)
		w.Header().Set("Content-Type", "application/json")

		path := r.URL.Path
		switch {
		case path == "/api/movies/movies" && r.Method == http.MethodGet:
			if f.failMovies || f.failBoth {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message": "boom"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(f.movies)

		case path == "/api/screenings/screenings" && r.Method == http.MethodGet:
			if f.failBoth {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message": "boom"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(f.screenings)

		case strings.HasPrefix(path, "/api/movies/movie-by-id/"):
			var id int
			_, _ = fmt.Sscanf(path, "/api/movies/movie-by-id/%d", &id)
			for _, movie := range f.movies {
				if movie.ID == id {
					_ = json.NewEncoder(w).Encode(movie)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "movie not found"}`))

		case path == "/api/movies/movies" && r.Method == http.MethodPost:
			var body model.MovieUpsert
			_ = json.NewDecoder(r.Body).Decode(&body)
			movie := model.Movie{ID: 100, Title: body.Title, Description: body.Description, Year: body.Year, ImageURL: body.ImageURL}
			f.movies = append(f.movies, movie)
			_ = json.NewEncoder(w).Encode(movie)

		case strings.HasPrefix(path, "/api/movies/movies/") && r.Method == http.MethodPut:
			var id int
			_, _ = fmt.Sscanf(path, "/api/movies/movies/%d", &id)
			var body model.MovieUpsert
			_ = json.NewDecoder(r.Body).Decode(&body)
			for i := range f.movies {
				if f.movies[i].ID == id {
					f.movies[i].Title = body.Title
					f.movies[i].Description = body.Description
					f.movies[i].Year = body.Year
					f.movies[i].ImageURL = body.ImageURL
					_ = json.NewEncoder(w).Encode(f.movies[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "movie not found"}`))

		case strings.HasPrefix(path, "/api/movies/movies/") && r.Method == http.MethodDelete:
			var id int
			_, _ = fmt.Sscanf(path, "/api/movies/movies/%d", &id)
			var body model.MovieDelete
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.AccountID == 0 {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message": "missing account"}`))
				return
			}
			kept := f.movies[:0]
			for _, movie := range f.movies {
				if movie.ID != id {
					kept = append(kept, movie)
				}
			}
			f.movies = kept

		case path == "/api/screenings/screenings" && r.Method == http.MethodPost:
			var body model.ScreeningCreate
			_ = json.NewDecoder(r.Body).Decode(&body)
			screening := model.Screening{ID: 200, MovieID: body.MovieID, Room: body.Room, Time: body.Time}
			f.screenings = append(f.screenings, screening)
			_ = json.NewEncoder(w).Encode(screening)

		case path == "/api/users/loginCheck":
			var body model.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			user, ok := f.users[body.EmailAddress]
			if !ok || body.Password != "pw" {
				_ = json.NewEncoder(w).Encode(model.LoginResponse{Success: false, Message: "wrong credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(model.LoginResponse{Success: true, Token: "tok-" + user.Username, User: &user})

		case path == "/api/users/register":
			var body model.RegisterRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Username == "" {
				_ = json.NewEncoder(w).Encode(model.RegisterResponse{Success: false, Messages: []string{"username is required", "try again"}})
				return
			}
			user := model.User{ID: 9, Username: body.Username, EmailAddress: body.EmailAddress}
			_ = json.NewEncoder(w).Encode(model.RegisterResponse{Success: true, Message: "registered", User: &user})

		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "no such endpoint"}`))
		}
	})
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	return New(server.URL, server.Client()), api
}

func loginAdmin(t *testing.T, c *Coordinator) {
	t.Helper()
	require.NoError(t, c.Login(context.Background(), "admin@x.hu", "pw"))
}

func TestRefreshAll_PopulatesSnapshot(t *testing.T) {
	c, _ := newTestCoordinator(t)

	require.NoError(t, c.RefreshAll(context.Background()))

	snapshot := c.Snapshot()
	assert.Len(t, snapshot.Movies, 2)
	assert.Len(t, snapshot.Screenings, 2)
	// sorted ascending by time: the Kis screening is earlier
	assert.Equal(t, "Kis", snapshot.Screenings[0].Room)
	assert.Equal(t, "X", snapshot.Screenings[0].MovieTitle)
}

func TestRefreshAll_PartialFailureEmptiesOnlyThatCache(t *testing.T) {
	c, api := newTestCoordinator(t)
	api.failMovies = true

	err := c.RefreshAll(context.Background())
	require.Error(t, err)

	snapshot := c.Snapshot()
	assert.Empty(t, snapshot.Movies)
	// the screening fetch settled independently
	assert.Len(t, snapshot.Screenings, 2)
	for _, row := range snapshot.Screenings {
		assert.Equal(t, store.UnknownMovieTitle, row.MovieTitle)
	}
}

func TestRefreshAll_TotalFailureEmptiesBoth(t *testing.T) {
	c, api := newTestCoordinator(t)
	require.NoError(t, c.RefreshAll(context.Background()))
	api.failBoth = true

	err := c.RefreshAll(context.Background())
	require.Error(t, err)

	snapshot := c.Snapshot()
	assert.Empty(t, snapshot.Movies)
	assert.Empty(t, snapshot.Screenings)
}

func TestLogin_SetsSessionAndAdminFlag(t *testing.T) {
	c, _ := newTestCoordinator(t)

	require.NoError(t, c.Login(context.Background(), "admin@x.hu", "pw"))

	snapshot := c.Snapshot()
	assert.True(t, snapshot.LoggedIn)
	assert.True(t, snapshot.Admin)
	assert.Equal(t, "boss", snapshot.Username)
	assert.Len(t, snapshot.Movies, 2)
}

func TestLogin_WrongCredentials(t *testing.T) {
	c, _ := newTestCoordinator(t)

	err := c.Login(context.Background(), "admin@x.hu", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong credentials")
	assert.False(t, c.Snapshot().LoggedIn)
}

func TestApplyLogin_MalformedSuccessIsValidationFailure(t *testing.T) {
	c, _ := newTestCoordinator(t)

	err := c.ApplyLogin(model.LoginResponse{Success: true, Token: "", User: nil})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, c.Snapshot().LoggedIn)
}

func TestRegister_MessagesTakePrecedence(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.Register(context.Background(), "", "a@b.hu", "pw")
	require.Error(t, err)
	assert.Equal(t, "username is required\ntry again", err.Error())

	report, err := c.Register(context.Background(), "newbie", "a@b.hu", "pw")
	require.NoError(t, err)
	assert.Equal(t, "registered", report)
	assert.False(t, c.Snapshot().LoggedIn)
}

func TestOpenEditMovie_ThenCancel_NoNetworkCall(t *testing.T) {
	c, api := newTestCoordinator(t)
	loginAdmin(t, c)

	before := api.requestCount()
	require.NoError(t, c.OpenEditMovie(5))
	assert.Equal(t, EditEditingMovie, c.Snapshot().Edit.Kind)
	assert.Equal(t, 5, c.Snapshot().Edit.MovieID)
	assert.Equal(t, "X", c.Snapshot().Edit.MovieForm.Title)

	c.CancelEdit()
	assert.Equal(t, EditIdle, c.Snapshot().Edit.Kind)
	assert.Equal(t, model.MovieForm{}, c.Snapshot().Edit.MovieForm)
	assert.Equal(t, before, api.requestCount())
}

func TestSubmitMovie_YearOutOfRangeRejectedLocally(t *testing.T) {
	c, api := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenCreateMovie())

	before := api.requestCount()
	err := c.SubmitMovie(context.Background(), model.MovieForm{
		Title: "Old", Description: "d", Year: "1500", ImageURL: "http://img",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "year out of range")
	assert.Equal(t, before, api.requestCount())
	// panel stays open with the buffer kept
	assert.Equal(t, EditCreatingMovie, c.Snapshot().Edit.Kind)
	assert.Equal(t, "Old", c.Snapshot().Edit.MovieForm.Title)
}

func TestSubmitMovie_CreatePostsAndRefreshes(t *testing.T) {
	c, api := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenCreateMovie())

	err := c.SubmitMovie(context.Background(), model.MovieForm{
		Title: "New", Description: "d", Year: "2020", ImageURL: "http://img",
	})
	require.NoError(t, err)
	assert.True(t, api.sawRequest("POST /api/movies/movies"))

	snapshot := c.Snapshot()
	assert.Equal(t, EditIdle, snapshot.Edit.Kind)
	assert.Len(t, snapshot.Movies, 3)
}

func TestSubmitMovie_EditPutsToExistingID(t *testing.T) {
	c, api := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenEditMovie(5))

	err := c.SubmitMovie(context.Background(), model.MovieForm{
		Title: "X2", Description: "d2", Year: "2001", ImageURL: "http://img",
	})
	require.NoError(t, err)
	assert.True(t, api.sawRequest("PUT /api/movies/movies/5"))

	snapshot := c.Snapshot()
	assert.Equal(t, EditIdle, snapshot.Edit.Kind)
	found := false
	for _, row := range snapshot.Movies {
		if row.ID == 5 {
			found = true
			assert.Equal(t, "X2", row.Title)
		}
	}
	assert.True(t, found)
}

func TestSubmitMovie_HTTPFailureKeepsState(t *testing.T) {
	c, _ := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenEditMovie(5))

	// edit a movie the server no longer has
	submit, err := c.PrepareMovieSubmit(model.MovieForm{
		Title: "X2", Description: "d2", Year: "2001", ImageURL: "http://img",
	})
	require.NoError(t, err)
	submit.MovieID = 999

	err = c.ExecuteMovieSubmit(context.Background(), submit)
	require.Error(t, err)
	assert.Equal(t, EditEditingMovie, c.Snapshot().Edit.Kind)
}

func TestOpenCreateScreening_RejectedForNonAdmin(t *testing.T) {
	c, _ := newTestCoordinator(t)
	require.NoError(t, c.Login(context.Background(), "user@x.hu", "pw"))

	err := c.OpenCreateScreening()
	require.Error(t, err)
	assert.Equal(t, EditIdle, c.Snapshot().Edit.Kind)
}

func TestLogout_ForcesEditClosed(t *testing.T) {
	c, _ := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenEditMovie(5))

	c.Logout()

	snapshot := c.Snapshot()
	assert.False(t, snapshot.LoggedIn)
	assert.Equal(t, EditIdle, snapshot.Edit.Kind)
}

func TestRefresh_ForcesEditClosedWhenMovieDeleted(t *testing.T) {
	c, api := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenEditMovie(5))

	api.mu.Lock()
	api.movies = api.movies[:1] // movie 5 vanishes server-side
	api.mu.Unlock()

	require.NoError(t, c.RefreshAll(context.Background()))
	assert.Equal(t, EditIdle, c.Snapshot().Edit.Kind)
}

func TestSubmitScreening_CreatesAndRefreshes(t *testing.T) {
	c, api := newTestCoordinator(t)
	loginAdmin(t, c)
	require.NoError(t, c.OpenCreateScreening())

	err := c.SubmitScreening(context.Background(), model.ScreeningForm{
		MovieID: 1, Room: "Nagy", Time: "2026-09-02 21:00",
	})
	require.NoError(t, err)
	assert.True(t, api.sawRequest("POST /api/screenings/screenings"))
	assert.Equal(t, EditIdle, c.Snapshot().Edit.Kind)
	assert.Len(t, c.Snapshot().Screenings, 3)
}

func TestDeleteMovie_AdminOnlyAndRefreshes(t *testing.T) {
	c, api := newTestCoordinator(t)

	_, err := c.PrepareDelete(5)
	require.Error(t, err)

	loginAdmin(t, c)
	require.NoError(t, c.DeleteMovie(context.Background(), 5))
	assert.True(t, api.sawRequest("DELETE /api/movies/movies/5"))
	assert.Len(t, c.Snapshot().Movies, 1)
}

func TestSelectMovie_SentinelClearsWithoutFetch(t *testing.T) {
	c, api := newTestCoordinator(t)
	require.NoError(t, c.RefreshAll(context.Background()))

	require.NoError(t, c.SelectMovie(context.Background(), 1))
	detail := c.Snapshot().Detail
	require.NotNil(t, detail)
	assert.Equal(t, "Alien", detail.Title)

	before := api.requestCount()
	require.NoError(t, c.SelectMovie(context.Background(), 0))
	assert.Nil(t, c.Snapshot().Detail)
	assert.Equal(t, before, api.requestCount())
}

func TestSnapshot_FilterOptionsCarrySentinel(t *testing.T) {
	c, _ := newTestCoordinator(t)
	require.NoError(t, c.RefreshAll(context.Background()))

	snapshot := c.Snapshot()
	require.Len(t, snapshot.FilterOptions, 3)
	assert.Equal(t, 0, snapshot.FilterOptions[0].ID)
	assert.Equal(t, AllMoviesOption, snapshot.FilterOptions[0].Title)
	require.Len(t, snapshot.SelectorOptions, 2)
	assert.NotEqual(t, 0, snapshot.SelectorOptions[0].ID)
}

func TestSnapshot_FiltersApplied(t *testing.T) {
	c, _ := newTestCoordinator(t)
	require.NoError(t, c.RefreshAll(context.Background()))

	c.SetMovieFilter("alien")
	c.SetScreeningFilter(5)

	snapshot := c.Snapshot()
	require.Len(t, snapshot.Movies, 1)
	assert.Equal(t, "Alien", snapshot.Movies[0].Title)
	require.Len(t, snapshot.Screenings, 1)
	assert.Equal(t, 5, snapshot.Screenings[0].MovieID)
}

func TestScreeningRow_DisplayInfo(t *testing.T) {
	row := ScreeningRow{
		MovieTitle: "Alien",
		Room:       "Nagy",
		Time:       time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "Alien - Nagy terem - 2026-09-01 20:00", row.DisplayInfo())
}
