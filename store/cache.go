package store

import (
	"sort"
	"strconv"
	"strings"

	"cineadmin-tui/model"
)

// UnknownMovieTitle labels screenings whose movieId matches no cached movie.
const UnknownMovieTitle = "Unknown"

// Cache holds the last-fetched movies and screenings. Lists are replaced
// wholesale on each refresh and reset to empty on fetch failure; every
// projection is pure and leaves the cache untouched. The cache is only
// mutated from the coordinator flow, so it carries no lock.
type Cache struct {
	movies     []model.Movie
	screenings []model.Screening
}

func NewCache() *Cache {
	return &Cache{}
}

// ReplaceMovies swaps the movie list. Pass nil after a failed fetch.
func (c *Cache) ReplaceMovies(movies []model.Movie) {
	c.movies = movies
}

// ReplaceScreenings swaps the screening list. Pass nil after a failed fetch.
func (c *Cache) ReplaceScreenings(screenings []model.Screening) {
	c.screenings = screenings
}

// Movies returns the cached movie list in server order.
func (c *Cache) Movies() []model.Movie {
	return c.movies
}

// MovieByID looks a movie up in the cache.
func (c *Cache) MovieByID(id int) (model.Movie, bool) {
	for _, movie := range c.movies {
		if movie.ID == id {
			return movie, true
		}
	}
	return model.Movie{}, false
}

// JoinedScreenings resolves MovieTitle for every cached screening against
// the current movie cache. The result is a fresh slice in cache order and
// always has exactly as many entries as the screening cache.
func (c *Cache) JoinedScreenings() []model.Screening {
	titles := make(map[int]string, len(c.movies))
	for _, movie := range c.movies {
		titles[movie.ID] = movie.Title
	}

	joined := make([]model.Screening, len(c.screenings))
	for i, screening := range c.screenings {
		title, ok := titles[screening.MovieID]
		if !ok {
			title = UnknownMovieTitle
		}
		screening.MovieTitle = title
		joined[i] = screening
	}
	return joined
}

// FilterMoviesByText matches term case-insensitively against title,
// description and the decimal form of year. A blank term returns the full
// cache in its original order.
func (c *Cache) FilterMoviesByText(term string) []model.Movie {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		result := make([]model.Movie, len(c.movies))
		copy(result, c.movies)
		return result
	}

	var result []model.Movie
	for _, movie := range c.movies {
		if strings.Contains(strings.ToLower(movie.Title), term) ||
			strings.Contains(strings.ToLower(movie.Description), term) ||
			strings.Contains(strconv.Itoa(movie.Year), term) {
			result = append(result, movie)
		}
	}
	return result
}

// FilterScreeningsByMovie returns joined screenings for one movie, or all
// of them when movieID is the 0 sentinel. Both branches sort ascending by
// time.
func (c *Cache) FilterScreeningsByMovie(movieID int) []model.Screening {
	joined := c.JoinedScreenings()

	var result []model.Screening
	if movieID == 0 {
		result = joined
	} else {
		for _, screening := range joined {
			if screening.MovieID == movieID {
				result = append(result, screening)
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time.Before(result[j].Time)
	})
	return result
}
