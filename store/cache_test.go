package store

import (
	"testing"
	"time"

	"cineadmin-tui/model"
)

func testMovies() []model.Movie {
	return []model.Movie{
		{ID: 1, Title: "Alien", Description: "Space horror", Year: 1979},
		{ID: 2, Title: "Blade Runner", Description: "Replicants in LA", Year: 1982},
		{ID: 3, Title: "Arrival", Description: "First contact", Year: 2016},
	}
}

func testScreenings() []model.Screening {
	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	return []model.Screening{
		{ID: 10, MovieID: 2, Room: "Nagy", Time: base.Add(4 * time.Hour)},
		{ID: 11, MovieID: 1, Room: "Kis", Time: base},
		{ID: 12, MovieID: 99, Room: "Nagy", Time: base.Add(2 * time.Hour)},
	}
}

func TestJoinedScreenings_ResolvesTitles(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())
	cache.ReplaceScreenings(testScreenings())

	joined := cache.JoinedScreenings()
	if len(joined) != 3 {
		t.Fatalf("expected join size to match screening cache, got %d", len(joined))
	}
	if joined[0].MovieTitle != "Blade Runner" {
		t.Fatalf("expected resolved title, got %q", joined[0].MovieTitle)
	}
	if joined[1].MovieTitle != "Alien" {
		t.Fatalf("expected resolved title, got %q", joined[1].MovieTitle)
	}
	if joined[2].MovieTitle != UnknownMovieTitle {
		t.Fatalf("expected sentinel for unknown movie, got %q", joined[2].MovieTitle)
	}
}

func TestJoinedScreenings_DoesNotMutateCache(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())
	screenings := testScreenings()
	cache.ReplaceScreenings(screenings)

	_ = cache.JoinedScreenings()
	if screenings[0].MovieTitle != "" {
		t.Fatalf("join mutated the cached screening: %+v", screenings[0])
	}
}

func TestJoinedScreenings_RecomputedAfterMovieReplace(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())
	cache.ReplaceScreenings(testScreenings())

	cache.ReplaceMovies(nil)
	joined := cache.JoinedScreenings()
	for _, screening := range joined {
		if screening.MovieTitle != UnknownMovieTitle {
			t.Fatalf("expected sentinel after movie cache reset, got %q", screening.MovieTitle)
		}
	}
}

func TestFilterMoviesByText_BlankTermReturnsAllInOrder(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())

	for _, term := range []string{"", "   "} {
		result := cache.FilterMoviesByText(term)
		if len(result) != 3 {
			t.Fatalf("term %q: expected full list, got %d", term, len(result))
		}
		for i, movie := range cache.Movies() {
			if result[i].ID != movie.ID {
				t.Fatalf("term %q: order differs at %d", term, i)
			}
		}
	}
}

func TestFilterMoviesByText_MatchesTitleDescriptionYear(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())

	byTitle := cache.FilterMoviesByText("ALIEN")
	if len(byTitle) != 1 || byTitle[0].ID != 1 {
		t.Fatalf("title match failed: %+v", byTitle)
	}

	byDescription := cache.FilterMoviesByText("replicants")
	if len(byDescription) != 1 || byDescription[0].ID != 2 {
		t.Fatalf("description match failed: %+v", byDescription)
	}

	byYear := cache.FilterMoviesByText("2016")
	if len(byYear) != 1 || byYear[0].ID != 3 {
		t.Fatalf("year match failed: %+v", byYear)
	}
}

func TestFilterMoviesByText_Idempotent(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())

	first := cache.FilterMoviesByText("ar")

	second := NewCache()
	second.ReplaceMovies(first)
	refiltered := second.FilterMoviesByText("ar")

	if len(first) != len(refiltered) {
		t.Fatalf("expected idempotent filter, got %d then %d", len(first), len(refiltered))
	}
	for i := range first {
		if first[i].ID != refiltered[i].ID {
			t.Fatalf("order differs at %d", i)
		}
	}
}

func TestFilterScreeningsByMovie_SentinelReturnsAllSorted(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())
	cache.ReplaceScreenings(testScreenings())

	result := cache.FilterScreeningsByMovie(0)
	if len(result) != 3 {
		t.Fatalf("expected all screenings, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].Time.Before(result[i-1].Time) {
			t.Fatalf("not sorted ascending by time at %d", i)
		}
	}
}

func TestFilterScreeningsByMovie_ExactMatchSorted(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())
	screenings := testScreenings()
	screenings = append(screenings, model.Screening{
		ID: 13, MovieID: 1, Room: "Nagy", Time: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	cache.ReplaceScreenings(screenings)

	result := cache.FilterScreeningsByMovie(1)
	if len(result) != 2 {
		t.Fatalf("expected 2 screenings for movie 1, got %d", len(result))
	}
	for _, screening := range result {
		if screening.MovieID != 1 {
			t.Fatalf("wrong movie in result: %+v", screening)
		}
	}
	if !result[0].Time.Before(result[1].Time) {
		t.Fatal("not sorted ascending by time")
	}
}

func TestMovieByID(t *testing.T) {
	cache := NewCache()
	cache.ReplaceMovies(testMovies())

	movie, ok := cache.MovieByID(2)
	if !ok || movie.Title != "Blade Runner" {
		t.Fatalf("lookup failed: %+v %t", movie, ok)
	}
	if _, ok := cache.MovieByID(42); ok {
		t.Fatal("expected miss for unknown id")
	}
}
