package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"cineadmin-tui/model"
)

// EditKind enumerates the edit-session states. Exactly one panel can be
// open at a time; invalid combinations are unrepresentable.
type EditKind int

const (
	EditIdle EditKind = iota
	EditCreatingMovie
	EditEditingMovie
	EditCreatingScreening
)

func (k EditKind) String() string {
	switch k {
	case EditIdle:
		return "idle"
	case EditCreatingMovie:
		return "creating movie"
	case EditEditingMovie:
		return "editing movie"
	case EditCreatingScreening:
		return "creating screening"
	default:
		return "unknown"
	}
}

// ScreeningTimeLayout is the primary input format for screening times.
// RFC3339 is accepted as well.
const ScreeningTimeLayout = "2006-01-02 15:04"

// EditSession tracks whether the user is creating or modifying a record,
// and which record. It owns the pending form buffers.
type EditSession struct {
	kind          EditKind
	movieID       int
	movieForm     model.MovieForm
	screeningForm model.ScreeningForm

	validate *validator.Validate
}

func NewEditSession() *EditSession {
	return &EditSession{validate: validator.New()}
}

func (e *EditSession) Kind() EditKind {
	return e.kind
}

// EditingMovieID returns the id of the movie under edit, if any.
func (e *EditSession) EditingMovieID() (int, bool) {
	if e.kind != EditEditingMovie {
		return 0, false
	}
	return e.movieID, true
}

func (e *EditSession) MovieForm() model.MovieForm {
	return e.movieForm
}

func (e *EditSession) ScreeningForm() model.ScreeningForm {
	return e.screeningForm
}

// OpenCreateMovie opens the movie panel in create mode with a cleared
// buffer. Admin only.
func (e *EditSession) OpenCreateMovie(isAdmin bool) error {
	if !isAdmin {
		return errors.New("only admins can create movies")
	}
	e.kind = EditCreatingMovie
	e.movieID = 0
	e.movieForm = model.MovieForm{}
	return nil
}

// OpenEditMovie opens the movie panel in edit mode, pre-filled from the
// given record. Admin only.
func (e *EditSession) OpenEditMovie(isAdmin bool, movie model.Movie) error {
	if !isAdmin {
		return errors.New("only admins can edit movies")
	}
	if movie.ID <= 0 {
		return errors.New("no movie selected")
	}
	e.kind = EditEditingMovie
	e.movieID = movie.ID
	e.movieForm = model.MovieForm{
		Title:       movie.Title,
		Description: movie.Description,
		Year:        strconv.Itoa(movie.Year),
		ImageURL:    movie.ImageURL,
	}
	return nil
}

// OpenCreateScreening opens the screening panel with a cleared buffer.
// Admin only.
func (e *EditSession) OpenCreateScreening(isAdmin bool) error {
	if !isAdmin {
		return errors.New("only admins can create screenings")
	}
	e.kind = EditCreatingScreening
	e.movieID = 0
	e.screeningForm = model.ScreeningForm{}
	return nil
}

// Cancel returns to idle and clears the buffers, regardless of their
// contents.
func (e *EditSession) Cancel() {
	e.kind = EditIdle
	e.movieID = 0
	e.movieForm = model.MovieForm{}
	e.screeningForm = model.ScreeningForm{}
}

// SetMovieForm stores the pending buffer so a failed submit keeps what was
// typed.
func (e *EditSession) SetMovieForm(form model.MovieForm) {
	e.movieForm = form
}

func (e *EditSession) SetScreeningForm(form model.ScreeningForm) {
	e.screeningForm = form
}

// ValidateMovieForm checks the buffer locally. On success it returns the
// parsed year.
func (e *EditSession) ValidateMovieForm(form model.MovieForm) (int, error) {
	trimmed := model.MovieForm{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Year:        strings.TrimSpace(form.Year),
		ImageURL:    strings.TrimSpace(form.ImageURL),
	}

	var problems []string
	if err := e.validate.Struct(trimmed); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				problems = append(problems, movieFieldProblem(fieldErr.Field()))
			}
		} else {
			return 0, err
		}
	}

	year := 0
	if trimmed.Year != "" {
		parsed, err := strconv.Atoi(trimmed.Year)
		if err != nil {
			problems = append(problems, "year must be a number")
		} else {
			year = parsed
			maxYear := time.Now().Year() + 10
			if year < 1800 || year > maxYear {
				problems = append(problems, fmt.Sprintf("year out of range (1800-%d)", maxYear))
			}
		}
	}

	if len(problems) > 0 {
		return 0, &ValidationError{Problems: problems}
	}
	return year, nil
}

// ValidateScreeningForm checks the buffer locally. On success it returns
// the parsed screening time.
func (e *EditSession) ValidateScreeningForm(form model.ScreeningForm) (time.Time, error) {
	trimmed := model.ScreeningForm{
		MovieID: form.MovieID,
		Room:    strings.TrimSpace(form.Room),
		Time:    strings.TrimSpace(form.Time),
	}

	var problems []string
	if err := e.validate.Struct(trimmed); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				problems = append(problems, screeningFieldProblem(fieldErr.Field()))
			}
		} else {
			return time.Time{}, err
		}
	}

	var when time.Time
	if trimmed.Time != "" {
		parsed, err := parseScreeningTime(trimmed.Time)
		if err != nil {
			problems = append(problems, fmt.Sprintf("time must look like %q", ScreeningTimeLayout))
		} else {
			when = parsed
		}
	}

	if len(problems) > 0 {
		return time.Time{}, &ValidationError{Problems: problems}
	}
	return when, nil
}

func parseScreeningTime(value string) (time.Time, error) {
	if parsed, err := time.ParseInLocation(ScreeningTimeLayout, value, time.Local); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

func movieFieldProblem(field string) string {
	switch field {
	case "Title":
		return "title must not be blank"
	case "Description":
		return "description must not be blank"
	case "Year":
		return "year must not be blank"
	case "ImageURL":
		return "image url must not be blank"
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(field))
	}
}

func screeningFieldProblem(field string) string {
	switch field {
	case "MovieID":
		return "a movie must be selected"
	case "Room":
		return "room must not be blank"
	case "Time":
		return "time must not be blank"
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(field))
	}
}
