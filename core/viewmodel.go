package core

import (
	"fmt"
	"time"

	"cineadmin-tui/model"
)

// AllMoviesOption is the synthetic selector entry carrying the 0 sentinel.
const AllMoviesOption = "All movies"

// MovieRow is a render-ready movie record.
type MovieRow struct {
	ID        int
	Title     string
	Year      int
	CreatedBy string
}

// ScreeningRow is a render-ready screening record with the joined title.
type ScreeningRow struct {
	ID         int
	MovieID    int
	MovieTitle string
	Room       string
	Time       time.Time
	CreatedBy  string
}

// DisplayInfo renders the screening summary line.
func (r ScreeningRow) DisplayInfo() string {
	return fmt.Sprintf("%s - %s terem - %s", r.MovieTitle, r.Room, r.Time.Format(ScreeningTimeLayout))
}

// MovieOption is an entry of the movie selector lists.
type MovieOption struct {
	ID    int
	Title string
}

// EditPanel describes the open panel, if any.
type EditPanel struct {
	Kind          EditKind
	MovieID       int
	MovieForm     model.MovieForm
	ScreeningForm model.ScreeningForm
}

// Snapshot is the full set of view models handed to the presentation
// layer. All sequences are ordered and ready to render; no rendering path
// re-queries the server for list display.
type Snapshot struct {
	Movies     []MovieRow
	Screenings []ScreeningRow

	// FilterOptions is for screening filtering; the synthetic "All movies"
	// entry is prepended. SelectorOptions is for screening creation and
	// only carries real movies.
	FilterOptions   []MovieOption
	SelectorOptions []MovieOption

	Detail *model.Movie

	LoggedIn bool
	Admin    bool
	Username string

	Edit EditPanel

	MovieFilter     string
	ScreeningFilter int
}
