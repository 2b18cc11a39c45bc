package model

// MovieForm is the transient buffer behind the movie create/edit panel.
// Year stays a string until validation so the buffer can hold whatever was
// typed.
type MovieForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Year        string `validate:"required"`
	ImageURL    string `validate:"required"`
}

// ScreeningForm is the transient buffer behind the screening create panel.
type ScreeningForm struct {
	MovieID int    `validate:"gt=0"`
	Room    string `validate:"required"`
	Time    string `validate:"required"`
}
