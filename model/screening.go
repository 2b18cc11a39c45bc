package model

import "time"

// Screening as served by the screenings API.
type Screening struct {
	ID            int       `json:"id"`
	MovieID       int       `json:"movieId"`
	Room          string    `json:"room"`
	Time          time.Time `json:"time"`
	CreatedByName string    `json:"createdByName"`

	// MovieTitle is resolved client-side by joining against the movie
	// cache. It is never sent to the server.
	MovieTitle string `json:"-"`
}

// ScreeningCreate is the request body for creating a screening.
type ScreeningCreate struct {
	MovieID   int       `json:"movieId"`
	Room      string    `json:"room"`
	Time      time.Time `json:"time"`
	AccountID int       `json:"accountId"`
}
