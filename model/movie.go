package model

// Movie as served by the catalog API. An ID of 0 is never assigned by the
// server and doubles as the "no selection / all movies" sentinel.
type Movie struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Year          int    `json:"year"`
	ImageURL      string `json:"img"`
	CreatedByName string `json:"createdByName"`
}

// MovieUpsert is the request body shared by create (POST) and update (PUT).
type MovieUpsert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	ImageURL    string `json:"img"`
	AccountID   int    `json:"accountId"`
}

// MovieDelete carries the acting account on a delete request.
type MovieDelete struct {
	AccountID int `json:"accountId"`
}
