package model

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	EmailAddress string `json:"emailAddress"`
	IsAdmin      bool   `json:"isAdmin"`
}
