package model

import "strings"

type LoginRequest struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type RegisterResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Messages []string `json:"messages"`
	User     *User    `json:"user"`
}

// Report returns the displayable outcome of a register attempt. The
// messages list, when populated, takes precedence over the single message.
func (r RegisterResponse) Report() string {
	if len(r.Messages) > 0 {
		return strings.Join(r.Messages, "\n")
	}
	return r.Message
}

// APIMessage is the error envelope the server attaches to failed requests.
type APIMessage struct {
	Success  *bool    `json:"success"`
	Message  string   `json:"message"`
	Messages []string `json:"messages"`
}
