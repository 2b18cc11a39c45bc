package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"cineadmin-tui/logger"
	"cineadmin-tui/model"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 12 * time.Second
)

// TokenSource yields the current session token, or "" when anonymous.
type TokenSource func() string

// Client wraps HTTP access to the cinema-catalog admin API. When a token
// source yields a token it is attached as a bearer credential on every
// request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource
	log        *logrus.Entry
}

// NewClient creates a new API client. If httpClient is nil, a default
// client is used. A nil token source means every request is anonymous.
func NewClient(httpClient *http.Client, baseURL string, token TokenSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		log:        logger.WithComponent("api"),
	}
}

// Movies fetches the full movie list.
func (c *Client) Movies(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.do(ctx, http.MethodGet, "/api/movies/movies", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// MovieByID fetches a single movie.
func (c *Client) MovieByID(ctx context.Context, id int) (model.Movie, error) {
	if id <= 0 {
		return model.Movie{}, errors.New("movie id is required")
	}
	var movie model.Movie
	path := fmt.Sprintf("/api/movies/movie-by-id/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &movie); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

// CreateMovie creates a movie and returns the server-assigned record.
func (c *Client) CreateMovie(ctx context.Context, body model.MovieUpsert) (model.Movie, error) {
	var movie model.Movie
	if err := c.do(ctx, http.MethodPost, "/api/movies/movies", body, &movie); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

// UpdateMovie updates an existing movie by id.
func (c *Client) UpdateMovie(ctx context.Context, id int, body model.MovieUpsert) (model.Movie, error) {
	if id <= 0 {
		return model.Movie{}, errors.New("movie id is required")
	}
	var movie model.Movie
	path := fmt.Sprintf("/api/movies/movies/%d", id)
	if err := c.do(ctx, http.MethodPut, path, body, &movie); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

// DeleteMovie deletes a movie. The acting account id travels in the body.
func (c *Client) DeleteMovie(ctx context.Context, id int, accountID int) error {
	if id <= 0 {
		return errors.New("movie id is required")
	}
	path := fmt.Sprintf("/api/movies/movies/%d", id)
	return c.do(ctx, http.MethodDelete, path, model.MovieDelete{AccountID: accountID}, nil)
}

// Screenings fetches the full screening list.
func (c *Client) Screenings(ctx context.Context) ([]model.Screening, error) {
	var screenings []model.Screening
	if err := c.do(ctx, http.MethodGet, "/api/screenings/screenings", nil, &screenings); err != nil {
		return nil, err
	}
	return screenings, nil
}

// CreateScreening creates a screening.
func (c *Client) CreateScreening(ctx context.Context, body model.ScreeningCreate) (model.Screening, error) {
	var screening model.Screening
	if err := c.do(ctx, http.MethodPost, "/api/screenings/screenings", body, &screening); err != nil {
		return model.Screening{}, err
	}
	return screening, nil
}

// Login checks credentials against the users endpoint. The response is
// returned as-is; interpreting the success flag is the caller's job.
func (c *Client) Login(ctx context.Context, emailAddress string, password string) (model.LoginResponse, error) {
	var resp model.LoginResponse
	body := model.LoginRequest{EmailAddress: emailAddress, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/loginCheck", body, &resp); err != nil {
		return model.LoginResponse{}, err
	}
	return resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username string, emailAddress string, password string) (model.RegisterResponse, error) {
	var resp model.RegisterResponse
	body := model.RegisterRequest{Username: username, EmailAddress: emailAddress, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/register", body, &resp); err != nil {
		return model.RegisterResponse{}, err
	}
	return resp, nil
}

// do performs a single request. Failures are never retried; every attempt
// is terminal.
func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debugf("%s %s", method, endpoint)
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnf("%s %s: %v", method, endpoint, err)
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		httpErr := &HTTPError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
		}
		var envelope model.APIMessage
		if err := json.Unmarshal(snippet, &envelope); err == nil {
			httpErr.Message = envelope.Message
			httpErr.Messages = envelope.Messages
		}
		if httpErr.Message == "" && len(httpErr.Messages) == 0 {
			httpErr.Message = string(bytes.TrimSpace(snippet))
		}
		c.log.Warnf("%s %s: %s", method, endpoint, res.Status)
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	return nil
}
