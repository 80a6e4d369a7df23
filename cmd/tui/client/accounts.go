package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Varun5711/accounts/internal/models/account"
)

// APIError carries the status and message of a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Client talks to the account service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Register(name, email, password string) (*account.Profile, error) {
	var out account.Profile
	err := c.do(http.MethodPost, "/api/users/create", account.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(email, password string) (*account.LoginResponse, error) {
	var out account.LoginResponse
	err := c.do(http.MethodPost, "/api/users/login", account.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(id string) (*account.Profile, error) {
	var out account.Profile
	if err := c.do(http.MethodGet, "/api/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes whichever of name and password is non-nil.
func (c *Client) Update(id string, name, password *string) (*account.Profile, error) {
	var out account.Profile
	err := c.do(http.MethodPatch, "/api/users/"+id, account.UpdateRequest{
		Name:     name,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(id string) error {
	return c.do(http.MethodDelete, "/api/users/"+id, nil, nil)
}

func (c *Client) do(method, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
