package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"shopfront/internal/domain"
)

// SessionClearer lets the wrapper destroy a session centrally on 401.
type SessionClearer interface {
	Clear(sid string) error
}

// Client calls the remote commerce API. Authenticated calls go through
// doAuthed, which fails fast without a token and handles 401 terminally.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Sessions SessionClearer
}

func NewClient(baseURL string, sessions SessionClearer) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Sessions: sessions,
	}
}

// do performs an unauthenticated JSON request and decodes a 2xx body into
// out. Non-2xx responses come back as *APIError with the server message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, "", body, out)
}

// doAuthed merges the bearer token in. No token: ErrNoToken, no network call.
// 401: session cleared, ErrUnauthorized. Everything else is handed back to
// the caller for interpretation.
func (c *Client) doAuthed(ctx context.Context, sess *domain.Session, method, path string, body, out any) error {
	if sess == nil || sess.Token == "" {
		return ErrNoToken
	}
	err := c.send(ctx, method, path, sess.Token, body, out)
	if err == ErrUnauthorized {
		if cerr := c.Sessions.Clear(sess.SID); cerr != nil {
			log.Printf("[commerce] clearing session %s: %v", sess.SID, cerr)
		}
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("commerce api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("commerce api: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("commerce api: decode %s: %w", path, err)
	}
	return nil
}
