package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
)

// Client talks to a notes server. Its note methods mirror *usecase.Notes,
// so a TUI can drive a remote collection the same way as a local one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// streamClient has no timeout; streams stay open until cancelled.
	streamClient *http.Client
	retryDelay   time.Duration
}

type NoteRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsPinned   bool   `json:"is_pinned"`
	IsFavorite bool   `json:"is_favorite"`
	Color      int    `json:"color"`
	NotebookID int64  `json:"notebook_id"`
}

type NoteListResponse struct {
	Notes []db.Note `json:"notes"`
}

type NotebookListResponse struct {
	Notebooks []db.Notebook `json:"notebooks"`
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

type countResponse struct {
	Count int `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError is a non-2xx reply. It matches the sentinel errors of the
// local stack so callers handle both the same way.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return e.Message
}

func (e *StatusError) Is(target error) bool {
	switch e.Code {
	case http.StatusBadRequest:
		return target == usecase.ErrValidation
	case http.StatusNotFound:
		return target == db.ErrNotFound
	case http.StatusConflict:
		return target == db.ErrDefaultNotebook
	}
	return false
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		streamClient: &http.Client{},
		retryDelay:   time.Second,
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// Query selects a list the way the server's query string does.
type Query struct {
	Scope db.Scope
	Sort  db.SortKey
	Text  string
}

func (q Query) values() url.Values {
	v := url.Values{}
	switch q.Scope.Kind {
	case db.ScopeNotebook:
		v.Set("scope", "notebook")
		v.Set("notebook", strconv.FormatInt(q.Scope.NotebookID, 10))
	default:
		v.Set("scope", q.Scope.String())
	}
	v.Set("sort", q.Sort.String())
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	return v
}

func (c *Client) ListNotes(ctx context.Context, q Query) ([]db.Note, error) {
	var resp NoteListResponse
	if err := c.get(ctx, "/api/notes?"+q.values().Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (db.Note, error) {
	var n db.Note
	err := c.get(ctx, fmt.Sprintf("/api/notes/%d", id), &n)
	return n, err
}

func requestOf(in usecase.NoteInput) NoteRequest {
	return NoteRequest{
		Title:      in.Title,
		Content:    in.Content,
		IsPinned:   in.IsPinned,
		IsFavorite: in.IsFavorite,
		Color:      in.Color,
		NotebookID: in.NotebookID,
	}
}

func (c *Client) Create(ctx context.Context, in usecase.NoteInput) (db.Note, error) {
	var n db.Note
	err := c.send(ctx, http.MethodPost, "/api/notes", requestOf(in), &n)
	return n, err
}

func (c *Client) Edit(ctx context.Context, id int64, in usecase.NoteInput) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%d", id), requestOf(in), nil)
}

func (c *Client) Copy(ctx context.Context, id int64) (db.Note, error) {
	var n db.Note
	err := c.action(ctx, id, "copy", &n)
	return n, err
}

func (c *Client) SetPinned(ctx context.Context, id int64, pinned bool) error {
	if pinned {
		return c.action(ctx, id, "pin", nil)
	}
	return c.action(ctx, id, "unpin", nil)
}

func (c *Client) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	if favorite {
		return c.action(ctx, id, "favorite", nil)
	}
	return c.action(ctx, id, "unfavorite", nil)
}

func (c *Client) MoveToTrash(ctx context.Context, id int64) error {
	return c.action(ctx, id, "trash", nil)
}

func (c *Client) action(ctx context.Context, id int64, name string, result interface{}) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/api/notes/%d/%s", id, name), nil, result)
}

func (c *Client) Restore(ctx context.Context, ids []int64) (int, error) {
	var resp countResponse
	err := c.send(ctx, http.MethodPost, "/api/notes/restore", idsRequest{IDs: ids}, &resp)
	return resp.Count, err
}

func (c *Client) PurgeSelected(ctx context.Context, ids []int64) (int, error) {
	var resp countResponse
	err := c.send(ctx, http.MethodPost, "/api/notes/purge", idsRequest{IDs: ids}, &resp)
	return resp.Count, err
}

func (c *Client) PurgeAll(ctx context.Context) (int, error) {
	var resp countResponse
	err := c.send(ctx, http.MethodDelete, "/api/trash", nil, &resp)
	return resp.Count, err
}

func (c *Client) ListNotebooks(ctx context.Context) ([]db.Notebook, error) {
	var resp NotebookListResponse
	if err := c.get(ctx, "/api/notebooks", &resp); err != nil {
		return nil, err
	}
	return resp.Notebooks, nil
}

func (c *Client) SaveNotebook(ctx context.Context, nb db.Notebook) (db.Notebook, error) {
	var saved db.Notebook
	err := c.send(ctx, http.MethodPost, "/api/notebooks", nb, &saved)
	return saved, err
}

func (c *Client) DeleteNotebook(ctx context.Context, id int64) (int, error) {
	var resp countResponse
	err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/notebooks/%d", id), nil, &resp)
	return resp.Count, err
}

// HTTP helpers

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doRequest(req, result)
}

func (c *Client) doRequest(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func statusError(code int, body []byte) error {
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &StatusError{Code: code, Message: errResp.Error}
	}
	return &StatusError{Code: code}
}

// IsUnreachable reports whether err means the server could not be reached
// at all, as opposed to the server rejecting the request.
func IsUnreachable(err error) bool {
	var se *StatusError
	return err != nil && !errors.As(err, &se)
}
