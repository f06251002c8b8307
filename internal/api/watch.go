package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
)

var errStreamClosed = errors.New("stream closed by server")

// Watch follows the server's note stream for q. It reconnects after a
// failure, reporting the failure as an error emission first. The channel
// closes when ctx is done.
func (c *Client) Watch(ctx context.Context, q Query) <-chan repository.Emission[[]db.Note] {
	ch := make(chan repository.Emission[[]db.Note])
	go func() {
		defer close(ch)
		for {
			err := c.follow(ctx, q, ch)
			if ctx.Err() != nil {
				return
			}
			if err == nil {
				err = errStreamClosed
			}
			if !emit(ctx, ch, repository.Emission[[]db.Note]{Err: err}) {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
		}
	}()
	return ch
}

func emit(ctx context.Context, ch chan<- repository.Emission[[]db.Note], em repository.Emission[[]db.Note]) bool {
	select {
	case ch <- em:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) follow(ctx context.Context, q Query, ch chan<- repository.Emission[[]db.Note]) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/notes/stream?"+q.values().Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, body)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var event string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) == 0 {
				continue
			}
			em := decodeEvent(event, strings.Join(data, "\n"))
			event, data = "", data[:0]
			if !emit(ctx, ch, em) {
				return nil
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return scanner.Err()
}

func decodeEvent(event, payload string) repository.Emission[[]db.Note] {
	if event == "error" {
		var errResp ErrorResponse
		if err := json.Unmarshal([]byte(payload), &errResp); err != nil || errResp.Error == "" {
			return repository.Emission[[]db.Note]{Err: errors.New("server reported a stream failure")}
		}
		return repository.Emission[[]db.Note]{Err: fmt.Errorf("server: %s", errResp.Error)}
	}
	var resp NoteListResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return repository.Emission[[]db.Note]{Err: fmt.Errorf("failed to decode stream event: %w", err)}
	}
	if resp.Notes == nil {
		resp.Notes = []db.Note{}
	}
	return repository.Emission[[]db.Note]{Value: resp.Notes}
}

// RemoteNotes is a note source for one scope of a server's collection.
type RemoteNotes struct {
	client *Client
	scope  db.Scope
}

func (c *Client) Notes(scope db.Scope) *RemoteNotes {
	return &RemoteNotes{client: c, scope: scope}
}

func (r *RemoteNotes) Scope() db.Scope {
	return r.scope
}

func (r *RemoteNotes) StreamSorted(ctx context.Context, key db.SortKey) <-chan repository.Emission[[]db.Note] {
	return r.client.Watch(ctx, Query{Scope: r.scope, Sort: key})
}
