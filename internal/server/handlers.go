package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
)

// Health check

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Notes handlers

type NoteListResponse struct {
	Notes []db.Note `json:"notes"`
}

type NoteRequest struct {
	Title      string `json:"title" validate:"max=1000"`
	Content    string `json:"content"`
	IsPinned   bool   `json:"is_pinned"`
	IsFavorite bool   `json:"is_favorite"`
	Color      int    `json:"color" validate:"min=0"`
	NotebookID int64  `json:"notebook_id" validate:"min=0"`
}

func (req NoteRequest) input() usecase.NoteInput {
	return usecase.NoteInput{
		Title:      req.Title,
		Content:    req.Content,
		IsPinned:   req.IsPinned,
		IsFavorite: req.IsFavorite,
		Color:      req.Color,
		NotebookID: req.NotebookID,
	}
}

type IDsRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type CountResponse struct {
	Count int `json:"count"`
}

// noteQuery reads scope, notebook, sort and q from the query string.
func noteQuery(r *http.Request) (db.NoteQuery, error) {
	params := r.URL.Query()

	var nbID int64
	if raw := params.Get("notebook"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return db.NoteQuery{}, &requestError{"invalid notebook"}
		}
		nbID = id
	}
	scope, err := db.ParseScope(params.Get("scope"), nbID)
	if err != nil {
		return db.NoteQuery{}, &requestError{err.Error()}
	}
	key, err := db.ParseSortKey(params.Get("sort"))
	if err != nil {
		return db.NoteQuery{}, &requestError{err.Error()}
	}
	return db.NoteQuery{Scope: scope, Sort: key, TitlePrefix: params.Get("q")}, nil
}

func (s *Server) listNotesHandler(w http.ResponseWriter, r *http.Request) {
	q, err := noteQuery(r)
	if err != nil {
		s.writeError(w, "list notes", err)
		return
	}

	notes, err := repository.NewNotes(s.store, q.Scope).List(r.Context(), q.Sort, q.TitlePrefix)
	if err != nil {
		s.writeError(w, "list notes", err)
		return
	}
	if notes == nil {
		notes = []db.Note{}
	}
	jsonResponse(w, NoteListResponse{Notes: notes}, http.StatusOK)
}

// streamNotesHandler sends the scope's list as a server-sent event on
// connect and again after every change. Store failures go out as "error"
// events and the stream stays open.
func (s *Server) streamNotesHandler(w http.ResponseWriter, r *http.Request) {
	q, err := noteQuery(r)
	if err != nil {
		s.writeError(w, "stream notes", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ActiveStreams.Inc()
	defer ActiveStreams.Dec()

	ctx := r.Context()
	ch := repository.NewNotes(s.store, q.Scope).Stream(ctx, q)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for em := range ch {
		event := "notes"
		var payload any = NoteListResponse{Notes: em.Value}
		if em.Err != nil {
			s.log.Printf("stream %s failed: %v", q.Scope, em.Err)
			event = "error"
			payload = map[string]string{"error": "failed to load notes"}
		} else if em.Value == nil {
			payload = NoteListResponse{Notes: []db.Note{}}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		if _, err := w.Write([]byte("event: " + event + "\ndata: " + string(data) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (s *Server) getNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, "get note", err)
		return
	}
	note, err := s.notes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, "get note", err)
		return
	}
	jsonResponse(w, note, http.StatusOK)
}

func (s *Server) createNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, "create note", err)
		return
	}
	note, err := s.notes.Create(r.Context(), req.input())
	if err != nil {
		s.writeError(w, "create note", err)
		return
	}
	jsonResponse(w, note, http.StatusCreated)
}

func (s *Server) updateNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, "update note", err)
		return
	}
	var req NoteRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, "update note", err)
		return
	}
	if err := s.notes.Edit(r.Context(), id, req.input()); err != nil {
		s.writeError(w, "update note", err)
		return
	}
	s.respondNote(w, r, "update note", id, http.StatusOK)
}

func (s *Server) respondNote(w http.ResponseWriter, r *http.Request, op string, id int64, status int) {
	note, err := s.notes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	jsonResponse(w, note, status)
}

// noteActionHandler serves the single-note context menu actions.
func (s *Server) noteActionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, "note action", err)
		return
	}
	ctx := r.Context()
	action := chi.URLParam(r, "action")

	switch action {
	case "copy":
		note, err := s.notes.Copy(ctx, id)
		if err != nil {
			s.writeError(w, action, err)
			return
		}
		jsonResponse(w, note, http.StatusCreated)
		return
	case "pin":
		err = s.notes.Pin(ctx, id)
	case "unpin":
		err = s.notes.Unpin(ctx, id)
	case "favorite":
		err = s.notes.Favorite(ctx, id)
	case "unfavorite":
		err = s.notes.Unfavorite(ctx, id)
	case "trash":
		err = s.notes.MoveToTrash(ctx, id)
	default:
		jsonError(w, "unknown action", http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, action, err)
		return
	}
	s.respondNote(w, r, action, id, http.StatusOK)
}

func (s *Server) restoreNotesHandler(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, "restore notes", err)
		return
	}
	n, err := s.notes.Restore(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, "restore notes", err)
		return
	}
	jsonResponse(w, CountResponse{Count: n}, http.StatusOK)
}

func (s *Server) purgeNotesHandler(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, "purge notes", err)
		return
	}
	n, err := s.notes.PurgeSelected(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, "purge notes", err)
		return
	}
	jsonResponse(w, CountResponse{Count: n}, http.StatusOK)
}

func (s *Server) emptyTrashHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.PurgeAll(r.Context())
	if err != nil {
		s.writeError(w, "empty trash", err)
		return
	}
	jsonResponse(w, CountResponse{Count: n}, http.StatusOK)
}

// Notebook handlers

type NotebookListResponse struct {
	Notebooks []db.Notebook `json:"notebooks"`
}

type NotebookRequest struct {
	ID          int64  `json:"id" validate:"min=0"`
	Description string `json:"description" validate:"required,max=128"`
}

func (s *Server) listNotebooksHandler(w http.ResponseWriter, r *http.Request) {
	nbs, err := s.nbRepo.List(r.Context())
	if err != nil {
		s.writeError(w, "list notebooks", err)
		return
	}
	if nbs == nil {
		nbs = []db.Notebook{}
	}
	jsonResponse(w, NotebookListResponse{Notebooks: nbs}, http.StatusOK)
}

func (s *Server) saveNotebookHandler(w http.ResponseWriter, r *http.Request) {
	var req NotebookRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, "save notebook", err)
		return
	}
	nb, err := s.notebooks.Save(r.Context(), db.Notebook{ID: req.ID, Description: req.Description})
	if err != nil {
		s.writeError(w, "save notebook", err)
		return
	}
	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	jsonResponse(w, nb, status)
}

func (s *Server) deleteNotebookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, "delete notebook", err)
		return
	}
	moved, err := s.notebooks.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, "delete notebook", err)
		return
	}
	jsonResponse(w, CountResponse{Count: moved}, http.StatusOK)
}
