package handlers

import (
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/service"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteHandler HTTP-обёртка над NoteService. Все маршруты за RequireAuth.
type NoteHandler struct {
	NoteService *service.NoteService
	Logger      *zap.SugaredLogger
}

func NewNoteHandler(noteService *service.NoteService, logger *zap.SugaredLogger) *NoteHandler {
	return &NoteHandler{NoteService: noteService, Logger: logger}
}

type createNoteRequest struct {
	Content     string   `json:"content" validate:"required"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	LinkedNotes []int64  `json:"linkedNotes"`
}

type updateNoteRequest struct {
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	LinkedNotes []int64  `json:"linkedNotes"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type updateCommentRequest struct {
	Comment string `json:"comment"`
}

// principal достаёт пользователя из контекста; маршрут уже защищён RequireAuth.
func principal(r *http.Request) model.Principal {
	p, _ := middleware.GetPrincipal(r.Context())
	return p
}

// fail маппит ошибки сервиса на HTTP-коды.
func (h *NoteHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		http.Error(w, "note not found", http.StatusNotFound)
	case errors.Is(err, service.ErrCommentNotFound):
		http.Error(w, "comment not found", http.StatusNotFound)
	case errors.Is(err, errInvalidID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, h.Logger, op, err)
	}
}

// withNote разбирает {id} и вызывает fn с пользователем и id заметки.
func (h *NoteHandler) withNote(op string, fn func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.fail(w, op, err)
			return
		}
		if err := fn(w, r, principal(r), id); err != nil {
			h.fail(w, op, err)
		}
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := service.Filter{Search: q.Get("search"), Tag: q.Get("tag"), Category: q.Get("category")}
	notes, err := h.NoteService.List(r.Context(), principal(r), f)
	if err != nil {
		h.fail(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Create: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	note, err := h.NoteService.Create(r.Context(), principal(r), service.NoteInput{
		Content:     req.Content,
		Tags:        req.Tags,
		Category:    req.Category,
		LinkedNotes: req.LinkedNotes,
	})
	if err != nil {
		h.fail(w, "Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.withNote("Update", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		var req updateNoteRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return nil
		}
		note, err := h.NoteService.Update(r.Context(), p, id, service.NoteInput{
			Content:     req.Content,
			Tags:        req.Tags,
			Category:    req.Category,
			LinkedNotes: req.LinkedNotes,
		})
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, note)
		return nil
	})(w, r)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.withNote("Delete", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		if err := h.NoteService.Delete(r.Context(), p, id); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})(w, r)
}

func (h *NoteHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	h.withNote("AddComment", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		var req commentRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return nil
		}
		c, err := h.NoteService.AddComment(r.Context(), p, id, req.Comment)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, c)
		return nil
	})(w, r)
}

// UpdateComment комментарий адресуется автором, {commentId} не используется
func (h *NoteHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	h.withNote("UpdateComment", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		var req updateCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return nil
		}
		c, err := h.NoteService.UpdateComment(r.Context(), p, id, req.Comment)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, c)
		return nil
	})(w, r)
}

func (h *NoteHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	h.withNote("DeleteComment", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		if err := h.NoteService.DeleteComment(r.Context(), p, id); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})(w, r)
}

func (h *NoteHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.withNote("LikeComment", func(w http.ResponseWriter, r *http.Request, _ model.Principal, id int64) error {
		commentID, err := pathID(r, "commentId")
		if err != nil {
			return err
		}
		c, err := h.NoteService.LikeComment(r.Context(), id, commentID)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, c)
		return nil
	})(w, r)
}

func (h *NoteHandler) Comments(w http.ResponseWriter, r *http.Request) {
	h.withNote("Comments", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		comments, err := h.NoteService.Comments(r.Context(), p, id)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, comments)
		return nil
	})(w, r)
}

// noteAction общий вид для операций «изменить флаг заметки и вернуть её»
func (h *NoteHandler) noteAction(op string, fn func(r *http.Request, p model.Principal, id int64) (*model.Note, error)) http.HandlerFunc {
	return h.withNote(op, func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		note, err := fn(r, p, id)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, note)
		return nil
	})
}

func (h *NoteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.noteAction("AddFavorite", func(r *http.Request, p model.Principal, id int64) (*model.Note, error) {
		return h.NoteService.AddFavorite(r.Context(), p, id)
	})(w, r)
}

func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.noteAction("Archive", func(r *http.Request, p model.Principal, id int64) (*model.Note, error) {
		return h.NoteService.Archive(r.Context(), p, id)
	})(w, r)
}

func (h *NoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.noteAction("Restore", func(r *http.Request, p model.Principal, id int64) (*model.Note, error) {
		return h.NoteService.Restore(r.Context(), p, id)
	})(w, r)
}

func (h *NoteHandler) LinkedNotes(w http.ResponseWriter, r *http.Request) {
	h.withNote("LinkedNotes", func(w http.ResponseWriter, r *http.Request, p model.Principal, id int64) error {
		notes, err := h.NoteService.LinkedNotes(r.Context(), p, id)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, notes)
		return nil
	})(w, r)
}

// listing списки без параметра {id}
func (h *NoteHandler) listing(w http.ResponseWriter, op string, notes []model.Note, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	notes, err := h.NoteService.Favorites(r.Context(), principal(r))
	h.listing(w, "Favorites", notes, err)
}

func (h *NoteHandler) Archived(w http.ResponseWriter, r *http.Request) {
	notes, err := h.NoteService.Archived(r.Context(), principal(r))
	h.listing(w, "Archived", notes, err)
}

func (h *NoteHandler) ByTag(w http.ResponseWriter, r *http.Request) {
	notes, err := h.NoteService.ByTag(r.Context(), principal(r), chi.URLParam(r, "tag"))
	h.listing(w, "ByTag", notes, err)
}

// Search ?query= обязателен
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	notes, err := h.NoteService.Search(r.Context(), principal(r), query)
	h.listing(w, "Search", notes, err)
}
