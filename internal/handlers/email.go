package handlers

import (
	"NoteKeeper/internal/mailer"
	"net/http"

	"go.uber.org/zap"
)

type EmailHandler struct {
	Mailer mailer.Mailer
	Logger *zap.SugaredLogger
}

func NewEmailHandler(m mailer.Mailer, logger *zap.SugaredLogger) *EmailHandler {
	return &EmailHandler{Mailer: m, Logger: logger}
}

type emailRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Notify отправляет письмо-уведомление
func (h *EmailHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Notify: invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	err := h.Mailer.Send(r.Context(), mailer.Email{To: req.Email, Subject: req.Subject, Text: req.Text})
	if err != nil {
		h.Logger.Errorw("Notify: send failed", "to", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "email could not be sent"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "email sent"})
}
