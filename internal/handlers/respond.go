package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

var errInvalidID = errors.New("invalid id")

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON читает тело запроса и проверяет теги validate.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// pathID разбирает целочисленный параметр маршрута.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// internalError логирует причину и отвечает 500 без подробностей.
func internalError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	logger.Errorw(op+": service error", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
