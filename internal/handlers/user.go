package handlers

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler регистрация, вход и управление пользователями.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type resetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *UserHandler) userNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: "user not found"})
}

// Register регистрация пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		internalError(w, h.Logger, "Register", err)
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusCreated, messageResponse{Message: "user created"})
}

// Login проверяет пароль и выдаёт access-токен
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		h.userNotFound(w)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "invalid password"})
		return
	case err != nil:
		internalError(w, h.Logger, "Login", err)
		return
	}

	p := model.Principal{ID: user.ID, Role: user.Role, Username: user.Username}
	token, err := middleware.BuildToken(p, h.Config.AuthSecret, h.Config.TokenTTL)
	if err != nil {
		internalError(w, h.Logger, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// ListUsers все пользователи вместе с хешами паролей
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		internalError(w, h.Logger, "ListUsers", err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateProfile меняет переданные поля профиля пользователя {id}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	upd := service.ProfileUpdate{Username: req.Username, Password: req.Password, Role: req.Role}
	if err := h.UserService.UpdateProfile(r.Context(), id, upd); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.userNotFound(w)
			return
		}
		internalError(w, h.Logger, "UpdateProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "profile updated"})
}

// ResetPassword сброс пароля по имени пользователя, без токена
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.UserService.ResetPassword(r.Context(), req.Username, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.userNotFound(w)
			return
		}
		internalError(w, h.Logger, "ResetPassword", err)
		return
	}
	h.Logger.Infow("password reset", "username", req.Username)
	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UpdateRole(r.Context(), id, req.Role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.userNotFound(w)
			return
		}
		internalError(w, h.Logger, "UpdateRole", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "role updated"})
}
