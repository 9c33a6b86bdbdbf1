package handlers

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/mailer"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	noteService *service.NoteService,
	hub http.Handler,
	mail mailer.Mailer,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics)

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	noteHandler := NewNoteHandler(noteService, logger)
	emailHandler := NewEmailHandler(mail, logger)

	// WebSocket-апгрейд не должен проходить через сжатие
	if hub != nil {
		r.Get("/ws", hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithGzip)
		r.Use(middleware.WithAuth(config.AuthSecret))

		r.Handle("/metrics", promhttp.Handler())

		// User routes
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.WithRateLimit(middleware.NewAuthBucket(config.AuthRateLimit)))
				r.Post("/register", userHandler.Register)
				r.Post("/login", userHandler.Login)
				r.Post("/reset-password", userHandler.ResetPassword)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/users", userHandler.ListUsers)
				r.Put("/users/{id}", userHandler.UpdateProfile)
				r.Patch("/users/{id}/role", userHandler.UpdateRole)
			})
		})

		// Note routes
		r.Route("/notes", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", noteHandler.List)
			r.Post("/", noteHandler.Create)
			r.Get("/favorites", noteHandler.Favorites)
			r.Get("/archived", noteHandler.Archived)
			r.Get("/search", noteHandler.Search)
			r.Get("/tag/{tag}", noteHandler.ByTag)
			r.Post("/restore/{id}", noteHandler.Restore)

			r.Put("/{id}", noteHandler.Update)
			r.Delete("/{id}", noteHandler.Delete)
			r.Post("/{id}/favorite", noteHandler.AddFavorite)
			r.Post("/{id}/archive", noteHandler.Archive)
			r.Get("/{id}/linked", noteHandler.LinkedNotes)
			r.Get("/{id}/comments", noteHandler.Comments)
			r.Post("/{id}/comments", noteHandler.AddComment)
			r.Put("/{id}/comments/{commentId}", noteHandler.UpdateComment)
			r.Delete("/{id}/comments/{commentId}", noteHandler.DeleteComment)
			r.Post("/{id}/comments/{commentId}/like", noteHandler.LikeComment)
		})

		r.Post("/email/notify", emailHandler.Notify)
	})

	return &Handler{Router: r}
}
