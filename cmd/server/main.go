package main

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/handlers"
	"NoteKeeper/internal/mailer"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/notify"
	"NoteKeeper/internal/repo"
	"NoteKeeper/internal/service"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	// пользователи: в памяти или в БД, если задан DSN
	var userRepo repo.UserRepository
	if cfg.DatabaseDSN == "" {
		userRepo = repo.NewMemoryUserRepository()
	} else {
		gormDB, err := repo.InitDB(cfg.DatabaseDSN)
		if err != nil {
			sugar.Fatalw("failed to initialize database", "error", err)
		}
		userRepo = repo.NewUserRepository(gormDB)
	}
	userService := service.NewUserService(userRepo)

	noteService := service.NewNoteService(
		repo.NewNoteRepository(cfg.NotesFile),
		repo.NewActivityRepository(cfg.ActivitiesFile),
		sugar,
	)

	hub := notify.NewHub(sugar)
	mail := mailer.New(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, sugar)

	h := handlers.NewHandler(userService, noteService, hub, mail, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"NotesFile", cfg.NotesFile,
		"ActivitiesFile", cfg.ActivitiesFile,
		"PersistentUsers", cfg.DatabaseDSN != "",
		"SMTP", cfg.SMTPHost != "",
		"AuthRateLimit", cfg.AuthRateLimit,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
