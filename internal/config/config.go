package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	defaultBaseURL    = "localhost:3000"
	defaultAuthSecret = "dev-secret-key"
	defaultTokenTTL   = time.Hour
)

type Config struct {
	// Server-side settings
	DatabaseDSN    string        `env:"DATABASE_URI"`
	AuthSecret     string        `env:"AUTH_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL"`
	NotesFile      string        `env:"NOTES_FILE" envDefault:"notes.json"`
	ActivitiesFile string        `env:"ACTIVITIES_FILE" envDefault:"activities.json"`
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT"` // запросов в секунду на /auth, 0 — без лимита

	// SMTP; пустой SMTPHost — письма только логируются
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД пользователей (пусто — в памяти)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни access-токена")
	flag.StringVar(&cfg.NotesFile, "notes-file", cfg.NotesFile, "путь к notes.json")
	flag.StringVar(&cfg.ActivitiesFile, "activities-file", cfg.ActivitiesFile, "путь к activities.json")
	flag.IntVar(&cfg.AuthRateLimit, "auth-rate", cfg.AuthRateLimit, "лимит запросов в секунду на /auth (0 — без лимита)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the NoteKeeper server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = defaultAuthSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, _ = os.UserHomeDir()
		}
		cfg.TokenFile = filepath.Join(dir, "NoteKeeper", "token")
	}

	return cfg
}
