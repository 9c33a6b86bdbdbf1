package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// compressor сжимает JSON и текстовые ответы для клиентов с Accept-Encoding: gzip.
var compressor = chimw.NewCompressor(5,
	"application/json",
	"text/plain",
	"text/html",
)

func WithGzip(next http.Handler) http.Handler {
	return compressor.Handler(next)
}
