package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

func AllowCors(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization",
		},
		ExposedHeaders: []string{"Content-Disposition"},
	})

	return c.Handler
}
