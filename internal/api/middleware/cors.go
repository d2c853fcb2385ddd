package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewCORS lets the dashboard origins call the tracker API.
// Browsers may send the API key header on mutating calls and read back the request id
// that Logger echoes. The backend token never leaves the server, so Authorization is
// not accepted from browsers.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", APIKeyHeader},
		ExposedHeaders:   []string{"Content-Type", chimiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
