package transport

import (
	"net/http"

	"github.com/rs/cors"
)

// DefaultAllowedOrigins are the web front-ends allowed to call the API.
var DefaultAllowedOrigins = []string{
	"https://proof.clavastack.com",
	"https://www.proof.clavastack.com",
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:5500",
	"http://localhost:5500",
}

// NewCORS builds the CORS policy for the proof API.
func NewCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
			http.MethodDelete,
			http.MethodPut,
		},
		AllowedHeaders:   []string{"Content-Type", AuthHeader},
		AllowCredentials: false,
	})
}
