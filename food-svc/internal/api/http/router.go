package httpapi

import (
	"net/http"

	"fooddelight/food-svc/internal/auth"
	"fooddelight/food-svc/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Registrar adds routes to the shared router.
type Registrar interface {
	RegisterRoutes(r *mux.Router)
}

// NewRouter mounts the API and any extra route sets behind session
// resolution, CORS and tracing.
func NewRouter(handler *Handler, extra ...Registrar) http.Handler {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(auth.Middleware(handler.Identity)))
	handler.RegisterRoutes(r)
	for _, registrar := range extra {
		registrar.RegisterRoutes(r)
	}

	// API clients send bearer tokens; cookies stay same-origin.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key"},
	})
	return telemetry.Middleware("food-svc")(c.Handler(r))
}
