package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/bldriq/internal/http/alias"
	"github.com/MrJamesThe3rd/bldriq/internal/http/auth"
	"github.com/MrJamesThe3rd/bldriq/internal/http/catalog"
	"github.com/MrJamesThe3rd/bldriq/internal/http/estimate"
	"github.com/MrJamesThe3rd/bldriq/internal/http/project"
)

type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	GuestUserID    string
}

func New(
	opts Options,
	catalogV1 *catalog.Handler,
	estimateV1 *estimate.Handler,
	projectsV1 *project.Handler,
	aliasesV1 *alias.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret, opts.GuestUserID))

		r.Route("/catalog", catalogV1.Routes)

		r.Route("/estimate", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			estimateV1.Routes(r)
		})

		r.Route("/projects", projectsV1.Routes)
		r.Route("/aliases", aliasesV1.Routes)
	})

	return router
}
