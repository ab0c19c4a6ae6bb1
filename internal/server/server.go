package server

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/bjarke-xyz/benefit-gateway/internal/eligibility"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

//go:embed static
var staticFiles embed.FS

type server struct {
	logger *slog.Logger

	appRepository domain.ApplicationRepository
	evaluator     *eligibility.Evaluator

	predictLimiter *rateLimiter

	staticFilesFs fs.FS

	// now is the clock for submission dates, ETAs and ages; injected in tests.
	now func() time.Time
}

func NewServer(logger *slog.Logger, appRepository domain.ApplicationRepository, evaluator *eligibility.Evaluator, predictRPS float64, predictBurst int) (*server, error) {
	staticFilesFs, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	return &server{
		logger:         logger,
		appRepository:  appRepository,
		evaluator:      evaluator,
		predictLimiter: newRateLimiter(predictRPS, predictBurst),
		staticFilesFs:  staticFilesFs,
		now:            time.Now,
	}, nil
}

func (s *server) Server(port int) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
}

func (s *server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The React intake frontends are served from other origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFilesFs))))
	r.Handle("/favicon.ico", http.FileServer(http.FS(s.staticFilesFs)))
	r.Get("/up", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "up!")
	})
	r.Get("/", s.handleHome)

	r.Route("/applications", func(r chi.Router) {
		r.Post("/", s.handleCreateApplication)
		r.Get("/", s.handleListApplications)
		r.Get("/{application-id}", s.handleGetApplication)
		r.Put("/{application-id}", s.handleUpdateApplicationStatus)
		r.Delete("/{application-id}", s.handleDeleteApplication)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.predictLimiter.middleware)
		r.Post("/predict-eligibility/", s.handlePredictEligibility)
		r.Post("/predict/", s.handlePredict)
	})

	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": "benefit gateway is running"})
}
