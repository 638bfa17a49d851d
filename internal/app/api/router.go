package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"kokorotts/internal/app/processor"
	"kokorotts/pkg/slg"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogchi "github.com/samber/slog-chi"
)

type Config struct {
	Host    string        `yaml:"host" env:"HOST"`
	Port    int           `yaml:"port" env:"PORT"`
	Timeout time.Duration `yaml:"timeout" env:"REQUEST_TIMEOUT"`

	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
}

// Processor is the set of boundary operations served over HTTP.
type Processor interface {
	Generate(ctx context.Context, text, voice string) (string, error)
	Fetch(ctx context.Context, id string) (io.ReadCloser, error)
	Download(ctx context.Context, id string) (*processor.Download, error)
	Health() processor.Health
	Voices() processor.Voices
}

type API struct {
	cfg *Config

	logger *slog.Logger

	processor Processor

	gatherer prometheus.Gatherer
}

func NewAPI(cfg *Config, logger *slog.Logger, proc Processor, gatherer prometheus.Gatherer) *API {
	return &API{
		cfg:       cfg,
		logger:    logger,
		processor: proc,
		gatherer:  gatherer,
	}
}

func (api *API) NewRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(slogchi.New(api.logger))
	router.Use(api.requestLogger)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	router.Use(middleware.StripSlashes)

	router.Use(middleware.Recoverer)

	if api.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(api.gatherer, promhttp.HandlerOpts{}))
	}

	router.Get("/health", api.health)
	router.Get("/voices", api.voices)

	router.Group(func(router chi.Router) {
		if api.cfg.Timeout > 0 {
			router.Use(middleware.Timeout(api.cfg.Timeout))
		}

		router.Post("/generate", api.generate)
		router.Get("/audio/{audio_id}", api.audio)
		router.Get("/download/{audio_id}", api.download)
	})

	return router
}

func (api *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := api.logger.With("request_id", middleware.GetReqID(r.Context()))

		next.ServeHTTP(w, r.WithContext(slg.WithSlog(r.Context(), logger)))
	})
}
