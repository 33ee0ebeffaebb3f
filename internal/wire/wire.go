package wire

import (
	"net/http"

	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the wired router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. m may be nil.
func Wiring(
	repo *repository.Repository,
	tx usecase.TxManager,
	notifier usecase.Notifier,
	config *utils.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*App, error) {
	service, err := usecase.NewService(repo, tx, notifier, config, m, logger)
	if err != nil {
		return nil, err
	}
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, m, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	wireAuth(r, handler.Auth, repo, config, logger)
	wireFunctionType(r, handler.FunctionType, repo, config, logger)
	wireBooking(r, handler.Booking, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if m != nil && config.Metrics.Enabled {
		r.Method(http.MethodGet, config.Metrics.Path, m.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
