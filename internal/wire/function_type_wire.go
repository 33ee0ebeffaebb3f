package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireFunctionType(
	r chi.Router,
	functionTypeHandler *adaptor.FunctionTypeHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// active entries only, for the booking form
	r.Get("/api/function-types", functionTypeHandler.ListActive)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/function-types", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/", functionTypeHandler.ListAll)
		r.Post("/", functionTypeHandler.CreateFunctionType)
		r.Get("/{id}", functionTypeHandler.GetFunctionType)
		r.Put("/{id}", functionTypeHandler.UpdateFunctionType)
		r.Delete("/{id}", functionTypeHandler.DeleteFunctionType)
		r.Patch("/{id}/status", functionTypeHandler.ChangeStatus)
	})
}
