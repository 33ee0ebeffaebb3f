package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/database"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const maxFunctionTypeNameLength = 100

type FunctionTypeService interface {
	ListFunctionTypes(ctx context.Context, includeInactive bool) ([]response.FunctionTypeResponse, error)
	GetFunctionTypeByID(ctx context.Context, id string) (*response.FunctionTypeResponse, error)
	CreateFunctionType(ctx context.Context, req *request.CreateFunctionTypeRequest) (*response.FunctionTypeResponse, error)
	UpdateFunctionType(ctx context.Context, id string, req *request.UpdateFunctionTypeRequest) (*response.FunctionTypeMutationResponse, error)
	ChangeFunctionTypeStatus(ctx context.Context, id string, req *request.ChangeFunctionTypeStatusRequest) (*response.FunctionTypeMutationResponse, error)
	DeleteFunctionType(ctx context.Context, id string) error
}

type functionTypeService struct {
	repo *repository.Repository
	tx   TxManager
	now  func() time.Time
	log  *zap.Logger
}

func NewFunctionTypeService(repo *repository.Repository, tx TxManager, log *zap.Logger) FunctionTypeService {
	return &functionTypeService{
		repo: repo,
		tx:   tx,
		now:  time.Now,
		log:  log.With(zap.String("service", "function_type")),
	}
}

func (s *functionTypeService) ListFunctionTypes(ctx context.Context, includeInactive bool) ([]response.FunctionTypeResponse, error) {
	types, err := s.repo.FunctionType.FindAll(ctx, includeInactive)
	if err != nil {
		return nil, s.storeError("list function types", err)
	}
	return response.FunctionTypesToResponse(types), nil
}

func (s *functionTypeService) GetFunctionTypeByID(ctx context.Context, id string) (*response.FunctionTypeResponse, error) {
	ftID, err := parseID(id, "function type")
	if err != nil {
		return nil, err
	}

	ft, err := s.repo.FunctionType.FindByID(ctx, ftID)
	if err != nil {
		return nil, s.storeError("get function type", err)
	}
	if ft == nil {
		return nil, functionTypeNotFound()
	}

	resp := response.FunctionTypeToResponse(ft)
	return &resp, nil
}

func (s *functionTypeService) CreateFunctionType(ctx context.Context, req *request.CreateFunctionTypeRequest) (*response.FunctionTypeResponse, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create function type validation failed", zap.Any("errors", errs))
		return nil, validationFailed(errs)
	}

	slug := trimmed(req.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.now()
	ft := &entity.FunctionType{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        name,
		Slug:        slug,
		Price:       *req.Price,
		Description: utils.StringPtr(derefString(req.Description)),
		IsActive:    isActive,
	}

	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, ft.ID, ft.Name, ft.Slug); err != nil {
			return err
		}
		return s.repo.FunctionType.Create(ctx, ft)
	})
	if err != nil {
		return nil, s.storeError("create function type", err)
	}

	s.log.Info("Function type created",
		zap.String("function_type_id", ft.ID.String()),
		zap.String("name", ft.Name),
		zap.String("slug", ft.Slug),
	)

	resp := response.FunctionTypeToResponse(ft)
	return &resp, nil
}

// UpdateFunctionType edits a catalog entry. Entries with pending or accepted
// bookings are frozen; rejected bookings that reference the entry are deleted.
func (s *functionTypeService) UpdateFunctionType(ctx context.Context, id string, req *request.UpdateFunctionTypeRequest) (*response.FunctionTypeMutationResponse, error) {
	ftID, err := parseID(id, "function type")
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	var name string
	if req.Name != nil {
		if name, err = validateName(*req.Name); err != nil {
			return nil, err
		}
	}

	var ft *entity.FunctionType
	var deleted int64
	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		ft, err = s.repo.FunctionType.FindByID(ctx, ftID)
		if err != nil {
			return err
		}
		if ft == nil {
			return functionTypeNotFound()
		}

		if req.Name != nil {
			ft.Name = name
		}
		if req.Slug != nil {
			ft.Slug = strings.TrimSpace(*req.Slug)
			if ft.Slug == "" {
				ft.Slug = utils.Slugify(ft.Name)
			}
		}
		if req.Price != nil {
			ft.Price = *req.Price
		}
		if req.Description != nil {
			ft.Description = utils.StringPtr(*req.Description)
		}
		if req.IsActive != nil {
			ft.IsActive = *req.IsActive
		}

		if err := s.ensureUnique(ctx, ft.ID, ft.Name, ft.Slug); err != nil {
			return err
		}

		if deleted, err = s.guardAndCleanup(ctx, ft.ID); err != nil {
			return err
		}

		ft.UpdatedAt = s.now()
		return s.repo.FunctionType.Update(ctx, ft)
	})
	if err != nil {
		return nil, s.storeError("update function type", err)
	}

	s.log.Info("Function type updated",
		zap.String("function_type_id", ft.ID.String()),
		zap.Int64("deleted_rejected_bookings", deleted),
	)

	return mutationResponse(ft, deleted), nil
}

// ChangeFunctionTypeStatus activates without conditions. Deactivation is
// subject to the same booking guard and cleanup as an update.
func (s *functionTypeService) ChangeFunctionTypeStatus(ctx context.Context, id string, req *request.ChangeFunctionTypeStatusRequest) (*response.FunctionTypeMutationResponse, error) {
	ftID, err := parseID(id, "function type")
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	activate := *req.IsActive

	var ft *entity.FunctionType
	var deleted int64
	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		ft, err = s.repo.FunctionType.FindByID(ctx, ftID)
		if err != nil {
			return err
		}
		if ft == nil {
			return functionTypeNotFound()
		}

		if !activate {
			if deleted, err = s.guardAndCleanup(ctx, ft.ID); err != nil {
				return err
			}
		}

		ft.IsActive = activate
		ft.UpdatedAt = s.now()
		return s.repo.FunctionType.Update(ctx, ft)
	})
	if err != nil {
		return nil, s.storeError("change function type status", err)
	}

	s.log.Info("Function type status changed",
		zap.String("function_type_id", ft.ID.String()),
		zap.Bool("is_active", ft.IsActive),
		zap.Int64("deleted_rejected_bookings", deleted),
	)

	return mutationResponse(ft, deleted), nil
}

// DeleteFunctionType refuses while pending or accepted bookings reference the
// entry. Rejected bookings keep their label and lose the reference.
func (s *functionTypeService) DeleteFunctionType(ctx context.Context, id string) error {
	ftID, err := parseID(id, "function type")
	if err != nil {
		return err
	}

	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		ft, err := s.repo.FunctionType.FindByID(ctx, ftID)
		if err != nil {
			return err
		}
		if ft == nil {
			return functionTypeNotFound()
		}

		counts, err := s.repo.Booking.CountByFunctionType(ctx, ft.ID)
		if err != nil {
			return err
		}
		if counts.Active() > 0 {
			return activeBookingsExist(ft.ID, counts, "delete")
		}

		return s.repo.FunctionType.Delete(ctx, ft.ID)
	})
	if err != nil {
		return s.storeError("delete function type", err)
	}

	s.log.Info("Function type deleted", zap.String("function_type_id", ftID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *functionTypeService) ensureUnique(ctx context.Context, id uuid.UUID, name, slug string) error {
	byName, err := s.repo.FunctionType.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != id {
		return apperror.Conflict(apperror.CodeDuplicateName,
			fmt.Sprintf("A function type named %q already exists", name))
	}

	bySlug, err := s.repo.FunctionType.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if bySlug != nil && bySlug.ID != id {
		return apperror.Conflict(apperror.CodeDuplicateSlug,
			fmt.Sprintf("A function type with slug %q already exists", slug))
	}

	return nil
}

// guardAndCleanup blocks changes while live bookings exist and otherwise
// deletes the rejected bookings that reference the function type.
func (s *functionTypeService) guardAndCleanup(ctx context.Context, id uuid.UUID) (int64, error) {
	counts, err := s.repo.Booking.CountByFunctionType(ctx, id)
	if err != nil {
		return 0, err
	}
	if counts.Active() > 0 {
		return 0, activeBookingsExist(id, counts, "modify")
	}
	if counts.Rejected == 0 {
		return 0, nil
	}
	return s.repo.Booking.DeleteRejectedByFunctionType(ctx, id)
}

func (s *functionTypeService) storeError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if constraint, ok := database.IsUniqueViolation(err); ok {
		if strings.Contains(constraint, "slug") {
			return apperror.Conflict(apperror.CodeDuplicateSlug, "A function type with this slug already exists")
		}
		return apperror.Conflict(apperror.CodeDuplicateName, "A function type with this name already exists")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return functionTypeNotFound()
	}

	s.log.Error("Function type operation failed", zap.String("op", op), zap.Error(err))
	return apperror.Internal("failed to "+op, err)
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperror.Validation(apperror.CodeValidation, "Function type name is required").
			WithDetails(map[string]string{"name": "This field is required"})
	}
	if utf8.RuneCountInString(name) > maxFunctionTypeNameLength {
		return "", apperror.Validation(apperror.CodeValidation,
			fmt.Sprintf("Function type name must be at most %d characters", maxFunctionTypeNameLength)).
			WithDetails(map[string]string{"name": fmt.Sprintf("Maximum length is %d", maxFunctionTypeNameLength)})
	}
	return name, nil
}

func activeBookingsExist(id uuid.UUID, counts entity.BookingCounts, action string) error {
	return apperror.Conflict(apperror.CodeActiveBookingsExist,
		fmt.Sprintf("Cannot %s function type with %d pending and %d accepted booking(s)",
			action, counts.Pending, counts.Accepted)).
		WithDetails(response.ActiveBookingsDetail{
			FunctionTypeID: id.String(),
			Bookings:       counts,
		})
}

func functionTypeNotFound() error {
	return apperror.NotFound(apperror.CodeFunctionTypeNotFound, "Function type not found")
}

func mutationResponse(ft *entity.FunctionType, deleted int64) *response.FunctionTypeMutationResponse {
	resp := &response.FunctionTypeMutationResponse{
		FunctionType:            response.FunctionTypeToResponse(ft),
		DeletedRejectedBookings: deleted,
	}
	if deleted > 0 {
		warning := fmt.Sprintf("%d rejected booking(s) were deleted", deleted)
		resp.Warning = &warning
	}
	return resp
}
