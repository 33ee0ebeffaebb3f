package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedFile is the bootstrap data loaded with -seed.
type SeedFile struct {
	Admin         *SeedAdmin         `toml:"admin"`
	FunctionTypes []SeedFunctionType `toml:"function_types"`
}

type SeedAdmin struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

type SeedFunctionType struct {
	Name        string  `toml:"name"`
	Slug        string  `toml:"slug"`
	Price       float64 `toml:"price"`
	Description string  `toml:"description"`
	Inactive    bool    `toml:"inactive"`
}

func LoadSeed(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(string(data))
}

func ParseSeed(data string) (*SeedFile, error) {
	var seed SeedFile
	meta, err := toml.Decode(data, &seed)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown seed keys: %v", undecoded)
	}
	return &seed, nil
}

// Seed creates the admin account and catalog entries that do not exist yet.
// Running it twice is harmless.
func Seed(ctx context.Context, seed *SeedFile, admins repository.AdminRepository, functionTypes usecase.FunctionTypeService, log *zap.Logger) error {
	log = log.With(zap.String("component", "seed"))

	if seed.Admin != nil {
		if err := seedAdmin(ctx, seed.Admin, admins, log); err != nil {
			return err
		}
	}

	created := 0
	for _, ft := range seed.FunctionTypes {
		active := !ft.Inactive
		req := &request.CreateFunctionTypeRequest{
			Name:        ft.Name,
			Slug:        utils.StringPtr(ft.Slug),
			Price:       &ft.Price,
			Description: utils.StringPtr(ft.Description),
			IsActive:    &active,
		}

		if _, err := functionTypes.CreateFunctionType(ctx, req); err != nil {
			switch apperror.CodeOf(err) {
			case apperror.CodeDuplicateName, apperror.CodeDuplicateSlug:
				log.Debug("Function type already present", zap.String("name", ft.Name))
				continue
			}
			return fmt.Errorf("seed function type %q: %w", ft.Name, err)
		}
		created++
	}

	log.Info("Seed applied", zap.Int("function_types_created", created))
	return nil
}

func seedAdmin(ctx context.Context, seed *SeedAdmin, admins repository.AdminRepository, log *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" || len(seed.Password) < 6 {
		return fmt.Errorf("seed admin needs an email and a password of at least 6 characters")
	}

	existing, err := admins.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		log.Debug("Admin already present", zap.String("email", email))
		return nil
	}

	hash, err := utils.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	admin := &entity.Admin{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hash,
	}
	if err := admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("Admin account created", zap.String("email", email))
	return nil
}
