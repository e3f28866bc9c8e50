package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/types"
)

type UserService interface {
	GetUser(ctx context.Context, userID uint) (*types.User, error)
	ListUsers(ctx context.Context, limit int) ([]*types.User, error)
	UpdateUser(ctx context.Context, userID uint, name, email string) (*types.User, error)
	DeleteUser(ctx context.Context, userID uint) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetUser(ctx context.Context, userID uint) (*types.User, error) {
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) ListUsers(ctx context.Context, limit int) ([]*types.User, error) {
	return us.userRepo.List(ctx, nil, normalizeLimit(limit))
}

func (us *userService) UpdateUser(ctx context.Context, userID uint, name, email string) (*types.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" && email == "" {
		return nil, fmt.Errorf("no user updates provided: %w", apperr.ErrInvalidArgument)
	}

	updates := map[string]any{}
	if name != "" {
		updates["name"] = name
	}
	if email != "" {
		updates["email"] = email
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userRepo.Update(ctx, tx, userID, updates); err != nil {
			return err
		}
		reloaded, err := us.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		out = reloaded
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) DeleteUser(ctx context.Context, userID uint) error {
	return us.userRepo.Delete(ctx, nil, userID)
}
