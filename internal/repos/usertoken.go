package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) error
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)
	DeleteByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (tr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Create(token).Error
}

func (tr *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.UserToken
	if err := transaction.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (tr *userTokenRepo) DeleteByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		Delete(&types.UserToken{}).Error
}

func (tr *userTokenRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}

func (tr *userTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&types.UserToken{}).Error
}
