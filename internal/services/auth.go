package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/requestdata"
	"github.com/maplecart/storefront-backend/internal/types"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type accessClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo, jwtSecretKey string, accessTTL, refreshTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, name, email, password string) (*types.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", apperr.ErrInvalidArgument)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already in use: %w", apperr.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     types.RoleCustomer,
	}
	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", apperr.ErrInvalidArgument)
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	return as.issueTokens(ctx, user)
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token required: %w", apperr.ErrInvalidArgument)
	}

	var pair *TokenPair
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			return fmt.Errorf("unknown refresh token: %w", apperr.ErrUnauthorized)
		}
		if time.Now().After(stored.ExpiresAt) {
			_ = as.userTokenRepo.DeleteByRefreshToken(ctx, tx, refreshToken)
			return fmt.Errorf("refresh token expired: %w", apperr.ErrUnauthorized)
		}
		user, err := as.userRepo.GetByID(ctx, tx, stored.UserID)
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.DeleteByRefreshToken(ctx, tx, refreshToken); err != nil {
			return err
		}
		issued, err := as.issueTokensTx(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh token required: %w", apperr.ErrInvalidArgument)
	}
	return as.userTokenRepo.DeleteByRefreshToken(ctx, nil, refreshToken)
}

// SetContextFromToken validates an access token and stamps the caller's
// identity into the request context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid access token: %w", apperr.ErrUnauthorized)
	}
	rd := &requestdata.RequestData{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
	var pair *TokenPair
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issued, err := as.issueTokensTx(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) issueTokensTx(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	now := time.Now()
	claims := &accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken := uuid.NewString()
	row := &types.UserToken{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if err := as.userTokenRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
