package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/config"
	"leavedesk/internal/role"
)

const resetTokenKeyPrefix = "auth:reset:"

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	// GenerateResetLink mints a single-use token for the target user and
	// returns the full URL the admin hands over out of band. There is no
	// email delivery; the link itself is the product.
	GenerateResetLink(ctx context.Context, actor role.Actor, userID string) (ResetLinkResponse, error)

	ResetPassword(ctx context.Context, token, newPassword string) error
}

type service struct {
	repo     Repository
	roleRepo role.Repository
	rdb      *redis.Client
	cfg      config.Config
	now      func() time.Time
}

func NewService(repo Repository, roleRepo role.Repository, rdb *redis.Client, cfg config.Config) Service {
	return &service{
		repo:     repo,
		roleRepo: roleRepo,
		rdb:      rdb,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	roles, err := s.heldRoles(ctx, account.ID)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	accessToken, err := s.generateToken(account.ID.String(), roles, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(account.ID.String(), roles, s.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, AuthResponse{
		ID:       account.ID.String(),
		FullName: account.FullName,
		Email:    account.Email,
		Roles:    roles,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotFound
	}

	// Roles are re-read on refresh so a grant or revoke takes effect at
	// the next token rotation rather than waiting out the refresh TTL.
	roles, err := s.heldRoles(ctx, account.ID)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	newAccessToken, err := s.generateToken(account.ID.String(), roles, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(account.ID.String(), roles, s.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, AuthResponse{
		ID:       account.ID.String(),
		FullName: account.FullName,
		Email:    account.Email,
		Roles:    roles,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrAccountNotFound
	}

	roles, err := s.heldRoles(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		ID:       account.ID.String(),
		FullName: account.FullName,
		Email:    account.Email,
		Roles:    roles,
	}, nil
}

func (s *service) GenerateResetLink(ctx context.Context, actor role.Actor, userID string) (ResetLinkResponse, error) {
	if !actor.HasAny(role.Admin) {
		return ResetLinkResponse{}, autherrors.ErrAdminRequired
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return ResetLinkResponse{}, autherrors.ErrInvalidUserID
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ResetLinkResponse{}, autherrors.ErrAccountNotFound
	}

	token := uuid.NewString()
	key := resetTokenKeyPrefix + token
	if err := s.rdb.Set(ctx, key, account.ID.String(), s.cfg.ResetTokenTTL).Err(); err != nil {
		return ResetLinkResponse{}, err
	}

	return ResetLinkResponse{
		ResetURL:  fmt.Sprintf("%s/reset-password?token=%s", s.cfg.AppBaseURL, token),
		ExpiresAt: s.now().Add(s.cfg.ResetTokenTTL).UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	key := resetTokenKeyPrefix + token

	// GETDEL makes the token single use even under concurrent submits.
	userIDStr, err := s.rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return autherrors.ErrResetTokenInvalid
	}
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return autherrors.ErrResetTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}

func (s *service) heldRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	grants, err := s.roleRepo.ListByUser(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	roles := make([]string, len(grants))
	for i, g := range grants {
		roles[i] = g.Role
	}
	return roles, nil
}

func (s *service) generateToken(userID string, roles []string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"roles":   roles,
		"exp":     s.now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
