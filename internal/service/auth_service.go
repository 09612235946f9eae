package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/uofr/urcourses-teststudent/internal/auth"
	"github.com/uofr/urcourses-teststudent/internal/config"
	"github.com/uofr/urcourses-teststudent/internal/domain"
	"github.com/uofr/urcourses-teststudent/internal/repository"
	apperrors "github.com/uofr/urcourses-teststudent/pkg/util"
)

// AuthService authenticates staff and issues session tokens.
type AuthService struct {
	directory repository.DirectoryRepository
	tokenMgr  *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, directory repository.DirectoryRepository) *AuthService {
	return &AuthService{
		directory: directory,
		tokenMgr:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// LoginStaff authenticates a staff member by username and password.
func (s *AuthService) LoginStaff(ctx context.Context, username, password string) (*domain.StaffIdentity, string, time.Time, error) {
	staff, hash, err := s.directory.GetStaffCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(hash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
