package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uofr/urcourses-teststudent/internal/domain"
	"github.com/uofr/urcourses-teststudent/internal/repository"
)

// EligibilityService decides whether a staff identity may hold a test student
// account. Pure predicate over role assignments; verdicts are cached briefly
// since role assignments change rarely.
type EligibilityService struct {
	roles    repository.RoleAssignmentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewEligibilityService constructs the service. A nil cache client disables
// caching; every check then hits the directory.
func NewEligibilityService(roles repository.RoleAssignmentRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *EligibilityService {
	return &EligibilityService{roles: roles, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// CanManageTestStudent reports whether the staff identity holds any of the
// qualifying roles or is a site administrator. Directory-read errors propagate.
func (s *EligibilityService) CanManageTestStudent(ctx context.Context, staff *domain.StaffIdentity) (bool, error) {
	if staff.SiteAdmin {
		return true, nil
	}

	key := eligibilityCacheKey(staff.ID)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	eligible, err := s.roles.HasAnyRole(ctx, staff.ID, domain.TestStudentManagerRoles)
	if err != nil {
		return false, err
	}

	s.cacheSet(ctx, key, eligible)
	return eligible, nil
}

func (s *EligibilityService) cacheGet(ctx context.Context, key string) (bool, bool) {
	if s.cache == nil {
		return false, false
	}
	val, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("eligibility cache read failed", zap.Error(err))
		}
		return false, false
	}
	return val == "1", true
}

func (s *EligibilityService) cacheSet(ctx context.Context, key string, eligible bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	val := "0"
	if eligible {
		val = "1"
	}
	if err := s.cache.Set(ctx, key, val, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("eligibility cache write failed", zap.Error(err))
	}
}

func eligibilityCacheKey(staffID int64) string {
	return fmt.Sprintf("teststudent:eligible:%d", staffID)
}
