package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

const statsCacheTTL = 30 * time.Second

// DashboardService serves aggregate ticket statistics with a short redis
// cache in front of the aggregate queries.
type DashboardService struct {
	stats  repository.DashboardRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewDashboardService constructs the service. A nil cache disables caching.
func NewDashboardService(stats repository.DashboardRepository, cache *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{stats: stats, cache: cache, logger: logger}
}

// Stats returns dashboard counters, optionally scoped to a branch. Staff only.
func (s *DashboardService) Stats(ctx context.Context, actor *domain.User, branch *domain.Branch) (*repository.DashboardStats, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if branch != nil && !branch.Valid() {
		return nil, apperrors.NewValidationError("unknown branch", map[string]any{"branch": *branch})
	}

	key := s.cacheKey(branch)
	if cached := s.readCache(ctx, key); cached != nil {
		return cached, nil
	}

	stats, err := s.stats.Stats(ctx, branch)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.writeCache(ctx, key, stats)
	return stats, nil
}

func (s *DashboardService) cacheKey(branch *domain.Branch) string {
	if branch == nil {
		return "dashboard:stats:all"
	}
	return fmt.Sprintf("dashboard:stats:%s", *branch)
}

func (s *DashboardService) readCache(ctx context.Context, key string) *repository.DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var stats repository.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *DashboardService) writeCache(ctx context.Context, key string, stats *repository.DashboardStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}
