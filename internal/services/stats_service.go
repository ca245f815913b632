package services

import (
	"context"
	"fmt"
	"time"

	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/constants"
	"metacircle/metasync/internal/metrics"
	"metacircle/metasync/internal/models/entities"
	"metacircle/metasync/internal/store"
)

// StatsTTL bounds how stale the dashboard aggregate may be. The stats scan
// is the only O(everything) query in the store, so it sits behind a short
// TTL cache instead of running on every dashboard poll.
const StatsTTL = 15 * time.Second

type StatsService struct {
	store      store.Store
	cache      common.CacheInterface
	metricsReg *metrics.MetricsRegistry
}

func NewStatsService(st store.Store, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *StatsService {
	return &StatsService{
		store:      st,
		cache:      cache,
		metricsReg: metricsReg,
	}
}

func statsKey(communityID int) string {
	return fmt.Sprintf("%s%d", constants.CachePrefixCommunityStats, communityID)
}

// CommunityStats returns the aggregate for one community, cached for
// StatsTTL.
func (s *StatsService) CommunityStats(ctx context.Context, communityID int) (*entities.CommunityStats, error) {
	key := statsKey(communityID)

	if val, found := s.cache.Get(key); found {
		if s.metricsReg != nil {
			s.metricsReg.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixCommunityStats)).Inc()
		}
		if stats, ok := val.(*entities.CommunityStats); ok {
			return stats, nil
		}
	}
	if s.metricsReg != nil {
		s.metricsReg.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixCommunityStats)).Inc()
	}

	stats, err := s.store.GetCommunityStats(ctx, communityID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, stats, StatsTTL)
	return stats, nil
}

// Invalidate drops the cached aggregate after a mutation that is known to
// change it.
func (s *StatsService) Invalidate(communityID int) {
	s.cache.Delete(statsKey(communityID))
}
