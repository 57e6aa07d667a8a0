package services

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/domain"
)

const popularEventsLimit = 5

// StatsService aggregates dashboard statistics straight from the store.
type StatsService struct {
	repos domain.Repositories
	now   func() time.Time
}

func NewStatsService(repos domain.Repositories) *StatsService {
	return &StatsService{repos: repos, now: time.Now}
}

func (s *StatsService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}
	var err error
	if stats.TotalAccounts, err = s.repos.Accounts.Count(ctx); err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	if stats.TotalEvents, err = s.repos.Events.Count(ctx); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if stats.TotalCategories, err = s.repos.Categories.Count(ctx); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if stats.TotalRSVPs, err = s.repos.RSVPs.Count(ctx); err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	if stats.UpcomingEvents, stats.PastEvents, err = s.repos.Events.CountUpcomingAndPast(ctx, dateOf(s.now())); err != nil {
		return nil, fmt.Errorf("count events by date: %w", err)
	}
	if stats.RoleCounts, err = s.repos.Roles.CountMembers(ctx); err != nil {
		return nil, fmt.Errorf("count role members: %w", err)
	}
	if stats.PopularEvents, err = s.repos.Events.ListPopular(ctx, popularEventsLimit); err != nil {
		return nil, fmt.Errorf("list popular events: %w", err)
	}
	return stats, nil
}

var _ domain.StatsService = (*StatsService)(nil)
