package domain

import "context"

// Statistics summarizes the system for the admin dashboard.
type Statistics struct {
	TotalAccounts   int              `json:"total_accounts"`
	TotalEvents     int              `json:"total_events"`
	TotalCategories int              `json:"total_categories"`
	TotalRSVPs      int              `json:"total_rsvps"`
	UpcomingEvents  int              `json:"upcoming_events"`
	PastEvents      int              `json:"past_events"`
	RoleCounts      map[RoleName]int `json:"role_counts"`
	PopularEvents   []*Event         `json:"popular_events"`
}

// StatsService computes dashboard statistics.
type StatsService interface {
	Statistics(ctx context.Context) (*Statistics, error)
}
