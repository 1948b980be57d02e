package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
)

const upcomingLimit = 10

type Service struct {
	repo   repository.AppointmentRepository
	cache  *cache.Cache
	logger zerolog.Logger
}

// NewService builds the dashboard/analytics service. Analytics responses are
// cached per personnel for analyticsTTL; pass zero to disable caching.
func NewService(repo repository.AppointmentRepository, analyticsTTL time.Duration, logger zerolog.Logger) *Service {
	var c *cache.Cache
	if analyticsTTL > 0 {
		c = cache.New(analyticsTTL, 2*analyticsTTL)
	}
	return &Service{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// Dashboard assembles today's schedule, the next scheduled/confirmed
// appointments and the distinct patient count in one payload.
func (s *Service) Dashboard(ctx context.Context, personnelID uuid.UUID) (*model.Dashboard, error) {
	now := time.Now()

	today, err := s.repo.ListForDay(ctx, personnelID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's appointments: %w", err)
	}

	upcoming, err := s.repo.ListUpcoming(ctx, personnelID, now, upcomingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming appointments: %w", err)
	}

	totalPatients, err := s.repo.CountDistinctPatients(ctx, personnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	if today == nil {
		today = []*model.AppointmentWithPatient{}
	}
	if upcoming == nil {
		upcoming = []*model.AppointmentWithPatient{}
	}

	return &model.Dashboard{
		TodayAppointments:    today,
		UpcomingAppointments: upcoming,
		TotalPatients:        totalPatients,
	}, nil
}

// Analytics returns aggregate counters plus the trailing-six-months
// histogram. Months without appointments are absent from the histogram.
func (s *Service) Analytics(ctx context.Context, personnelID uuid.UUID) (*model.Analytics, error) {
	cacheKey := personnelID.String()
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			return cached.(*model.Analytics), nil
		}
	}

	now := time.Now()

	stats, err := s.repo.GetStats(ctx, personnelID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment stats: %w", err)
	}

	from := sixMonthsWindowStart(now)
	monthly, err := s.repo.MonthlyCounts(ctx, personnelID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly counts: %w", err)
	}
	if monthly == nil {
		monthly = []model.MonthlyCount{}
	}

	analytics := &model.Analytics{
		AppointmentStats:    *stats,
		MonthlyAppointments: monthly,
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, analytics, cache.DefaultExpiration)
	}
	return analytics, nil
}

// sixMonthsWindowStart is the first instant of the calendar month five
// months before now's month, so the window spans six months including the
// current one.
func sixMonthsWindowStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-5, 1, 0, 0, 0, 0, now.Location())
}
