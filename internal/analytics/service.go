// Package analytics computes nutritionist engagement statistics, upcoming
// birthdays and weight and sleep summaries from stored records.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrition-coach/internal/database"
	"nutrition-coach/internal/models"
	"nutrition-coach/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const noReferralsMsg = "No referrals found for this nutritionist."

// Cache is the subset of cache.Cache the service reads through.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type Service struct {
	db      database.Database
	cache   Cache
	loc     *time.Location
	now     func() time.Time
	sfGroup singleflight.Group
}

func NewService(db database.Database, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		db:  db,
		loc: loc,
		now: time.Now,
	}
}

// WithCache enables read-through caching of nutritionist responses.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) currentTime() time.Time {
	return s.now().In(s.loc)
}

// cached serves key from the cache when present, otherwise computes it once
// across concurrent callers and stores the result. compute gets a context
// that ignores the caller's cancellation.
func (s *Service) cached(ctx context.Context, key string, dest any, compute func(ctx context.Context) (any, error)) (any, error) {
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			logger.Error("Cache read failed for %s: %v", key, err)
		}
		if found {
			logger.Debug("Cache hit for %s", key)
			return dest, nil
		}
	}

	shared := context.WithoutCancel(ctx)
	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return compute(shared)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, val); err != nil {
			logger.Error("Cache write failed for %s: %v", key, err)
		}
	}
	return val, nil
}

func (s *Service) ClientsLastLogin(ctx context.Context, nutritionistID int) (*models.ClientsLastLoginResponse, error) {
	key := fmt.Sprintf("last-login:%d", nutritionistID)
	val, err := s.cached(ctx, key, &models.ClientsLastLoginResponse{}, func(ctx context.Context) (any, error) {
		return s.clientsLastLogin(ctx, nutritionistID)
	})
	if err != nil {
		return nil, err
	}
	return val.(*models.ClientsLastLoginResponse), nil
}

func (s *Service) clientsLastLogin(ctx context.Context, nutritionistID int) (*models.ClientsLastLoginResponse, error) {
	ids, err := s.db.ClientIDsForNutritionist(ctx, nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}

	if len(ids) == 0 {
		return &models.ClientsLastLoginResponse{
			NutritionistID: nutritionistID,
			TotalClients:   0,
			Clients:        []models.ClientWithLogin{},
			Analytics:      EmptyEngagement(),
			Msg:            noReferralsMsg,
		}, nil
	}

	var (
		profiles   []*models.ClientProfile
		lastLogins map[int]time.Time
		records    []*models.LoginRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.db.GetClientProfiles(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		lastLogins, err = s.db.LastLogins(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.db.ListLogins(gctx, ids, time.Time{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load login analytics: %w", err)
	}

	clients := make([]models.ClientWithLogin, 0, len(profiles))
	for _, p := range profiles {
		c := models.ClientWithLogin{
			UserID: p.UserID,
			Name:   p.Name,
			Email:  p.Email,
			Mobile: p.Mobile,
		}
		if t, ok := lastLogins[p.UserID]; ok {
			formatted := t.In(s.loc).Format(time.RFC3339)
			c.LastLogin = &formatted
		}
		clients = append(clients, c)
	}

	now := s.currentTime()
	return &models.ClientsLastLoginResponse{
		NutritionistID: nutritionistID,
		TotalClients:   len(ids),
		Clients:        clients,
		Analytics: models.EngagementAnalytics{
			Overview:        CountActivity(records, now).Overview(),
			HourlyBreakdown: WeekdayHistogram(records, s.loc),
			PeakHours:       PeakTwoHourWindow(records, s.loc),
		},
	}, nil
}

func (s *Service) UpcomingBirthdays(ctx context.Context, nutritionistID int) (*models.UpcomingBirthdaysResponse, error) {
	resp := &models.UpcomingBirthdaysResponse{
		NutritionistID:    nutritionistID,
		UpcomingBirthdays: []models.UpcomingBirthday{},
	}

	ids, err := s.db.ClientIDsForNutritionist(ctx, nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}
	if len(ids) == 0 {
		return resp, nil
	}

	roster, err := s.db.GetClientProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load client roster: %w", err)
	}

	resp.UpcomingBirthdays = UpcomingBirthdays(roster, s.currentTime())
	resp.TotalUpcomingBirthdays = len(resp.UpcomingBirthdays)
	return resp, nil
}

func (s *Service) WeightLogs(ctx context.Context, userID int, modeName string) (*models.WeightLogsResponse, error) {
	mode, err := ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	now := s.currentTime()
	var (
		entries []*models.WeightEntry
		bmi     *float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.db.ListWeightEntries(gctx, userID, WeightWindowStart(mode, now))
		return err
	})
	g.Go(func() error {
		profile, err := s.db.GetClientProfile(gctx, userID)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		bmi = profile.BMI
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load weight log: %w", err)
	}

	resp := &models.WeightLogsResponse{UserID: userID, Mode: string(mode)}
	var values []float64
	switch mode {
	case ModeWeekly:
		resp.Logs, values = WeeklyBuckets(entries, now)
	case ModeMonthly:
		resp.Logs, values = MonthlyBuckets(entries, now)
	default:
		resp.Logs, values = DailyBuckets(entries, now)
	}
	resp.WeightTrend = SummarizeTrend(values, bmi)
	return resp, nil
}

func (s *Service) SleepSummary(ctx context.Context, userID int, modeName string) (*models.SleepSummaryResponse, error) {
	mode, err := ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	entries, err := s.db.ListSleepEntries(ctx, userID, SleepWindowStart(mode, s.currentTime()))
	if err != nil {
		return nil, fmt.Errorf("failed to load sleep log: %w", err)
	}

	summary := SummarizeSleep(entries, mode, s.loc)
	return &summary, nil
}
