package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/cache"
	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/phone"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// Cache keys and TTLs for the two derived tables this service reads. Both
// tolerate short staleness; refresh happens lazily on first access past
// expiry.
const (
	externalStatsKey = "external_stats"
	externalStatsTTL = 60 * time.Second

	phoneSourcesKey = "phone_sources"
	phoneSourcesTTL = 120 * time.Second
)

// AlertService crosses the external reference statistics with local
// contact-channel availability.
type AlertService interface {
	ClassAlerts(ctx context.Context) ([]models.ClassAlert, error)
	ImportStats(ctx context.Context, stats []models.ExternalClassStat) error
}

type alertService struct {
	stats    repositories.ExternalStatRepository
	students repositories.StudentRepository
	cohorts  repositories.CohortRepository
	cache    *cache.Store
	logger   *zap.Logger
}

// NewAlertService creates a new AlertService.
func NewAlertService(
	stats repositories.ExternalStatRepository,
	students repositories.StudentRepository,
	cohorts repositories.CohortRepository,
	store *cache.Store,
	logger *zap.Logger,
) AlertService {
	return &alertService{
		stats:    stats,
		students: students,
		cohorts:  cohorts,
		cache:    store,
		logger:   logger.Named("alerts"),
	}
}

var _ AlertService = (*alertService)(nil)

func (s *alertService) ClassAlerts(ctx context.Context) ([]models.ClassAlert, error) {
	stats, err := s.cachedStats(ctx)
	if err != nil {
		return nil, err
	}
	reachable, unreachable, err := s.contactCountsByToken(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []models.ClassAlert
	for _, stat := range stats {
		parsed := ParseClassLabel(stat.ClassLabel)
		alerts = append(alerts, models.ClassAlert{
			ClassLabel:  stat.ClassLabel,
			Token:       parsed.Token,
			Shift:       parsed.Shift,
			Period:      stat.Period,
			PresencePct: stat.PresencePct,
			Severity:    models.ClassifySeverity(stat.PresencePct),
			Reachable:   reachable[parsed.Token],
			Unreachable: unreachable[parsed.Token],
		})
	}
	return alerts, nil
}

// ImportStats replaces the reference table and drops its cached derivation.
func (s *alertService) ImportStats(ctx context.Context, stats []models.ExternalClassStat) error {
	if err := s.stats.ReplaceAll(ctx, stats); err != nil {
		return err
	}
	s.cache.Invalidate(externalStatsKey)
	s.logger.Info("External statistics replaced", zap.Int("rows", len(stats)))
	return nil
}

func (s *alertService) cachedStats(ctx context.Context) ([]models.ExternalClassStat, error) {
	value, err := s.cache.GetOrRefresh(ctx, externalStatsKey, externalStatsTTL,
		func(ctx context.Context) (any, error) {
			return s.stats.ListAll(ctx)
		})
	if err != nil {
		return nil, err
	}
	return value.([]models.ExternalClassStat), nil
}

// contactCountsByToken derives, per class token, how many active students
// have at least one extractable mobile number.
func (s *alertService) contactCountsByToken(ctx context.Context) (map[string]int, map[string]int, error) {
	value, err := s.cache.GetOrRefresh(ctx, phoneSourcesKey, phoneSourcesTTL,
		func(ctx context.Context) (any, error) {
			return s.students.ListPhoneSources(ctx)
		})
	if err != nil {
		return nil, nil, err
	}
	sources := value.([]repositories.PhoneSource)

	cohorts, err := s.cohorts.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	tokenByCohort := make(map[int64]string, len(cohorts))
	for _, c := range cohorts {
		tokenByCohort[c.ID] = c.Name
	}

	reachable := make(map[string]int)
	unreachable := make(map[string]int)
	for _, src := range sources {
		token, ok := tokenByCohort[src.CohortID]
		if !ok {
			continue
		}
		if phone.HasMessagingChannel(src.Blob) {
			reachable[token]++
		} else {
			unreachable[token]++
		}
	}
	return reachable, unreachable, nil
}
