package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// CriticalThreshold is the presence percentage below which a student is
// flagged for intervention. Exactly 75.0 is not critical.
const CriticalThreshold = 75.0

// criticalListCap bounds the low-attendance list to the worst cases.
const criticalListCap = 50

// AggregationService computes attendance metrics at class and system
// granularity over period-derived date ranges.
type AggregationService interface {
	Aggregate(ctx context.Context, period models.PeriodType, ref time.Time, shift, level string) (*models.AggregateResult, error)
}

type aggregationService struct {
	attendance repositories.AttendanceRepository
	cohorts    repositories.CohortRepository
	students   repositories.StudentRepository
	logger     *zap.Logger
}

// NewAggregationService creates a new AggregationService.
func NewAggregationService(
	attendance repositories.AttendanceRepository,
	cohorts repositories.CohortRepository,
	students repositories.StudentRepository,
	logger *zap.Logger,
) AggregationService {
	return &aggregationService{
		attendance: attendance,
		cohorts:    cohorts,
		students:   students,
		logger:     logger.Named("aggregation"),
	}
}

var _ AggregationService = (*aggregationService)(nil)

func (s *aggregationService) Aggregate(ctx context.Context, period models.PeriodType, ref time.Time, shift, level string) (*models.AggregateResult, error) {
	dateRange, err := ResolvePeriod(period, ref)
	if err != nil {
		return nil, err
	}
	tokens, err := SelectTokens(shift, level)
	if err != nil {
		return nil, err
	}

	all, err := s.cohorts.List(ctx)
	if err != nil {
		return nil, err
	}
	var selected []*models.Cohort
	for _, c := range all {
		if tokens != nil {
			if _, ok := tokens[c.Name]; !ok {
				continue
			}
		}
		selected = append(selected, c)
	}

	result := &models.AggregateResult{
		Period:  period,
		Range:   dateRange,
		Filters: models.AggregateFilters{Shift: shift, Level: level},
	}
	result.Summary.CohortCount = len(selected)
	if len(selected) == 0 {
		return result, nil
	}

	ids := make([]int64, len(selected))
	for i, c := range selected {
		ids[i] = c.ID
	}

	counts, err := s.attendance.CohortCountsRange(ctx, ids, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, err
	}
	byCohort := make(map[int64]repositories.CohortCounts, len(counts))
	for _, c := range counts {
		byCohort[c.CohortID] = c
	}

	for _, c := range selected {
		cc := byCohort[c.ID]
		result.PerCohort = append(result.PerCohort, models.CohortAttendance{
			CohortID:   c.ID,
			CohortName: c.Name,
			Presences:  cc.Presences,
			Absences:   cc.Absences,
			Percentage: Percentage(cc.Presences, cc.Absences),
		})
		result.Summary.TotalPresences += cc.Presences
		result.Summary.TotalAbsences += cc.Absences
	}
	// Percentage of the summed counts, deliberately not the average of the
	// per-class percentages: classes of different sizes must weigh in
	// proportionally.
	result.Summary.MeanPercentage = Percentage(result.Summary.TotalPresences, result.Summary.TotalAbsences)

	studentCount, err := s.students.CountActive(ctx, ids)
	if err != nil {
		return nil, err
	}
	result.Summary.StudentCount = studentCount

	critical, err := s.criticalStudents(ctx, ids, dateRange)
	if err != nil {
		return nil, err
	}
	result.CriticalStudents = critical

	daily, err := s.attendance.DailyCountsRange(ctx, ids, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, err
	}
	for _, d := range daily {
		result.DailySeries = append(result.DailySeries, models.DailyAttendance{
			Date:       d.Date,
			Total:      d.Total,
			Presences:  d.Presences,
			Percentage: Percentage(d.Presences, d.Total-d.Presences),
		})
	}

	return result, nil
}

// criticalStudents lists active students below the threshold over the
// range, worst ratio first, capped. Students with no recorded days in range
// are neither critical nor regular: they simply do not appear.
func (s *aggregationService) criticalStudents(ctx context.Context, cohortIDs []int64, dateRange models.DateRange) ([]models.CriticalStudent, error) {
	counts, err := s.attendance.StudentCountsRange(ctx, cohortIDs, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, err
	}

	var critical []models.CriticalStudent
	for _, c := range counts {
		total := c.Presences + c.Absences
		if total == 0 {
			continue
		}
		pct := Percentage(c.Presences, c.Absences)
		if pct >= CriticalThreshold {
			continue
		}
		critical = append(critical, models.CriticalStudent{
			StudentID:  c.StudentID,
			Name:       c.Name,
			RA:         c.RA,
			CohortName: c.CohortName,
			Presences:  c.Presences,
			Absences:   c.Absences,
			TotalDays:  total,
			Percentage: pct,
		})
	}

	sort.SliceStable(critical, func(i, j int) bool {
		ri := float64(critical[i].Presences) / float64(critical[i].TotalDays)
		rj := float64(critical[j].Presences) / float64(critical[j].TotalDays)
		return ri < rj
	})
	if len(critical) > criticalListCap {
		critical = critical[:criticalListCap]
	}
	return critical, nil
}
