package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// AttendanceService handles the daily call and its derived reports.
type AttendanceService interface {
	SaveDay(ctx context.Context, cohortID int64, date string, entries []models.AttendanceEntry) error
	List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, error)
	MonthlyReport(ctx context.Context, cohortID int64, month string) (*models.MonthlyReport, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

type attendanceService struct {
	attendance repositories.AttendanceRepository
	cohorts    repositories.CohortRepository
	students   repositories.StudentRepository
	logger     *zap.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	attendance repositories.AttendanceRepository,
	cohorts repositories.CohortRepository,
	students repositories.StudentRepository,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		cohorts:    cohorts,
		students:   students,
		logger:     logger.Named("attendance"),
	}
}

var _ AttendanceService = (*attendanceService)(nil)

// SaveDay records one day's call for a cohort. Resubmitting the same day
// replaces the prior records (delete-then-insert per slot).
func (s *attendanceService) SaveDay(ctx context.Context, cohortID int64, date string, entries []models.AttendanceEntry) error {
	if cohortID == 0 || date == "" || len(entries) == 0 {
		return fmt.Errorf("%w: turma_id, data and registros are required", apperrors.ErrValidation)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, date)
	}
	if _, err := s.cohorts.GetByID(ctx, cohortID); err != nil {
		return err
	}

	weekday := models.WeekdayNamePT(day.Weekday())
	if err := s.attendance.ReplaceDay(ctx, cohortID, date, weekday, entries); err != nil {
		return err
	}

	s.logger.Info("Attendance saved",
		zap.Int64("cohort_id", cohortID),
		zap.String("date", date),
		zap.Int("entries", len(entries)))
	return nil
}

func (s *attendanceService) List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	return s.attendance.List(ctx, filters)
}

// MonthlyReport builds the per-student month grid for one cohort.
func (s *attendanceService) MonthlyReport(ctx context.Context, cohortID int64, month string) (*models.MonthlyReport, error) {
	if cohortID == 0 || month == "" {
		return nil, fmt.Errorf("%w: turma_id and mes are required", apperrors.ErrValidation)
	}

	cohort, err := s.cohorts.GetByID(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	roster, err := s.students.List(ctx, &cohortID, "")
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.MonthDetail(ctx, cohortID, month)
	if err != nil {
		return nil, err
	}

	details := make(map[int64]map[string]models.DayDetail)
	dateSet := make(map[string]struct{})
	for _, rec := range records {
		if details[rec.StudentID] == nil {
			details[rec.StudentID] = make(map[string]models.DayDetail)
		}
		details[rec.StudentID][rec.Date] = models.DayDetail{Present: rec.Present, Note: rec.Note}
		dateSet[rec.Date] = struct{}{}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	report := &models.MonthlyReport{
		CohortName: cohort.Name,
		Month:      month,
		Dates:      dates,
	}
	for _, student := range roster {
		studentDays := details[student.ID]
		line := models.MonthlyStudent{
			StudentID:  student.ID,
			Name:       student.Name,
			RA:         student.RA,
			CallNumber: student.CallNumber,
			Details:    studentDays,
		}
		for _, day := range studentDays {
			if day.Present {
				line.Presences++
			} else {
				line.Absences++
			}
		}
		line.TotalDays = line.Presences + line.Absences
		line.Percentage = Percentage(line.Presences, line.Absences)
		report.Students = append(report.Students, line)
	}
	return report, nil
}

// Dashboard assembles the headline monitoring numbers.
func (s *attendanceService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	cohorts, err := s.cohorts.List(ctx)
	if err != nil {
		return nil, err
	}
	presences, absences, err := s.attendance.TotalCounts(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.attendance.RecentDailyCounts(ctx, 60)
	if err != nil {
		return nil, err
	}

	dash := &models.Dashboard{
		Summary: models.DashboardSummary{
			Cohorts:           len(cohorts),
			AttendancePct:     Percentage(presences, absences),
			AttendanceRecords: presences + absences,
		},
	}

	var cohortIDs []int64
	for _, c := range cohorts {
		dash.Summary.Students += c.StudentCount
		cohortIDs = append(cohortIDs, c.ID)
	}

	if len(cohortIDs) > 0 {
		counts, err := s.attendance.CohortCountsRange(ctx, cohortIDs, "0001-01-01", "9999-12-31")
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			dash.PerCohort = append(dash.PerCohort, models.CohortAttendance{
				CohortID:   c.CohortID,
				CohortName: c.CohortName,
				Presences:  c.Presences,
				Absences:   c.Absences,
				Percentage: Percentage(c.Presences, c.Absences),
			})
		}
	}

	for _, d := range recent {
		dash.DailySeries = append(dash.DailySeries, models.DailyAttendance{
			Date:       d.Date,
			Total:      d.Total,
			Presences:  d.Presences,
			Percentage: Percentage(d.Presences, d.Total-d.Presences),
		})
	}
	return dash, nil
}

// Percentage derives a presence percentage rounded to one decimal place.
// An empty denominator yields 0, never NaN.
func Percentage(presences, absences int) float64 {
	total := presences + absences
	if total == 0 {
		return 0
	}
	return math.Round(float64(presences)/float64(total)*1000) / 10
}
