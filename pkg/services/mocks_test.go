package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// mockCohortRepo implements repositories.CohortRepository for testing.
type mockCohortRepo struct {
	cohorts   []*models.Cohort
	nextID    int64
	createErr error
	listErr   error
}

func (m *mockCohortRepo) List(_ context.Context) ([]*models.Cohort, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.cohorts, nil
}

func (m *mockCohortRepo) GetByID(_ context.Context, id int64) (*models.Cohort, error) {
	for _, c := range m.cohorts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCohortRepo) GetByName(_ context.Context, name string) (*models.Cohort, error) {
	for _, c := range m.cohorts {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCohortRepo) Create(_ context.Context, name, description string) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.cohorts = append(m.cohorts, &models.Cohort{ID: m.nextID, Name: name, Description: description})
	return m.nextID, nil
}

func (m *mockCohortRepo) Update(_ context.Context, id int64, name, description string) error {
	for _, c := range m.cohorts {
		if c.ID == id {
			c.Name = name
			c.Description = description
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockCohortRepo) Delete(_ context.Context, id int64) error {
	for i, c := range m.cohorts {
		if c.ID == id {
			m.cohorts = append(m.cohorts[:i], m.cohorts[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// mockStudentRepo implements repositories.StudentRepository for testing.
// Students live as sparse field maps, mirroring how drafts arrive.
type mockStudentRepo struct {
	rows      map[int64]map[string]string
	active    map[int64]bool
	nextID    int64
	refs      []repositories.StudentRef
	counts    []repositories.StudentCounts
	phones    []repositories.PhoneSource
	deleted   []int64
	insertErr error
	updateErr error
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{
		rows:   make(map[int64]map[string]string),
		active: make(map[int64]bool),
	}
}

func (m *mockStudentRepo) List(_ context.Context, cohortID *int64, _ string) ([]*models.Student, error) {
	var result []*models.Student
	for id, fields := range m.rows {
		if !m.active[id] {
			continue
		}
		if cohortID != nil && fields["turma_id"] != strconv.FormatInt(*cohortID, 10) {
			continue
		}
		result = append(result, &models.Student{ID: id, Name: fields["nome"], RA: fields["ra"]})
	}
	return result, nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	fields, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.Student{ID: id, Name: fields["nome"], RA: fields["ra"]}, nil
}

func (m *mockStudentRepo) FindActiveByRA(_ context.Context, ra string, cohortID int64) (int64, bool, error) {
	for id, fields := range m.rows {
		if !m.active[id] {
			continue
		}
		if fields["ra"] == ra && fields["turma_id"] == strconv.FormatInt(cohortID, 10) {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (m *mockStudentRepo) InsertDraft(_ context.Context, fields map[string]string) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	m.rows[m.nextID] = copied
	m.active[m.nextID] = true
	return m.nextID, nil
}

func (m *mockStudentRepo) UpdateDraft(_ context.Context, id int64, fields map[string]string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

func (m *mockStudentRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	m.active[id] = false
	return nil
}

func (m *mockStudentRepo) ListActiveRefs(_ context.Context) ([]repositories.StudentRef, error) {
	return m.refs, nil
}

func (m *mockStudentRepo) DeleteWithAttendance(_ context.Context, ids []int64) error {
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockStudentRepo) CountActive(_ context.Context, cohortIDs []int64) (int, error) {
	wanted := make(map[string]struct{}, len(cohortIDs))
	for _, id := range cohortIDs {
		wanted[strconv.FormatInt(id, 10)] = struct{}{}
	}
	count := 0
	for id, fields := range m.rows {
		if !m.active[id] {
			continue
		}
		if _, ok := wanted[fields["turma_id"]]; ok {
			count++
		}
	}
	return count, nil
}

func (m *mockStudentRepo) ListPhoneSources(_ context.Context) ([]repositories.PhoneSource, error) {
	return m.phones, nil
}

// mockAttendanceRepo implements repositories.AttendanceRepository for testing.
type mockAttendanceRepo struct {
	records       []*models.AttendanceRecord
	cohortCounts  []repositories.CohortCounts
	studentCounts []repositories.StudentCounts
	dailyCounts   []repositories.DailyCounts
	replacedDays  []string
	replaceErr    error
}

func (m *mockAttendanceRepo) List(_ context.Context, _ repositories.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	return m.records, nil
}

func (m *mockAttendanceRepo) ReplaceDay(_ context.Context, cohortID int64, date, weekday string, entries []models.AttendanceEntry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replacedDays = append(m.replacedDays, fmt.Sprintf("%d/%s/%s/%d", cohortID, date, weekday, len(entries)))
	return nil
}

func (m *mockAttendanceRepo) CohortCountsRange(_ context.Context, _ []int64, _, _ string) ([]repositories.CohortCounts, error) {
	return m.cohortCounts, nil
}

func (m *mockAttendanceRepo) StudentCountsRange(_ context.Context, _ []int64, _, _ string) ([]repositories.StudentCounts, error) {
	return m.studentCounts, nil
}

func (m *mockAttendanceRepo) DailyCountsRange(_ context.Context, _ []int64, _, _ string) ([]repositories.DailyCounts, error) {
	return m.dailyCounts, nil
}

func (m *mockAttendanceRepo) MonthDetail(_ context.Context, cohortID int64, _ string) ([]*models.AttendanceRecord, error) {
	var result []*models.AttendanceRecord
	for _, r := range m.records {
		if r.CohortID == cohortID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) TotalCounts(_ context.Context) (int, int, error) {
	presences, absences := 0, 0
	for _, r := range m.records {
		if r.Present {
			presences++
		} else {
			absences++
		}
	}
	return presences, absences, nil
}

func (m *mockAttendanceRepo) RecentDailyCounts(_ context.Context, _ int) ([]repositories.DailyCounts, error) {
	return m.dailyCounts, nil
}

// mockStatRepo implements repositories.ExternalStatRepository for testing.
type mockStatRepo struct {
	stats    []models.ExternalClassStat
	listHits int
}

func (m *mockStatRepo) ListAll(_ context.Context) ([]models.ExternalClassStat, error) {
	m.listHits++
	return m.stats, nil
}

func (m *mockStatRepo) ReplaceAll(_ context.Context, stats []models.ExternalClassStat) error {
	m.stats = stats
	return nil
}
