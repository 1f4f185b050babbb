package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/importer"
	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// RosterService covers the manual cohort/student CRUD surface next to the
// import pipeline.
type RosterService interface {
	ListCohorts(ctx context.Context) ([]*models.Cohort, error)
	CreateCohort(ctx context.Context, name, description string) (*models.Cohort, error)
	UpdateCohort(ctx context.Context, id int64, name, description string) error
	DeleteCohort(ctx context.Context, id int64) error

	ListStudents(ctx context.Context, cohortID *int64, search string) ([]*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, fields map[string]string) (int64, error)
	UpdateStudent(ctx context.Context, id int64, fields map[string]string) error
	DeactivateStudent(ctx context.Context, id int64) error
}

type rosterService struct {
	cohorts  repositories.CohortRepository
	students repositories.StudentRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewRosterService creates a new RosterService.
func NewRosterService(cohorts repositories.CohortRepository, students repositories.StudentRepository, logger *zap.Logger) RosterService {
	return &rosterService{
		cohorts:  cohorts,
		students: students,
		logger:   logger.Named("roster"),
		now:      time.Now,
	}
}

var _ RosterService = (*rosterService)(nil)

func (s *rosterService) ListCohorts(ctx context.Context) ([]*models.Cohort, error) {
	return s.cohorts.List(ctx)
}

func (s *rosterService) CreateCohort(ctx context.Context, name, description string) (*models.Cohort, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome is required", apperrors.ErrValidation)
	}
	id, err := s.cohorts.Create(ctx, name, description)
	if err != nil {
		return nil, err
	}
	return &models.Cohort{ID: id, Name: name, Description: description}, nil
}

func (s *rosterService) UpdateCohort(ctx context.Context, id int64, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: nome is required", apperrors.ErrValidation)
	}
	return s.cohorts.Update(ctx, id, strings.TrimSpace(name), description)
}

func (s *rosterService) DeleteCohort(ctx context.Context, id int64) error {
	return s.cohorts.Delete(ctx, id)
}

func (s *rosterService) ListStudents(ctx context.Context, cohortID *int64, search string) ([]*models.Student, error) {
	students, err := s.students.List(ctx, cohortID, search)
	if err != nil {
		return nil, err
	}
	today := s.now()
	for _, st := range students {
		st.Age = models.AgeFromBirthDate(st.BirthDate, today)
	}
	return students, nil
}

func (s *rosterService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Age = models.AgeFromBirthDate(student.BirthDate, s.now())

	if student.ExtrasJSON != "" {
		// A corrupt extras payload should not break the profile view.
		if err := json.Unmarshal([]byte(student.ExtrasJSON), &student.Extras); err != nil {
			student.Extras = map[string]any{}
		}
	}
	if student.CohortID != nil {
		cohort, err := s.cohorts.GetByID(ctx, *student.CohortID)
		if err == nil {
			student.CohortName = cohort.Name
		}
	}
	return student, nil
}

func (s *rosterService) CreateStudent(ctx context.Context, fields map[string]string) (int64, error) {
	cleaned, err := cleanStudentFields(fields)
	if err != nil {
		return 0, err
	}
	return s.students.InsertDraft(ctx, cleaned)
}

func (s *rosterService) UpdateStudent(ctx context.Context, id int64, fields map[string]string) error {
	cleaned, err := cleanStudentFields(fields)
	if err != nil {
		return err
	}
	return s.students.UpdateDraft(ctx, id, cleaned)
}

func (s *rosterService) DeactivateStudent(ctx context.Context, id int64) error {
	return s.students.SoftDelete(ctx, id)
}

// cleanStudentFields drops unknown columns and requires a non-empty name
// when one is provided at all.
func cleanStudentFields(fields map[string]string) (map[string]string, error) {
	cleaned := make(map[string]string, len(fields))
	for col, value := range fields {
		if !importer.IsStudentColumn(col) {
			continue
		}
		cleaned[col] = strings.TrimSpace(value)
	}
	if name, ok := cleaned["nome"]; ok && name == "" {
		return nil, fmt.Errorf("%w: nome is required", apperrors.ErrValidation)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no student fields provided", apperrors.ErrValidation)
	}
	return cleaned, nil
}
