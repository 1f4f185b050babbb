package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/importer"
	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// ImportService ingests registration spreadsheets into the roster.
type ImportService interface {
	ImportFile(ctx context.Context, content []byte, filename string) (*models.ImportReport, error)
}

type importService struct {
	cohorts  repositories.CohortRepository
	students repositories.StudentRepository
	logger   *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(cohorts repositories.CohortRepository, students repositories.StudentRepository, logger *zap.Logger) ImportService {
	return &importService{
		cohorts:  cohorts,
		students: students,
		logger:   logger.Named("import"),
	}
}

var _ ImportService = (*importService)(nil)

// ImportFile parses, normalizes and reconciles one uploaded file. Decode
// failures abort the run; a failing row only increments the failure count
// and the run moves on — partial completion is the intended behavior.
func (s *importService) ImportFile(ctx context.Context, content []byte, filename string) (*models.ImportReport, error) {
	rows, err := importer.ParseFile(content, filename)
	if err != nil {
		return nil, err
	}

	drafts, skipped := importer.BuildDrafts(rows)
	report := &models.ImportReport{
		RunID:     uuid.NewString(),
		TotalRows: len(rows),
		Skipped:   skipped,
	}
	resolver := newCohortResolver(s.cohorts)

	for _, draft := range drafts {
		if err := s.upsertDraft(ctx, resolver, draft, report); err != nil {
			report.Failed++
			s.logger.Warn("Row import failed",
				zap.String("run_id", report.RunID),
				zap.String("ra", draft.RA()),
				zap.Error(err))
			continue
		}
		report.Imported++
	}

	// Counts cohorts this run actually inserted. A re-import of a file
	// whose classes already exist reports zero here.
	report.CohortsCreated = resolver.created
	s.logger.Info("Import finished",
		zap.String("run_id", report.RunID),
		zap.String("filename", filename),
		zap.Int("rows", report.TotalRows),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("cohorts_created", report.CohortsCreated))
	return report, nil
}

func (s *importService) upsertDraft(ctx context.Context, resolver *cohortResolver, draft importer.Draft, report *models.ImportReport) error {
	cohortID, err := resolver.resolve(ctx, draft.CohortLabel)
	if err != nil {
		return err
	}

	fields := draft.Fields
	if cohortID != 0 {
		fields["turma_id"] = strconv.FormatInt(cohortID, 10)
	}

	// Match by registration number within the same class. Without both
	// there is nothing safe to match on, so the row inserts fresh.
	if ra := draft.RA(); ra != "" && cohortID != 0 {
		existingID, found, err := s.students.FindActiveByRA(ctx, ra, cohortID)
		if err != nil {
			return err
		}
		if found {
			return s.students.UpdateDraft(ctx, existingID, fields)
		}
	}

	_, err = s.students.InsertDraft(ctx, fields)
	return err
}

// cohortResolver maps class labels to cohort ids within one import run.
// The seen set only suppresses duplicate creation attempts: repeat sightings
// still re-query by name, so a class created concurrently outside the run is
// picked up instead of trusted from memory.
type cohortResolver struct {
	repo    repositories.CohortRepository
	seen    map[string]struct{}
	created int
}

func newCohortResolver(repo repositories.CohortRepository) *cohortResolver {
	return &cohortResolver{repo: repo, seen: make(map[string]struct{})}
}

// resolve returns the cohort id for label, creating the cohort on first
// sight. An empty label resolves to 0: the student imports unassigned.
func (r *cohortResolver) resolve(ctx context.Context, label string) (int64, error) {
	if label == "" {
		return 0, nil
	}

	existing, err := r.repo.GetByName(ctx, label)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return 0, err
	}
	if existing != nil {
		r.seen[label] = struct{}{}
		return existing.ID, nil
	}

	if _, alreadySeen := r.seen[label]; alreadySeen {
		// Created earlier in this run but the lookup missed; do not
		// create a second one.
		return 0, apperrors.ErrNotFound
	}

	id, err := r.repo.Create(ctx, label, "")
	if err != nil {
		return 0, err
	}
	r.seen[label] = struct{}{}
	r.created++
	return id, nil
}
