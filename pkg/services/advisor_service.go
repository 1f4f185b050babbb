package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/advisor"
	"github.com/dansfisica85/dalmaso/pkg/apperrors"
)

// AdvisorService answers free-form questions about the school's numbers by
// handing the advisory endpoint a formatted snapshot of the dashboard.
type AdvisorService interface {
	Ask(ctx context.Context, question string) (string, error)
}

type advisorService struct {
	client     advisor.Client
	attendance AttendanceService
	logger     *zap.Logger
}

// NewAdvisorService creates a new AdvisorService.
func NewAdvisorService(client advisor.Client, attendance AttendanceService, logger *zap.Logger) AdvisorService {
	return &advisorService{
		client:     client,
		attendance: attendance,
		logger:     logger.Named("advisor-service"),
	}
}

var _ AdvisorService = (*advisorService)(nil)

func (s *advisorService) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", apperrors.ErrValidation)
	}

	dash, err := s.attendance.Dashboard(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Alunos ativos: %d\nTurmas: %d\nFrequência geral: %.1f%% (%d registros)\n",
		dash.Summary.Students, dash.Summary.Cohorts,
		dash.Summary.AttendancePct, dash.Summary.AttendanceRecords)
	for _, c := range dash.PerCohort {
		fmt.Fprintf(&b, "Turma %s: %d presenças, %d faltas (%.1f%%)\n",
			c.CohortName, c.Presences, c.Absences, c.Percentage)
	}

	answer, err := s.client.Advise(ctx, b.String(), question)
	if err != nil {
		s.logger.Warn("Advisory call failed", zap.Error(err))
		return "", err
	}
	return answer, nil
}
