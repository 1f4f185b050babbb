package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

// stubAdvisorClient implements advisor.Client for testing.
type stubAdvisorClient struct {
	contextBlock string
	question     string
	answer       string
	err          error
}

func (c *stubAdvisorClient) Advise(_ context.Context, contextBlock, question string) (string, error) {
	c.contextBlock = contextBlock
	c.question = question
	return c.answer, c.err
}

func newAdvisorFixture(client *stubAdvisorClient) AdvisorService {
	attendance := NewAttendanceService(
		&mockAttendanceRepo{},
		&mockCohortRepo{cohorts: []*models.Cohort{{ID: 10, Name: "6A", StudentCount: 25}}},
		newMockStudentRepo(),
		zap.NewNop(),
	)
	return NewAdvisorService(client, attendance, zap.NewNop())
}

func TestAsk_PassesSnapshotAndQuestion(t *testing.T) {
	client := &stubAdvisorClient{answer: "A frequência está estável."}
	svc := newAdvisorFixture(client)

	answer, err := svc.Ask(context.Background(), "Como está a frequência?")
	require.NoError(t, err)

	assert.Equal(t, "A frequência está estável.", answer)
	assert.Equal(t, "Como está a frequência?", client.question)
	assert.Contains(t, client.contextBlock, "Alunos ativos: 25")
	assert.Contains(t, client.contextBlock, "Turmas: 1")
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newAdvisorFixture(&stubAdvisorClient{})

	_, err := svc.Ask(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestAsk_ClientErrorPropagates(t *testing.T) {
	boom := errors.New("upstream timeout")
	svc := newAdvisorFixture(&stubAdvisorClient{err: boom})

	_, err := svc.Ask(context.Background(), "pergunta")
	assert.ErrorIs(t, err, boom)
}
