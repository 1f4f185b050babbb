package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
)

func csvUpload(lines string) []byte {
	return []byte(lines)
}

func TestImportFile_CreatesCohortAndStudents(t *testing.T) {
	cohorts := &mockCohortRepo{}
	students := newMockStudentRepo()
	svc := NewImportService(cohorts, students, zap.NewNop())

	content := csvUpload("Nome;RA;série/ano\nAna Souza;111;6A\nBruno Lima;222;6A\n")

	report, err := svc.ImportFile(context.Background(), content, "lista.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.CohortsCreated)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)
	require.Len(t, cohorts.cohorts, 1)
	assert.Equal(t, "6A", cohorts.cohorts[0].Name)
	assert.Len(t, students.rows, 2)
	assert.NotEmpty(t, report.RunID)
}

func TestImportFile_UpdatesExistingByRAWithinCohort(t *testing.T) {
	cohorts := &mockCohortRepo{}
	students := newMockStudentRepo()
	svc := NewImportService(cohorts, students, zap.NewNop())

	first := csvUpload("Nome;RA;série/ano\nAna Souza;111;6A\n")
	_, err := svc.ImportFile(context.Background(), first, "lista.csv")
	require.NoError(t, err)
	require.Len(t, students.rows, 1)

	// Same RA and class, corrected name: must update in place.
	second := csvUpload("Nome;RA;série/ano\nAna Sousa;111;6A\n")
	report, err := svc.ImportFile(context.Background(), second, "lista.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.CohortsCreated)
	require.Len(t, students.rows, 1)
	assert.Equal(t, "Ana Sousa", students.rows[1]["nome"])
}

func TestImportFile_SameRADifferentCohortInsertsFresh(t *testing.T) {
	cohorts := &mockCohortRepo{}
	students := newMockStudentRepo()
	svc := NewImportService(cohorts, students, zap.NewNop())

	content := csvUpload("Nome;RA;série/ano\nAna;111;6A\nAna;111;7B\n")
	report, err := svc.ImportFile(context.Background(), content, "lista.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.CohortsCreated)
	assert.Len(t, students.rows, 2)
}

func TestImportFile_SkipsNamelessRows(t *testing.T) {
	cohorts := &mockCohortRepo{}
	students := newMockStudentRepo()
	svc := NewImportService(cohorts, students, zap.NewNop())

	content := csvUpload("Nome;RA\nAna;111\n;222\n")
	report, err := svc.ImportFile(context.Background(), content, "lista.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
}

func TestImportFile_RowFailureDoesNotAbortRun(t *testing.T) {
	cohorts := &mockCohortRepo{}
	students := newMockStudentRepo()
	students.insertErr = errors.New("connection reset")
	svc := NewImportService(cohorts, students, zap.NewNop())

	content := csvUpload("Nome;RA\nAna;111\nBia;222\n")
	report, err := svc.ImportFile(context.Background(), content, "lista.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Failed)
	assert.Zero(t, report.Imported)
}

func TestImportFile_UnsupportedExtension(t *testing.T) {
	svc := NewImportService(&mockCohortRepo{}, newMockStudentRepo(), zap.NewNop())

	_, err := svc.ImportFile(context.Background(), []byte("whatever"), "lista.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedFormat))
}

func TestImportFile_UndecodableCSV(t *testing.T) {
	svc := NewImportService(&mockCohortRepo{}, newMockStudentRepo(), zap.NewNop())

	_, err := svc.ImportFile(context.Background(), []byte("Nome;RA\n"), "lista.csv")
	var decodeErr *apperrors.DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestImportFile_ReimportIsIdempotent(t *testing.T) {
	cohorts := &mockCohortRepo{}
	students := newMockStudentRepo()
	svc := NewImportService(cohorts, students, zap.NewNop())

	content := csvUpload("Nome;RA;série/ano\nAna;111;6A\nBia;222;6A\n")

	_, err := svc.ImportFile(context.Background(), content, "lista.csv")
	require.NoError(t, err)
	report, err := svc.ImportFile(context.Background(), content, "lista.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Zero(t, report.CohortsCreated)
	assert.Len(t, students.rows, 2)
	assert.Len(t, cohorts.cohorts, 1)
}
