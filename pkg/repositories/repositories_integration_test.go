//go:build integration

package repositories_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
	"github.com/dansfisica85/dalmaso/pkg/testhelpers"
)

func newStudent(t *testing.T, students repositories.StudentRepository, cohortID int64, name, ra string) int64 {
	t.Helper()
	id, err := students.InsertDraft(context.Background(), map[string]string{
		"nome":     name,
		"ra":       ra,
		"turma_id": strconv.FormatInt(cohortID, 10),
	})
	require.NoError(t, err)
	return id
}

func attendanceCount(t *testing.T, db *testhelpers.TestDB, cohortID int64, date string) int {
	t.Helper()
	var n int
	err := db.DB.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM frequencia WHERE turma_id = $1 AND data = $2`,
		cohortID, date).Scan(&n)
	require.NoError(t, err)
	return n
}

// Test_ReplaceDay_Resubmission verifies that submitting the same day twice
// stores the same number of rows, with later values winning. The
// UNIQUE (aluno_id, data) constraint backs the delete-then-insert pair.
func Test_ReplaceDay_Resubmission(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	cohorts := repositories.NewCohortRepository(db.DB)
	students := repositories.NewStudentRepository(db.DB)
	attendance := repositories.NewAttendanceRepository(db.DB)

	cohortID, err := cohorts.Create(ctx, "IT-FREQ-6A", "")
	require.NoError(t, err)
	ana := newStudent(t, students, cohortID, "Ana Integ", "900001")
	bia := newStudent(t, students, cohortID, "Bia Integ", "900002")

	const date = "2025-03-10"
	entries := []models.AttendanceEntry{
		{StudentID: ana, Present: true},
		{StudentID: bia, Present: false, Note: "atestado"},
	}

	require.NoError(t, attendance.ReplaceDay(ctx, cohortID, date, "Segunda-feira", entries))
	require.NoError(t, attendance.ReplaceDay(ctx, cohortID, date, "Segunda-feira", entries))
	assert.Equal(t, 2, attendanceCount(t, db, cohortID, date))

	// Resubmitting with flipped values replaces, never accumulates.
	entries[0].Present = false
	entries[1].Present = true
	require.NoError(t, attendance.ReplaceDay(ctx, cohortID, date, "Segunda-feira", entries))
	assert.Equal(t, 2, attendanceCount(t, db, cohortID, date))

	var present bool
	err = db.DB.Pool.QueryRow(ctx,
		`SELECT presente FROM frequencia WHERE aluno_id = $1 AND data = $2`,
		ana, date).Scan(&present)
	require.NoError(t, err)
	assert.False(t, present)
}

// Test_DeleteWithAttendance_Cascade verifies that hard-deleting duplicate
// students takes their attendance rows along via the FK cascade.
func Test_DeleteWithAttendance_Cascade(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	cohorts := repositories.NewCohortRepository(db.DB)
	students := repositories.NewStudentRepository(db.DB)
	attendance := repositories.NewAttendanceRepository(db.DB)

	cohortID, err := cohorts.Create(ctx, "IT-MERGE-7B", "")
	require.NoError(t, err)
	kept := newStudent(t, students, cohortID, "Caio Integ", "900010")
	doomed := newStudent(t, students, cohortID, "Caio Integ", "900011")

	const date = "2025-03-11"
	require.NoError(t, attendance.ReplaceDay(ctx, cohortID, date, "Terça-feira", []models.AttendanceEntry{
		{StudentID: kept, Present: true},
		{StudentID: doomed, Present: true},
	}))
	require.Equal(t, 2, attendanceCount(t, db, cohortID, date))

	require.NoError(t, students.DeleteWithAttendance(ctx, []int64{doomed}))

	assert.Equal(t, 1, attendanceCount(t, db, cohortID, date))

	var orphaned int
	err = db.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM frequencia WHERE aluno_id = $1`, doomed).Scan(&orphaned)
	require.NoError(t, err)
	assert.Zero(t, orphaned)

	_, err = students.GetByID(ctx, doomed)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = students.GetByID(ctx, kept)
	assert.NoError(t, err)
}

// Test_CohortCreate_DuplicateName verifies the unique-name violation maps
// to the conflict sentinel instead of a raw driver error.
func Test_CohortCreate_DuplicateName(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	cohorts := repositories.NewCohortRepository(db.DB)

	_, err := cohorts.Create(ctx, "IT-UNIQ-8C", "")
	require.NoError(t, err)

	_, err = cohorts.Create(ctx, "IT-UNIQ-8C", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

// Test_CohortDelete_TakesDataAlong verifies deleting a class removes its
// students and attendance in the same transaction.
func Test_CohortDelete_TakesDataAlong(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	cohorts := repositories.NewCohortRepository(db.DB)
	students := repositories.NewStudentRepository(db.DB)
	attendance := repositories.NewAttendanceRepository(db.DB)

	cohortID, err := cohorts.Create(ctx, "IT-DROP-9A", "")
	require.NoError(t, err)
	dani := newStudent(t, students, cohortID, "Dani Integ", "900020")

	const date = "2025-03-12"
	require.NoError(t, attendance.ReplaceDay(ctx, cohortID, date, "Quarta-feira", []models.AttendanceEntry{
		{StudentID: dani, Present: true},
	}))

	require.NoError(t, cohorts.Delete(ctx, cohortID))

	assert.Equal(t, 0, attendanceCount(t, db, cohortID, date))

	_, err = students.GetByID(ctx, dani)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = cohorts.GetByID(ctx, cohortID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
