package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dansfisica85/dalmaso/pkg/database"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

// AttendanceFilters narrows attendance listings. Zero values mean "no
// filter". Month is YYYY-MM.
type AttendanceFilters struct {
	CohortID  int64
	StudentID int64
	Date      string
	Month     string
}

// CohortCounts is the per-cohort presence/absence split over a range.
type CohortCounts struct {
	CohortID   int64
	CohortName string
	Presences  int
	Absences   int
}

// StudentCounts is the per-student split over a range, keyed by the
// attendance rows' own cohort.
type StudentCounts struct {
	StudentID  int64
	Name       string
	RA         string
	CohortName string
	Presences  int
	Absences   int
}

// DailyCounts is the per-date split over a range.
type DailyCounts struct {
	Date      string
	Total     int
	Presences int
}

// AttendanceRepository provides data access for attendance (frequencia).
type AttendanceRepository interface {
	List(ctx context.Context, filters AttendanceFilters) ([]*models.AttendanceRecord, error)
	ReplaceDay(ctx context.Context, cohortID int64, date, weekday string, entries []models.AttendanceEntry) error
	CohortCountsRange(ctx context.Context, cohortIDs []int64, start, end string) ([]CohortCounts, error)
	StudentCountsRange(ctx context.Context, cohortIDs []int64, start, end string) ([]StudentCounts, error)
	DailyCountsRange(ctx context.Context, cohortIDs []int64, start, end string) ([]DailyCounts, error)
	MonthDetail(ctx context.Context, cohortID int64, month string) ([]*models.AttendanceRecord, error)
	TotalCounts(ctx context.Context) (presences, absences int, err error)
	RecentDailyCounts(ctx context.Context, limit int) ([]DailyCounts, error)
}

type attendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db *database.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

var _ AttendanceRepository = (*attendanceRepository)(nil)

const dateLayout = "2006-01-02"

func (r *attendanceRepository) List(ctx context.Context, filters AttendanceFilters) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT f.id, f.aluno_id, f.turma_id, f.data, f.dia_semana, f.presente,
		       f.observacao, f.criado_em, a.nome, a.ra
		FROM frequencia f
		JOIN alunos a ON a.id = f.aluno_id
		WHERE 1=1`
	var args []any

	if filters.CohortID != 0 {
		args = append(args, filters.CohortID)
		query += fmt.Sprintf(" AND f.turma_id = $%d", len(args))
	}
	if filters.StudentID != 0 {
		args = append(args, filters.StudentID)
		query += fmt.Sprintf(" AND f.aluno_id = $%d", len(args))
	}
	if filters.Date != "" {
		args = append(args, filters.Date)
		query += fmt.Sprintf(" AND f.data = $%d", len(args))
	}
	if filters.Month != "" {
		args = append(args, filters.Month+"-01")
		query += fmt.Sprintf(" AND date_trunc('month', f.data) = date_trunc('month', $%d::date)", len(args))
	}
	query += " ORDER BY f.data DESC, a.nome"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		var date time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.CohortID, &date,
			&rec.Weekday, &rec.Present, &rec.Note, &rec.CreatedAt,
			&rec.StudentName, &rec.StudentRA); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.Date = date.Format(dateLayout)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ReplaceDay applies one day's submission for a cohort. Each (student, date)
// slot is delete-then-insert, and the whole submission commits as one
// transaction so no slot is ever observed empty between the two statements.
func (r *attendanceRepository) ReplaceDay(ctx context.Context, cohortID int64, date, weekday string, entries []models.AttendanceEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin attendance batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`DELETE FROM frequencia WHERE aluno_id = $1 AND data = $2`,
			e.StudentID, date); err != nil {
			return fmt.Errorf("failed to clear attendance slot: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO frequencia (aluno_id, turma_id, data, dia_semana, presente, observacao)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.StudentID, cohortID, date, weekday, e.Present, e.Note); err != nil {
			return fmt.Errorf("failed to insert attendance record: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *attendanceRepository) CohortCountsRange(ctx context.Context, cohortIDs []int64, start, end string) ([]CohortCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.turma_id, t.nome,
		       COUNT(*) FILTER (WHERE f.presente) AS presencas,
		       COUNT(*) FILTER (WHERE NOT f.presente) AS faltas
		FROM frequencia f
		JOIN turmas t ON t.id = f.turma_id
		WHERE f.turma_id = ANY($1) AND f.data BETWEEN $2 AND $3
		GROUP BY f.turma_id, t.nome
		ORDER BY t.nome`,
		cohortIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cohort attendance: %w", err)
	}
	defer rows.Close()

	var counts []CohortCounts
	for rows.Next() {
		var c CohortCounts
		if err := rows.Scan(&c.CohortID, &c.CohortName, &c.Presences, &c.Absences); err != nil {
			return nil, fmt.Errorf("failed to scan cohort counts: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// StudentCountsRange groups by the attendance rows' own turma_id, not the
// student's current one: reassigned students keep their history where it
// was recorded.
func (r *attendanceRepository) StudentCountsRange(ctx context.Context, cohortIDs []int64, start, end string) ([]StudentCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.aluno_id, a.nome, a.ra, t.nome,
		       COUNT(*) FILTER (WHERE f.presente) AS presencas,
		       COUNT(*) FILTER (WHERE NOT f.presente) AS faltas
		FROM frequencia f
		JOIN alunos a ON a.id = f.aluno_id AND a.ativo
		JOIN turmas t ON t.id = f.turma_id
		WHERE f.turma_id = ANY($1) AND f.data BETWEEN $2 AND $3
		GROUP BY f.aluno_id, a.nome, a.ra, t.nome`,
		cohortIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate student attendance: %w", err)
	}
	defer rows.Close()

	var counts []StudentCounts
	for rows.Next() {
		var c StudentCounts
		if err := rows.Scan(&c.StudentID, &c.Name, &c.RA, &c.CohortName, &c.Presences, &c.Absences); err != nil {
			return nil, fmt.Errorf("failed to scan student counts: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *attendanceRepository) DailyCountsRange(ctx context.Context, cohortIDs []int64, start, end string) ([]DailyCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.data, COUNT(*), COUNT(*) FILTER (WHERE f.presente)
		FROM frequencia f
		WHERE f.turma_id = ANY($1) AND f.data BETWEEN $2 AND $3
		GROUP BY f.data
		ORDER BY f.data`,
		cohortIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily attendance: %w", err)
	}
	defer rows.Close()

	var series []DailyCounts
	for rows.Next() {
		var d DailyCounts
		var date time.Time
		if err := rows.Scan(&date, &d.Total, &d.Presences); err != nil {
			return nil, fmt.Errorf("failed to scan daily counts: %w", err)
		}
		d.Date = date.Format(dateLayout)
		series = append(series, d)
	}
	return series, rows.Err()
}

func (r *attendanceRepository) MonthDetail(ctx context.Context, cohortID int64, month string) ([]*models.AttendanceRecord, error) {
	return r.List(ctx, AttendanceFilters{CohortID: cohortID, Month: month})
}

func (r *attendanceRepository) TotalCounts(ctx context.Context) (int, int, error) {
	var presences, absences int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE presente),
		       COUNT(*) FILTER (WHERE NOT presente)
		FROM frequencia`).Scan(&presences, &absences)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return presences, absences, nil
}

// RecentDailyCounts returns the last limit recorded dates, oldest first.
func (r *attendanceRepository) RecentDailyCounts(ctx context.Context, limit int) ([]DailyCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT data, total, presencas FROM (
			SELECT f.data, COUNT(*) AS total,
			       COUNT(*) FILTER (WHERE f.presente) AS presencas
			FROM frequencia f
			GROUP BY f.data
			ORDER BY f.data DESC
			LIMIT $1
		) recent
		ORDER BY data`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attendance: %w", err)
	}
	defer rows.Close()

	var series []DailyCounts
	for rows.Next() {
		var d DailyCounts
		var date time.Time
		if err := rows.Scan(&date, &d.Total, &d.Presences); err != nil {
			return nil, fmt.Errorf("failed to scan daily counts: %w", err)
		}
		d.Date = date.Format(dateLayout)
		series = append(series, d)
	}
	return series, rows.Err()
}
