package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/database"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

// CohortRepository provides data access for classes (turmas).
type CohortRepository interface {
	List(ctx context.Context) ([]*models.Cohort, error)
	GetByID(ctx context.Context, id int64) (*models.Cohort, error)
	GetByName(ctx context.Context, name string) (*models.Cohort, error)
	Create(ctx context.Context, name, description string) (int64, error)
	Update(ctx context.Context, id int64, name, description string) error
	Delete(ctx context.Context, id int64) error
}

type cohortRepository struct {
	db *database.DB
}

// NewCohortRepository creates a new CohortRepository.
func NewCohortRepository(db *database.DB) CohortRepository {
	return &cohortRepository{db: db}
}

var _ CohortRepository = (*cohortRepository)(nil)

func (r *cohortRepository) List(ctx context.Context) ([]*models.Cohort, error) {
	query := `
		SELECT t.id, t.nome, t.descricao, t.criado_em,
		       (SELECT COUNT(*) FROM alunos a WHERE a.turma_id = t.id AND a.ativo) AS total_alunos
		FROM turmas t
		ORDER BY t.nome`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cohorts: %w", err)
	}
	defer rows.Close()

	var cohorts []*models.Cohort
	for rows.Next() {
		var c models.Cohort
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.StudentCount); err != nil {
			return nil, fmt.Errorf("failed to scan cohort: %w", err)
		}
		cohorts = append(cohorts, &c)
	}
	return cohorts, rows.Err()
}

func (r *cohortRepository) GetByID(ctx context.Context, id int64) (*models.Cohort, error) {
	return r.getOne(ctx, `SELECT id, nome, descricao, criado_em FROM turmas WHERE id = $1`, id)
}

func (r *cohortRepository) GetByName(ctx context.Context, name string) (*models.Cohort, error) {
	return r.getOne(ctx, `SELECT id, nome, descricao, criado_em FROM turmas WHERE nome = $1`, name)
}

func (r *cohortRepository) getOne(ctx context.Context, query string, arg any) (*models.Cohort, error) {
	var c models.Cohort
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cohort: %w", err)
	}
	return &c, nil
}

func (r *cohortRepository) Create(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO turmas (nome, descricao) VALUES ($1, $2) RETURNING id`,
		name, description,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("cohort %q: %w", name, apperrors.ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create cohort: %w", err)
	}
	return id, nil
}

func (r *cohortRepository) Update(ctx context.Context, id int64, name, description string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE turmas SET nome = $2, descricao = $3 WHERE id = $1`,
		id, name, description)
	if isUniqueViolation(err) {
		return fmt.Errorf("cohort %q: %w", name, apperrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update cohort: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the cohort and, explicitly, its students and their
// attendance. The ON DELETE SET NULL on alunos.turma_id would otherwise
// leave orphans behind; deletion of a class is meant to take its data along.
func (r *cohortRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cohort delete: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM frequencia WHERE turma_id = $1`,
		`DELETE FROM alunos WHERE turma_id = $1`,
		`DELETE FROM turmas WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete cohort: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
