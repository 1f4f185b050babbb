package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dansfisica85/dalmaso/pkg/database"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

// ExternalStatRepository stores the read-only reference statistics imported
// from the state network export.
type ExternalStatRepository interface {
	ListAll(ctx context.Context) ([]models.ExternalClassStat, error)
	ReplaceAll(ctx context.Context, stats []models.ExternalClassStat) error
}

type externalStatRepository struct {
	db *database.DB
}

// NewExternalStatRepository creates a new ExternalStatRepository.
func NewExternalStatRepository(db *database.DB) ExternalStatRepository {
	return &externalStatRepository{db: db}
}

var _ ExternalStatRepository = (*externalStatRepository)(nil)

func (r *externalStatRepository) ListAll(ctx context.Context) ([]models.ExternalClassStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, turma_rotulo, periodo, matriculados, dias_letivos,
		       percentual_dias, percentual_presenca, evolucao
		FROM estatisticas_externas
		ORDER BY turma_rotulo, periodo`)
	if err != nil {
		return nil, fmt.Errorf("failed to list external stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ExternalClassStat
	for rows.Next() {
		var s models.ExternalClassStat
		if err := rows.Scan(&s.ID, &s.ClassLabel, &s.Period, &s.Enrollment,
			&s.InstructionalDays, &s.DaysPercentage, &s.PresencePct, &s.EvolutionDelta); err != nil {
			return nil, fmt.Errorf("failed to scan external stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ReplaceAll swaps the whole reference table in one transaction. Batched so
// a large export commits in a single round trip.
func (r *externalStatRepository) ReplaceAll(ctx context.Context, stats []models.ExternalClassStat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin stats replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM estatisticas_externas`); err != nil {
		return fmt.Errorf("failed to clear external stats: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(`
			INSERT INTO estatisticas_externas
				(turma_rotulo, periodo, matriculados, dias_letivos,
				 percentual_dias, percentual_presenca, evolucao)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ClassLabel, s.Period, s.Enrollment, s.InstructionalDays,
			s.DaysPercentage, s.PresencePct, s.EvolutionDelta)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert external stats: %w", err)
	}
	return tx.Commit(ctx)
}
