package models

import "time"

// Cohort is a named class/section grouping of students (turma).
type Cohort struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	CreatedAt   time.Time `json:"criado_em"`

	// StudentCount is populated on list queries only (active students).
	StudentCount int `json:"total_alunos,omitempty"`
}
