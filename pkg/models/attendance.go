package models

import "time"

// AttendanceRecord is one presence/absence observation for one student on
// one calendar date. CohortID is a denormalized copy of the student's cohort
// at recording time and stays authoritative for aggregation even if the
// student is reassigned later.
type AttendanceRecord struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"aluno_id"`
	CohortID  int64     `json:"turma_id"`
	Date      string    `json:"data"` // YYYY-MM-DD
	Weekday   string    `json:"dia_semana"`
	Present   bool      `json:"presente"`
	Note      string    `json:"observacao"`
	CreatedAt time.Time `json:"criado_em"`

	// Joined on list queries.
	StudentName string `json:"aluno_nome,omitempty"`
	StudentRA   string `json:"ra,omitempty"`
}

// AttendanceEntry is one row of a save-batch submission.
type AttendanceEntry struct {
	StudentID int64  `json:"aluno_id"`
	Present   bool   `json:"presente"`
	Note      string `json:"observacao"`
}

// WeekdayNamePT maps a Go weekday to the Portuguese day name stored
// alongside each record.
func WeekdayNamePT(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "Segunda-feira"
	case time.Tuesday:
		return "Terça-feira"
	case time.Wednesday:
		return "Quarta-feira"
	case time.Thursday:
		return "Quinta-feira"
	case time.Friday:
		return "Sexta-feira"
	case time.Saturday:
		return "Sábado"
	default:
		return "Domingo"
	}
}
