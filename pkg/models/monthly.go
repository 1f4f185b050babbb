package models

// DayDetail is one recorded day inside a monthly report row.
type DayDetail struct {
	Present bool   `json:"presente"`
	Note    string `json:"observacao"`
}

// MonthlyStudent is one student's line of the monthly attendance report.
type MonthlyStudent struct {
	StudentID  int64                `json:"aluno_id"`
	Name       string               `json:"nome"`
	RA         string               `json:"ra"`
	CallNumber string               `json:"numero_chamada"`
	Presences  int                  `json:"presencas"`
	Absences   int                  `json:"faltas"`
	TotalDays  int                  `json:"total_dias"`
	Percentage float64              `json:"percentual"`
	Details    map[string]DayDetail `json:"detalhes"`
}

// MonthlyReport is the per-cohort monthly attendance report.
type MonthlyReport struct {
	CohortName string           `json:"turma"`
	Month      string           `json:"mes"`
	Dates      []string         `json:"datas"`
	Students   []MonthlyStudent `json:"alunos"`
}

// DashboardSummary is the headline block of the monitoring dashboard.
type DashboardSummary struct {
	Students          int     `json:"alunos"`
	Cohorts           int     `json:"turmas"`
	AttendancePct     float64 `json:"frequencia_percentual"`
	AttendanceRecords int     `json:"total_registros_freq"`
}

// Dashboard is the aggregated monitoring payload.
type Dashboard struct {
	Summary     DashboardSummary   `json:"totais"`
	PerCohort   []CohortAttendance `json:"freq_turma"`
	DailySeries []DailyAttendance  `json:"freq_tempo"`
}
