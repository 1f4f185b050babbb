package models

// PeriodType selects how a reference date maps to an inclusive date range.
type PeriodType string

const (
	PeriodDay      PeriodType = "dia"
	PeriodWeek     PeriodType = "semana"
	PeriodMonth    PeriodType = "mes"
	PeriodBimester PeriodType = "bimestre"
	PeriodYear     PeriodType = "ano"
)

// DateRange is an inclusive [Start, End] pair of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

// CohortAttendance is the per-class slice of an aggregation.
type CohortAttendance struct {
	CohortID   int64   `json:"turma_id"`
	CohortName string  `json:"turma"`
	Presences  int     `json:"presencas"`
	Absences   int     `json:"faltas"`
	Percentage float64 `json:"percentual"`
}

// CriticalStudent is one entry of the low-attendance list.
type CriticalStudent struct {
	StudentID  int64   `json:"aluno_id"`
	Name       string  `json:"nome"`
	RA         string  `json:"ra"`
	CohortName string  `json:"turma"`
	Presences  int     `json:"presencas"`
	Absences   int     `json:"faltas"`
	TotalDays  int     `json:"total_dias"`
	Percentage float64 `json:"percentual"`
}

// DailyAttendance is one point of the per-date series.
type DailyAttendance struct {
	Date       string  `json:"data"`
	Total      int     `json:"total"`
	Presences  int     `json:"presencas"`
	Percentage float64 `json:"percentual"`
}

// AggregateSummary sums across all selected cohorts. MeanPercentage is the
// percentage of the summed counts, not an average of per-cohort
// percentages.
type AggregateSummary struct {
	CohortCount    int     `json:"total_turmas"`
	StudentCount   int     `json:"total_alunos"`
	MeanPercentage float64 `json:"percentual_medio"`
	TotalPresences int     `json:"total_presencas"`
	TotalAbsences  int     `json:"total_faltas"`
}

// AggregateFilters names the shift/level subsets a request selected.
type AggregateFilters struct {
	Shift string `json:"turno,omitempty"`
	Level string `json:"nivel,omitempty"`
}

// AggregateResult is the full response of one aggregation request.
type AggregateResult struct {
	Period           PeriodType         `json:"periodo"`
	Range            DateRange          `json:"intervalo"`
	Filters          AggregateFilters   `json:"filtros"`
	Summary          AggregateSummary   `json:"resumo"`
	PerCohort        []CohortAttendance `json:"por_turma"`
	CriticalStudents []CriticalStudent  `json:"alunos_criticos"`
	DailySeries      []DailyAttendance  `json:"serie_diaria"`
}
