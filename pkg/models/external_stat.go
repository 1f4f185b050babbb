package models

// ExternalClassStat is one row of the read-only reference table imported
// from the state education network: official attendance statistics per
// class and period. Never written back.
type ExternalClassStat struct {
	ID                int64   `json:"id"`
	ClassLabel        string  `json:"turma_rotulo"` // raw descriptive label
	Period            string  `json:"periodo"`      // e.g. "2025-08" or bimester tag
	Enrollment        int     `json:"matriculados"`
	InstructionalDays int     `json:"dias_letivos"`
	DaysPercentage    float64 `json:"percentual_dias"`
	PresencePct       float64 `json:"percentual_presenca"`
	EvolutionDelta    float64 `json:"evolucao"`
}

// ParsedClassLabel is the short form extracted from an external class label
// such as "6º ANO A - MANHÃ - 12345".
type ParsedClassLabel struct {
	Token string // e.g. "6A"
	Shift string // MANHÃ, TARDE, NOITE, INTEGRAL or ""
}
