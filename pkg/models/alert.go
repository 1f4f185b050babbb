package models

// AlertSeverity buckets a presence percentage.
type AlertSeverity string

const (
	SeverityCritical  AlertSeverity = "critico"
	SeverityAttention AlertSeverity = "atencao"
	SeverityRegular   AlertSeverity = "regular"
)

// ClassifySeverity thresholds a presence percentage: critical below 75,
// attention in [75, 80), regular at 80 and above.
func ClassifySeverity(presencePct float64) AlertSeverity {
	switch {
	case presencePct < 75.0:
		return SeverityCritical
	case presencePct < 80.0:
		return SeverityAttention
	default:
		return SeverityRegular
	}
}

// ClassAlert joins one external statistic with local contact availability.
type ClassAlert struct {
	ClassLabel  string        `json:"turma_rotulo"`
	Token       string        `json:"turma"`
	Shift       string        `json:"turno"`
	Period      string        `json:"periodo"`
	PresencePct float64       `json:"percentual_presenca"`
	Severity    AlertSeverity `json:"severidade"`
	// Contact-channel availability among the class's active students.
	Reachable   int `json:"com_canal"`
	Unreachable int `json:"sem_canal"`
}

// StudentContact is the contact derivation for one student.
type StudentContact struct {
	StudentID int64    `json:"aluno_id"`
	Mobiles   []string `json:"celulares"`
}
