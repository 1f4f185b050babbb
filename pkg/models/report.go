package models

// ImportReport is returned by every import run, failed rows included.
type ImportReport struct {
	RunID          string `json:"run_id"`
	TotalRows      int    `json:"total_linhas_arquivo"`
	Imported       int    `json:"total_importados"`
	CohortsCreated int    `json:"turmas_criadas"`
	Skipped        int    `json:"ignorados"` // rows with no usable name
	Failed         int    `json:"falhas"`    // rows whose upsert errored
}

// DuplicateGroup is one cluster of suspected duplicate students.
type DuplicateGroup struct {
	CohortID   int64     `json:"turma_id"`
	CohortName string    `json:"turma"`
	Key        string    `json:"chave"` // normalized name or RA
	ByRA       bool      `json:"por_ra"`
	Students   []Student `json:"alunos"`
}

// MergeReport summarizes one duplicate-merge pass.
type MergeReport struct {
	RunID           string  `json:"run_id"`
	GroupsMerged    int     `json:"grupos"`
	StudentsRemoved int     `json:"removidos"`
	KeptIDs         []int64 `json:"mantidos"`
}
