package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/database"
	"github.com/dansfisica85/dalmaso/pkg/importer"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

// StudentRef is the slim projection the duplicate-detection pass works on.
type StudentRef struct {
	ID        int64
	CohortID  int64
	Name      string
	RA        string
	CreatedAt time.Time
}

// StudentRepository provides data access for students (alunos).
type StudentRepository interface {
	List(ctx context.Context, cohortID *int64, search string) ([]*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	FindActiveByRA(ctx context.Context, ra string, cohortID int64) (int64, bool, error)
	InsertDraft(ctx context.Context, fields map[string]string) (int64, error)
	UpdateDraft(ctx context.Context, id int64, fields map[string]string) error
	SoftDelete(ctx context.Context, id int64) error
	ListActiveRefs(ctx context.Context) ([]StudentRef, error)
	DeleteWithAttendance(ctx context.Context, ids []int64) error
	CountActive(ctx context.Context, cohortIDs []int64) (int, error)
	ListPhoneSources(ctx context.Context) ([]PhoneSource, error)
}

// PhoneSource is the raw phone blob of one active student.
type PhoneSource struct {
	StudentID int64
	CohortID  int64
	Blob      string
}

type studentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *database.DB) StudentRepository {
	return &studentRepository{db: db}
}

var _ StudentRepository = (*studentRepository)(nil)

const studentColumns = `id, turma_id, numero_chamada, nome, ra, dig_ra, uf_ra,
	data_nascimento, sexo, raca_cor, nacionalidade, municipio_nascimento,
	uf_nascimento, cpf, rg, nis, sus, cin, filiacao_1, filiacao_2, email,
	email_google, email_microsoft, telefones, cep, endereco, numero_endereco,
	complemento, bairro, cidade_uf, bolsa_familia, deficiencia, laudo_medico,
	mobilidade_reduzida, nivel_apoio, profissional_apoio, altas_habilidades,
	investigacao_deficiencia, internet_em_casa, smartphone, quilombola,
	refugiado, sigilo, falecimento, emancipado, nome_social, nome_afetivo,
	tipo_sanguineo, recursos_avaliacao, dados_json, ativo, criado_em,
	atualizado_em`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var flags [17]string
	err := row.Scan(
		&s.ID, &s.CohortID, &s.CallNumber, &s.Name, &s.RA, &s.RADigit, &s.RAState,
		&s.BirthDate, &s.Sex, &s.Race, &s.Nationality, &s.BirthCity,
		&s.BirthState, &s.CPF, &s.RG, &s.NIS, &s.SUS, &s.CIN, &s.Guardian1,
		&s.Guardian2, &s.Email, &s.EmailGoogle, &s.EmailMicrosoft, &s.PhoneBlob,
		&s.CEP, &s.Address, &s.AddressNo, &s.Complement, &s.Neighborhood,
		&s.CityState, &flags[0], &flags[1], &flags[2], &flags[3], &s.SupportLevel,
		&flags[4], &flags[5], &flags[6], &flags[7], &flags[8], &flags[9],
		&flags[10], &flags[11], &flags[12], &flags[13], &flags[14], &flags[15],
		&s.BloodType, &s.AssessmentResources, &s.ExtrasJSON, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.BolsaFamilia = models.ParseTriState(flags[0])
	s.Disability = models.ParseTriState(flags[1])
	s.MedicalReport = models.ParseTriState(flags[2])
	s.ReducedMobility = models.ParseTriState(flags[3])
	s.SupportProfessional = models.ParseTriState(flags[4])
	s.Giftedness = models.ParseTriState(flags[5])
	s.DisabilityInvestigation = models.ParseTriState(flags[6])
	s.HomeInternet = models.ParseTriState(flags[7])
	s.Smartphone = models.ParseTriState(flags[8])
	s.Quilombola = models.ParseTriState(flags[9])
	s.Refugee = models.ParseTriState(flags[10])
	s.Confidential = models.ParseTriState(flags[11])
	s.Deceased = models.ParseTriState(flags[12])
	s.Emancipated = models.ParseTriState(flags[13])
	s.SocialName = models.ParseTriState(flags[14])
	s.AffectiveName = models.ParseTriState(flags[15])
	return &s, nil
}

func (r *studentRepository) List(ctx context.Context, cohortID *int64, search string) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM alunos WHERE ativo`
	var args []any

	if cohortID != nil {
		args = append(args, *cohortID)
		query += fmt.Sprintf(" AND turma_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (nome ILIKE $%d OR ra LIKE $%d OR cpf LIKE $%d)", n, n, n)
	}
	query += " ORDER BY nome"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	row := r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM alunos WHERE id = $1`, id)
	s, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

func (r *studentRepository) FindActiveByRA(ctx context.Context, ra string, cohortID int64) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM alunos WHERE ra = $1 AND turma_id = $2 AND ativo ORDER BY id LIMIT 1`,
		ra, cohortID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up student by RA: %w", err)
	}
	return id, true, nil
}

// InsertDraft inserts a student from a sparse column map. Absent columns
// take their schema defaults. Column names are restricted to the importer
// allowlist, so the dynamic SQL never sees caller input.
func (r *studentRepository) InsertDraft(ctx context.Context, fields map[string]string) (int64, error) {
	cols := []string{"nome"}
	args := []any{fields["nome"]}

	for _, col := range importer.StudentColumns {
		if col == "nome" {
			continue
		}
		value, ok := fields[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		args = append(args, value)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var id int64
	query := fmt.Sprintf(`INSERT INTO alunos (%s) VALUES (%s) RETURNING id`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert student: %w", err)
	}
	return id, nil
}

// UpdateDraft overwrites only the columns present in fields and stamps
// atualizado_em. It never touches ativo.
func (r *studentRepository) UpdateDraft(ctx context.Context, id int64, fields map[string]string) error {
	var sets []string
	args := []any{id}

	for _, col := range importer.StudentColumns {
		value, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "atualizado_em = now()")

	query := fmt.Sprintf(`UPDATE alunos SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *studentRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE alunos SET ativo = FALSE, atualizado_em = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListActiveRefs returns id/cohort/name/RA for every active student with a
// cohort. Students without a cohort cannot form duplicate groups.
func (r *studentRepository) ListActiveRefs(ctx context.Context) ([]StudentRef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, turma_id, nome, ra, criado_em FROM alunos WHERE ativo AND turma_id IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list student refs: %w", err)
	}
	defer rows.Close()

	var refs []StudentRef
	for rows.Next() {
		var ref StudentRef
		if err := rows.Scan(&ref.ID, &ref.CohortID, &ref.Name, &ref.RA, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// DeleteWithAttendance hard-deletes students; their attendance rows go with
// them via the ON DELETE CASCADE on frequencia.aluno_id.
func (r *studentRepository) DeleteWithAttendance(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM alunos WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to delete duplicate students: %w", err)
	}
	return nil
}

func (r *studentRepository) CountActive(ctx context.Context, cohortIDs []int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM alunos WHERE ativo AND turma_id = ANY($1)`, cohortIDs,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ListPhoneSources returns the raw phone blob per active student with a
// cohort. Feeds the contact-derivation cache.
func (r *studentRepository) ListPhoneSources(ctx context.Context) ([]PhoneSource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, turma_id, telefones FROM alunos WHERE ativo AND turma_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to list phone sources: %w", err)
	}
	defer rows.Close()

	var sources []PhoneSource
	for rows.Next() {
		var s PhoneSource
		if err := rows.Scan(&s.StudentID, &s.CohortID, &s.Blob); err != nil {
			return nil, fmt.Errorf("failed to scan phone source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}
