package models

import (
	"strconv"
	"strings"
	"time"
)

// Student is one row of the roster. Most text fields come straight from the
// registration export and may be empty; the importer only writes the columns
// a given file actually carried.
type Student struct {
	ID         int64  `json:"id"`
	CohortID   *int64 `json:"turma_id"`
	CallNumber string `json:"numero_chamada"`
	Name       string `json:"nome"`

	// Official registration number (RA) with check digit and issuing state.
	RA      string `json:"ra"`
	RADigit string `json:"dig_ra"`
	RAState string `json:"uf_ra"`

	BirthDate   string `json:"data_nascimento"` // dd/mm/yyyy, as exported
	Sex         string `json:"sexo"`
	Race        string `json:"raca_cor"`
	Nationality string `json:"nacionalidade"`
	BirthCity   string `json:"municipio_nascimento"`
	BirthState  string `json:"uf_nascimento"`

	CPF string `json:"cpf"`
	RG  string `json:"rg"`
	NIS string `json:"nis"`
	SUS string `json:"sus"`
	CIN string `json:"cin"`

	Guardian1 string `json:"filiacao_1"`
	Guardian2 string `json:"filiacao_2"`

	Email          string `json:"email"`
	EmailGoogle    string `json:"email_google"`
	EmailMicrosoft string `json:"email_microsoft"`
	PhoneBlob      string `json:"telefones"`

	CEP          string `json:"cep"`
	Address      string `json:"endereco"`
	AddressNo    string `json:"numero_endereco"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	CityState    string `json:"cidade_uf"`

	BolsaFamilia            TriState `json:"bolsa_familia"`
	Disability              TriState `json:"deficiencia"`
	MedicalReport           TriState `json:"laudo_medico"`
	ReducedMobility         TriState `json:"mobilidade_reduzida"`
	SupportLevel            string   `json:"nivel_apoio"`
	SupportProfessional     TriState `json:"profissional_apoio"`
	Giftedness              TriState `json:"altas_habilidades"`
	DisabilityInvestigation TriState `json:"investigacao_deficiencia"`
	HomeInternet            TriState `json:"internet_em_casa"`
	Smartphone              TriState `json:"smartphone"`
	Quilombola              TriState `json:"quilombola"`
	Refugee                 TriState `json:"refugiado"`
	Confidential            TriState `json:"sigilo"`
	Deceased                TriState `json:"falecimento"`
	Emancipated             TriState `json:"emancipado"`
	SocialName              TriState `json:"nome_social"`
	AffectiveName           TriState `json:"nome_afetivo"`

	BloodType           string `json:"tipo_sanguineo"`
	AssessmentResources string `json:"recursos_avaliacao"`

	// ExtrasJSON holds every source column the alias table did not map,
	// serialized as a JSON object.
	ExtrasJSON string `json:"dados_json,omitempty"`

	Active    bool      `json:"ativo"`
	CreatedAt time.Time `json:"criado_em"`
	UpdatedAt time.Time `json:"atualizado_em"`

	// Derived on read paths.
	Age        *int           `json:"idade,omitempty"`
	CohortName string         `json:"turma_nome,omitempty"`
	Extras     map[string]any `json:"dados_extras,omitempty"`
}

// AgeFromBirthDate derives a whole-year age from a dd/mm/yyyy string.
// Returns nil for empty or malformed input.
func AgeFromBirthDate(birthDate string, today time.Time) *int {
	parts := strings.Split(birthDate, "/")
	if len(parts) != 3 {
		return nil
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
		return nil
	}
	age := today.Year() - year
	if int(today.Month()) < month || (int(today.Month()) == month && today.Day() < day) {
		age--
	}
	return &age
}
