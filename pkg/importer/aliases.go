package importer

// cohortLabelKey is the pseudo-field a few source columns map to. It names
// the class the row belongs to and never reaches the students table.
const cohortLabelKey = "_serie_ano"

// aliasTable maps source column names to canonical student columns. Matching
// is exact, case- and accent-sensitive: these are the literal headers the
// SED exports and the extraction scripts produce. Many-to-one on purpose —
// structured list columns and free-text header duplicates both appear, and
// the first populated one in column order wins.
var aliasTable = map[string]string{
	"série/ano":    cohortLabelKey,
	"numero_linha": "numero_chamada",
	"Nome":         "nome",
	"nome":         "nome",
	"RA":           "ra",
	"ra_lista":     "ra",
	"nrDigRa":      "dig_ra",
	"sgUfRa":       "uf_ra",

	"Data de Nascimento":        "data_nascimento",
	"data_nasc_lista":           "data_nascimento",
	"data_nascimento_cabecalho": "data_nascimento",

	"Sexo":                    "sexo",
	"Raça/Cor":                "raca_cor",
	"Nacionalidade":           "nacionalidade",
	"Município de Nascimento": "municipio_nascimento",
	"UFNascimento":            "uf_nascimento",

	"CPF":                                   "cpf",
	"Documento Civil RG":                    "rg",
	"NIS":                                   "nis",
	"Cartão Nacional de Saúde - SUS":        "sus",
	"Carteira de Identidade Nacional (CIN)": "cin",

	"Filiação 1":            "filiacao_1",
	"Filiação 2":            "filiacao_2",
	"E-Mail":                "email",
	"E-Mail Google":         "email_google",
	"E-Mail Microsoft":      "email_microsoft",
	"telefones_formatados":  "telefones",
	"CEP":                   "cep",
	"Endereço - Nº":         "endereco",
	"EnderecoNR":            "numero_endereco",
	"Complemento":           "complemento",
	"Bairro":                "bairro",
	"Cidade - UF":           "cidade_uf",

	"Participa do Programa Bolsa Família":            "bolsa_familia",
	"Estudante com Deficiência":                      "deficiencia",
	"Laudo Médico":                                   "laudo_medico",
	"Mobilidade Reduzida":                            "mobilidade_reduzida",
	"Nível de Apoio":                                 "nivel_apoio",
	"Necessita de Profissional de apoio Escolar?":    "profissional_apoio",
	"Altas Habilidades/Superdotação":                 "altas_habilidades",
	"Investigação de deficiência":                    "investigacao_deficiencia",
	"Possui internet em casa":                        "internet_em_casa",
	"Possui smartphone, tablet ou notebook pessoal":  "smartphone",
	"Quilombola":                                     "quilombola",
	"Refugiado":                                      "refugiado",
	"Sigilo":                                         "sigilo",
	"Falecimento":                                    "falecimento",
	"Emancipado":                                     "emancipado",
	"Informar Nome Social?":                          "nome_social",
	"Informar Nome Afetivo?":                         "nome_afetivo",
	"Tipo Sanguíneo":                                 "tipo_sanguineo",
	"Recursos Necessários para a Participação do Aluno em Avaliações": "recursos_avaliacao",
}

// StudentColumns is the allowlist of columns the reconciliation step may
// write. Anything else found in a draft is a bug, not data.
var StudentColumns = []string{
	"turma_id", "numero_chamada", "nome", "ra", "dig_ra", "uf_ra",
	"data_nascimento", "sexo", "raca_cor", "nacionalidade",
	"municipio_nascimento", "uf_nascimento", "cpf", "rg", "nis", "sus", "cin",
	"filiacao_1", "filiacao_2", "email", "email_google", "email_microsoft",
	"telefones", "cep", "endereco", "numero_endereco", "complemento",
	"bairro", "cidade_uf", "bolsa_familia", "deficiencia", "laudo_medico",
	"mobilidade_reduzida", "nivel_apoio", "profissional_apoio",
	"altas_habilidades", "investigacao_deficiencia", "internet_em_casa",
	"smartphone", "quilombola", "refugiado", "sigilo", "falecimento",
	"emancipado", "nome_social", "nome_afetivo", "tipo_sanguineo",
	"recursos_avaliacao", "dados_json",
}

var studentColumnSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(StudentColumns))
	for _, c := range StudentColumns {
		set[c] = struct{}{}
	}
	return set
}()

// IsStudentColumn reports whether name is a writable students column.
func IsStudentColumn(name string) bool {
	_, ok := studentColumnSet[name]
	return ok
}
