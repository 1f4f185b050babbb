package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AliasMapping(t *testing.T) {
	row := Row{
		Headers: []string{"Nome", "RA", "Data de Nascimento"},
		Cells: map[string]any{
			"Nome":               "João Pedro",
			"RA":                 "000123456789",
			"Data de Nascimento": "15/03/2010",
		},
	}

	out := Normalize(row)

	assert.Equal(t, "João Pedro", out.Fields["nome"])
	assert.Equal(t, "000123456789", out.Fields["ra"])
	assert.Equal(t, "15/03/2010", out.Fields["data_nascimento"])
	assert.Empty(t, out.Extras)
}

func TestNormalize_FirstPopulatedAliasWins(t *testing.T) {
	// Both "RA" and "ra_lista" alias to ra. Column order decides.
	row := Row{
		Headers: []string{"RA", "Nome", "ra_lista"},
		Cells: map[string]any{
			"RA":       "111",
			"Nome":     "Ana",
			"ra_lista": "222",
		},
	}

	out := Normalize(row)
	assert.Equal(t, "111", out.Fields["ra"])
}

func TestNormalize_EmptyAliasYieldsToLaterColumn(t *testing.T) {
	row := Row{
		Headers: []string{"RA", "Nome", "ra_lista"},
		Cells: map[string]any{
			"RA":       "   ",
			"Nome":     "Ana",
			"ra_lista": "222",
		},
	}

	out := Normalize(row)
	assert.Equal(t, "222", out.Fields["ra"])
}

func TestNormalize_CohortLabelNotAStudentField(t *testing.T) {
	row := Row{
		Headers: []string{"Nome", "série/ano"},
		Cells: map[string]any{
			"Nome":      "Bruno",
			"série/ano": "7B",
		},
	}

	out := Normalize(row)
	assert.Equal(t, "7B", out.CohortLabel)
	_, has := out.Fields["_serie_ano"]
	assert.False(t, has)
}

func TestNormalize_UnknownHeadersGoToExtras(t *testing.T) {
	row := Row{
		Headers: []string{"Nome", "Coluna Inventada", "Outra"},
		Cells: map[string]any{
			"Nome":             "Carla",
			"Coluna Inventada": "valor",
			"Outra":            "",
		},
	}

	out := Normalize(row)
	require.Len(t, out.Extras, 1)
	assert.Equal(t, "valor", out.Extras["Coluna Inventada"])
}

func TestNormalize_EmptyCellsAbsentFromFields(t *testing.T) {
	row := Row{
		Headers: []string{"Nome", "CPF"},
		Cells: map[string]any{
			"Nome": "Davi",
			"CPF":  nil,
		},
	}

	out := Normalize(row)
	_, has := out.Fields["cpf"]
	assert.False(t, has, "empty cell must be absent, not empty string")
}
