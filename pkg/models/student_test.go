package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeFromBirthDate(t *testing.T) {
	today := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth string
		want  int
	}{
		{"birthday passed this year", "15/03/2010", 15},
		{"birthday today", "20/08/2010", 15},
		{"birthday still ahead", "25/12/2010", 14},
		{"turns tomorrow", "21/08/2010", 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeFromBirthDate(tt.birth, today)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestAgeFromBirthDate_Invalid(t *testing.T) {
	today := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)

	for _, birth := range []string{"", "2010-03-15", "15/03", "ab/cd/efgh", "15/13/2010", "32/01/2010", "15/03/1850"} {
		assert.Nil(t, AgeFromBirthDate(birth, today), "birth=%q", birth)
	}
}
