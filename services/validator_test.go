package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var studentHeader = []string{"Last_name", "First_name", "Email", "Password", "CNE", "Group"}

func TestValidateCSVStructure(t *testing.T) {
	row := []string{"Benali", "Omar", "omar@school.test", "secret", "D130001", "G1"}

	err := ValidateCSVStructure([][]string{studentHeader, row}, FileTypeStudents)
	assert.NoError(t, err)
}

func TestValidateCSVStructureEmptyFile(t *testing.T) {
	err := ValidateCSVStructure(nil, FileTypeStudents)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestValidateCSVStructureHeaderOnly(t *testing.T) {
	err := ValidateCSVStructure([][]string{studentHeader}, FileTypeStudents)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only contains headers")
}

func TestValidateCSVStructureWrongHeaders(t *testing.T) {
	bad := []string{"Nom", "Prenom", "Email", "Password", "CNE", "Group"}
	row := []string{"Benali", "Omar", "omar@school.test", "secret", "D130001", "G1"}

	err := ValidateCSVStructure([][]string{bad, row}, FileTypeStudents)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid student file structure")
}

func TestValidateCSVStructureMissingColumn(t *testing.T) {
	short := []string{"Last_name", "First_name", "Email", "Password", "CNE"}
	row := []string{"Benali", "Omar", "omar@school.test", "secret", "D130001"}

	err := ValidateCSVStructure([][]string{short, row}, FileTypeStudents)
	assert.Error(t, err)
}
