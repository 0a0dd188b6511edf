package services

import (
	"fmt"
)

type FileType string

const (
	FileTypeStudents FileType = "students"
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateCSVStructure checks the uploaded file's shape before any row
// touches the database.
func ValidateCSVStructure(records [][]string, expectedType FileType) error {
	if len(records) == 0 {
		return &ValidationError{Message: "The file is empty."}
	}

	if len(records) == 1 {
		return &ValidationError{Message: "The file only contains headers. Add data rows."}
	}

	header := records[0]

	switch expectedType {
	case FileTypeStudents:
		expectedHeaders := []string{"Last_name", "First_name", "Email", "Password", "CNE", "Group"}
		if !validateHeaders(header, expectedHeaders) {
			return &ValidationError{
				Message: fmt.Sprintf("Invalid student file structure.\n\nExpected columns:\n%v\n\nGot:\n%v",
					expectedHeaders, header),
			}
		}
	}

	return nil
}

func validateHeaders(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, exp := range expected {
		if actual[i] != exp {
			return false
		}
	}

	return true
}
