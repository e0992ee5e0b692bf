package lecturers

import (
	"errors"
	"strings"
)

func (s *Service) validate(lecturer Lecturer) error {
	if strings.TrimSpace(lecturer.FullName) == "" {
		return errors.New("lecturer name is required")
	}
	if strings.TrimSpace(lecturer.Email) == "" {
		return errors.New("lecturer email is required")
	}
	if strings.TrimSpace(lecturer.EmployeeNumber) == "" {
		return errors.New("employee number is required")
	}
	if lecturer.DefaultHourlyRate.IsNegative() {
		return errors.New("default hourly rate cannot be negative")
	}
	return nil
}
